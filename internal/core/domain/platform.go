package domain

// PlatformFamily identifies a target operating-system family.
type PlatformFamily string

const (
	// FamilyLinux covers Linux-style targets that honour $ORIGIN in RPATH.
	FamilyLinux PlatformFamily = "linux"
	// FamilyApple covers macOS-style targets using .dylib libraries.
	FamilyApple PlatformFamily = "darwin"
	// FamilyOther covers every other target.
	FamilyOther PlatformFamily = "other"
)

// Platform is the capability set of the build target. It is resolved once
// per pipeline run and consulted for extension filtering and loader setup.
type Platform struct {
	// Family is the target family.
	Family PlatformFamily

	// LibraryExtension is the shared-library extension without the dot.
	LibraryExtension string

	// SupportsOriginRPath reports whether the loader resolves $ORIGIN to
	// the directory containing the loaded binary.
	SupportsOriginRPath bool
}

var (
	// PlatformLinux is the Linux-family capability set.
	PlatformLinux = Platform{Family: FamilyLinux, LibraryExtension: "so", SupportsOriginRPath: true}

	// PlatformApple is the Apple-family capability set.
	// No loader directive is emitted for it.
	PlatformApple = Platform{Family: FamilyApple, LibraryExtension: "dylib"}

	// PlatformOther is the fallback capability set.
	PlatformOther = Platform{Family: FamilyOther, LibraryExtension: "so"}
)

// ResolvePlatform maps a target OS name (as reported by GOOS or
// CARGO_CFG_TARGET_OS) to its capability set.
func ResolvePlatform(targetOS string) Platform {
	switch targetOS {
	case "linux", "android":
		return PlatformLinux
	case "darwin", "macos", "ios":
		return PlatformApple
	default:
		return PlatformOther
	}
}

// MatchesExtension reports whether ext (with or without the leading dot)
// is this platform's shared-library extension.
func (p Platform) MatchesExtension(ext string) bool {
	if len(ext) > 0 && ext[0] == '.' {
		ext = ext[1:]
	}
	return ext != "" && ext == p.LibraryExtension
}
