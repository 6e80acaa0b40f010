package domain

// DirectiveKind is the kind of build-tool metadata line.
type DirectiveKind string

const (
	// DirectiveLinkArg passes an argument to the final link.
	DirectiveLinkArg DirectiveKind = "rustc-link-arg"
	// DirectiveRerunIfChanged asks the build tool to rerun when a path changes.
	DirectiveRerunIfChanged DirectiveKind = "rerun-if-changed"
)

// OriginRPathArg embeds $ORIGIN as a runtime search path.
const OriginRPathArg = "-Wl,-rpath,$ORIGIN"

// Directive is one line of build-tool metadata.
type Directive struct {
	Kind  DirectiveKind
	Value string
}

// String renders the directive in the build tool's line format.
func (d Directive) String() string {
	return "cargo:" + string(d.Kind) + "=" + d.Value
}

// LinkArg returns a link-argument directive.
func LinkArg(arg string) Directive {
	return Directive{Kind: DirectiveLinkArg, Value: arg}
}

// RerunIfChanged returns a rerun directive for path.
func RerunIfChanged(path string) Directive {
	return Directive{Kind: DirectiveRerunIfChanged, Value: path}
}
