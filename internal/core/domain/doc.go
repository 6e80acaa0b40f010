// Package domain defines the core entities for DocDig.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Platform: The closed set of target platform capabilities
//   - ArtifactDescriptor: The logical identity of the sought shared library
//   - BuildLayout: The filesystem locations handed over by the build tool
//   - Directive: One line of build-tool metadata
//   - Extraction: Text and metadata returned by the extraction engine
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
