// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for staging to function:
//
//   - ArtifactLocator: Finds the upstream shared library in the build tree
//   - ArtifactStager: Copies platform libraries into the staging directory
//   - DirectiveSink: Receives build-tool directives
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Extractor: Text extraction engine. Without it, extraction is disabled.
//   - OCREngine: Without it, OCR requests fail with ErrOCRUnavailable.
//   - Fetcher: Without it, URL extraction is disabled.
//   - ConfigStore: Without it, defaults and environment apply.
//   - ExtractionCache: Without it, every document is extracted afresh.
//   - ArtifactWatcher: Without it, watch mode is unavailable.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
