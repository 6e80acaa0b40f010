// Package artifact provides filesystem implementations of the artifact
// ports: locating the upstream native library in a build tree and staging
// platform libraries into the runtime directory.
//
// Adapters:
//   - Locator: four ordered search strategies over the build tree
//   - Stager: extension-filtered, digest-verified copy
package artifact
