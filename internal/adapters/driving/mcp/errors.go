// Package mcp provides an MCP (Model Context Protocol) server adapter for docdig.
// It lets AI assistants extract text from local files, URLs and raw bytes.
package mcp

import "errors"

// ErrMissingExtractionService is returned when the extraction service is not provided.
var ErrMissingExtractionService = errors.New("mcp: extraction service is required")
