package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for docdig resources.
	uriScheme = "docdig://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "capabilities",
		Name:        "capabilities",
		Description: "Document types and OCR support of this extraction engine",
		MIMEType:    "application/json",
	}, s.handleCapabilitiesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "files/{+path}",
		Name:        "file-text",
		Description: "Extracted plain text of a local file",
		MIMEType:    "text/plain",
	}, s.handleFileTextResource)
}

// handleCapabilitiesResource returns the engine capabilities as JSON.
func (s *Server) handleCapabilitiesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	caps := Capabilities{}
	if s.ports.Capabilities != nil {
		caps = *s.ports.Capabilities
	}

	data, err := json.MarshalIndent(caps, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling capabilities: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleFileTextResource returns the extracted text of a local file.
func (s *Server) handleFileTextResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	path := extractFilePath(req.Params.URI)
	if path == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	result, err := s.ports.Extraction.ExtractFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     result.Text,
		}},
	}, nil
}

// extractFilePath extracts the file path from a URI like docdig://files/{path}.
// The path is percent-decoded and always absolute.
func extractFilePath(uri string) string {
	const prefix = uriScheme + "files/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	path, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil || path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
