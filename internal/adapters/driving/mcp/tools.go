package mcp

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docdig/internal/core/domain"
)

// ExtractFileInput is the input schema for the extract_file tool.
type ExtractFileInput struct {
	Path string `json:"path" jsonschema:"absolute path of the local file to extract"`
}

// ExtractURLInput is the input schema for the extract_url tool.
type ExtractURLInput struct {
	URL string `json:"url" jsonschema:"http or https URL of the document to extract"`
}

// ExtractBytesInput is the input schema for the extract_bytes tool.
type ExtractBytesInput struct {
	Data string `json:"data" jsonschema:"base64-encoded document content"`
}

// ExtractFileOCRInput is the input schema for the extract_file_ocr tool.
type ExtractFileOCRInput struct {
	Path     string `json:"path" jsonschema:"absolute path of the local file to OCR"`
	Language string `json:"language,omitempty" jsonschema:"Tesseract language code, e.g. eng or deu+eng (default eng)"`
}

// ExtractOutput is the output schema shared by all extraction tools.
type ExtractOutput struct {
	Text     string              `json:"text"`
	Metadata map[string][]string `json:"metadata,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_file",
		Description: "Extract plain text and metadata from a local document",
	}, s.handleExtractFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_url",
		Description: "Fetch a remote document and extract its plain text and metadata",
	}, s.handleExtractURL)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_bytes",
		Description: "Extract plain text and metadata from base64-encoded document bytes",
	}, s.handleExtractBytes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_file_ocr",
		Description: "Extract text from a local image or scan with OCR forced",
	}, s.handleExtractFileOCR)
}

func (s *Server) handleExtractFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractFileInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	return toolResult(s.ports.Extraction.ExtractFile(ctx, input.Path))
}

func (s *Server) handleExtractURL(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractURLInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	return toolResult(s.ports.Extraction.ExtractURL(ctx, input.URL))
}

func (s *Server) handleExtractBytes(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractBytesInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	data, err := base64.StdEncoding.DecodeString(input.Data)
	if err != nil {
		return nil, ExtractOutput{}, fmt.Errorf("decoding data: %w", err)
	}
	return toolResult(s.ports.Extraction.ExtractBytes(ctx, data))
}

func (s *Server) handleExtractFileOCR(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractFileOCRInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	return toolResult(s.ports.Extraction.ExtractFileOCR(ctx, input.Path, input.Language))
}

func toolResult(result *domain.Extraction, err error) (*mcp.CallToolResult, ExtractOutput, error) {
	if err != nil {
		return nil, ExtractOutput{}, err
	}
	return nil, ExtractOutput{
		Text:     result.Text,
		Metadata: result.Metadata,
	}, nil
}
