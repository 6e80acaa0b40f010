package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/extractors"
)

var (
	extractMetadata bool
	extractJSON     bool
	extractLanguage string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract text from documents",
	Long: `Extract plain text and metadata from local files, remote URLs, raw bytes on
stdin, or images and scans with OCR.

Results are cached by document content. Set DOCDIG_CACHE_DIR to keep the
cache on disk between runs.`,
}

var extractFileCmd = &cobra.Command{
	Use:   "file [path]",
	Short: "Extract text from a local file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtractFile,
}

var extractURLCmd = &cobra.Command{
	Use:   "url [url]",
	Short: "Fetch a document and extract its text",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtractURL,
}

var extractBytesCmd = &cobra.Command{
	Use:   "bytes",
	Short: "Extract text from a document read on stdin",
	Args:  cobra.NoArgs,
	RunE:  runExtractBytes,
}

var extractOCRCmd = &cobra.Command{
	Use:   "ocr [path]",
	Short: "Extract text from a local file with OCR forced",
	Long: `Runs OCR over an image or scan. The language is a Tesseract code and several
may be combined with "+", e.g. "deu+eng".`,
	Args: cobra.ExactArgs(1),
	RunE: runExtractOCR,
}

func init() {
	extractCmd.PersistentFlags().BoolVarP(&extractMetadata, "metadata", "m", false, "print metadata after the text")
	extractCmd.PersistentFlags().BoolVar(&extractJSON, "json", false, "output text and metadata as JSON")
	extractOCRCmd.Flags().StringVarP(&extractLanguage, "lang", "l", domain.DefaultOCRLanguage, "OCR language")

	extractCmd.AddCommand(extractFileCmd)
	extractCmd.AddCommand(extractURLCmd)
	extractCmd.AddCommand(extractBytesCmd)
	extractCmd.AddCommand(extractOCRCmd)
	rootCmd.AddCommand(extractCmd)
}

func runExtractFile(cmd *cobra.Command, args []string) error {
	svc, release, err := openExtraction(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	result, err := svc.ExtractFile(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	return outputExtraction(cmd, result)
}

func runExtractURL(cmd *cobra.Command, args []string) error {
	svc, release, err := openExtraction(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	result, err := svc.ExtractURL(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	return outputExtraction(cmd, result)
}

func runExtractBytes(cmd *cobra.Command, _ []string) error {
	svc, release, err := openExtraction(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), extractors.DefaultMaxFileBytes+1))
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	result, err := svc.ExtractBytes(cmd.Context(), data)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	return outputExtraction(cmd, result)
}

func runExtractOCR(cmd *cobra.Command, args []string) error {
	svc, release, err := openExtraction(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	result, err := svc.ExtractFileOCR(cmd.Context(), args[0], extractLanguage)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	return outputExtraction(cmd, result)
}

type extractionJSON struct {
	Text     string              `json:"text"`
	Metadata map[string][]string `json:"metadata,omitempty"`
}

func outputExtraction(cmd *cobra.Command, result *domain.Extraction) error {
	out := cmd.OutOrStdout()

	if extractJSON {
		data, err := json.MarshalIndent(extractionJSON{Text: result.Text, Metadata: result.Metadata}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal extraction: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintln(out, result.Text)
	if extractMetadata && len(result.Metadata) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, result.Metadata.String())
	}
	return nil
}
