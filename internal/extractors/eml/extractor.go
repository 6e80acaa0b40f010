// Package eml extracts the headers and body text of RFC 822 email messages.
package eml

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"

	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
	"github.com/custodia-labs/docdig/internal/extractors/html"
)

// MIMEType is the media type of email messages.
const MIMEType = "message/rfc822"

// Ensure Extractor implements the interface.
var _ driven.FormatExtractor = (*Extractor)(nil)

// Extractor parses email messages.
type Extractor struct{}

// New creates an email extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the parser name.
func (e *Extractor) Name() string {
	return "eml"
}

// SupportedMIMETypes returns the email media type.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Extract returns the address headers followed by the body. Plain text
// parts are preferred over HTML alternatives.
func (e *Extractor) Extract(ctx context.Context, data []byte, _ domain.ExtractOptions) (*domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msg, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse message: %w", domain.ErrInvalidInput)
	}

	headers := []struct{ name, key string }{
		{"From", "Message-From"},
		{"To", "Message-To"},
		{"Cc", "Message-Cc"},
		{"Date", "dcterms:created"},
		{"Subject", "dc:title"},
	}

	var b strings.Builder
	meta := domain.Metadata{}
	for _, h := range headers {
		value := decodeHeader(msg.Header.Get(h.name))
		if value == "" {
			continue
		}
		meta.Add(h.key, value)
		fmt.Fprintf(&b, "%s: %s\n", h.name, value)
	}

	body := partText(textproto.MIMEHeader(msg.Header), msg.Body)
	if b.Len() > 0 && body != "" {
		b.WriteByte('\n')
	}
	b.WriteString(body)

	return &domain.Extraction{Text: strings.TrimSpace(b.String()), Metadata: meta}, nil
}

// decodeHeader decodes RFC 2047 encoded words, returning the raw value
// when decoding fails.
func decodeHeader(value string) string {
	if value == "" {
		return ""
	}
	decoded, err := new(mime.WordDecoder).DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

// partText returns the text of one MIME entity, descending into
// multipart containers.
func partText(header textproto.MIMEHeader, body io.Reader) string {
	mediaType, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return multipartText(body, params["boundary"])
	}

	content, err := io.ReadAll(transferDecoder(header.Get("Content-Transfer-Encoding"), body))
	if err != nil {
		return ""
	}

	switch mediaType {
	case "text/plain":
		return strings.TrimSpace(strings.ReplaceAll(string(content), "\r\n", "\n"))
	case "text/html":
		return html.Text(string(content))
	default:
		return ""
	}
}

func multipartText(body io.Reader, boundary string) string {
	if boundary == "" {
		return ""
	}

	var plain, rich []string
	mr := multipart.NewReader(body, boundary)
	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}
		if isAttachment(part.Header) {
			part.Close()
			continue
		}

		mediaType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		text := partText(part.Header, part)
		part.Close()
		if text == "" {
			continue
		}
		if mediaType == "text/html" {
			rich = append(rich, text)
		} else {
			plain = append(plain, text)
		}
	}

	if len(plain) > 0 {
		return strings.Join(plain, "\n")
	}
	return strings.Join(rich, "\n")
}

func isAttachment(header textproto.MIMEHeader) bool {
	disposition, _, err := mime.ParseMediaType(header.Get("Content-Disposition"))
	return err == nil && disposition == "attachment"
}

// transferDecoder undoes base64 and quoted-printable encodings. The
// multipart reader already decodes quoted-printable parts.
func transferDecoder(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}
