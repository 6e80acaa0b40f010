// Package extractors provides the text-extraction engine and its format
// extractors. The Engine sniffs the MIME type of a document and routes it
// to the FormatExtractor registered for that type. When sniffing only
// yields a generic type the file extension decides.
//
// Format extractors live in sub-packages:
//   - plaintext: text, CSV, XML and JSON documents
//   - html: visible text of HTML pages
//   - markdown: Markdown with the markup removed
//   - docx: Word documents
//   - eml: RFC 822 email messages
//   - pdf: text layer of PDF documents
//   - image: raster images via an OCR engine
package extractors
