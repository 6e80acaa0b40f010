// Package tesseract provides CGO bindings for the Tesseract OCR engine.
// It implements the driven.OCREngine interface.
//
// Build requires:
//   - Tesseract and Leptonica development libraries
//   - Install via: brew install tesseract (macOS) or apt install libtesseract-dev (Linux)
//   - Language data for every language passed to Recognize (e.g., tesseract-ocr-eng)
//
// Builds without CGO get a stub that reports domain.ErrOCRUnavailable.
package tesseract
