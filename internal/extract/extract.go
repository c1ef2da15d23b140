// Package extract turns downloaded document payloads into plain text for
// prompt building.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
)

// Sentinel values substituted when a payload yields no usable text. They
// flow into the summarization prompt instead of failing the request.
const (
	UnsupportedFormatNotice = "Unsupported file format. Only PDF, TXT, and DOCX are supported."
	NoReadableTextNotice    = "No readable text found in this file."
)

const (
	mimePlainText = "text/plain"
	mimePDF       = "application/pdf"
	mimeDocx      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeDoc       = "application/msword"
)

// Extract decodes data according to its declared media type. Unsupported
// types and empty results map to sentinel strings; a malformed payload of
// a supported type is an error.
func Extract(data []byte, mediaType string) (string, error) {
	var (
		text string
		err  error
	)
	switch normalizeMediaType(mediaType) {
	case mimePlainText:
		text = string(data)
	case mimePDF:
		text, err = extractPDF(data)
	case mimeDocx, mimeDoc:
		text, err = extractDocx(data)
	default:
		return UnsupportedFormatNotice, nil
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return NoReadableTextNotice, nil
	}
	return text, nil
}

// extractPDF concatenates per-page text with single spaces, skipping
// pages without extractable text.
func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed xref tables; surface those
	// as errors instead of taking down the caller.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(content) == "" {
			continue
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, " "), nil
}

// extractDocx concatenates paragraph texts with newlines.
func extractDocx(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		if paragraph, ok := item.(*docx.Paragraph); ok {
			paragraphs = append(paragraphs, paragraph.String())
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}

// normalizeMediaType strips parameters like "; charset=utf-8" and
// lowercases the type.
func normalizeMediaType(mediaType string) string {
	mediaType = strings.TrimSpace(mediaType)
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
