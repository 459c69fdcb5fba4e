// Package extract turns uploaded file bytes into plain text for the similarity engine.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/kailas-cloud/overlap/internal/domain"
)

// Format is a supported upload format.
type Format string

// Upload formats.
const (
	Text Format = "text"
	DOCX Format = "docx"
	PDF  Format = "pdf"
)

// maxDocumentXML bounds the decompressed size of word/document.xml.
const maxDocumentXML = 64 << 20

// maxPDFText bounds the text extracted from one PDF.
const maxPDFText = 64 << 20

// DetectFormat picks a format from the filename extension.
// Unknown extensions are treated as text.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return DOCX
	case ".pdf":
		return PDF
	default:
		return Text
	}
}

// Extract returns the plain text of content according to the filename's format.
func Extract(filename string, content []byte) (string, error) {
	format := DetectFormat(filename)
	switch format {
	case Text:
		return extractText(content)
	case DOCX:
		return extractDOCX(content)
	case PDF:
		return extractPDF(content)
	default:
		return "", fmt.Errorf("%s: %w", format, domain.ErrUnsupportedFormat)
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func extractText(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return "", fmt.Errorf("text file is not valid UTF-8: %w", domain.ErrUnsupportedFormat)
	}
	return string(content), nil
}

// extractDOCX reads paragraph text from word/document.xml.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w: %w", domain.ErrUnsupportedFormat, err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		defer rc.Close()
		return docxParagraphs(io.LimitReader(rc, maxDocumentXML))
	}
	return "", fmt.Errorf("docx has no word/document.xml: %w", domain.ErrUnsupportedFormat)
}

// docxParagraphs walks WordprocessingML tokens: text runs (w:t) are concatenated,
// w:tab becomes a tab, w:br and the end of each w:p become newlines.
func docxParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w: %w", domain.ErrUnsupportedFormat, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// extractPDF returns the text layer of every page in order. Scanned PDFs
// without a text layer yield empty text, which upload validation rejects.
func extractPDF(content []byte) (text string, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parse pdf: %w: %v", domain.ErrUnsupportedFormat, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w: %w", domain.ErrUnsupportedFormat, err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w: %w", domain.ErrUnsupportedFormat, err)
	}
	data, err := io.ReadAll(io.LimitReader(plain, maxPDFText))
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	if !utf8.Valid(data) {
		data = bytes.ToValidUTF8(data, []byte("\uFFFD"))
	}
	return string(data), nil
}
