// Package extract turns uploaded files into plain text. The format is resolved once at the
// boundary and each format has its own strategy; matching only ever sees text.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// MaxFileSize bounds an uploaded file in bytes.
const MaxFileSize = 10 << 20

// Format identifies an extraction strategy.
type Format string

const (
	// FormatPDF is a Portable Document Format file.
	FormatPDF Format = "pdf"
	// FormatDOCX is an Office Open XML word processing document.
	FormatDOCX Format = "docx"
	// FormatText is plain text in UTF-8 or BOM-marked UTF-16.
	FormatText Format = "text"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var extensions = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".txt":  FormatText,
	".text": FormatText,
	".md":   FormatText,
}

// ParseFormat validates a declared format name. Accepts "txt" as an alias of "text".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatDOCX, FormatText:
		return f, nil
	case "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("format %q: %w", s, domain.ErrUnsupportedFormat)
	}
}

// Resolve picks the format for a file: the declared format if any, then a known
// file extension, then the sniffed content type.
func Resolve(declared, filename string, content []byte) (Format, error) {
	if declared != "" {
		return ParseFormat(declared)
	}
	if f, ok := extensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return f, nil
	}
	return sniff(content)
}

func sniff(content []byte) (Format, error) {
	detected := mimetype.Detect(content)
	for m := detected; m != nil; m = m.Parent() {
		switch {
		case m.Is("application/pdf"):
			return FormatPDF, nil
		case m.Is(docxMIME):
			return FormatDOCX, nil
		case m.Is("text/plain"):
			return FormatText, nil
		}
	}
	return "", fmt.Errorf("content type %s: %w", detected.String(), domain.ErrUnsupportedFormat)
}
