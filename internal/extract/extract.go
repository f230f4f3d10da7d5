package extract

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// Strategy extracts plain text from the raw bytes of one file format.
type Strategy interface {
	Extract(content []byte) (string, error)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(content []byte) (string, error)

// Extract calls f.
func (f StrategyFunc) Extract(content []byte) (string, error) { return f(content) }

// Registry maps formats to strategies.
type Registry struct {
	strategies map[Format]Strategy
}

// NewRegistry returns a registry with the PDF, DOCX and text strategies.
func NewRegistry() *Registry {
	return &Registry{strategies: map[Format]Strategy{
		FormatPDF:  StrategyFunc(extractPDF),
		FormatDOCX: StrategyFunc(extractDOCX),
		FormatText: StrategyFunc(extractText),
	}}
}

// Register replaces the strategy for a format.
func (r *Registry) Register(f Format, s Strategy) *Registry {
	r.strategies[f] = s
	return r
}

// Extract runs the strategy for f. Strategy failures and blank results wrap
// domain.ErrExtraction; a format without a strategy wraps domain.ErrUnsupportedFormat.
func (r *Registry) Extract(f Format, content []byte) (text string, err error) {
	s, ok := r.strategies[f]
	if !ok {
		return "", fmt.Errorf("format %q: %w", f, domain.ErrUnsupportedFormat)
	}
	if len(content) > MaxFileSize {
		return "", fmt.Errorf("%w: file too large (max %d bytes)", domain.ErrInvalidInput, MaxFileSize)
	}

	// Parsers for binary formats may panic on corrupt input.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("%w: %s parser panic: %v", domain.ErrExtraction, f, rec)
		}
	}()

	text, err = s.Extract(content)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrExtraction, f, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %s: no text found", domain.ErrExtraction, f)
	}
	return text, nil
}

// ExtractFile resolves the format of a named file and extracts its text.
func (r *Registry) ExtractFile(declared, filename string, content []byte) (string, Format, error) {
	f, err := Resolve(declared, filename, content)
	if err != nil {
		return "", "", err
	}
	text, err := r.Extract(f, content)
	if err != nil {
		return "", f, err
	}
	return text, f, nil
}
