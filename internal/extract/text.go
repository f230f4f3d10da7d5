package extract

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// extractText decodes UTF-8, honouring a UTF-8 or UTF-16 byte order mark. Invalid
// sequences become U+FFFD; NUL bytes mean the file is not text.
func extractText(content []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, content)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	if bytes.IndexByte(out, 0) >= 0 {
		return "", fmt.Errorf("decode text: binary content")
	}
	return strings.ReplaceAll(string(out), "\r\n", "\n"), nil
}
