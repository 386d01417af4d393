package assistant

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// HTML renders model output written in markdown as an HTML fragment.
// Raw HTML in the source is omitted.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
