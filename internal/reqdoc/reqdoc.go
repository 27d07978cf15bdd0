// Package reqdoc turns free-form requirement input into the text sent to the
// model. HTML (pasted from a rich editor or fetched from a page) is converted
// to Markdown; everything else is passed through trimmed.
package reqdoc

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// MaxLength bounds normalized requirements, in bytes.
const MaxLength = 64 * 1024

var (
	// ErrEmpty is returned when nothing but whitespace remains.
	ErrEmpty = errors.New("requirements are empty")
	// ErrTooLong is returned when the normalized text exceeds MaxLength.
	ErrTooLong = errors.New("requirements are too long")
)

// htmlTag matches the block and inline tags editors produce. A stray "<" in
// plain text, e.g. "latency < 100ms", does not match.
var htmlTag = regexp.MustCompile(`(?i)<\s*/?\s*(html|body|div|p|br|ul|ol|li|h[1-6]|strong|em|b|i|a|span|table|tr|td|th|pre|code|blockquote)(\s[^>]*)?/?>`)

// LooksLikeHTML reports whether s contains HTML markup.
func LooksLikeHTML(s string) bool {
	return htmlTag.MatchString(s)
}

// Normalize returns the requirements as trimmed plain text or Markdown.
func Normalize(input string) (string, error) {
	text := strings.TrimSpace(input)

	if LooksLikeHTML(text) {
		markdown, err := htmltomarkdown.ConvertString(text)
		if err != nil {
			return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
		}
		text = strings.TrimSpace(markdown)
	}

	if text == "" {
		return "", ErrEmpty
	}
	if len(text) > MaxLength {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrTooLong, len(text), MaxLength)
	}
	return text, nil
}
