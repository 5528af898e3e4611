package display

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

const (
	DefaultWidth = 80
	MinWidth     = 20
	MaxWidth     = 250
)

// Wrap word-wraps text to width columns. A width of zero or less uses
// DefaultWidth.
func Wrap(text string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	return wordwrap.String(text, width)
}

// ValidWidth reports whether width is a usable terminal width.
func ValidWidth(width int) bool {
	return width >= MinWidth && width <= MaxWidth
}

// Capitalize returns s with its first character uppercased.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
