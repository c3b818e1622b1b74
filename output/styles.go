// Package output provides styling helpers for terminal output.
package output

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
)

// Styles provides styled output helpers for the CLI.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates a new Styles instance for the given writer. Colors are
// dropped when w is not a terminal.
func NewStyles(w io.Writer) *Styles {
	return &Styles{
		output: termenv.NewOutput(w),
	}
}

// Success returns a styled success string (green + bold).
func (s *Styles) Success(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("2")).
		Bold().
		String()
}

// Error returns a styled error string (red + bold).
func (s *Styles) Error(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("1")).
		Bold().
		String()
}

// FilePath returns a styled file path (cyan).
func (s *Styles) FilePath(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("6")).
		String()
}

// Account returns a styled account path (yellow).
func (s *Styles) Account(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("3")).
		String()
}

// Amount styles a decimal amount with two decimals, see Signed.
func (s *Styles) Amount(d decimal.Decimal) string {
	return s.Signed(d.StringFixed(2), d.IsNegative())
}

// Signed colors text red when negative, green otherwise.
func (s *Styles) Signed(text string, negative bool) string {
	color := "2"
	if negative {
		color = "1"
	}
	return s.output.String(text).
		Foreground(s.output.Color(color)).
		String()
}

// Date returns a styled date (blue).
func (s *Styles) Date(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("4")).
		String()
}

// Keyword returns a styled keyword (bold).
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).
		Bold().
		String()
}

// Dim returns dimmed text.
func (s *Styles) Dim(text string) string {
	return s.output.String(text).
		Faint().
		String()
}

// Warning returns a styled warning (yellow + bold).
func (s *Styles) Warning(text string) string {
	return s.output.String(text).
		Foreground(s.output.Color("3")).
		Bold().
		String()
}

// Timing returns a styled timing string: red when slow, dimmed otherwise.
func (s *Styles) Timing(text string, isSlowOperation bool) string {
	if isSlowOperation {
		return s.output.String(text).
			Foreground(s.output.Color("1")).
			String()
	}
	return s.Dim(text)
}

// Output returns the underlying termenv Output for advanced usage.
func (s *Styles) Output() *termenv.Output {
	return s.output
}

// PadRight pads text with spaces to width terminal cells. Account names
// may contain wide characters, so the display width is measured rather
// than the byte length.
func PadRight(text string, width int) string {
	if w := runewidth.StringWidth(text); w < width {
		return text + strings.Repeat(" ", width-w)
	}
	return text
}

// PadLeft is PadRight for right aligned columns such as amounts.
func PadLeft(text string, width int) string {
	if w := runewidth.StringWidth(text); w < width {
		return strings.Repeat(" ", width-w) + text
	}
	return text
}

// Width returns the display width of text.
func Width(text string) int {
	return runewidth.StringWidth(text)
}
