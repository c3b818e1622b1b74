package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	kmyerrors "github.com/robinvdvleuten/kmy/errors"
	"github.com/robinvdvleuten/kmy/ledger"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and the surrounding
// lines of the ledger XML.
type ErrorRenderer struct {
	source []byte
}

// NewErrorRenderer creates a renderer with source content for context.
// A nil source renders messages only.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	return &ErrorRenderer{source: source}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	var ambiguous *ledger.AmbiguousPathError
	if errors.As(err, &ambiguous) {
		return r.renderMatches(ambiguous)
	}

	if pos := kmyerrors.Locate(err, r.source); pos != nil && r.source != nil {
		return r.renderWithSourceContext(pos.Line, pos.Column, err.Error())
	}

	return errorStyle.Render(err.Error())
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

func (r *ErrorRenderer) renderWithSourceContext(line, column int, message string) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	sourceLines := strings.Split(string(r.source), "\n")

	startLine := line - 3
	endLine := line + 1

	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sourceLines) {
		endLine = len(sourceLines) - 1
	}

	for i := startLine; i <= endLine; i++ {
		buf.WriteString("   ")
		buf.WriteString(errContextStyle.Render(sourceLines[i]))
		buf.WriteByte('\n')

		if i == line-1 && column > 0 {
			buf.WriteString("   ")
			buf.WriteString(strings.Repeat(" ", column-1))
			buf.WriteString(errCaretStyle.Render("^"))
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

func (r *ErrorRenderer) renderMatches(err *ledger.AmbiguousPathError) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(fmt.Sprintf("path %q matches %d accounts:", err.Expr, len(err.Matches))))
	buf.WriteByte('\n')
	for _, match := range err.Matches {
		buf.WriteString("   ")
		buf.WriteString(pathStyle.Render(match))
		buf.WriteByte('\n')
	}

	return buf.String()
}
