// Package errors provides error formatting infrastructure for ledger load
// and validation errors. It separates error formatting from domain logic,
// allowing errors to be rendered in multiple formats (text, JSON) for
// different consumers (CLI, JSON API).
//
// The package defines a Formatter interface and provides two implementations:
//   - TextFormatter: plain text with the surrounding lines of the ledger XML
//   - JSONFormatter: structured JSON for the API and scripts
//
// Domain-specific error types remain in their respective packages (parser,
// ledger), while this package handles the presentation layer.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/kmy/ledger"
	"github.com/robinvdvleuten/kmy/parser"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// Position is a location in the ledger XML. Column is zero when unknown.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column,omitempty"`
}

// Locate returns the position err refers to in source. Parse and decode
// errors carry their line; ledger errors are located by searching source
// for the element with the transaction id. It returns nil when the error
// has no position.
func Locate(err error, source []byte) *Position {
	var (
		parseErr   *parser.ParseError
		fieldErr   *parser.FieldError
		missingErr *parser.MissingFieldError
		balanceErr *ledger.TransactionNotBalancedError
		accountErr *ledger.UnknownAccountError
	)

	switch {
	case stderrors.As(err, &parseErr):
		return &Position{Line: parseErr.Line, Column: parseErr.Column}
	case stderrors.As(err, &fieldErr):
		return &Position{Line: fieldErr.Line}
	case stderrors.As(err, &missingErr):
		return &Position{Line: missingErr.Line}
	case stderrors.As(err, &balanceErr):
		return findElement(source, balanceErr.TransactionID)
	case stderrors.As(err, &accountErr):
		return findElement(source, accountErr.TransactionID)
	}
	return nil
}

func findElement(source []byte, id string) *Position {
	if len(source) == 0 {
		return nil
	}
	needle := fmt.Sprintf("id=%q", id)
	for i, line := range strings.Split(string(source), "\n") {
		if strings.Contains(line, needle) {
			return &Position{Line: i + 1}
		}
	}
	return nil
}

// SourceContext returns the lines of source around pos, each indented by
// three spaces, with a caret under the column when it is known.
func SourceContext(source []byte, pos Position) []string {
	sourceLines := strings.Split(string(source), "\n")

	startLine := pos.Line - 3
	endLine := pos.Line + 1

	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sourceLines) {
		endLine = len(sourceLines) - 1
	}

	var out []string
	for i := startLine; i <= endLine; i++ {
		out = append(out, "   "+sourceLines[i])
		if i == pos.Line-1 && pos.Column > 0 {
			out = append(out, "   "+strings.Repeat(" ", pos.Column-1)+"^")
		}
	}
	return out
}

// TextFormatter formats errors as plain text.
type TextFormatter struct {
	sourceContent []byte // Optional source content for error context
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the source content for error context.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.sourceContent = source
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error, followed by its source context when the
// error can be located.
func (tf *TextFormatter) Format(err error) string {
	pos := Locate(err, tf.sourceContent)
	if pos == nil || tf.sourceContent == nil {
		return err.Error()
	}

	var buf strings.Builder
	buf.WriteString(err.Error())
	buf.WriteString("\n\n")
	for _, line := range SourceContext(tf.sourceContent, *pos) {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.String()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = tf.Format(err)
	}
	return strings.Join(parts, "\n\n")
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct {
	sourceContent []byte
}

// NewJSONFormatter creates a new JSON formatter. The source, when given, is
// used to locate ledger errors.
func NewJSONFormatter(source []byte) *JSONFormatter {
	return &JSONFormatter{sourceContent: source}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string            `json:"type"`
	Message  string            `json:"message"`
	Position *Position         `json:"position,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice returns errors as a slice of ErrorJSON structs.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:     typeName(err),
		Message:  err.Error(),
		Position: Locate(err, jf.sourceContent),
		Details:  make(map[string]string),
	}

	var (
		balanceErr *ledger.TransactionNotBalancedError
		accountErr *ledger.UnknownAccountError
		fieldErr   *parser.FieldError
		ambiguous  *ledger.AmbiguousPathError
	)

	switch {
	case stderrors.As(err, &balanceErr):
		errJSON.Details["transactionId"] = balanceErr.TransactionID
		errJSON.Details["residual"] = balanceErr.Residual.String()
		errJSON.Details["commodity"] = balanceErr.Commodity
		if !balanceErr.PostDate.IsZero() {
			errJSON.Details["date"] = balanceErr.PostDate.String()
		}
	case stderrors.As(err, &accountErr):
		errJSON.Details["transactionId"] = accountErr.TransactionID
		errJSON.Details["splitId"] = accountErr.SplitID
		errJSON.Details["accountId"] = accountErr.AccountID
	case stderrors.As(err, &fieldErr):
		errJSON.Details["record"] = fieldErr.Record
		errJSON.Details["id"] = fieldErr.ID
		errJSON.Details["attribute"] = fieldErr.Attr
		errJSON.Details["value"] = fieldErr.Value
	case stderrors.As(err, &ambiguous):
		errJSON.Details["expr"] = ambiguous.Expr
		errJSON.Details["matches"] = strings.Join(ambiguous.Matches, ", ")
	}

	if len(errJSON.Details) == 0 {
		errJSON.Details = nil
	}
	return errJSON
}

// typeName returns the unqualified type name of err, e.g.
// "TransactionNotBalancedError".
func typeName(err error) string {
	name := fmt.Sprintf("%T", err)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
