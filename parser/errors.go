package parser

import (
	"fmt"
	"strings"
)

// ParseError represents a syntax error in the XML document.
type ParseError struct {
	Filename   string
	Line       int
	Column     int
	Underlying error
}

func (e *ParseError) Error() string {
	location := fmt.Sprintf("%s:%d", e.Filename, e.Line)
	if e.Filename == "" {
		location = fmt.Sprintf("line %d", e.Line)
	}

	// encoding/xml prefixes its messages with the line number already
	msg := strings.TrimPrefix(e.Underlying.Error(), fmt.Sprintf("XML syntax error on line %d: ", e.Line))
	return fmt.Sprintf("%s: %s", location, msg)
}

func (e *ParseError) Unwrap() error {
	return e.Underlying
}

func newParseError(filename string, line, col int, err error) *ParseError {
	return &ParseError{
		Filename:   filename,
		Line:       line,
		Column:     col,
		Underlying: err,
	}
}

// MissingFieldError is returned when a record lacks a required attribute.
type MissingFieldError struct {
	Record string // Element name, e.g. "SPLIT"
	ID     string // Value of the record's id attribute, if any
	Attr   string // Missing attribute
	Line   int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("line %d: %s missing required attribute %q", e.Line, describeRecord(e.Record, e.ID), e.Attr)
}

// FieldError is returned when an attribute value cannot be cast to its
// field type. Underlying holds the cast error, e.g. a *model.MalformedNumberError.
type FieldError struct {
	Record     string
	ID         string
	Attr       string
	Value      string
	Line       int
	Underlying error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d: %s attribute %q: %v", e.Line, describeRecord(e.Record, e.ID), e.Attr, e.Underlying)
}

func (e *FieldError) Unwrap() error {
	return e.Underlying
}

// SchemaError reports a schema that does not fit its entity type. It is a
// programming error and is raised once, when the schema is compiled.
type SchemaError struct {
	Schema string
	Target string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s: field %s: %s", e.Schema, e.Target, e.Reason)
}

func describeRecord(name, id string) string {
	if id == "" {
		return name
	}
	return fmt.Sprintf("%s %s", name, id)
}
