// Package parser turns a KMyMoney XML document into typed ledger entities.
//
// Parsing happens in two steps. Parse reads the XML into a generic Record
// tree. DecodeDocument then maps records onto model types using declarative
// schemas: each entity type is described by a Schema listing its required
// attributes, nested lists and optional key/value extensions, and a single
// generic Decoder applies it. No entity has hand-written parsing code.
//
// Example usage:
//
//	root, err := parser.Parse(ctx, "ledger.kmy", r)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := parser.DecodeDocument(root)
package parser

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
)

// ctxCheckInterval is the number of XML tokens read between cancellation checks.
const ctxCheckInterval = 4096

// Parse reads an XML document from r and returns its root record.
func Parse(ctx context.Context, filename string, r io.Reader) (*Record, error) {
	dec := xml.NewDecoder(r)
	interner := NewInterner(1024)

	var (
		root  *Record
		stack []*Record
	)

	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line, col := dec.InputPos()
			return nil, newParseError(filename, line, col, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			line, _ := dec.InputPos()
			rec := &Record{
				Name:  interner.Intern(t.Name.Local),
				Attrs: make([]Attr, len(t.Attr)),
				Line:  line,
			}
			for i, a := range t.Attr {
				rec.Attrs[i] = Attr{
					Name:  interner.Intern(a.Name.Local),
					Value: interner.Intern(a.Value),
				}
			}

			if len(stack) == 0 {
				if root != nil {
					line, col := dec.InputPos()
					return nil, newParseError(filename, line, col, errors.New("multiple root elements"))
				}
				root = rec
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, rec)
			}
			stack = append(stack, rec)

		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, newParseError(filename, 1, 1, errors.New("document has no root element"))
	}

	return root, nil
}

// ParseBytes parses an in-memory XML document.
func ParseBytes(ctx context.Context, filename string, data []byte) (*Record, error) {
	return Parse(ctx, filename, bytes.NewReader(data))
}
