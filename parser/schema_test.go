package parser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/kmy/model"
	"github.com/robinvdvleuten/kmy/parser"
)

type item struct {
	Label   string
	Amount  decimal.Decimal
	Due     *model.Date
	Count   int
	Enabled bool
	Tags    []string
	Parts   []*part
	Note    string
	hidden  string
}

type part struct {
	Name string
}

var partSchema = parser.Schema[part]{
	Name:   "PART",
	Fields: []parser.Field{{Target: "Name", Type: parser.Text}},
}

var itemSchema = parser.Schema[item]{
	Name: "ITEM",
	Fields: []parser.Field{
		{Target: "Label", Source: "title", Type: parser.Text},
		{Target: "Amount", Type: parser.Decimal},
		{Target: "Due", Type: parser.Date},
		{Target: "Count", Type: parser.Integer},
		{Target: "Enabled", Type: parser.Boolean},
	},
	Lists: []parser.List{
		{Target: "Tags", Path: "TAGS/TAG", Elem: parser.AttrValue("id")},
		{Target: "Parts", Path: "PART", Elem: parser.MustCompile(partSchema)},
	},
	Extensions: []parser.Extension{
		{Target: "Note", Path: "PAIRS/PAIR", Key: "note", Type: parser.Text},
	},
}

func parseRecord(t *testing.T, source string) *parser.Record {
	t.Helper()
	rec, err := parser.ParseBytes(context.Background(), "", []byte(source))
	assert.NoError(t, err)
	return rec
}

func TestDecoderDecode(t *testing.T) {
	dec, err := parser.Compile(itemSchema)
	assert.NoError(t, err)

	rec := parseRecord(t, `<ITEM title="First" amount="2385/100" due="2020-03-15" count="3" enabled="yes">
  <TAGS><TAG id="x"/><TAG id="y"/></TAGS>
  <PART name="left"/>
  <PART name="right"/>
  <PAIRS><PAIR key="other" value="no"/><PAIR key="note" value="hello"/></PAIRS>
</ITEM>`)

	got, err := dec.Decode(rec)
	assert.NoError(t, err)
	assert.Equal(t, "First", got.Label)
	assert.Equal(t, "23.85", got.Amount.String())
	assert.Equal(t, "2020-03-15", got.Due.String())
	assert.Equal(t, 3, got.Count)
	assert.True(t, got.Enabled)
	assert.Equal(t, []string{"x", "y"}, got.Tags)
	assert.Equal(t, []*part{{Name: "left"}, {Name: "right"}}, got.Parts)
	assert.Equal(t, "hello", got.Note)
}

func TestDecoderDefaults(t *testing.T) {
	dec := parser.MustCompile(itemSchema)

	rec := parseRecord(t, `<ITEM title="" amount="0/1" due="" count="0" enabled="no"/>`)
	got, err := dec.Decode(rec)
	assert.NoError(t, err)
	assert.Equal(t, "", got.Label)
	assert.True(t, got.Amount.IsZero())
	assert.Zero(t, got.Due)
	assert.False(t, got.Enabled)
	assert.Equal(t, 0, len(got.Tags))
	assert.Equal(t, "", got.Note)
}

func TestDecoderInvalidDateIsAbsent(t *testing.T) {
	dec := parser.MustCompile(itemSchema)

	rec := parseRecord(t, `<ITEM title="a" amount="1/1" due="15.03.2020" count="1" enabled="1"/>`)
	got, err := dec.Decode(rec)
	assert.NoError(t, err)
	assert.Zero(t, got.Due)
}

func TestDecoderMissingField(t *testing.T) {
	dec := parser.MustCompile(itemSchema)

	rec := parseRecord(t, `<ITEM id="I1" title="a" due="" count="1" enabled="1"/>`)
	_, err := dec.Decode(rec)

	var missing *parser.MissingFieldError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, "amount", missing.Attr)
	assert.Equal(t, "I1", missing.ID)
	assert.Equal(t, "ITEM", missing.Record)
}

func TestDecoderMalformedNumber(t *testing.T) {
	dec := parser.MustCompile(itemSchema)

	rec := parseRecord(t, `<ITEM title="a" amount="1/0" due="" count="1" enabled="1"/>`)
	_, err := dec.Decode(rec)

	var fieldErr *parser.FieldError
	assert.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "amount", fieldErr.Attr)

	var malformed *model.MalformedNumberError
	assert.True(t, errors.As(err, &malformed))
}

func TestDecoderInvalidScalars(t *testing.T) {
	dec := parser.MustCompile(itemSchema)

	_, err := dec.Decode(parseRecord(t, `<ITEM title="a" amount="1/1" due="" count="three" enabled="1"/>`))
	var fieldErr *parser.FieldError
	assert.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "count", fieldErr.Attr)

	_, err = dec.Decode(parseRecord(t, `<ITEM title="a" amount="1/1" due="" count="1" enabled="maybe"/>`))
	assert.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "enabled", fieldErr.Attr)
}

func TestDecoderNestedErrorAborts(t *testing.T) {
	dec := parser.MustCompile(itemSchema)

	_, err := dec.Decode(parseRecord(t, `<ITEM title="a" amount="1/1" due="" count="1" enabled="1"><PART/></ITEM>`))
	var missing *parser.MissingFieldError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, "PART", missing.Record)
	assert.Equal(t, "name", missing.Attr)
}

func TestDecoderDoesNotMutateRecord(t *testing.T) {
	dec := parser.MustCompile(itemSchema)
	rec := parseRecord(t, `<ITEM title="a" amount="1/1" due="" count="1" enabled="1"><PART name="p"/></ITEM>`)
	before := len(rec.Attrs)

	_, err := dec.Decode(rec)
	assert.NoError(t, err)
	_, err = dec.Decode(rec)
	assert.NoError(t, err)
	assert.Equal(t, before, len(rec.Attrs))
	assert.Equal(t, 1, len(rec.Children))
}

func TestCompileSchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		schema parser.Schema[item]
		target string
	}{
		{
			name:   "unknown field",
			schema: parser.Schema[item]{Name: "ITEM", Fields: []parser.Field{{Target: "Missing", Type: parser.Text}}},
			target: "Missing",
		},
		{
			name:   "unexported field",
			schema: parser.Schema[item]{Name: "ITEM", Fields: []parser.Field{{Target: "hidden", Type: parser.Text}}},
			target: "hidden",
		},
		{
			name:   "type mismatch",
			schema: parser.Schema[item]{Name: "ITEM", Fields: []parser.Field{{Target: "Count", Type: parser.Decimal}}},
			target: "Count",
		},
		{
			name:   "date into string",
			schema: parser.Schema[item]{Name: "ITEM", Fields: []parser.Field{{Target: "Label", Type: parser.Date}}},
			target: "Label",
		},
		{
			name:   "list element mismatch",
			schema: parser.Schema[item]{Name: "ITEM", Lists: []parser.List{{Target: "Parts", Path: "P", Elem: parser.AttrValue("id")}}},
			target: "Parts",
		},
		{
			name:   "extension unknown field",
			schema: parser.Schema[item]{Name: "ITEM", Extensions: []parser.Extension{{Target: "Nope", Path: "P", Key: "k"}}},
			target: "Nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Compile(tt.schema)
			var schemaErr *parser.SchemaError
			assert.True(t, errors.As(err, &schemaErr), "expected SchemaError, got %v", err)
			assert.Equal(t, tt.target, schemaErr.Target)
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() {
		parser.MustCompile(parser.Schema[item]{Name: "ITEM", Fields: []parser.Field{{Target: "Missing"}}})
	})
}

func TestCompileRejectsNonStruct(t *testing.T) {
	_, err := parser.Compile(parser.Schema[string]{Name: "S"})
	var schemaErr *parser.SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}
