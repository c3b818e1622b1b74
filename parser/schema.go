package parser

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/kmy/model"
)

// FieldType is the semantic type of an attribute. It decides how the raw
// attribute string is cast before it is stored in the entity.
type FieldType int

const (
	// Text stores the attribute as is. An empty attribute stays the zero value.
	Text FieldType = iota
	// Decimal parses a "numerator/denominator" fraction, see model.ParseFraction.
	Decimal
	// Date parses an ISO 8601 date. Unparseable or empty dates become nil
	// instead of failing the record.
	Date
	// Integer parses a base 10 integer.
	Integer
	// Boolean accepts yes/no, true/false and 1/0.
	Boolean
)

func (t FieldType) String() string {
	switch t {
	case Text:
		return "Text"
	case Decimal:
		return "Decimal"
	case Date:
		return "Date"
	case Integer:
		return "Integer"
	case Boolean:
		return "Boolean"
	default:
		return "FieldType(" + strconv.Itoa(int(t)) + ")"
	}
}

// Field maps a required attribute onto a struct field.
type Field struct {
	Target string    // Struct field name
	Source string    // Attribute name, defaults to the lowercased Target
	Type   FieldType // Cast applied to the attribute
}

// List fills a slice field with one element per nested record under Path.
type List struct {
	Target string
	Path   string  // Slash separated element names, e.g. "SPLITS/SPLIT"
	Elem   Element // Decodes each nested record into one slice element
}

// Extension fills a field from one attribute of an optional nested record,
// selected by its "key" attribute. The field keeps its default when the
// record is absent.
type Extension struct {
	Target string
	Path   string // e.g. "KEYVALUEPAIRS/PAIR"
	Key    string // Value of the "key" attribute to match
	Attr   string // Attribute holding the value, defaults to "value"
	Type   FieldType
}

// Schema describes how a record decodes into an entity of type T.
type Schema[T any] struct {
	Name       string // Element name, used in error messages
	Fields     []Field
	Lists      []List
	Extensions []Extension
}

// Element decodes a nested record into a single slice element. It is
// implemented by *Decoder and by AttrValue.
type Element interface {
	elemType() reflect.Type
	decodeElement(rec *Record) (reflect.Value, error)
}

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	dateType    = reflect.TypeOf((*model.Date)(nil))
)

type compiledField struct {
	index  []int
	source string
	typ    FieldType
}

type compiledList struct {
	index []int
	path  string
	elem  Element
}

type compiledExtension struct {
	index []int
	path  string
	key   string
	attr  string
	typ   FieldType
}

// Decoder decodes records into *T according to a compiled Schema.
// A Decoder is immutable and safe for concurrent use.
type Decoder[T any] struct {
	name       string
	typ        reflect.Type
	fields     []compiledField
	lists      []compiledList
	extensions []compiledExtension
}

// Compile checks s against T and returns a Decoder. Every Target must name an
// exported field of T whose Go type can hold the declared FieldType.
func Compile[T any](s Schema[T]) (*Decoder[T], error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		return nil, &SchemaError{Schema: s.Name, Target: typ.String(), Reason: "entity type is not a struct"}
	}

	d := &Decoder[T]{name: s.Name, typ: typ}

	for _, f := range s.Fields {
		sf, err := lookupField(typ, s.Name, f.Target)
		if err != nil {
			return nil, err
		}
		if err := checkFieldType(sf, f.Type); err != nil {
			return nil, &SchemaError{Schema: s.Name, Target: f.Target, Reason: err.Error()}
		}
		source := f.Source
		if source == "" {
			source = strings.ToLower(f.Target)
		}
		d.fields = append(d.fields, compiledField{index: sf.Index, source: source, typ: f.Type})
	}

	for _, l := range s.Lists {
		sf, err := lookupField(typ, s.Name, l.Target)
		if err != nil {
			return nil, err
		}
		if l.Elem == nil {
			return nil, &SchemaError{Schema: s.Name, Target: l.Target, Reason: "list has no element decoder"}
		}
		if sf.Type.Kind() != reflect.Slice || sf.Type.Elem() != l.Elem.elemType() {
			return nil, &SchemaError{
				Schema: s.Name,
				Target: l.Target,
				Reason: fmt.Sprintf("field type %s cannot hold elements of type %s", sf.Type, l.Elem.elemType()),
			}
		}
		d.lists = append(d.lists, compiledList{index: sf.Index, path: l.Path, elem: l.Elem})
	}

	for _, e := range s.Extensions {
		sf, err := lookupField(typ, s.Name, e.Target)
		if err != nil {
			return nil, err
		}
		if err := checkFieldType(sf, e.Type); err != nil {
			return nil, &SchemaError{Schema: s.Name, Target: e.Target, Reason: err.Error()}
		}
		attr := e.Attr
		if attr == "" {
			attr = "value"
		}
		d.extensions = append(d.extensions, compiledExtension{index: sf.Index, path: e.Path, key: e.Key, attr: attr, typ: e.Type})
	}

	return d, nil
}

// MustCompile is like Compile but panics on a SchemaError. It is intended for
// package level schemas, which are checked once at program start.
func MustCompile[T any](s Schema[T]) *Decoder[T] {
	d, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Decode builds a new *T from rec. The record is never modified.
func (d *Decoder[T]) Decode(rec *Record) (*T, error) {
	out := new(T)
	v := reflect.ValueOf(out).Elem()

	for _, f := range d.fields {
		raw, ok := rec.Attr(f.source)
		if !ok {
			return nil, &MissingFieldError{Record: rec.Name, ID: rec.ID(), Attr: f.source, Line: rec.Line}
		}
		field := v.FieldByIndex(f.index)
		if err := assign(field, raw, f.typ); err != nil {
			return nil, &FieldError{Record: rec.Name, ID: rec.ID(), Attr: f.source, Value: raw, Line: rec.Line, Underlying: err}
		}
	}

	for _, l := range d.lists {
		children := rec.FindAll(l.path)
		field := v.FieldByIndex(l.index)
		items := reflect.MakeSlice(field.Type(), 0, len(children))
		for _, child := range children {
			item, err := l.elem.decodeElement(child)
			if err != nil {
				return nil, err
			}
			items = reflect.Append(items, item)
		}
		field.Set(items)
	}

	for _, e := range d.extensions {
		pair := rec.FindWhere(e.path, "key", e.key)
		if pair == nil {
			continue
		}
		raw, ok := pair.Attr(e.attr)
		if !ok {
			return nil, &MissingFieldError{Record: pair.Name, ID: e.key, Attr: e.attr, Line: pair.Line}
		}
		field := v.FieldByIndex(e.index)
		if err := assign(field, raw, e.typ); err != nil {
			return nil, &FieldError{Record: rec.Name, ID: rec.ID(), Attr: e.key, Value: raw, Line: pair.Line, Underlying: err}
		}
	}

	return out, nil
}

func (d *Decoder[T]) elemType() reflect.Type {
	return reflect.PointerTo(d.typ)
}

func (d *Decoder[T]) decodeElement(rec *Record) (reflect.Value, error) {
	out, err := d.Decode(rec)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(out), nil
}

// AttrValue returns an Element that decodes each nested record into the
// string value of one of its attributes.
//
//	parser.List{Target: "ChildIDs", Path: "SUBACCOUNTS/SUBACCOUNT", Elem: parser.AttrValue("id")}
func AttrValue(name string) Element {
	return attrValue(name)
}

type attrValue string

func (a attrValue) elemType() reflect.Type {
	return reflect.TypeOf("")
}

func (a attrValue) decodeElement(rec *Record) (reflect.Value, error) {
	v, ok := rec.Attr(string(a))
	if !ok {
		return reflect.Value{}, &MissingFieldError{Record: rec.Name, ID: rec.ID(), Attr: string(a), Line: rec.Line}
	}
	return reflect.ValueOf(v), nil
}

func lookupField(typ reflect.Type, schema, target string) (reflect.StructField, error) {
	sf, ok := typ.FieldByName(target)
	if !ok {
		return sf, &SchemaError{Schema: schema, Target: target, Reason: fmt.Sprintf("%s has no such field", typ)}
	}
	if !sf.IsExported() {
		return sf, &SchemaError{Schema: schema, Target: target, Reason: "field is not exported"}
	}
	return sf, nil
}

func checkFieldType(sf reflect.StructField, ft FieldType) error {
	ok := false
	switch ft {
	case Text:
		ok = sf.Type.Kind() == reflect.String
	case Decimal:
		ok = sf.Type == decimalType
	case Date:
		ok = sf.Type == dateType
	case Integer:
		switch sf.Type.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			ok = true
		}
	case Boolean:
		ok = sf.Type.Kind() == reflect.Bool
	default:
		return fmt.Errorf("unknown field type %s", ft)
	}
	if !ok {
		return fmt.Errorf("field type %s cannot hold %s", sf.Type, ft)
	}
	return nil
}

// assign casts raw according to ft and stores it in field.
func assign(field reflect.Value, raw string, ft FieldType) error {
	switch ft {
	case Text:
		field.SetString(raw)
	case Decimal:
		d, err := model.ParseFraction(raw)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(d))
	case Date:
		d, err := model.ParseDate(raw)
		if err != nil {
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		field.Set(reflect.ValueOf(d))
	case Integer:
		if raw == "" {
			field.SetInt(0)
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case Boolean:
		b, err := parseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	}
	return nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true", "1":
		return true, nil
	case "no", "n", "false", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", raw)
}
