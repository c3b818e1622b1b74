package parser

import "strings"

// Attr is a single attribute of a record, kept in document order.
type Attr struct {
	Name  string
	Value string
}

// Record is one element of the ledger document: a name, its attributes and
// its nested records. Text content is not retained; KMyMoney stores every
// value in attributes.
type Record struct {
	Name     string
	Attrs    []Attr
	Children []*Record
	Line     int
}

// Attr returns the value of the named attribute and whether it is present.
// A present attribute may still hold the empty string.
func (r *Record) Attr(name string) (string, bool) {
	for _, a := range r.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// ID returns the "id" attribute, or the empty string.
func (r *Record) ID() string {
	id, _ := r.Attr("id")
	return id
}

// FindAll returns every record reached by following the slash separated
// element names in path, in document order.
//
//	tx.FindAll("SPLITS/SPLIT")
func (r *Record) FindAll(path string) []*Record {
	current := []*Record{r}
	for _, name := range strings.Split(path, "/") {
		var next []*Record
		for _, rec := range current {
			for _, child := range rec.Children {
				if child.Name == name {
					next = append(next, child)
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}
	return current
}

// FindWhere returns the first record under path whose attribute attr equals
// value, or nil when there is none.
//
//	account.FindWhere("KEYVALUEPAIRS/PAIR", "key", "mm-closed")
func (r *Record) FindWhere(path, attr, value string) *Record {
	for _, rec := range r.FindAll(path) {
		if v, ok := rec.Attr(attr); ok && v == value {
			return rec
		}
	}
	return nil
}
