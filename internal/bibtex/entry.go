// Package bibtex parses and renders single BibTeX entries, the bibliographic
// text stored with every record.
package bibtex

import (
	"errors"
	"strings"
)

// ErrNoEntry is returned when the text contains no BibTeX entry.
var ErrNoEntry = errors.New("no BibTeX entry found")

// Field is one "name = value" pair of an entry.
type Field struct {
	Name  string // As written; lookups are case-insensitive
	Value string // Inner text without the outer braces or quotes
	Bare  bool   // Written without delimiters (numbers, month macros)
}

// Entry is a parsed BibTeX entry. Field order is preserved.
type Entry struct {
	Type   string // Lowercased entry type (article, misc, ...)
	Key    string
	Fields []Field
}

// Get returns the value of the named field and whether it exists.
func (e *Entry) Get(name string) (string, bool) {
	if i := e.index(name); i >= 0 {
		return e.Fields[i].Value, true
	}
	return "", false
}

// Value returns the named field's value, or "" if it is missing.
func (e *Entry) Value(name string) string {
	v, _ := e.Get(name)
	return v
}

// Set replaces the named field's value, appending the field if missing.
func (e *Entry) Set(name, value string) {
	if i := e.index(name); i >= 0 {
		e.Fields[i].Value = value
		e.Fields[i].Bare = false
		return
	}
	e.Fields = append(e.Fields, Field{Name: name, Value: value})
}

// Map returns all fields keyed by lowercased name.
func (e *Entry) Map() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		m[strings.ToLower(f.Name)] = f.Value
	}
	return m
}

func (e *Entry) index(name string) int {
	for i, f := range e.Fields {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

// Render formats the entry as
//
//	@type{key,
//	  name = {value},
//	  year = 2018
//	}
func (e *Entry) Render() string {
	var b strings.Builder
	b.WriteString("@")
	b.WriteString(e.Type)
	b.WriteString("{")
	b.WriteString(e.Key)
	for _, f := range e.Fields {
		b.WriteString(",\n  ")
		b.WriteString(f.Name)
		b.WriteString(" = ")
		if f.Bare {
			b.WriteString(f.Value)
		} else {
			b.WriteString("{")
			b.WriteString(f.Value)
			b.WriteString("}")
		}
	}
	b.WriteString("\n}")
	return b.String()
}
