// Package author parses author filters and matches them against stored
// reference metadata.
package author

import (
	"strings"

	"github.com/matsen/refman/internal/normalize"
	"github.com/matsen/refman/internal/reference"
)

// Query is one author filter.
type Query struct {
	First string // Given name prefix, may be empty
	Last  string // Family name
}

// ParseQuery parses "Last", "First Last" or "Last, First".
func ParseQuery(input string) Query {
	input = strings.TrimSpace(input)
	if input == "" {
		return Query{}
	}

	if idx := strings.Index(input, ","); idx > 0 {
		return Query{
			First: strings.TrimSpace(input[idx+1:]),
			Last:  strings.TrimSpace(input[:idx]),
		}
	}

	parts := strings.Fields(input)
	last := parts[len(parts)-1]
	return Query{First: strings.Join(parts[:len(parts)-1], " "), Last: last}
}

// ParseQueries parses each input, dropping empty ones.
func ParseQueries(inputs []string) []Query {
	var qs []Query
	for _, in := range inputs {
		if q := ParseQuery(in); q.Last != "" {
			qs = append(qs, q)
		}
	}
	return qs
}

// Matches reports whether a is the author q names. Family names must be
// equal and the given name must start with q.First. Both comparisons
// ignore case, diacritics and punctuation, so "Velickovic" matches
// "Veličković".
func (q Query) Matches(a reference.Author) bool {
	if fold(q.Last) == "" || fold(q.Last) != fold(a.Last) {
		return false
	}
	if q.First == "" {
		return true
	}
	return strings.HasPrefix(fold(a.First), fold(q.First))
}

// MatchesAny reports whether q matches one of authors.
func (q Query) MatchesAny(authors []reference.Author) bool {
	for _, a := range authors {
		if q.Matches(a) {
			return true
		}
	}
	return false
}

// AllMatch reports whether every query matches some author of meta.
func AllMatch(queries []Query, meta reference.Metadata) bool {
	for _, q := range queries {
		if !q.MatchesAny(meta.Authors) {
			return false
		}
	}
	return true
}

func fold(s string) string {
	return strings.ToLower(normalize.FoldKeyPart(s))
}
