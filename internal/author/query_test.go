package author

import (
	"testing"

	"github.com/matsen/refman/internal/reference"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Query
	}{
		{"single word is last name", "Wasserman", Query{Last: "Wasserman"}},
		{"First Last", "Larry Wasserman", Query{First: "Larry", Last: "Wasserman"}},
		{"initials stay in first name", "Michael M. Bronstein", Query{First: "Michael M.", Last: "Bronstein"}},
		{"Last, First", "Bronstein, Michael", Query{First: "Michael", Last: "Bronstein"}},
		{"Last, First with spaces", "Bruna,  Joan ", Query{First: "Joan", Last: "Bruna"}},
		{"surrounding whitespace", "  Cohen  ", Query{Last: "Cohen"}},
		{"empty", "", Query{}},
		{"whitespace only", "   ", Query{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseQuery(tt.input); got != tt.want {
				t.Errorf("ParseQuery(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseQueries_DropsEmpty(t *testing.T) {
	got := ParseQueries([]string{"Bruna", "  ", ""})
	if len(got) != 1 || got[0].Last != "Bruna" {
		t.Errorf("ParseQueries() = %+v", got)
	}
}

func TestQuery_Matches(t *testing.T) {
	velickovic := reference.Author{First: "Petar", Last: "Veličković"}
	bronstein := reference.Author{First: "Michael M.", Last: "Bronstein"}

	tests := []struct {
		name   string
		query  string
		author reference.Author
		want   bool
	}{
		{"last name only", "Bronstein", bronstein, true},
		{"case insensitive", "bronstein", bronstein, true},
		{"first name prefix", "Mich Bronstein", bronstein, true},
		{"initial with period", "Michael M. Bronstein", bronstein, true},
		{"wrong first name", "Joan Bronstein", bronstein, false},
		{"partial last name", "Bron", bronstein, false},
		{"diacritics folded", "Velickovic", velickovic, true},
		{"diacritics in query", "Petar Veličković", velickovic, true},
		{"empty query", "", bronstein, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseQuery(tt.query).Matches(tt.author); got != tt.want {
				t.Errorf("ParseQuery(%q).Matches(%+v) = %v, want %v", tt.query, tt.author, got, tt.want)
			}
		})
	}
}

func TestAllMatch(t *testing.T) {
	meta := reference.Metadata{Authors: []reference.Author{
		{First: "Michael M.", Last: "Bronstein"},
		{First: "Joan", Last: "Bruna"},
		{First: "Taco", Last: "Cohen"},
	}}

	if !AllMatch(ParseQueries([]string{"Bruna", "Cohen"}), meta) {
		t.Error("AllMatch() = false for two co-authors")
	}
	if AllMatch(ParseQueries([]string{"Bruna", "Wasserman"}), meta) {
		t.Error("AllMatch() = true with a non-author")
	}
	if !AllMatch(nil, meta) {
		t.Error("AllMatch() with no queries should match")
	}
}
