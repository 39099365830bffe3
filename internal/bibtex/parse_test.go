package bibtex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Crossref(t *testing.T) {
	e, err := Parse(wassermanBib)
	require.NoError(t, err)

	assert.Equal(t, "article", e.Type)
	assert.Equal(t, "Wasserman_2018", e.Key)
	require.Len(t, e.Fields, 11)
	assert.Equal(t, "doi", e.Fields[0].Name)
	assert.Equal(t, "10.1146/annurev-statistics-031017-100045", e.Value("doi"))
	assert.Equal(t, "501--532", e.Value("pages"))

	year := e.Fields[2]
	assert.Equal(t, "year", year.Name)
	assert.Equal(t, "2018", year.Value)
	assert.True(t, year.Bare)
}

func TestParse_CaseInsensitiveLookup(t *testing.T) {
	e, err := Parse(bronsteinBib)
	require.NoError(t, err)

	v, ok := e.Get("ARCHIVEPREFIX")
	assert.True(t, ok)
	assert.Equal(t, "arXiv", v)
	assert.Equal(t, "cs.LG", e.Value("primaryclass"))
	assert.Equal(t, "Michael M. Bronstein and Joan Bruna and Taco Cohen and Petar Veličković", e.Value("author"))
}

func TestParse_ValueForms(t *testing.T) {
	text := `@Book(knuth, title = "The {Art} of " # {Programming}, year = 1968, note = {a {nested} value})`
	e, err := Parse(text)
	require.NoError(t, err)

	assert.Equal(t, "book", e.Type)
	assert.Equal(t, "knuth", e.Key)
	assert.Equal(t, "The {Art} of Programming", e.Value("title"))
	assert.False(t, e.Fields[0].Bare)
	assert.Equal(t, "1968", e.Value("year"))
	assert.Equal(t, "a {nested} value", e.Value("note"))
}

func TestParse_SkipsCommentsAndStrings(t *testing.T) {
	text := "% leading comment\n@comment{ignore {me}}\n@string{jas = {J. Am. Stat.}}\n@article{a, title={A}}\n@article{b, title={B}}"

	entries, err := ParseAll(text)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Key)
	assert.Equal(t, "b", entries[1].Key)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unclosed entry", "@article{a, title = {A}"},
		{"unbalanced braces", "@article{a, title = {A {B}"},
		{"missing equals", "@article{a, title {A}}"},
		{"unterminated quote", `@article{a, title = "A}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			assert.Error(t, err)
		})
	}

	_, err := Parse("no entries here")
	assert.ErrorIs(t, err, ErrNoEntry)
}

func TestEntry_RenderRoundTrip(t *testing.T) {
	e, err := Parse(wassermanBib)
	require.NoError(t, err)

	out := e.Render()
	assert.Contains(t, out, "@article{Wasserman_2018,\n  doi = {10.1146/annurev-statistics-031017-100045},")
	assert.Contains(t, out, "  year = 2018,")
	assert.True(t, len(out) > 0 && out[len(out)-1] == '}')

	again, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, e, again)
}

func TestEntry_Set(t *testing.T) {
	e := &Entry{Type: "misc", Key: "k", Fields: []Field{{Name: "Year", Value: "2020", Bare: true}}}

	e.Set("year", "2021")
	e.Set("doi", "")

	require.Len(t, e.Fields, 2)
	assert.Equal(t, Field{Name: "Year", Value: "2021"}, e.Fields[0])
	v, ok := e.Get("doi")
	assert.True(t, ok)
	assert.Equal(t, "", v)
}
