package bibtex

import (
	"strconv"
	"strings"

	"github.com/matsen/refman/internal/normalize"
	"github.com/matsen/refman/internal/reference"
)

// ToMetadata builds normalized metadata from a parsed entry.
func ToMetadata(e *Entry) reference.Metadata {
	fields := e.Map()
	meta := reference.Metadata{
		Key:       e.Key,
		EntryType: e.Type,
		Title:     StripBraces(fields["title"]),
		Authors:   reference.ParseAuthors(fields["author"]),
		Year:      parseYear(fields["year"]),
		Month:     NormalizeMonth(fields["month"]),
		Venue:     firstNonEmpty(fields["journal"], fields["booktitle"], fields["publisher"]),
		DOI:       normalize.CanonicalDOI(fields["doi"]),
		URL:       fields["url"],
		Fields:    fields,
	}
	meta.Venue = StripBraces(meta.Venue)

	if eprint := fields["eprint"]; eprint != "" {
		prefix := fields["archiveprefix"]
		id := normalize.CanonicalArXivID(eprint)
		if strings.EqualFold(prefix, "arxiv") || normalize.ValidateArXivID(id) {
			meta.ArXivID = id
		}
	}
	return meta
}

// StripBraces removes protective braces and collapses whitespace.
func StripBraces(s string) string {
	s = strings.NewReplacer("{", "", "}", "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func parseYear(s string) int {
	s = strings.TrimSpace(StripBraces(s))
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	year, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return year
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
