// Package reference defines the normalized metadata of a stored reference.
package reference

import "strings"

// Metadata is the normalized bibliographic record of one reference.
// Identifier fields default to the empty string, never absent.
type Metadata struct {
	// Identity
	Key       string `json:"key"`        // Citation key (BibTeX entry key)
	EntryType string `json:"entry_type"` // article, misc, inproceedings, ...

	// Bibliographic fields
	Title   string   `json:"title"`
	Authors []Author `json:"authors"`
	Year    int      `json:"year"`            // 0 if unknown
	Month   string   `json:"month,omitempty"` // jan..dec, "" if unknown
	Venue   string   `json:"venue,omitempty"` // Journal, booktitle or publisher

	// External identifiers
	DOI     string `json:"doi"`
	ArXivID string `json:"arxiv_id"`
	URL     string `json:"url,omitempty"`

	// Fields holds every raw BibTeX field keyed by lowercased name.
	Fields map[string]string `json:"fields,omitempty"`
}

// FirstAuthor returns the first author, or the zero Author if there is none.
func (m Metadata) FirstAuthor() Author {
	if len(m.Authors) == 0 {
		return Author{}
	}
	return m.Authors[0]
}

// AuthorsText joins author names as "First Last, First Last".
func (m Metadata) AuthorsText() string {
	names := make([]string, 0, len(m.Authors))
	for _, a := range m.Authors {
		names = append(names, a.Full())
	}
	return strings.Join(names, ", ")
}
