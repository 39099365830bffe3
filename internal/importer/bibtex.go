package importer

import (
	"fmt"

	"github.com/matsen/refman/internal/bibtex"
)

// ParseBibTeX splits a bibliography file into one item per entry.
func ParseBibTeX(data []byte) ([]Item, error) {
	entries, err := bibtex.ParseAll(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing bibliography: %w", err)
	}
	if len(entries) == 0 {
		return nil, bibtex.ErrNoEntry
	}

	items := make([]Item, len(entries))
	for i := range entries {
		meta := bibtex.ToMetadata(&entries[i])
		items[i] = Item{
			Key:     entries[i].Key,
			DOI:     meta.DOI,
			ArXivID: meta.ArXivID,
			BibTeX:  entries[i].Render(),
		}
	}
	return items, nil
}
