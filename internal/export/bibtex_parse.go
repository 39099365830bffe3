package export

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/matsen/refman/internal/normalize"
)

// BibTeXIndex indexes the entries of a bibliography file.
type BibTeXIndex struct {
	// Keys maps citation keys to true for existence check
	Keys map[string]bool
	// DOIs maps lowercased DOI values to citation keys
	DOIs map[string]string
	// Order lists keys in file order, duplicates included
	Order []string
}

// NewBibTeXIndex creates an empty BibTeX index.
func NewBibTeXIndex() *BibTeXIndex {
	return &BibTeXIndex{
		Keys: make(map[string]bool),
		DOIs: make(map[string]string),
	}
}

// HasEntry returns true if the entry exists (by DOI or key).
// DOI is the primary match; citation key is the fallback if no DOI.
func (idx *BibTeXIndex) HasEntry(key, doi string) bool {
	if doi != "" {
		if _, exists := idx.DOIs[normalize.LowerDOI(doi)]; exists {
			return true
		}
	}
	return idx.Keys[key]
}

// Duplicates returns keys that occur more than once, in file order.
func (idx *BibTeXIndex) Duplicates() []string {
	seen := make(map[string]int, len(idx.Order))
	var dups []string
	for _, k := range idx.Order {
		seen[k]++
		if seen[k] == 2 {
			dups = append(dups, k)
		}
	}
	return dups
}

var (
	// entryStart matches "@type{key," at the start of an entry.
	entryStart = regexp.MustCompile(`@\w+\{([^,\s]+)\s*,`)
	// doiField matches doi = {value} or doi = "value".
	doiField = regexp.MustCompile(`(?i)^\s*doi\s*=\s*[\{"]([^\}"]+)[\}"]`)
)

// ParseBibTeXFile builds an index from an existing .bib file.
// Returns an empty index if the file doesn't exist.
func ParseBibTeXFile(path string) (*BibTeXIndex, error) {
	idx := NewBibTeXIndex()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var currentKey string

	for scanner.Scan() {
		line := scanner.Text()

		if matches := entryStart.FindStringSubmatch(line); len(matches) > 1 {
			currentKey = strings.TrimSpace(matches[1])
			idx.Keys[currentKey] = true
			idx.Order = append(idx.Order, currentKey)
		}

		if matches := doiField.FindStringSubmatch(line); len(matches) > 1 {
			doi := normalize.LowerDOI(matches[1])
			if doi != "" && currentKey != "" {
				idx.DOIs[doi] = currentKey
			}
		}
	}

	return idx, scanner.Err()
}
