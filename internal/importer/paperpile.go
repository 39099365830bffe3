// Package importer reads references exported by other tools and adds them
// to a store.
package importer

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matsen/refman/internal/bibtex"
	"github.com/matsen/refman/internal/normalize"
)

// FlexibleString can unmarshal from either string or number JSON values.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	// Handle null
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleString(n.String())
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into FlexibleString", string(data))
}

func (f FlexibleString) String() string {
	return string(f)
}

// PaperpileEntry is a single entry of a Paperpile JSON export.
type PaperpileEntry struct {
	ID        string `json:"_id"`
	Citekey   string `json:"citekey"`
	DOI       string `json:"doi"`
	ArXivID   string `json:"arxivid"`
	Title     string `json:"title"`
	Abstract  string `json:"abstract"`
	Journal   string `json:"journal"`
	Published struct {
		Year  FlexibleString `json:"year"`
		Month FlexibleString `json:"month"`
	} `json:"published"`
	Author []struct {
		First string `json:"first"`
		Last  string `json:"last"`
	} `json:"author"`
	Attachments []struct {
		ArticlePDF int    `json:"article_pdf"` // 1 = main PDF, 0 = supplement
		Filename   string `json:"filename"`
	} `json:"attachments"`
}

// ParsePaperpile parses a Paperpile JSON export. Attachment filenames are
// resolved against pdfRoot; with an empty pdfRoot no documents are
// attached. Entries that cannot be converted are reported in the error
// list and skipped.
func ParsePaperpile(data []byte, pdfRoot string) ([]Item, []error) {
	var entries []PaperpileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, []error{fmt.Errorf("parsing Paperpile JSON: %w", err)}
	}

	var items []Item
	var errs []error
	for i, entry := range entries {
		item, err := paperpileItem(entry, pdfRoot)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%s): %w", i+1, entry.Citekey, err))
			continue
		}
		items = append(items, item)
	}
	return items, errs
}

// paperpileItem renders a Paperpile entry as an @article entry.
func paperpileItem(entry PaperpileEntry, pdfRoot string) (Item, error) {
	if entry.Title == "" {
		return Item{}, fmt.Errorf("missing required field 'title'")
	}
	if len(entry.Author) == 0 {
		return Item{}, fmt.Errorf("missing required field 'author'")
	}
	year := entry.Published.Year.String()
	if year == "" {
		return Item{}, fmt.Errorf("missing required field 'published.year'")
	}
	if _, err := strconv.Atoi(year); err != nil {
		return Item{}, fmt.Errorf("invalid year: %s", year)
	}

	key := entry.Citekey
	if key == "" {
		key = entry.ID
	}

	names := make([]string, len(entry.Author))
	for i, a := range entry.Author {
		if a.First == "" {
			names[i] = a.Last
		} else {
			names[i] = a.Last + ", " + a.First
		}
	}

	e := bibtex.Entry{Type: "article", Key: key}
	add := func(name, value string, bare bool) {
		if value != "" {
			e.Fields = append(e.Fields, bibtex.Field{Name: name, Value: value, Bare: bare})
		}
	}
	add("title", entry.Title, false)
	add("author", strings.Join(names, " and "), false)
	add("year", year, true)
	if m, err := strconv.Atoi(entry.Published.Month.String()); err == nil && m >= 1 && m <= 12 {
		add("month", bibtex.NormalizeMonth(strconv.Itoa(m)), true)
	}
	add("journal", entry.Journal, false)
	add("doi", normalize.CanonicalDOI(entry.DOI), false)
	add("abstract", entry.Abstract, false)

	item := Item{
		Key:     key,
		DOI:     normalize.CanonicalDOI(entry.DOI),
		ArXivID: normalize.CanonicalArXivID(entry.ArXivID),
		BibTeX:  e.Render(),
	}
	if pdfRoot != "" {
		for _, att := range entry.Attachments {
			if att.ArticlePDF == 1 && att.Filename != "" {
				item.Document = filepath.Join(pdfRoot, att.Filename)
				break
			}
		}
	}
	return item, nil
}
