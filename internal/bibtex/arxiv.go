package bibtex

import (
	"fmt"
	"strings"

	"github.com/matsen/refman/internal/normalize"
)

// ArXivAbsURL is the abstract page of an arXiv preprint.
const ArXivAbsURL = "https://arxiv.org/abs/%s"

// FormatArXiv renders an entry from the arXiv bibtex endpoint in the
// store's canonical layout: an @article with capitalized field names in a
// fixed order, one field per line, values braced, empty fields omitted.
// The Eprint field carries the identifier without its version suffix.
func FormatArXiv(src *Entry, key, arxivID string) string {
	id := normalize.CanonicalArXivID(arxivID)
	if eprint := src.Value("eprint"); eprint != "" {
		id = normalize.CanonicalArXivID(eprint)
	}

	url := src.Value("url")
	if url == "" || strings.Contains(url, "arxiv.org") {
		url = fmt.Sprintf(ArXivAbsURL, id)
	}

	fields := []Field{
		{Name: "Author", Value: collapse(src.Value("author"))},
		{Name: "Title", Value: collapse(src.Value("title"))},
		{Name: "Eprint", Value: id},
		{Name: "DOI", Value: src.Value("doi")},
		{Name: "ArchivePrefix", Value: "arXiv"},
		{Name: "PrimaryClass", Value: src.Value("primaryclass")},
		{Name: "Abstract", Value: collapse(src.Value("abstract"))},
		{Name: "Year", Value: src.Value("year")},
		{Name: "Month", Value: NormalizeMonth(src.Value("month"))},
		{Name: "Note", Value: collapse(src.Value("note"))},
		{Name: "Url", Value: url},
		{Name: "File", Value: key + ".pdf"},
	}

	lines := []string{"@article{" + key}
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-13s = {%s}", f.Name, f.Value))
	}
	return strings.Join(lines, ",\n") + "\n}"
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
