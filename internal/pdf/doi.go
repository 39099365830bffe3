// Package pdf inspects and opens stored documents.
package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/matsen/refman/internal/normalize"
)

// doiCandidate finds DOI-like runs in extracted text. Matches are trimmed
// and checked against the strict DOI grammar.
var doiCandidate = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// searchPages is how many leading pages ExtractDOI reads.
const searchPages = 3

// magic is the signature every PDF starts with.
var magic = []byte("%PDF-")

// LooksLikePDF reports whether data starts with the PDF signature.
// Leading whitespace is tolerated.
func LooksLikePDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n\x00"), magic)
}

// ExtractDOI returns the first DOI printed on the leading pages of the PDF
// at path. An empty string with a nil error means no DOI was found.
func ExtractDOI(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	pages := min(searchPages, r.NumPage())
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if doi := FindDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil
}

// FindDOI returns the first valid DOI in text, or "".
func FindDOI(text string) string {
	for _, match := range doiCandidate.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if normalize.ValidateDOI(match) {
			return match
		}
	}
	return ""
}
