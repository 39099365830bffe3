package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/matsen/refman/internal/reference"
)

// Placeholders used when metadata lacks an author or a year.
const (
	AnonymousAuthor = "Anon"
	UnknownYear     = "nd"
)

var latexAccents = strings.NewReplacer(
	`\'`, "", "\\`", "", `\"`, "", `\^`, "", `\~`, "", `\=`, "", `\.`, "",
	`\H`, "", `\c`, "", `\k`, "", `\r`, "", `\u`, "", `\v`, "",
)

// DeriveKey returns "{FirstAuthorSurname}_{Year}" for the given metadata.
// The surname is folded to ASCII letters and digits so the key is safe both
// as a BibTeX key and as part of a directory name.
func DeriveKey(meta reference.Metadata) string {
	surname := FoldKeyPart(meta.FirstAuthor().Last)
	if surname == "" {
		surname = AnonymousAuthor
	}
	year := UnknownYear
	if meta.Year > 0 {
		year = fmt.Sprintf("%d", meta.Year)
	}
	return surname + "_" + year
}

// FoldKeyPart removes diacritics and keeps only ASCII letters and digits.
// "Veličković" becomes "Velickovic"; "O'Neil" becomes "ONeil".
func FoldKeyPart(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	// LaTeX accent commands leave their letter behind in braces: {\'e}
	folded = latexAccents.Replace(folded)

	var b strings.Builder
	for _, r := range folded {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidKey reports whether key can be used as a citation key and record
// directory prefix: non-empty, no path separators, whitespace or braces.
func ValidKey(key string) bool {
	if key == "" || key == "." || key == ".." || strings.HasPrefix(key, ".") {
		return false
	}
	return !strings.ContainsAny(key, "/\\{}, \t\n\r\"#%'()=~")
}
