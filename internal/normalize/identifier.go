// Package normalize validates and canonicalizes reference identifiers and
// derives citation keys.
package normalize

import (
	"regexp"
	"strings"
)

// doiPattern is the DOI grammar: 10.<4+ digits>(.<digits>)*/<suffix>.
// The suffix excludes whitespace and characters that break in markup.
var doiPattern = regexp.MustCompile(`^10\.[0-9]{4,}(?:\.[0-9]+)*/[^\s"&'<>]+$`)

var urlPattern = regexp.MustCompile(`(?i)^(?:http|ftp)s?://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+(?:[A-Z]{2,6}\.?|[A-Z0-9-]{2,}\.?)|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

var arxivVersionSuffix = regexp.MustCompile(`v[0-9]+$`)

// doiPrefixes are stripped by CanonicalDOI, matched case-insensitively.
var doiPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi.org/",
	"doi:",
}

var arxivPrefixes = []string{
	"https://arxiv.org/abs/",
	"http://arxiv.org/abs/",
	"https://arxiv.org/pdf/",
	"http://arxiv.org/pdf/",
	"arxiv.org/abs/",
	"arxiv:",
}

// ValidateDOI reports whether s matches the DOI grammar.
func ValidateDOI(s string) bool {
	return doiPattern.MatchString(s)
}

// ValidateURL reports whether s is an http(s)/ftp(s) URL with a domain,
// localhost or IPv4 host.
func ValidateURL(s string) bool {
	return urlPattern.MatchString(s)
}

// ValidateArXivID reports whether s has the YYMM.NNNNN shape: four digits,
// a dot, then one or more digits.
func ValidateArXivID(s string) bool {
	if len(s) < 6 || s[4] != '.' {
		return false
	}
	return allDigits(s[:4]) && allDigits(s[5:])
}

// CanonicalDOI strips URL and "doi:" prefixes and surrounding whitespace.
// Case is preserved; use LowerDOI for comparisons.
func CanonicalDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	return trimPrefixFold(doi, doiPrefixes)
}

// LowerDOI returns the comparison form of a DOI.
func LowerDOI(doi string) string {
	return strings.ToLower(CanonicalDOI(doi))
}

// CanonicalArXivID strips arXiv URL prefixes, a ".pdf" suffix and a
// trailing version ("v2"). It does not validate the result.
func CanonicalArXivID(id string) string {
	id = strings.TrimSpace(id)
	id = trimPrefixFold(id, arxivPrefixes)
	id = strings.TrimSuffix(id, ".pdf")
	return arxivVersionSuffix.ReplaceAllString(id, "")
}

func trimPrefixFold(s string, prefixes []string) string {
	lower := strings.ToLower(s)
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) {
			return s[len(p):]
		}
	}
	return s
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
