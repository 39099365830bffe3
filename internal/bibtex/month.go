package bibtex

import (
	"regexp"
	"strconv"
	"strings"
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// monthField matches a month field at the start of a line or after the
// entry's opening brace or a field separator, so one-line entries are
// covered too. It captures everything up to the value, then the value with
// its delimiters.
var monthField = regexp.MustCompile(`(?im)((?:^|[,{])[ \t\r\n]*month[ \t\r\n]*=[ \t\r\n]*)(\{[^{}\n]*\}|"[^"\n]*"|[A-Za-z0-9]+)`)

// NormalizeMonth maps a month given as a full name, an abbreviation or a
// number to its lowercase three-letter form. Unrecognized values are
// returned trimmed and lowercased.
func NormalizeMonth(v string) string {
	s := strings.ToLower(strings.TrimSpace(v))
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return ""
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return monthNames[n-1][:3]
		}
		return s
	}
	if len(s) >= 3 {
		for _, name := range monthNames {
			if strings.HasPrefix(name, s) {
				return name[:3]
			}
		}
	}
	return s
}

// FixMonths rewrites every month field of text into the lowercase
// three-letter form, keeping the original delimiters. All other bytes are
// left untouched, so the result only differs where a month was rewritten.
func FixMonths(text string) string {
	return monthField.ReplaceAllStringFunc(text, func(m string) string {
		sub := monthField.FindStringSubmatch(m)
		prefix, value := sub[1], sub[2]
		switch {
		case strings.HasPrefix(value, "{"):
			return prefix + "{" + NormalizeMonth(value[1:len(value)-1]) + "}"
		case strings.HasPrefix(value, `"`):
			return prefix + `"` + NormalizeMonth(value[1:len(value)-1]) + `"`
		default:
			return prefix + NormalizeMonth(value)
		}
	})
}
