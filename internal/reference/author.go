package reference

import "strings"

// Author represents a paper author.
type Author struct {
	First string `json:"first"` // First/given name(s)
	Last  string `json:"last"`  // Last/family name
}

// Full formats the author as "First Last".
func (a Author) Full() string {
	if a.First != "" {
		return a.First + " " + a.Last
	}
	return a.Last
}

// ParseAuthors splits a BibTeX author list ("A and B and C") into authors.
// Both "Last, First" and "First Last" forms are understood.
func ParseAuthors(list string) []Author {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil
	}

	var authors []Author
	for _, name := range splitAnd(list) {
		name = strings.Join(strings.Fields(name), " ")
		if name == "" {
			continue
		}
		authors = append(authors, ParseName(name))
	}
	return authors
}

// ParseName parses a single author name.
//
// Known limitations:
// - Multi-part surnames without a comma (von Neumann) keep only the last word
// - Braced corporate names are kept whole as the last name
func ParseName(name string) Author {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "{") && strings.HasSuffix(name, "}") {
		return Author{Last: strings.Trim(name, "{}")}
	}
	if idx := strings.Index(name, ","); idx >= 0 {
		return Author{
			First: strings.TrimSpace(name[idx+1:]),
			Last:  strings.TrimSpace(name[:idx]),
		}
	}
	parts := strings.Fields(name)
	if len(parts) == 1 {
		return Author{Last: parts[0]}
	}
	return Author{
		First: strings.Join(parts[:len(parts)-1], " "),
		Last:  parts[len(parts)-1],
	}
}

// splitAnd splits on the " and " separator at brace depth zero.
func splitAnd(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		}
		if depth == 0 && i+len(" and ") <= len(s) && strings.EqualFold(s[i:i+len(" and ")], " and ") {
			parts = append(parts, s[start:i])
			start = i + len(" and ")
			i += len(" and ") - 1
		}
	}
	return append(parts, s[start:])
}
