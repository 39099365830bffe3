package bibtex

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse returns the first entry in text. @comment, @preamble and @string
// blocks before it are skipped.
func Parse(text string) (*Entry, error) {
	entries, err := ParseAll(text)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoEntry
	}
	return &entries[0], nil
}

// ParseAll returns every entry in text, in order.
func ParseAll(text string) ([]Entry, error) {
	p := &parser{s: text}
	var entries []Entry
	for {
		if !p.skipTo('@') {
			return entries, nil
		}
		p.pos++ // '@'
		typ := strings.ToLower(p.readWhile(isIdentRune))
		p.skipSpace()
		if p.eof() {
			return nil, fmt.Errorf("entry @%s: unexpected end of input", typ)
		}
		open := p.s[p.pos]
		if open != '{' && open != '(' {
			return nil, fmt.Errorf("entry @%s: expected '{' at offset %d", typ, p.pos)
		}

		switch typ {
		case "comment", "preamble", "string":
			if err := p.skipBlock(); err != nil {
				return nil, fmt.Errorf("@%s block: %w", typ, err)
			}
			continue
		}

		p.pos++
		entry, err := p.parseBody(typ, closerFor(open))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
}

type parser struct {
	s   string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.s) }

func (p *parser) skipSpace() {
	for !p.eof() && isSpace(rune(p.s[p.pos])) {
		p.pos++
	}
}

func (p *parser) skipTo(c byte) bool {
	idx := strings.IndexByte(p.s[p.pos:], c)
	if idx < 0 {
		p.pos = len(p.s)
		return false
	}
	p.pos += idx
	return true
}

func (p *parser) readWhile(ok func(rune) bool) string {
	start := p.pos
	for !p.eof() && ok(rune(p.s[p.pos])) {
		p.pos++
	}
	return p.s[start:p.pos]
}

// skipBlock skips a balanced {...} or (...) block starting at the opener.
func (p *parser) skipBlock() error {
	open := p.s[p.pos]
	closer := closerFor(open)
	depth := 0
	for ; !p.eof(); p.pos++ {
		switch p.s[p.pos] {
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		}
	}
	return fmt.Errorf("unbalanced %q", open)
}

func (p *parser) parseBody(typ string, closer byte) (Entry, error) {
	entry := Entry{Type: typ}

	p.skipSpace()
	key := p.readWhile(func(r rune) bool {
		return r != ',' && rune(closer) != r && !isSpace(r)
	})
	entry.Key = key
	p.skipSpace()
	if p.eof() {
		return entry, fmt.Errorf("entry %q: unexpected end of input", key)
	}
	if p.s[p.pos] == closer {
		p.pos++
		return entry, nil
	}
	p.pos++ // ','

	for {
		p.skipSpace()
		if p.eof() {
			return entry, fmt.Errorf("entry %q: missing closing %q", key, closer)
		}
		if p.s[p.pos] == closer {
			p.pos++
			return entry, nil
		}
		if p.s[p.pos] == ',' {
			p.pos++
			continue
		}

		name := p.readWhile(isIdentRune)
		if name == "" {
			return entry, fmt.Errorf("entry %q: expected field name at offset %d", key, p.pos)
		}
		p.skipSpace()
		if p.eof() || p.s[p.pos] != '=' {
			return entry, fmt.Errorf("entry %q: expected '=' after field %q", key, name)
		}
		p.pos++

		field, err := p.parseValue(closer)
		if err != nil {
			return entry, fmt.Errorf("entry %q field %q: %w", key, name, err)
		}
		field.Name = name
		entry.Fields = append(entry.Fields, field)
	}
}

// parseValue reads a value, joining "#"-concatenated parts.
func (p *parser) parseValue(closer byte) (Field, error) {
	var parts []string
	bare := true
	for {
		p.skipSpace()
		if p.eof() {
			return Field{}, fmt.Errorf("unexpected end of input")
		}
		switch c := p.s[p.pos]; c {
		case '{':
			v, err := p.readBraced()
			if err != nil {
				return Field{}, err
			}
			parts = append(parts, v)
			bare = false
		case '"':
			v, err := p.readQuoted()
			if err != nil {
				return Field{}, err
			}
			parts = append(parts, v)
			bare = false
		default:
			v := p.readWhile(func(r rune) bool {
				return r != ',' && r != '#' && rune(closer) != r && !isSpace(r)
			})
			if v == "" {
				return Field{}, fmt.Errorf("empty value at offset %d", p.pos)
			}
			parts = append(parts, v)
		}

		p.skipSpace()
		if !p.eof() && p.s[p.pos] == '#' {
			p.pos++
			continue
		}
		return Field{Value: strings.Join(parts, ""), Bare: bare && len(parts) == 1}, nil
	}
}

func (p *parser) readBraced() (string, error) {
	start := p.pos + 1
	depth := 0
	for ; !p.eof(); p.pos++ {
		switch p.s[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				v := p.s[start:p.pos]
				p.pos++
				return v, nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced braces")
}

func (p *parser) readQuoted() (string, error) {
	start := p.pos + 1
	depth := 0
	for p.pos++; !p.eof(); p.pos++ {
		switch p.s[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth == 0 {
				v := p.s[start:p.pos]
				p.pos++
				return v, nil
			}
		}
	}
	return "", fmt.Errorf("unterminated quoted value")
}

func closerFor(open byte) byte {
	if open == '(' {
		return ')'
	}
	return '}'
}

// isSpace only matches ASCII whitespace; the parser walks bytes, and UTF-8
// continuation bytes must not be mistaken for Latin-1 spaces.
func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}

func isIdentRune(r rune) bool {
	return r < 0x80 && (unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("_-:.+/", r))
}
