package store

import (
	"strings"

	"github.com/matsen/refman/internal/index"
)

// ResolveKey resolves pattern to exactly one record. A key or location
// that matches exactly always wins. Otherwise, when allowWildcard is set,
// pattern is matched as a location prefix. A trailing "*" is ignored.
//
// Fails with ErrNotFound when nothing matches and with an
// *AmbiguousKeyError when more than one record does.
func (s *Store) ResolveKey(pattern string, allowWildcard bool) (index.Entry, error) {
	p := strings.TrimSuffix(strings.TrimSpace(pattern), "*")
	if p == "" {
		return index.Entry{}, notFound(pattern)
	}

	exact, err := s.idx.Exact(p)
	if err != nil {
		return index.Entry{}, err
	}
	if len(exact) > 0 || !allowWildcard {
		return single(pattern, exact)
	}

	prefixed, err := s.idx.ByLocationPrefix(p)
	if err != nil {
		return index.Entry{}, err
	}
	return single(pattern, prefixed)
}

func single(pattern string, matches []index.Entry) (index.Entry, error) {
	switch len(matches) {
	case 0:
		return index.Entry{}, notFound(pattern)
	case 1:
		return matches[0], nil
	default:
		locs := make([]string, len(matches))
		for i, m := range matches {
			locs[i] = m.Location
		}
		return index.Entry{}, &AmbiguousKeyError{Pattern: pattern, Matches: locs}
	}
}

// keyOwner returns the indexed record using key, other than the one at
// except, or nil when the key is free.
func (s *Store) keyOwner(key, except string) (*index.Entry, error) {
	matches, err := s.idx.Exact(key)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if m.Key == key && m.Location != except {
			return &m, nil
		}
	}
	return nil, nil
}
