package bibtex

import (
	"fmt"
	"strings"
)

// OverrideKey rewrites the key of the first entry in text. A missing doi
// field is added as empty first, so identifier lookups never branch on
// field presence. A file field naming "<oldkey>.<ext>" follows the key.
// The entry is re-rendered.
func OverrideKey(text, key string) (string, error) {
	entry, err := Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing entry: %w", err)
	}
	EnsureDOI(entry)

	if file, ok := entry.Get("file"); ok && entry.Key != "" && strings.HasPrefix(file, entry.Key+".") {
		entry.Set("file", key+strings.TrimPrefix(file, entry.Key))
	}
	entry.Key = key
	return entry.Render(), nil
}

// EnsureDOI adds an empty doi field to entry when it has none.
func EnsureDOI(entry *Entry) {
	if _, ok := entry.Get("doi"); !ok {
		entry.Set("doi", "")
	}
}
