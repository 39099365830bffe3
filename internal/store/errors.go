package store

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by the store.
var (
	// ErrNotFound indicates a key resolved to no record.
	ErrNotFound = errors.New("no matching record")

	// ErrAmbiguousKey indicates a key prefix resolved to several records.
	ErrAmbiguousKey = errors.New("ambiguous key")

	// ErrNoEditor indicates EditMetadata was called without an editor.
	ErrNoEditor = errors.New("no editor configured")

	// ErrNoDOI indicates no DOI could be found in a document.
	ErrNoDOI = errors.New("no DOI found in document")

	// ErrKeyExists indicates a citation key is already used by another
	// record.
	ErrKeyExists = errors.New("key already in use")

	// ErrUnindexedLocation indicates a record directory exists on disk but
	// was not loaded into the index, typically because it is unreadable.
	ErrUnindexedLocation = errors.New("location exists on disk but is not indexed")
)

// AmbiguousKeyError lists the locations a pattern matched.
type AmbiguousKeyError struct {
	Pattern string
	Matches []string
}

func (e *AmbiguousKeyError) Error() string {
	return fmt.Sprintf("ambiguous key %q matches %d records: %s", e.Pattern, len(e.Matches), strings.Join(e.Matches, ", "))
}

// Is makes errors.Is(err, ErrAmbiguousKey) hold.
func (e *AmbiguousKeyError) Is(target error) bool {
	return target == ErrAmbiguousKey
}

func notFound(pattern string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, pattern)
}

func keyExists(key, location string) error {
	return fmt.Errorf("%w: %q is used by %s", ErrKeyExists, key, location)
}

// IsNotFound returns true if err reports a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAmbiguous returns true if err reports an ambiguous key.
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguousKey)
}

// IsKeyExists returns true if err reports a citation key clash.
func IsKeyExists(err error) bool {
	return errors.Is(err, ErrKeyExists)
}
