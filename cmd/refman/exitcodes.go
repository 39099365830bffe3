package main

import (
	"errors"

	"github.com/matsen/refman/internal/fetch"
	"github.com/matsen/refman/internal/store"
)

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable config, invalid values)
	ExitDataError   = 3 // Data error (invalid identifier, malformed BibTeX, inconsistent store)
	ExitNotFound    = 4 // No record matches the key, the record has no document, or the identifier is unknown upstream
	ExitAmbiguous   = 5 // Key prefix matches several records
	ExitUpstream    = 6 // Crossref, arXiv or the network failed
	ExitKeyExists   = 7 // Citation key already used by another record
)

// exitCodeFor maps an operation error to its exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case store.IsAmbiguous(err):
		return ExitAmbiguous
	case store.IsKeyExists(err):
		return ExitKeyExists
	case store.IsNotFound(err), errors.Is(err, fetch.ErrNoDocument), fetch.IsNotFound(err):
		return ExitNotFound
	case fetch.IsInvalidIdentifier(err), errors.Is(err, store.ErrNoDOI), errors.Is(err, store.ErrUnindexedLocation):
		return ExitDataError
	case fetch.IsUpstream(err):
		return ExitUpstream
	case errors.Is(err, store.ErrNoEditor):
		return ExitConfigError
	default:
		return ExitError
	}
}
