package fetch

import (
	"errors"
	"fmt"
)

// Common errors returned by the fetcher.
var (
	// ErrInvalidIdentifier indicates an identifier failed its grammar check.
	// No network call is made for invalid identifiers.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrUpstream indicates a required network call did not succeed.
	ErrUpstream = errors.New("upstream request failed")

	// ErrNoDocument indicates no source could supply a document.
	ErrNoDocument = errors.New("no document available")
)

// UpstreamError describes a failed request to an upstream service.
type UpstreamError struct {
	Op         string // What was being fetched (e.g., "crossref citeproc")
	URL        string
	StatusCode int   // 0 when no response was received
	Err        error // Transport error, if any
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: GET %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: GET %s: HTTP %d", e.Op, e.URL, e.StatusCode)
}

// Is makes errors.Is(err, ErrUpstream) hold for every UpstreamError.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsInvalidIdentifier returns true if err reports a malformed identifier.
func IsInvalidIdentifier(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier)
}

// IsUpstream returns true if err reports a failed upstream request.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// IsNotFound returns true if an upstream service answered 404.
func IsNotFound(err error) bool {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr.StatusCode == 404
	}
	return false
}

func invalidIdentifier(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalidIdentifier, kind, id)
}
