package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/matsen/refman/internal/fetch"
	"github.com/matsen/refman/internal/store"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"not found", fmt.Errorf("%w: %q", store.ErrNotFound, "Wass"), ExitNotFound},
		{"ambiguous", &store.AmbiguousKeyError{Pattern: "W", Matches: []string{"a", "b"}}, ExitAmbiguous},
		{"invalid identifier", fmt.Errorf("%w: doi %q", fetch.ErrInvalidIdentifier, "abcd"), ExitDataError},
		{"upstream", &fetch.UpstreamError{Op: "crossref citeproc", URL: "http://x", StatusCode: 503}, ExitUpstream},
		{"unknown upstream", fmt.Errorf("adding: %w", &fetch.UpstreamError{Op: "crossref citeproc", URL: "http://x", StatusCode: 404}), ExitNotFound},
		{"key exists", fmt.Errorf("%w: %q is used by %s", store.ErrKeyExists, "Wasserman_2018", "Wasserman_2018_0f4768f"), ExitKeyExists},
		{"unindexed location", fmt.Errorf("%w: Smith_2020_abcdef0", store.ErrUnindexedLocation), ExitDataError},
		{"no document", fmt.Errorf("%w: Wasserman_2018", fetch.ErrNoDocument), ExitNotFound},
		{"no doi", store.ErrNoDOI, ExitDataError},
		{"no editor", store.ErrNoEditor, ExitConfigError},
		{"other", errors.New("disk full"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"Topological Data Analysis", 15, "Topological ..."},
		{"multi\n  line   title", 40, "multi line title"},
		{"Veličković", 6, "Vel..."},
		{"abc", 2, "ab"},
	}

	for _, tt := range tests {
		if got := truncateString(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	if got := normalizeKey("Mirror-URL"); got != "mirror_url" {
		t.Errorf("normalizeKey() = %q, want mirror_url", got)
	}
}
