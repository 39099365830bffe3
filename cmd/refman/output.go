package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/refman/internal/index"
	"github.com/matsen/refman/internal/store"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search
	ListTitleMaxLen    = 60 // Used in list and search output
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitWithErr reports err and exits with the code it maps to. Ambiguous
// keys list their candidates.
func exitWithErr(err error) {
	var amb *store.AmbiguousKeyError
	if errors.As(err, &amb) && !humanOutput {
		outputJSON(ErrorResponse{Error: err.Error(), Matches: amb.Matches})
		os.Exit(ExitAmbiguous)
	}
	exitWithError(exitCodeFor(err), "%v", err)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Key    string `json:"key,omitempty"`
	Path   string `json:"path,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Matches []string `json:"matches,omitempty"`
}

// printEntriesHuman prints index entries one per line.
func printEntriesHuman(entries []index.Entry) {
	for _, e := range entries {
		year := ""
		if e.Year != 0 {
			year = fmt.Sprintf("%d", e.Year)
		}
		fmt.Printf("%-24s %4s  %s\n", e.Key, year, truncateString(e.Title, ListTitleMaxLen))
		if e.Authors != "" {
			fmt.Printf("%-24s       %s\n", "", truncateString(e.Authors, ListTitleMaxLen))
		}
	}
}

// truncateString shortens s to maxLen runes, ending with "...".
func truncateString(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
