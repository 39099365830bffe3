package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/matsen/refman/internal/config"
	"github.com/matsen/refman/internal/editor"
	"github.com/matsen/refman/internal/fetch"
	"github.com/matsen/refman/internal/store"
)

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// newFetchClient builds the upstream client from configuration.
func newFetchClient(cfg *config.Config) *fetch.Client {
	return fetch.NewClient(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithRateLimit(cfg.RateLimit),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMirrorURL(cfg.MirrorURL),
		fetch.WithLogger(slog.Default()),
	)
}

// mustOpenStore opens the configured store, exits on error.
// The caller is responsible for calling Close() on the returned store.
func mustOpenStore(cfg *config.Config) *store.Store {
	s, err := store.Open(cfg.DataDir,
		store.WithFetcher(newFetchClient(cfg)),
		store.WithEditor(editor.NewExternal(cfg.Editor)),
		store.WithLogger(slog.Default()),
	)
	if err != nil {
		exitWithError(ExitError, "opening store %s: %v", cfg.DataDir, err)
	}
	return s
}

// stderrProgress prints fetch progress to stderr.
var stderrProgress = fetch.ProgressFunc(func(subject, msg string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", subject, msg)
})
