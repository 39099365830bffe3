// Package main provides the refman CLI entry point.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refman",
	Short: "Content-addressed local reference manager",
	Long: `refman keeps a local store of references fetched by DOI or arXiv id.

Each reference lives in its own directory named after its citation key and
a hash of its BibTeX, holding the BibTeX entry, metadata, notes and the
document when one could be retrieved. A consolidated ref.bib is rewritten
after every change.

All commands output JSON by default. Use --human for readable output.

Environment Variables:
  REFMAN_DATA        Store directory (default ./refman_data)
  EDITOR             Editor used by 'refman edit'
  REFMAN_MIRROR_URL  Document mirror template, e.g. https://mirror.example/{doi}
  REFMAN_USER_AGENT  User-Agent sent to upstream services`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func init() {
	// Load .env file if present
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug detail to stderr")
	rootCmd.Version = Version
}

// setupLogging installs a text handler on stderr. Warnings are shown by
// default so a missing document is visible; --verbose shows everything.
func setupLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
