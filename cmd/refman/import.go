package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/refman/internal/config"
	"github.com/matsen/refman/internal/importer"
	"github.com/spf13/cobra"
)

var (
	importFormat  string
	importFetch   bool
	importPDFRoot string
)

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "auto", "Input format: auto, bibtex or paperpile")
	importCmd.Flags().BoolVar(&importFetch, "fetch", false, "Fetch entries with a DOI or arXiv id instead of storing them as given")
	importCmd.Flags().StringVar(&importPDFRoot, "pdf-root", "", "Directory Paperpile attachment paths are relative to")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import references from a .bib file or a Paperpile export",
	Long: `Import references from a .bib file or a Paperpile JSON export.

Each entry becomes a reference. Entries already stored are skipped. With
--fetch, entries carrying a DOI or arXiv id are fetched upstream, which
also retrieves their documents.

Examples:
  refman import library.bib
  refman import library.bib --fetch
  refman import paperpile.json --pdf-root ~/Paperpile`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		exitWithError(ExitError, "reading %s: %v", path, err)
	}

	format := importFormat
	if format == "auto" {
		format = "bibtex"
		if strings.EqualFold(filepath.Ext(path), ".json") {
			format = "paperpile"
		}
	}

	var items []importer.Item
	switch format {
	case "bibtex":
		items, err = importer.ParseBibTeX(data)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
	case "paperpile":
		var errs []error
		items, errs = importer.ParsePaperpile(data, config.ExpandPath(importPDFRoot))
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "warning: %v\n", e)
		}
	default:
		exitWithError(ExitError, "unknown format: %s (valid: auto, bibtex, paperpile)", format)
	}

	cfg := mustLoadConfig()
	s := mustOpenStore(cfg)
	defer s.Close()

	opts := importer.Options{Fetch: importFetch}
	if humanOutput {
		opts.Progress = stderrProgress
	}
	res := importer.Import(commandContext(cmd), s, items, opts)

	if humanOutput {
		outputHuman("Imported %d of %d references\n", len(res.Added), len(items))
		for _, f := range res.Failed {
			outputHuman("  failed %s: %s\n", f.Item, f.Error)
		}
	} else {
		outputJSON(res)
	}

	if len(res.Failed) > 0 {
		s.Close()
		os.Exit(ExitDataError)
	}
	return nil
}
