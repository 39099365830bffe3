package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/matsen/refman/internal/clipboard"
	"github.com/matsen/refman/internal/store"
	"github.com/spf13/cobra"
)

var (
	addKey      string
	addDocument string
	addCopy     bool
)

func init() {
	for _, cmd := range []*cobra.Command{doiCmd, arxivCmd, bibtexCmd, pdfCmd} {
		cmd.Flags().StringVar(&addKey, "key", "", "Citation key to use instead of the derived one")
		cmd.Flags().BoolVar(&addCopy, "copy", false, `Copy \cite{key} to the clipboard`)
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{doiCmd, bibtexCmd} {
		cmd.Flags().StringVar(&addDocument, "pdf", "", "Local path or URL of the document to attach")
	}
}

var doiCmd = &cobra.Command{
	Use:   "doi <doi>",
	Short: "Add a reference by DOI",
	Long: `Add a reference by DOI.

Metadata and BibTeX come from Crossref. The document is taken from --pdf,
then from publisher links, then from the configured mirror. A reference
without a document is still stored.

Examples:
  refman doi 10.1146/annurev-statistics-031017-100045
  refman doi https://doi.org/10.1038/nature14539 --key LeCun_2015
  refman doi 10.1038/nature14539 --pdf ~/Downloads/lecun.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(func(s *store.Store, opts store.AddOptions) (string, error) {
			return s.AddFromDOI(commandContext(cmd), args[0], opts)
		})
	},
}

var arxivCmd = &cobra.Command{
	Use:   "arxiv <id>",
	Short: "Add an arXiv preprint",
	Long: `Add an arXiv preprint with its PDF.

Examples:
  refman arxiv 2104.13478
  refman arxiv https://arxiv.org/abs/2104.13478v2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(func(s *store.Store, opts store.AddOptions) (string, error) {
			return s.AddFromArXiv(commandContext(cmd), args[0], opts)
		})
	},
}

var bibtexCmd = &cobra.Command{
	Use:   "bibtex [file]",
	Short: "Add a reference from a BibTeX entry",
	Long: `Add a reference from a BibTeX entry read from a file or stdin.

Nothing is fetched except an explicit --pdf URL.

Examples:
  refman bibtex entry.bib
  pbpaste | refman bibtex --pdf ~/papers/knuth.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			exitWithError(ExitError, "reading bibtex: %v", err)
		}
		return runAdd(func(s *store.Store, opts store.AddOptions) (string, error) {
			return s.AddFromBibTeX(commandContext(cmd), text, opts)
		})
	},
}

var pdfCmd = &cobra.Command{
	Use:   "pdf <path>",
	Short: "Add a reference from a local PDF",
	Long: `Add a reference from a local PDF.

The DOI printed on the first pages is looked up on Crossref and the PDF is
stored as the reference's document.

Examples:
  refman pdf ~/Downloads/paper.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(func(s *store.Store, opts store.AddOptions) (string, error) {
			return s.AddFromDocument(commandContext(cmd), args[0], opts)
		})
	},
}

// AddResponse is the response for the add commands.
type AddResponse struct {
	Status   string `json:"status"`
	Key      string `json:"key"`
	Location string `json:"location,omitempty"`
	Document string `json:"document,omitempty"`
}

func runAdd(add func(*store.Store, store.AddOptions) (string, error)) error {
	cfg := mustLoadConfig()
	s := mustOpenStore(cfg)
	defer s.Close()

	opts := store.AddOptions{Key: addKey, Document: addDocument}
	if humanOutput {
		opts.Progress = stderrProgress
	}

	key, err := add(s, opts)
	if err != nil {
		exitWithErr(err)
	}

	resp := AddResponse{Status: "added", Key: key}
	if e, err := s.ResolveKey(key, false); err == nil {
		resp.Location = e.Location
	}
	if path, err := s.DocumentPath(key); err == nil {
		resp.Document = path
	}

	copyCitation(key)

	if humanOutput {
		outputHuman("Added %s\n", key)
		if resp.Document == "" {
			outputHuman("  (no document)\n")
		}
		return nil
	}
	return outputJSON(resp)
}

// copyCitation copies \cite{key} when --copy is set. Failure only warns.
func copyCitation(key string) {
	if !addCopy {
		return
	}
	if err := clipboard.CopyCitation(key); err != nil {
		fmt.Fprintf(os.Stderr, "warning: copying citation: %v\n", err)
	}
}

// readInput returns the content of the file in args, or stdin when args
// is empty or "-".
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(args[0])
	return string(data), err
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
