package main

import (
	"github.com/matsen/refman/internal/author"
	"github.com/matsen/refman/internal/index"
	"github.com/spf13/cobra"
)

var (
	searchLimit int
	listAuthors []string
)

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", DefaultSearchLimit, "Maximum results")
	listCmd.Flags().StringArrayVarP(&listAuthors, "author", "a", nil, `Only references by this author ("Last", "First Last" or "Last, First"); repeat for AND`)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored references",
	Long: `List stored references in index order.

Examples:
  refman list
  refman list --author Wasserman
  refman list -a "Bronstein, Michael" -a Bruna`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	s := mustOpenStore(cfg)
	defer s.Close()

	var entries []index.Entry
	var err error
	if len(listAuthors) > 0 {
		entries, err = s.ByAuthor(author.ParseQueries(listAuthors))
	} else {
		entries, err = s.List()
	}
	if err != nil {
		exitWithErr(err)
	}
	return outputEntries(entries)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search keys, titles, authors and years",
	Long: `Search keys, titles, authors and years.

Examples:
  refman search topological
  refman search "deep learning" -n 5`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	s := mustOpenStore(cfg)
	defer s.Close()

	entries, err := s.Search(args[0], searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}
	return outputEntries(entries)
}

func outputEntries(entries []index.Entry) error {
	if humanOutput {
		if len(entries) == 0 {
			outputHuman("No references\n")
			return nil
		}
		printEntriesHuman(entries)
		return nil
	}
	if entries == nil {
		entries = []index.Entry{}
	}
	return outputJSON(entries)
}
