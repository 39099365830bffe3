package main

import (
	"github.com/matsen/refman/internal/pdf"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <key>",
	Short: "Open a reference's document in the configured viewer",
	Long: `Open a reference's document in the configured viewer.

Examples:
  refman open Wasserman_2018
  refman open Bron`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	s := mustOpenStore(cfg)
	defer s.Close()

	path, err := s.DocumentPath(args[0])
	if err != nil {
		exitWithErr(err)
	}

	if err := pdf.NewOpener(cfg.Reader).Open(path); err != nil {
		exitWithError(ExitError, "opening document: %v", err)
	}

	if humanOutput {
		outputHuman("Opened %s\n", path)
		return nil
	}
	return outputJSON(StatusResponse{Status: "opened", Path: path})
}
