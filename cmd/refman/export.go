package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(verifyCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Regenerate ref.bib from the store",
	Long: `Regenerate ref.bib from the store.

Every change already rewrites ref.bib; use this after editing record
directories by hand.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	s := mustOpenStore(cfg)
	defer s.Close()

	if err := s.Export(); err != nil {
		exitWithErr(err)
	}

	if humanOutput {
		outputHuman("Wrote %s\n", s.BibliographyPath())
		return nil
	}
	return outputJSON(StatusResponse{Status: "exported", Path: s.BibliographyPath()})
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the store for inconsistencies",
	Long: `Check the store for inconsistencies.

Reports references missing from ref.bib, duplicate keys in ref.bib,
documents that are not PDFs, and directories that are not references.
References without a document are listed but are not an error.

Exits with code 3 when a problem is found.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	s := mustOpenStore(cfg)
	defer s.Close()

	report, err := s.Verify()
	if err != nil {
		exitWithErr(err)
	}

	if humanOutput {
		outputHuman("%d references\n", report.Records)
		printProblems("without document", report.MissingDocuments)
		printProblems("documents that are not PDFs", report.InvalidDocuments)
		printProblems("missing from ref.bib", report.MissingFromExport)
		printProblems("duplicate keys in ref.bib", report.DuplicateKeys)
		printProblems("stray directories", report.Orphans)
		if report.OK() {
			outputHuman("OK\n")
		}
	} else {
		outputJSON(report)
	}

	if !report.OK() {
		s.Close()
		exitWithError(ExitDataError, "store is inconsistent")
	}
	return nil
}

func printProblems(label string, items []string) {
	if len(items) == 0 {
		return
	}
	outputHuman("%d %s:\n", len(items), label)
	for _, item := range items {
		outputHuman("  %s\n", item)
	}
}
