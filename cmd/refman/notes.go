package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var notesFile string

func init() {
	notesCmd.Flags().StringVar(&notesFile, "file", "", `Read notes from a file ("-" for stdin)`)
	rootCmd.AddCommand(notesCmd)
}

var notesCmd = &cobra.Command{
	Use:   "notes <key> [text]",
	Short: "Show or replace a reference's notes",
	Long: `Show or replace a reference's notes.

With only <key>, prints the notes. With text or --file, replaces them;
empty text deletes them. Notes never change the reference's location.

Examples:
  refman notes Wasserman_2018
  refman notes Wass "* Read section 4"
  refman notes Wass --file notes.org`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runNotes,
}

// NotesResponse is the response for the notes command.
type NotesResponse struct {
	Key   string `json:"key"`
	Notes string `json:"notes"`
}

func runNotes(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	s := mustOpenStore(cfg)
	defer s.Close()

	if len(args) == 1 && notesFile == "" {
		e, err := s.ResolveKey(args[0], true)
		if err != nil {
			exitWithErr(err)
		}
		notes, err := s.Notes(e.Location)
		if err != nil {
			exitWithErr(err)
		}
		if humanOutput {
			outputHuman("%s", notes)
			if notes != "" && !strings.HasSuffix(notes, "\n") {
				outputHuman("\n")
			}
			return nil
		}
		return outputJSON(NotesResponse{Key: e.Key, Notes: notes})
	}

	var text string
	if notesFile != "" {
		var err error
		text, err = readInput([]string{notesFile})
		if err != nil {
			exitWithError(ExitError, "reading notes: %v", err)
		}
	} else {
		text = args[1]
	}

	e, err := s.SetNotes(args[0], text)
	if err != nil {
		exitWithErr(err)
	}

	if humanOutput {
		outputHuman("Updated notes for %s\n", e.Key)
		return nil
	}
	return outputJSON(StatusResponse{Status: "updated", Key: e.Key})
}
