package main

import (
	"github.com/spf13/cobra"
)

func init() {
	for _, cmd := range []*cobra.Command{rekeyCmd, editCmd} {
		cmd.Flags().BoolVar(&addCopy, "copy", false, `Copy \cite{key} to the clipboard`)
		rootCmd.AddCommand(cmd)
	}
}

var rekeyCmd = &cobra.Command{
	Use:   "rekey <key> <new-key>",
	Short: "Change a reference's citation key",
	Long: `Change a reference's citation key.

<key> may be a unique prefix of the reference's key or directory name.
The document and notes move with the reference.

Examples:
  refman rekey Wasserman_2018 Wasserman_TDA_2018
  refman rekey Wass Wasserman_TDA_2018`,
	Args: cobra.ExactArgs(2),
	RunE: runRekey,
}

// RekeyResponse is the response for the rekey command.
type RekeyResponse struct {
	Status string `json:"status"`
	OldKey string `json:"old_key"`
	Key    string `json:"key"`
}

func runRekey(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	s := mustOpenStore(cfg)
	defer s.Close()

	old, err := s.ResolveKey(args[0], true)
	if err != nil {
		exitWithErr(err)
	}

	key, err := s.Rekey(commandContext(cmd), old.Location, args[1])
	if err != nil {
		exitWithErr(err)
	}
	copyCitation(key)

	if humanOutput {
		outputHuman("Rekeyed %s -> %s\n", old.Key, key)
		return nil
	}
	return outputJSON(RekeyResponse{Status: "rekeyed", OldKey: old.Key, Key: key})
}

var editCmd = &cobra.Command{
	Use:   "edit <key>",
	Short: "Edit a reference's BibTeX in $EDITOR",
	Long: `Edit a reference's BibTeX in the configured editor.

Saving changed text stores the reference under its new content hash, and
under a new key if the entry key was changed.

Examples:
  refman edit Wasserman_2018
  EDITOR=vim refman edit Wass`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	s := mustOpenStore(cfg)
	defer s.Close()

	res, err := s.EditMetadata(commandContext(cmd), args[0])
	if err != nil {
		exitWithErr(err)
	}
	if res.Changed {
		copyCitation(res.Key)
	}

	if humanOutput {
		if !res.Changed {
			outputHuman("No changes to %s\n", res.Key)
		} else {
			outputHuman("Updated %s\n", res.Key)
		}
		return nil
	}
	return outputJSON(res)
}
