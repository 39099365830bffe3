package main

import (
	"github.com/spf13/cobra"
)

var rmWildcard bool

func init() {
	rmCmd.Flags().BoolVarP(&rmWildcard, "wildcard", "w", false, "Allow <key> to be a prefix")
	rootCmd.AddCommand(rmCmd)
}

var rmCmd = &cobra.Command{
	Use:   "rm <key>",
	Short: "Remove a reference",
	Long: `Remove a reference with its document and notes.

<key> must match exactly unless --wildcard is given.

Examples:
  refman rm Wasserman_2018
  refman rm --wildcard Wass`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	s := mustOpenStore(cfg)
	defer s.Close()

	e, err := s.Remove(args[0], rmWildcard)
	if err != nil {
		exitWithErr(err)
	}

	if humanOutput {
		outputHuman("Removed %s (%s)\n", e.Key, e.Location)
		return nil
	}
	return outputJSON(StatusResponse{Status: "removed", Key: e.Key, Path: s.Dir(e)})
}
