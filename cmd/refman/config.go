package main

import (
	"fmt"
	"strings"

	"github.com/matsen/refman/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Values are stored in $XDG_CONFIG_HOME/refman/config.yml. Environment
variables override the file.

Usage:
  refman config                                   # Show resolved config
  refman config editor                            # Get specific value
  refman config editor vim                        # Set value
  refman config mirror-url 'https://mirror.example/{doi}'

Keys:
  data-dir     Store directory (default ./refman_data)
  editor       Editor for 'refman edit' (default nano)
  user-agent   User-Agent sent upstream
  mirror-url   Document mirror template with {doi}; empty disables it
  timeout      Per-request timeout (e.g. 30s)
  rate-limit   Requests per second
  reader       Document viewer (system, skim, zathura, evince, okular)`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	// No args: show all config
	if len(args) == 0 {
		cfg := mustLoadConfig()
		if humanOutput {
			for _, kv := range configValues(cfg) {
				fmt.Printf("%-11s %s\n", kv[0]+":", kv[1])
			}
			return nil
		}
		values := make(map[string]string)
		for _, kv := range configValues(cfg) {
			values[kv[0]] = kv[1]
		}
		return outputJSON(values)
	}

	// Convert key format (data-dir -> data_dir)
	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		cfg := mustLoadConfig()
		for _, kv := range configValues(cfg) {
			if kv[0] == key {
				if humanOutput {
					fmt.Println(kv[1])
				} else {
					outputJSON(map[string]string{kv[0]: kv[1]})
				}
				return nil
			}
		}
		exitWithError(ExitError, "unknown configuration key: %s", args[0])
	}

	// Two args: set value
	global, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	updated := *global
	if err := updated.Set(key, args[1]); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := config.SaveGlobalConfig(&updated); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, args[1])
		return nil
	}
	return outputJSON(UpdateResponse{Status: "updated", Key: key, Value: args[1]})
}

// configValues lists the resolved configuration as key/value pairs.
func configValues(cfg *config.Config) [][2]string {
	return [][2]string{
		{"data_dir", cfg.DataDir},
		{"editor", cfg.Editor},
		{"user_agent", cfg.UserAgent},
		{"mirror_url", cfg.MirrorURL},
		{"timeout", cfg.Timeout.String()},
		{"rate_limit", fmt.Sprintf("%g", cfg.RateLimit)},
		{"reader", cfg.Reader},
	}
}

// normalizeKey converts dashed key names to the config file form.
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "-", "_")
}
