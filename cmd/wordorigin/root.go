package main

import (
	"github.com/spf13/cobra"

	"github.com/Code-Monger/WordOrigin/pkg/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "wordorigin",
	Short: "Find words of Latin, Greek, or French origin and suggest plain English",
	Long: `WordOrigin scans text for words of Latin, Greek, or French origin and
suggests Anglo-Saxon replacements from a dictionary.

It runs as:
  - an MCP server exposing scan, hover, quick fix and fix tools
  - a linter for files and directories (check, fix)
  - a watcher that rescans files as they change`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./wordorigin.yaml or ~/.wordorigin/wordorigin.yaml)",
	)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(dictCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Manager, error) {
	return config.NewManager(cfgFile)
}
