package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Code-Monger/WordOrigin/pkg/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "wordorigin.yaml"
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		out := cmd.OutOrStdout()
		if file := mgr.ConfigFile(); file != "" {
			fmt.Fprintf(out, "# from %s\n", file)
		}
		fmt.Fprintf(out, "server.port: %d\n", cfg.Server.Port)
		fmt.Fprintf(out, "server.base_url: %s\n", cfg.ResolvedBaseURL())
		fmt.Fprintf(out, "server.name: %s\n", cfg.Server.Name)
		fmt.Fprintf(out, "server.version: %s\n", cfg.Server.Version)
		fmt.Fprintf(out, "data_dir: %s\n", cfg.DataDir)
		dictPath := cfg.Dictionary.Path
		if dictPath == "" {
			dictPath = "(built-in)"
		}
		fmt.Fprintf(out, "dictionary.path: %s\n", dictPath)
		fmt.Fprintf(out, "scan.max_document_bytes: %d\n", cfg.Scan.MaxDocumentBytes)
		fmt.Fprintf(out, "scan.workers: %d\n", cfg.Scan.Workers)
		fmt.Fprintf(out, "scan.debounce: %s\n", cfg.Scan.Debounce)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
