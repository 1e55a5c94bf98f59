package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Code-Monger/WordOrigin/pkg/wordorigin"
)

var (
	fixWrite      bool
	fixExtensions []string
)

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Replace words of Latin, Greek, or French origin",
	Long: `Replace every dictionary word with its suggestion. Without --write the
rewritten text is printed; with --write files are changed in place.

Examples:
  wordorigin fix README.md
  wordorigin fix docs --write`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		analyzer, err := wordorigin.LoadAnalyzer(cfg.Dictionary.Path)
		if err != nil {
			return err
		}

		files, err := collectFiles(args, fixExtensions)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		total := 0
		for _, path := range files {
			data, err := wordorigin.ReadFile(path, cfg.Scan.MaxDocumentBytes)
			if err != nil {
				return err
			}

			fixed, n, err := analyzer.FixAll(string(data))
			if err != nil {
				return fmt.Errorf("fixing %s: %w", path, err)
			}
			total += n

			if fixWrite {
				if n == 0 {
					continue
				}
				info, err := os.Stat(path)
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, []byte(fixed), info.Mode().Perm()); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				log.Printf("[Fix] %s: %d replacements", path, n)
				continue
			}

			if len(files) > 1 {
				fmt.Fprintf(out, "==> %s <==\n", path)
			}
			fmt.Fprint(out, fixed)
		}

		if fixWrite {
			fmt.Fprintf(out, "%d replacements in %d files\n", total, len(files))
		}
		return nil
	},
}

func init() {
	fixCmd.Flags().BoolVar(&fixWrite, "write", false, "rewrite files in place")
	fixCmd.Flags().StringSliceVar(&fixExtensions, "ext", defaultExtensions, "file extensions to fix inside directories")
}
