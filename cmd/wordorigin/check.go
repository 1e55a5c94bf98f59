package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Code-Monger/WordOrigin/pkg/document"
	"github.com/Code-Monger/WordOrigin/pkg/scanner"
	"github.com/Code-Monger/WordOrigin/pkg/wordorigin"
)

var (
	checkFormat     string
	checkFail       bool
	checkExtensions []string
)

// errFindings makes check exit non-zero under --fail.
var errFindings = errors.New("words of Latin, Greek, or French origin found")

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Report words of Latin, Greek, or French origin in files",
	Long: `Scan files and directories and print one line per finding in
file:line:column form. Directories are walked for text files.

Examples:
  wordorigin check README.md
  wordorigin check docs --format json
  wordorigin check . --fail        # Exit non-zero when anything is found`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if checkFormat != "text" && checkFormat != "json" {
			return fmt.Errorf("unsupported format: %s", checkFormat)
		}

		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		analyzer, err := wordorigin.LoadAnalyzer(cfg.Dictionary.Path)
		if err != nil {
			return err
		}

		files, err := collectFiles(args, checkExtensions)
		if err != nil {
			return err
		}

		reports, err := checkFiles(cmd, analyzer, files, cfg.Scan.Workers, cfg.Scan.MaxDocumentBytes)
		if err != nil {
			return err
		}

		total := 0
		for _, r := range reports {
			total += len(r.Diagnostics)
		}

		out := cmd.OutOrStdout()
		if checkFormat == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(reports); err != nil {
				return err
			}
		} else {
			for _, r := range reports {
				fmt.Fprint(out, document.FormatReport(r))
			}
			fmt.Fprintf(out, "%d findings in %d files\n", total, len(files))
		}

		if checkFail && total > 0 {
			return errFindings
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "output format: text or json")
	checkCmd.Flags().BoolVar(&checkFail, "fail", false, "exit non-zero when findings exist")
	checkCmd.Flags().StringSliceVar(&checkExtensions, "ext", defaultExtensions, "file extensions to scan inside directories")
}

// checkFiles scans files with at most workers in flight and returns one
// report per file in input order. Files over the size cap get a single
// Information diagnostic.
func checkFiles(cmd *cobra.Command, analyzer *document.Analyzer, files []string, workers, maxBytes int) ([]document.Report, error) {
	reports := make([]document.Report, len(files))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(workers)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			report := document.Report{Path: path, Diagnostics: []document.Diagnostic{}}
			data, err := wordorigin.ReadFile(path, maxBytes)
			switch {
			case errors.Is(err, document.ErrDocumentTooLarge):
				log.Printf("[Check] Skipping %s: %v", path, err)
				report.Diagnostics = []document.Diagnostic{{
					Severity: document.SeverityInformation,
					Source:   scanner.Source,
					Message:  err.Error(),
				}}
			case err != nil:
				return err
			default:
				if diags := analyzer.Diagnostics(string(data)); diags != nil {
					report.Diagnostics = diags
				}
			}

			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
