package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Code-Monger/WordOrigin/pkg/dictionary"
)

var dictCmd = &cobra.Command{
	Use:   "dict [word]",
	Short: "List the dictionary or look up one word",
	Long: `Without arguments, print every dictionary word with its replacement.
With a word, print its replacement, or the closest dictionary words when it
is not in the dictionary.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadConfig()
		if err != nil {
			return err
		}

		dict, err := dictionary.Load(mgr.Get().Dictionary.Path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, e := range dict.Entries() {
				fmt.Fprintf(tw, "%s\t%s\n", e.Word, e.Replacement)
			}
			return tw.Flush()
		}

		word := args[0]
		if replacement, ok := dict.Lookup(word); ok {
			fmt.Fprintf(out, "%s: %s\n", word, replacement)
			return nil
		}

		closest := dict.Closest(word, 5)
		if len(closest) == 0 {
			fmt.Fprintf(out, "No suggestion for %q\n", word)
			return nil
		}
		fmt.Fprintf(out, "No suggestion for %q. Closest dictionary words:\n", word)
		for _, w := range closest {
			replacement, _ := dict.Lookup(w)
			fmt.Fprintf(out, "  %s: %s\n", w, replacement)
		}
		return nil
	},
}
