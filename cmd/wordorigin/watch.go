package main

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Code-Monger/WordOrigin/pkg/config"
	"github.com/Code-Monger/WordOrigin/pkg/document"
	"github.com/Code-Monger/WordOrigin/pkg/watch"
	"github.com/Code-Monger/WordOrigin/pkg/wordorigin"
)

var watchExtensions []string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Rescan text files whenever they change",
	Long: `Scan every text file under a directory, then rescan each file when it
changes. Findings are printed after every scan. Changes to the config file
reload the dictionary and rescan every file.

Examples:
  wordorigin watch
  wordorigin watch docs --ext .md`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
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

		store := document.NewStore(analyzer, cfg.Scan.MaxDocumentBytes)
		store.OnChange(printer(cmd.OutOrStdout()))

		files, err := collectFiles([]string{root}, watchExtensions)
		if err != nil {
			return err
		}
		for _, path := range files {
			refresh(store, path)
		}
		log.Printf("[Watch] Watching %d files under %s", len(store.URIs()), root)

		mgr.OnChange(func(next *config.Config) {
			a, err := wordorigin.LoadAnalyzer(next.Dictionary.Path)
			if err != nil {
				log.Printf("[Watch] Keeping previous dictionary: %v", err)
				return
			}
			store.SetAnalyzer(a)
		})
		if mgr.ConfigFile() != "" {
			mgr.WatchConfig()
		}

		w, err := watch.New(root, func(changes []watch.Change) {
			for _, c := range changes {
				switch c.Op {
				case watch.OpRemove, watch.OpRename:
					store.Close(c.Path)
				default:
					refresh(store, c.Path)
				}
			}
		}, &watch.Options{
			Debounce:   cfg.Scan.Debounce,
			Extensions: watchExtensions,
		})
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()

		<-ctx.Done()
		log.Println("[Watch] Stopped")
		return nil
	},
}

func init() {
	watchCmd.Flags().StringSliceVar(&watchExtensions, "ext", defaultExtensions, "file extensions to watch")
}

// refresh reads path and hands its text to the store. Unreadable files are
// logged and dropped from the store.
func refresh(store *document.Store, path string) {
	// The store applies its own size cap, so read without one.
	data, err := wordorigin.ReadFile(path, 0)
	if err != nil {
		log.Printf("[Watch] %v", err)
		store.Close(path)
		return
	}

	text := string(data)
	if doc, ok := store.Get(path); ok {
		if doc.Text != text {
			store.Change(path, doc.Version+1, text)
		}
		return
	}
	store.Open(path, 1, text)
}

// printer writes each document's findings to out.
func printer(out io.Writer) document.Listener {
	var mu sync.Mutex
	return func(uri string, diagnostics []document.Diagnostic) {
		mu.Lock()
		defer mu.Unlock()
		if len(diagnostics) == 0 {
			fmt.Fprintf(out, "%s: clean\n", uri)
			return
		}
		fmt.Fprint(out, document.FormatReport(document.Report{Path: uri, Diagnostics: diagnostics}))
	}
}
