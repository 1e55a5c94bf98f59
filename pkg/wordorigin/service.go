// Package wordorigin exposes the scanner as MCP tools and resources.
package wordorigin

import (
	"log"
	"sync/atomic"

	"github.com/Code-Monger/WordOrigin/pkg/dictionary"
	"github.com/Code-Monger/WordOrigin/pkg/document"
	"github.com/Code-Monger/WordOrigin/pkg/workspace"
)

// Service holds the state shared by the WordOrigin tools. The analyzer is
// swapped as a whole on reload, so a call that has already loaded it keeps
// using the same dictionary until it returns.
type Service struct {
	analyzer atomic.Pointer[document.Analyzer]
	maxBytes atomic.Int64
	sessions *workspace.SessionStore
}

// NewService creates a service. sessions may be nil, in which case paths are
// used as given.
func NewService(a *document.Analyzer, sessions *workspace.SessionStore, maxDocumentBytes int) *Service {
	if sessions == nil {
		sessions = workspace.NewSessionStore()
	}
	s := &Service{sessions: sessions}
	s.analyzer.Store(a)
	s.maxBytes.Store(int64(maxDocumentBytes))
	return s
}

// Analyzer returns the active analyzer.
func (s *Service) Analyzer() *document.Analyzer {
	return s.analyzer.Load()
}

// SetAnalyzer replaces the active analyzer.
func (s *Service) SetAnalyzer(a *document.Analyzer) {
	s.analyzer.Store(a)
	log.Printf("[WordOrigin] Active dictionary has %d entries", a.Dictionary().Len())
}

// SetMaxDocumentBytes changes the size cap for new calls.
func (s *Service) SetMaxDocumentBytes(n int) {
	s.maxBytes.Store(int64(n))
}

// MaxDocumentBytes returns the current size cap.
func (s *Service) MaxDocumentBytes() int {
	return int(s.maxBytes.Load())
}

// Reload loads the dictionary at path (the built-in one when path is empty)
// and makes it active. On error the previous dictionary stays active.
func (s *Service) Reload(path string) error {
	a, err := LoadAnalyzer(path)
	if err != nil {
		log.Printf("[WordOrigin] Keeping previous dictionary: %v", err)
		return err
	}
	s.SetAnalyzer(a)
	return nil
}

// DictionarySize returns the number of entries in the active dictionary.
func (s *Service) DictionarySize() int {
	return s.Analyzer().Dictionary().Len()
}

// LoadAnalyzer loads a dictionary and compiles an analyzer for it.
func LoadAnalyzer(path string) (*document.Analyzer, error) {
	dict, err := dictionary.Load(path)
	if err != nil {
		return nil, err
	}
	return document.NewAnalyzerForDictionary(dict)
}
