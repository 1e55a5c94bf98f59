package document

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/Code-Monger/WordOrigin/pkg/scanner"
)

// ErrDocumentTooLarge is returned for text above the configured size cap.
var ErrDocumentTooLarge = errors.New("document too large")

// CheckSize returns ErrDocumentTooLarge when text exceeds maxBytes. A cap of
// zero or less disables the check.
func CheckSize(text string, maxBytes int) error {
	if maxBytes > 0 && len(text) > maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrDocumentTooLarge, len(text), maxBytes)
	}
	return nil
}

// Document is one open text snapshot with its latest diagnostics.
type Document struct {
	URI         string       `json:"uri"`
	Version     int          `json:"version"`
	Text        string       `json:"text"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Listener is called after a document's diagnostics are recomputed.
// Listeners run one at a time, in the order the updates were made, and must
// not call Open, Change or SetAnalyzer.
type Listener func(uri string, diagnostics []Diagnostic)

// Store tracks open documents and rescans them on every change.
type Store struct {
	// notifyMu is held from an update through its notifications so that
	// listeners never see an older result after a newer one.
	notifyMu sync.Mutex

	mu        sync.RWMutex
	analyzer  *Analyzer
	maxBytes  int
	docs      map[string]*Document
	listeners []Listener
}

// NewStore creates a store that analyzes documents with a. Documents larger
// than maxBytes are not scanned.
func NewStore(a *Analyzer, maxBytes int) *Store {
	return &Store{
		analyzer: a,
		maxBytes: maxBytes,
		docs:     make(map[string]*Document),
	}
}

// OnChange registers l to receive diagnostics after every analysis.
func (s *Store) OnChange(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Open adds or replaces a document and analyzes it.
func (s *Store) Open(uri string, version int, text string) Document {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	doc := &Document{URI: uri, Version: version, Text: text}
	doc.Diagnostics = s.analyze(text)
	s.docs[uri] = doc
	snapshot, listeners := *doc, s.listeners
	s.mu.Unlock()

	notify(listeners, snapshot)
	return snapshot
}

// Change replaces the full text of an open document. Changing a document that
// is not open does nothing and reports false.
func (s *Store) Change(uri string, version int, text string) (Document, bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		s.mu.Unlock()
		return Document{}, false
	}
	doc.Version = version
	doc.Text = text
	doc.Diagnostics = s.analyze(text)
	snapshot, listeners := *doc, s.listeners
	s.mu.Unlock()

	notify(listeners, snapshot)
	return snapshot, true
}

// Close forgets a document. Closing an unknown URI is a no-op.
func (s *Store) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// Get returns a copy of an open document.
func (s *Store) Get(uri string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	if !ok {
		return Document{}, false
	}
	return *doc, true
}

// URIs returns the open documents in sorted order.
func (s *Store) URIs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedURIs()
}

// sortedURIs must be called with s.mu held.
func (s *Store) sortedURIs() []string {
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// SetAnalyzer swaps the analyzer and reanalyzes every open document.
// Listeners hear about the documents in URI order.
func (s *Store) SetAnalyzer(a *Analyzer) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.analyzer = a
	snapshots := make([]Document, 0, len(s.docs))
	for _, uri := range s.sortedURIs() {
		doc := s.docs[uri]
		doc.Diagnostics = s.analyze(doc.Text)
		snapshots = append(snapshots, *doc)
	}
	listeners := s.listeners
	s.mu.Unlock()

	log.Printf("[Document] Reanalyzed %d open documents", len(snapshots))
	for _, snapshot := range snapshots {
		notify(listeners, snapshot)
	}
}

// analyze must be called with s.mu held.
func (s *Store) analyze(text string) []Diagnostic {
	if err := CheckSize(text, s.maxBytes); err != nil {
		return []Diagnostic{{
			Range:    Range{},
			Severity: SeverityInformation,
			Source:   scanner.Source,
			Message:  err.Error(),
		}}
	}
	return s.analyzer.Diagnostics(text)
}

func notify(listeners []Listener, doc Document) {
	for _, l := range listeners {
		l(doc.URI, doc.Diagnostics)
	}
}
