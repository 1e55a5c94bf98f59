package dictionary

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/replacements.json
var embeddedFS embed.FS

const embeddedPath = "data/replacements.json"

// Format identifies a dictionary file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", &ConfigError{Source: path, Reason: fmt.Sprintf("unsupported file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))}
	}
}

// Default returns the dictionary shipped with the binary.
func Default() (*Dictionary, error) {
	data, err := embeddedFS.ReadFile(embeddedPath)
	if err != nil {
		return nil, fmt.Errorf("reading embedded dictionary: %w", err)
	}
	return parse("embedded", data, FormatJSON)
}

// LoadFile reads a JSON or YAML dictionary from disk.
func LoadFile(path string) (*Dictionary, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dictionary %s: %w", path, err)
	}

	d, err := parse(path, data, format)
	if err != nil {
		return nil, err
	}
	if d.Len() == 0 {
		log.Printf("[Dictionary] Warning: %s has no entries, scans will report nothing", path)
	}
	log.Printf("[Dictionary] Loaded %d entries from %s", d.Len(), path)
	return d, nil
}

// Load returns the dictionary at path, or the embedded one when path is empty.
func Load(path string) (*Dictionary, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Parse decodes a flat word → replacement object.
func Parse(data []byte, format Format) (*Dictionary, error) {
	return parse("", data, format)
}

func parse(source string, data []byte, format Format) (*Dictionary, error) {
	var (
		m   map[string]string
		err error
	)
	switch format {
	case FormatJSON:
		m, err = decodeJSON(source, data)
	case FormatYAML:
		m, err = decodeYAML(source, data)
	default:
		return nil, &ConfigError{Source: source, Reason: fmt.Sprintf("unknown format %q", format)}
	}
	if err != nil {
		return nil, err
	}
	return build(source, m)
}

// decodeJSON reads a flat object of strings token by token so that
// duplicate keys are reported instead of silently overwritten.
func decodeJSON(source string, data []byte) (map[string]string, error) {
	invalid := func(err error) error {
		return &ConfigError{Source: source, Reason: fmt.Sprintf("expected a JSON object of strings: %v", err)}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, invalid(err)
	}
	if tok == nil {
		return nil, &ConfigError{Source: source, Reason: "expected a JSON object, got null"}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &ConfigError{Source: source, Reason: fmt.Sprintf("expected a JSON object, got %v", tok)}
	}

	m := make(map[string]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, invalid(err)
		}
		k, ok := tok.(string)
		if !ok {
			return nil, invalid(fmt.Errorf("unexpected %v", tok))
		}

		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, invalid(err)
		}
		if _, dup := m[k]; dup {
			return nil, &ConfigError{Source: source, Key: k, Reason: "duplicate key"}
		}
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return nil, &ConfigError{Source: source, Key: k, Reason: "replacement is null"}
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, &ConfigError{Source: source, Key: k, Reason: fmt.Sprintf("replacement must be a string, got %s", v)}
		}
		m[k] = s
	}

	// Closing brace
	if _, err := dec.Token(); err != nil {
		return nil, invalid(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &ConfigError{Source: source, Reason: "unexpected data after the JSON object"}
	}
	return m, nil
}

func decodeYAML(source string, data []byte) (map[string]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Source: source, Reason: fmt.Sprintf("invalid YAML: %v", err)}
	}

	// Empty document
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return map[string]string{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ConfigError{Source: source, Reason: fmt.Sprintf("line %d: expected a mapping of words to replacements", root.Line)}
	}

	m := make(map[string]string, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.ShortTag() != "!!str" {
			return nil, &ConfigError{Source: source, Key: key.Value, Reason: fmt.Sprintf("line %d: key must be a string", key.Line)}
		}
		if value.Kind != yaml.ScalarNode || value.ShortTag() != "!!str" {
			return nil, &ConfigError{Source: source, Key: key.Value, Reason: fmt.Sprintf("line %d: replacement must be a string", value.Line)}
		}
		if _, dup := m[key.Value]; dup {
			return nil, &ConfigError{Source: source, Key: key.Value, Reason: fmt.Sprintf("line %d: duplicate key", key.Line)}
		}
		m[key.Value] = value.Value
	}
	return m, nil
}
