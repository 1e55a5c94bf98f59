package wordorigin

import (
	"fmt"
	"math"
	"os"
	"unicode/utf8"

	"github.com/Code-Monger/WordOrigin/pkg/document"
)

// input is the document a tool call works on.
type input struct {
	text string
	// path is empty when the text was passed inline.
	path string
}

func (in input) name() string {
	if in.path == "" {
		return "<text>"
	}
	return in.path
}

// readInput takes the document from the "text" argument or from the file
// named by "path", resolved against "session_id" when one is given.
func (s *Service) readInput(arguments map[string]interface{}) (input, error) {
	text, hasText := arguments["text"].(string)
	path, hasPath := arguments["path"].(string)

	switch {
	case hasText && hasPath:
		return input{}, fmt.Errorf("pass either text or path, not both")
	case hasText:
		if err := document.CheckSize(text, s.MaxDocumentBytes()); err != nil {
			return input{}, err
		}
		return input{text: text}, nil
	case hasPath && path != "":
		sessionID, _ := arguments["session_id"].(string)
		resolved, err := s.sessions.ResolvePath(path, sessionID)
		if err != nil {
			return input{}, err
		}
		data, err := ReadFile(resolved, s.MaxDocumentBytes())
		if err != nil {
			return input{}, err
		}
		return input{text: string(data), path: resolved}, nil
	default:
		return input{}, fmt.Errorf("text or path must be a string")
	}
}

// ReadFile reads a UTF-8 text file no larger than maxBytes. A cap of zero
// or less disables the size check.
func ReadFile(path string, maxBytes int) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("reading %s: is a directory", path)
	}
	if maxBytes > 0 && info.Size() > int64(maxBytes) {
		return nil, fmt.Errorf("%s: %w: %d bytes exceeds the %d byte limit", path, document.ErrDocumentTooLarge, info.Size(), maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("reading %s: not UTF-8 text", path)
	}
	return data, nil
}

// readPosition takes the zero-based "line" and "character" arguments.
func readPosition(arguments map[string]interface{}) (document.Position, error) {
	line, err := readIndex(arguments, "line")
	if err != nil {
		return document.Position{}, err
	}
	character, err := readIndex(arguments, "character")
	if err != nil {
		return document.Position{}, err
	}
	return document.Position{Line: line, Character: character}, nil
}

func readIndex(arguments map[string]interface{}, name string) (int, error) {
	value, ok := arguments[name].(float64)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	if value < 0 || value != math.Trunc(value) || value > math.MaxInt32 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return int(value), nil
}

// readFormat returns "text" unless "format" asks for "json".
func readFormat(arguments map[string]interface{}) (string, error) {
	format, ok := arguments["format"].(string)
	if !ok || format == "" {
		return "text", nil
	}
	if format != "text" && format != "json" {
		return "", fmt.Errorf("unsupported format: %s", format)
	}
	return format, nil
}
