package ini

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseError reports a malformed line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ini: line %d: %s", e.Line, e.Msg)
}

// Load reads and parses the file at path.
func Load(path string, opts Options) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ini file: %w", err)
	}
	defer fh.Close()

	f, err := Parse(fh, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse reads an INI document from r.
//
// Keys that appear before the first section header belong to DefaultSection.
func Parse(r io.Reader, opts Options) (*File, error) {
	f, err := newFile(opts)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	current := DefaultSection
	lastKey := ""
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			lastKey = ""
			continue
		case trimmed[0] == '#' || trimmed[0] == ';':
			continue
		}

		// Indented lines continue the previous value.
		if lastKey != "" && (line[0] == ' ' || line[0] == '\t') {
			f.appendValue(current, lastKey, trimmed)
			continue
		}

		if trimmed[0] == '[' {
			if !strings.HasSuffix(trimmed, "]") {
				return nil, &ParseError{Line: lineNo, Msg: "unterminated section header"}
			}
			name := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
			if name == "" {
				return nil, &ParseError{Line: lineNo, Msg: "empty section name"}
			}
			current = name
			lastKey = ""
			f.section(current)
			continue
		}

		i := strings.IndexAny(trimmed, "=:")
		if i < 0 {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected key = value, got %q", trimmed)}
		}
		key := strings.TrimSpace(trimmed[:i])
		if key == "" {
			return nil, &ParseError{Line: lineNo, Msg: "empty key"}
		}
		f.setValue(current, key, strings.TrimSpace(trimmed[i+1:]))
		lastKey = key
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ini: %w", err)
	}
	return f, nil
}
