package control

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/pgops-dev/pgextgate/pkg/pgextgate"
)

// Entry is one key = value pair from a control file, in file order.
type Entry struct {
	Key   string
	Value string
	Line  int
}

// Parse parses control file content into an ordered sequence of entries.
//
// Grammar rules:
//   - Lines hold a single `key = value` pair; whitespace around both is trimmed
//   - # begins a comment to end of line, except inside a quoted value
//   - Blank lines are ignored
//   - Values may be bare tokens, or quoted with single or double quotes;
//     inside single quotes a doubled '' escapes a literal quote
//
// A line with no = separator, an empty key, or an unterminated quote is a
// structural error reported as ErrMalformedControlFile with the line number.
// Parse is decoupled from any file-location convention so the grammar can be
// exercised without a filesystem.
func Parse(content []byte) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(content))
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(stripComment(scanner.Text()))

		if line == "" {
			continue
		}

		key, rawValue, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected key = value: %w", lineNum, pgextgate.ErrMalformedControlFile)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key: %w", lineNum, pgextgate.ErrMalformedControlFile)
		}

		value, err := parseValue(strings.TrimSpace(rawValue))
		if err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", lineNum, err, pgextgate.ErrMalformedControlFile)
		}

		entries = append(entries, Entry{Key: key, Value: value, Line: lineNum})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}

	return entries, nil
}

// parseValue unquotes a trimmed raw value. Bare tokens pass through as-is.
func parseValue(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}

	quote := raw[0]
	if quote != '\'' && quote != '"' {
		return raw, nil
	}

	if len(raw) < 2 || raw[len(raw)-1] != quote {
		return "", fmt.Errorf("unterminated quoted value")
	}

	inner := raw[1 : len(raw)-1]
	if quote == '\'' {
		// A doubled '' inside single quotes is a literal quote. Any other
		// embedded quote means the closing quote we matched was premature.
		unescaped := strings.ReplaceAll(inner, "''", "\x00")
		if strings.Contains(unescaped, "'") {
			return "", fmt.Errorf("stray quote in value")
		}
		return strings.ReplaceAll(unescaped, "\x00", "'"), nil
	}
	if strings.Contains(inner, `"`) {
		return "", fmt.Errorf("stray quote in value")
	}
	return inner, nil
}

// stripComment removes a # comment, keeping # characters inside quotes.
func stripComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '#':
			return line[:i]
		}
	}
	return line
}
