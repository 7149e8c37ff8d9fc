// Package props parses flat Java-style property files into string maps.
package props

import (
	"bufio"
	"fmt"
	"strings"
)

// Map holds the parsed content of one property file at one revision.
//
// A nil Map means the file is absent at that revision; a non-nil empty Map
// means the file exists but defines no keys. The two states are never
// interchangeable: absence drives whole-file add/removal reporting.
type Map map[string]string

// Absent reports whether the map represents a file missing at a revision.
func (m Map) Absent() bool {
	return m == nil
}

// commentPrefixes are the line prefixes treated as comments.
var commentPrefixes = []string{"#", "!"}

// Parse decodes raw property-file text into a Map.
//
// Supported syntax is the flat subset used by deployment config files:
// one `key=value` or `key: value` per line, surrounding whitespace trimmed,
// blank lines and `#`/`!` comment lines skipped. Lines without a separator
// are recorded as a key with an empty value. Later duplicates win.
func Parse(text string) (Map, error) {
	result := Map{}

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || isComment(line) {
			continue
		}

		key, value := splitLine(line)
		if key == "" {
			continue
		}

		result[key] = value
	}

	scanErr := scanner.Err()
	if scanErr != nil {
		return nil, fmt.Errorf("scan properties: %w", scanErr)
	}

	return result, nil
}

// isComment reports whether the trimmed line is a comment.
func isComment(line string) bool {
	for _, prefix := range commentPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}

	return false
}

// splitLine splits a property line on the first `=` or `:` separator.
func splitLine(line string) (string, string) {
	sepIdx := strings.IndexAny(line, "=:")
	if sepIdx < 0 {
		return line, ""
	}

	key := strings.TrimSpace(line[:sepIdx])
	value := strings.TrimSpace(line[sepIdx+1:])

	return key, value
}
