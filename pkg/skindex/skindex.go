// Package skindex resolves gun names to the secondary "index hex" token
// carried by icon assets. The index file is maintained by hand, so lookup
// is deliberately fuzzy: names are normalized and matched by containment
// rather than exact equality.
package skindex

import (
	"fmt"
	"os"
	"strings"
)

type entry struct {
	name string // lower-cased raw name
	hex  string
}

// Index is an ordered list of name → index-hex entries. Order matters:
// resolution returns the first containment match, and duplicate names are
// kept so earlier entries win.
type Index struct {
	entries []entry
}

// Normalize lower-cases a gun name, smashes the punctuation that varies
// between the catalog and the index file into spaces, and collapses runs
// of whitespace. Idempotent.
func Normalize(name string) string {
	s := strings.ToLower(name)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '-', '(', ')', ',', '.', '\'':
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Parse reads a skin index file. The format is a sequence of `#`-headed
// category sections containing `Name - indexHex` lines; headers are
// informational only and a stray entry before any header is still
// accepted. The name is everything before the last " - " on the line, so
// names containing the separator survive.
func Parse(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read skin index: %w", err)
	}

	idx := &Index{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sep := strings.LastIndex(line, " - ")
		if sep < 0 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(line[:sep]))
		hex := strings.ToLower(strings.TrimSpace(line[sep+3:]))
		if name == "" || hex == "" {
			continue
		}
		idx.entries = append(idx.entries, entry{name: name, hex: hex})
	}
	return idx, nil
}

// Len reports the number of entries.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// Resolve returns the index hex for a gun name. The first entry (in file
// order) whose normalized name contains, or is contained in, the
// normalized query wins. A miss is a normal outcome, not an error.
func (idx *Index) Resolve(gunName string) (string, bool) {
	if idx == nil {
		return "", false
	}
	query := Normalize(gunName)
	if query == "" {
		return "", false
	}
	for _, e := range idx.entries {
		key := Normalize(e.name)
		if strings.Contains(query, key) || strings.Contains(key, query) {
			return e.hex, true
		}
	}
	return "", false
}
