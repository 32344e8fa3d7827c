// Package changelog keeps the append-only record of applied patches. The
// file names it mentions form the durability boundary for repack cleanup:
// a file listed here survives cross-session pruning even when the current
// session never touched it.
package changelog

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// entryRe matches `[Category] fileName: free text`. The free text may span
// lines inside a single entry.
var entryRe = regexp.MustCompile(`(?s)^\[([^\]]+)\] ([^:]+): (.*)$`)

// Entry is one changelog record. Raw preserves the exact persisted text so
// a load/save round trip is byte-stable.
type Entry struct {
	Category string
	FileName string
	Text     string
	Raw      string
}

// Changelog is the in-memory view of the changelog file.
type Changelog struct {
	path    string
	entries []Entry
}

// Load reads the changelog at path. A missing file yields an empty log.
func Load(path string) (*Changelog, error) {
	cl := &Changelog{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cl, nil
		}
		return nil, fmt.Errorf("read changelog: %w", err)
	}

	for _, raw := range strings.Split(strings.TrimRight(string(data), "\n"), "\n\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		e := Entry{Raw: raw}
		if m := entryRe.FindStringSubmatch(raw); m != nil {
			e.Category, e.FileName, e.Text = m[1], m[2], m[3]
		}
		cl.entries = append(cl.entries, e)
	}
	return cl, nil
}

// Append records a new entry.
func (cl *Changelog) Append(category, fileName, text string) {
	raw := fmt.Sprintf("[%s] %s: %s", category, fileName, text)
	cl.entries = append(cl.entries, Entry{
		Category: category,
		FileName: fileName,
		Text:     text,
		Raw:      raw,
	})
}

// Entries returns the entries in file order.
func (cl *Changelog) Entries() []Entry {
	return cl.entries
}

// FileNames returns the set of file names appearing in the changelog.
func (cl *Changelog) FileNames() map[string]struct{} {
	out := make(map[string]struct{}, len(cl.entries))
	for _, e := range cl.entries {
		if e.FileName != "" {
			out[e.FileName] = struct{}{}
		}
	}
	return out
}

// Save writes the entries back, joined by a blank line. Re-saving an
// unchanged log reproduces the original bytes.
func (cl *Changelog) Save() error {
	raws := make([]string, len(cl.entries))
	for i, e := range cl.entries {
		raws[i] = e.Raw
	}
	return os.WriteFile(cl.path, []byte(strings.Join(raws, "\n\n")), 0644)
}
