// Package staging copies candidate asset files into the repack working
// directory. Staging is a coarse relevance filter: only files whose bytes
// contain one of the session's fingerprints are brought into the working
// set, so large asset trees are never copied wholesale.
package staging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sm0kydev/skingraft/internal/utils"
)

// Category identifies the asset class a staged file belongs to.
type Category int

const (
	GunSkins Category = iota
	HitEffect
	Lootbox
	Icon
)

func (c Category) String() string {
	switch c {
	case GunSkins:
		return "Gun Skins"
	case HitEffect:
		return "Hit Effect"
	case Lootbox:
		return "Lootbox"
	case Icon:
		return "Icon"
	}
	return "Unknown"
}

// ClaimMap records which category first claimed each repack file. It is an
// explicit per-session value: callers create a fresh one at session start
// and pass it through every staging call.
type ClaimMap map[string]Category

// Claim associates fileName with cat unless another category already owns
// it. Reports whether the claim was recorded.
func (m ClaimMap) Claim(fileName string, cat Category) bool {
	if _, ok := m[fileName]; ok {
		return false
	}
	m[fileName] = cat
	return true
}

// Files returns the claimed file names belonging to cat.
func (m ClaimMap) Files(cat Category) []string {
	var out []string
	for name, c := range m {
		if c == cat {
			out = append(out, name)
		}
	}
	return out
}

// Stage copies the relevant regular files directly under sourceDir into
// repackDir. A file already present in repackDir is claimed for cat (if
// unclaimed) but neither copied nor returned; otherwise it is copied only
// when its content contains at least one of the fingerprints. Per-file
// read and write failures are logged and skipped. Returns the names of the
// newly copied files.
func Stage(cat Category, sourceDir, repackDir string, fingerprints [][]byte, claims ClaimMap) ([]string, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", cat, err)
	}

	var copied []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()

		dest := filepath.Join(repackDir, name)
		if _, err := os.Stat(dest); err == nil {
			// Another category (or an earlier session file) already lives
			// here; first observer still claims it for logging purposes.
			claims.Claim(name, cat)
			continue
		}

		data, err := os.ReadFile(filepath.Join(sourceDir, name))
		if err != nil {
			utils.Log.Warnf("stage %s: %v", cat, err)
			continue
		}

		if !containsAny(data, fingerprints) {
			continue
		}

		if err := os.WriteFile(dest, data, 0644); err != nil {
			utils.Log.Warnf("stage %s: %v", cat, err)
			continue
		}
		claims.Claim(name, cat)
		copied = append(copied, name)
	}
	return copied, nil
}

func containsAny(data []byte, fingerprints [][]byte) bool {
	for _, fp := range fingerprints {
		if len(fp) > 0 && bytes.Contains(data, fp) {
			return true
		}
	}
	return false
}
