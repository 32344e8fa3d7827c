package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/sm0kydev/skingraft/internal/utils"
	"github.com/sm0kydev/skingraft/pkg/hexpatch"
)

// GunRecord is one entry of the gun catalog: a weapon (or weapon skin
// variant) and the hex fingerprint that identifies its data blob inside
// the game's asset files.
type GunRecord struct {
	ID   string
	Hex  string // lowercase hex fingerprint
	Name string
}

// Fingerprint decodes the record's hex fingerprint.
func (g GunRecord) Fingerprint() ([]byte, error) {
	return hexpatch.ParseFingerprint(g.Hex)
}

var levelRe = regexp.MustCompile(`\(Lv\. ([1-8])\)`)

// Level extracts the level marker from a gun name, e.g. "AKM (Lv. 3)".
func Level(name string) (int, bool) {
	m := levelRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	return int(m[1][0] - '0'), true
}

// BaseName strips the level marker and trailing whitespace from a name.
func BaseName(name string) string {
	return strings.TrimSpace(levelRe.ReplaceAllString(name, ""))
}

// Load reads a gun catalog. The native format is pipe-delimited text, one
// gun per line: `id | hex | name`. Files ending in .json are treated as a
// community JSON dump instead.
func Load(path string) ([]GunRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var records []GunRecord
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, " | ")
		if len(parts) < 3 {
			utils.Log.Warnf("catalog line %d: expected `id | hex | name`, got %q", i+1, line)
			continue
		}
		rec := GunRecord{
			ID:   strings.TrimSpace(parts[0]),
			Hex:  strings.ToLower(strings.TrimSpace(parts[1])),
			Name: strings.TrimSpace(strings.Join(parts[2:], " | ")),
		}
		if _, err := rec.Fingerprint(); err != nil {
			utils.Log.Warnf("catalog line %d: %v", i+1, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadJSON reads a catalog from a JSON dump: either a top-level array of
// {id, hex, name} objects or an object wrapping it under "guns".
func LoadJSON(path string) ([]GunRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	guns := gjson.GetBytes(data, "guns")
	if !guns.Exists() {
		guns = gjson.ParseBytes(data)
	}

	var records []GunRecord
	for _, item := range guns.Array() {
		rec := GunRecord{
			ID:   item.Get("id").String(),
			Hex:  strings.ToLower(item.Get("hex").String()),
			Name: item.Get("name").String(),
		}
		if rec.Name == "" {
			continue
		}
		if _, err := rec.Fingerprint(); err != nil {
			utils.Log.Warnf("catalog entry %q: %v", rec.Name, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Search returns every record whose name contains query, case-insensitive,
// in catalog order.
func Search(records []GunRecord, query string) []GunRecord {
	query = strings.ToLower(query)
	var out []GunRecord
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), query) {
			out = append(out, r)
		}
	}
	return out
}

// FindLevelVariant returns the first record sharing name's base name that
// carries the given level marker.
func FindLevelVariant(records []GunRecord, name string, level int) (GunRecord, bool) {
	base := BaseName(name)
	marker := fmt.Sprintf("(Lv. %d)", level)
	for _, r := range records {
		if BaseName(r.Name) == base && strings.Contains(r.Name, marker) {
			return r, true
		}
	}
	return GunRecord{}, false
}

// FindHitEffectVariant returns the first record sharing name's base name
// whose own name carries a "Hit effect" marker. Used to redirect the
// hit-effect target fingerprint when the chosen target is a Default skin.
func FindHitEffectVariant(records []GunRecord, name string) (GunRecord, bool) {
	base := baseWithoutMarkers(name)
	for _, r := range records {
		if !strings.Contains(strings.ToLower(r.Name), "hit effect") {
			continue
		}
		if strings.HasPrefix(baseWithoutMarkers(r.Name), base) {
			return r, true
		}
	}
	return GunRecord{}, false
}

// baseWithoutMarkers strips level, "Default" and "Hit effect" markers so
// variant names of the same weapon compare equal.
func baseWithoutMarkers(name string) string {
	s := BaseName(name)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "hit effect", "")
	s = strings.ReplaceAll(s, "default", "")
	return strings.Join(strings.Fields(s), " ")
}
