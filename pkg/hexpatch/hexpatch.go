package hexpatch

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint offsets are byte offsets into the decoded asset data. The
// original hex-text convention (1 byte = 2 hex characters) maps onto this
// as offset*2.
const (
	// PrefixBytes is the structural context kept in front of a fingerprint
	// when building a long hex (10 hex characters).
	PrefixBytes = 5

	// ZoneBytes is the window before a structural fingerprint occurrence in
	// which index-token substitution is allowed (100 hex characters).
	ZoneBytes = 50
)

// ParseFingerprint decodes a hex fingerprint as found in the gun catalog or
// skin index. Fingerprints must be non-empty, even-length hex.
func ParseFingerprint(s string) ([]byte, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, fmt.Errorf("empty fingerprint")
	}
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("fingerprint %q has odd hex length", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("fingerprint %q: %w", s, err)
	}
	return b, nil
}

// occurrences returns the start offsets of every non-overlapping match of
// pat in data, ascending.
func occurrences(data, pat []byte) []int {
	if len(pat) == 0 {
		return nil
	}
	var offs []int
	for from := 0; ; {
		i := bytes.Index(data[from:], pat)
		if i < 0 {
			return offs
		}
		offs = append(offs, from+i)
		from += i + len(pat)
	}
}

type span struct {
	start, end int // half-open
}

// splice replaces each span in data with repl. Spans must be sorted
// ascending by start; they are applied in descending start order so that
// an edit never shifts the offsets of the not-yet-applied edits before
// it. Spans may overlap (long-hex replacements extend before adjacent
// occurrences); the lower-offset edit wins the overlapped bytes, matching
// back-to-front in-place replacement.
func splice(data []byte, spans []span, repl []byte) []byte {
	out := append([]byte(nil), data...)
	for i := len(spans) - 1; i >= 0; i-- {
		sp := spans[i]
		next := make([]byte, 0, len(out)-(sp.end-sp.start)+len(repl))
		next = append(next, out[:sp.start]...)
		next = append(next, repl...)
		next = append(next, out[sp.end:]...)
		out = next
	}
	return out
}

// ExtractLongHex scans the staged files in order and, at the first
// occurrence of source, captures up to PrefixBytes of preceding context
// together with the fingerprint itself. The same long hex is applied to
// every staged file afterwards; prefixes are assumed uniform across
// gun-skin assets.
func ExtractLongHex(files [][]byte, source []byte) ([]byte, bool) {
	for _, data := range files {
		i := bytes.Index(data, source)
		if i < 0 {
			continue
		}
		start := i - PrefixBytes
		if start < 0 {
			start = 0
		}
		long := append([]byte(nil), data[start:i+len(source)]...)
		return long, true
	}
	return nil, false
}

// ApplyLongHex rewrites every qualifying occurrence of target in data with
// longHex, extending each replacement PrefixBytes before the match so the
// structural prefix travels with the fingerprint. Occurrences closer than
// PrefixBytes to the start of the file lack recoverable context and are
// skipped. Returns the rewritten data and the number of replacements.
func ApplyLongHex(data, target, longHex []byte) ([]byte, int) {
	var spans []span
	for _, off := range occurrences(data, target) {
		if off < PrefixBytes {
			continue
		}
		spans = append(spans, span{start: off - PrefixBytes, end: off + len(target)})
	}
	if len(spans) == 0 {
		return data, 0
	}
	return splice(data, spans, longHex), len(spans)
}

// Replace performs the direct global substitution used by the hit-effect
// and lootbox rules. Reports false when source is absent or the result is
// unchanged.
func Replace(data, source, target []byte) ([]byte, bool) {
	if !bytes.Contains(data, source) {
		return data, false
	}
	out := bytes.ReplaceAll(data, source, target)
	if bytes.Equal(out, data) {
		return data, false
	}
	return out, true
}

// ReplaceIcon applies the zone-scoped icon rule. Icon assets carry two
// independent fingerprints: the structural source/target pair and a
// secondary index token pair. The index token is only rewritten inside the
// ZoneBytes window before a structural occurrence, so identical tokens
// elsewhere in the file are left alone. The structural replace itself is
// global and runs after the index pass.
func ReplaceIcon(data, source, target, srcIndex, dstIndex []byte) ([]byte, bool) {
	structural := occurrences(data, source)
	if len(structural) == 0 {
		return data, false
	}

	var zones []span
	for _, off := range structural {
		start := off - ZoneBytes
		if start < 0 {
			start = 0
		}
		zones = append(zones, span{start: start, end: off})
	}

	inZone := func(off int) bool {
		for _, z := range zones {
			if off >= z.start && off < z.end {
				return true
			}
		}
		return false
	}

	out := data
	if len(srcIndex) > 0 {
		var spans []span
		for _, off := range occurrences(data, srcIndex) {
			if inZone(off) {
				spans = append(spans, span{start: off, end: off + len(srcIndex)})
			}
		}
		if len(spans) > 0 {
			out = splice(data, spans, dstIndex)
		}
	}

	out = bytes.ReplaceAll(out, source, target)
	if bytes.Equal(out, data) {
		return data, false
	}
	return out, true
}
