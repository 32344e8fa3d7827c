package hexpatch

import (
	"bytes"
	"testing"
)

func mustFingerprint(t *testing.T, s string) []byte {
	t.Helper()
	b, err := ParseFingerprint(s)
	if err != nil {
		t.Fatalf("ParseFingerprint(%q): %v", s, err)
	}
	return b
}

func TestParseFingerprint(t *testing.T) {
	b := mustFingerprint(t, "AaBb")
	if !bytes.Equal(b, []byte{0xaa, 0xbb}) {
		t.Fatalf("unexpected decode: %x", b)
	}

	for _, bad := range []string{"", "abc", "zz"} {
		if _, err := ParseFingerprint(bad); err == nil {
			t.Fatalf("ParseFingerprint(%q) should fail", bad)
		}
	}
}

func TestReplaceDirect(t *testing.T) {
	src := mustFingerprint(t, "aabb")
	dst := mustFingerprint(t, "ccdd")

	data := []byte{0x01, 0x02, 0xaa, 0xbb, 0x03, 0x04}
	out, changed := Replace(data, src, dst)
	if !changed {
		t.Fatal("expected a change")
	}
	want := []byte{0x01, 0x02, 0xcc, 0xdd, 0x03, 0x04}
	if !bytes.Equal(out, want) {
		t.Fatalf("got %x, want %x", out, want)
	}
}

func TestReplaceAbsentSourceIsNoop(t *testing.T) {
	src := mustFingerprint(t, "aabb")
	dst := mustFingerprint(t, "ccdd")

	data := []byte{0x01, 0x02, 0x03}
	out, changed := Replace(data, src, dst)
	if changed {
		t.Fatal("expected no change")
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("output differs from input: %x", out)
	}
}

func TestExtractLongHex(t *testing.T) {
	src := mustFingerprint(t, "aabb")

	// 7 bytes of junk before the fingerprint; only the last 5 are context.
	data := []byte{0x10, 0x11, 0x01, 0x02, 0x03, 0x04, 0x05, 0xaa, 0xbb, 0xff}
	long, ok := ExtractLongHex([][]byte{{0x00}, data}, src)
	if !ok {
		t.Fatal("fingerprint not found")
	}
	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0xaa, 0xbb}
	if !bytes.Equal(long, want) {
		t.Fatalf("got %x, want %x", long, want)
	}
}

func TestExtractLongHexShortPrefix(t *testing.T) {
	src := mustFingerprint(t, "aabb")

	// Occurrence 2 bytes in: keep what little context exists.
	data := []byte{0x01, 0x02, 0xaa, 0xbb}
	long, ok := ExtractLongHex([][]byte{data}, src)
	if !ok {
		t.Fatal("fingerprint not found")
	}
	want := []byte{0x01, 0x02, 0xaa, 0xbb}
	if !bytes.Equal(long, want) {
		t.Fatalf("got %x, want %x", long, want)
	}
}

func TestExtractLongHexMissing(t *testing.T) {
	src := mustFingerprint(t, "aabb")
	if _, ok := ExtractLongHex([][]byte{{0x01, 0x02}}, src); ok {
		t.Fatal("expected not found")
	}
}

func TestApplyLongHexBoundary(t *testing.T) {
	target := mustFingerprint(t, "ccdd")
	long := []byte{0x09, 0x09, 0x09, 0x09, 0x09, 0xaa, 0xbb}

	// The only occurrence sits at byte offset 2 (hex position 4): too close
	// to the start, so no qualifying occurrence exists.
	data := []byte{0x01, 0x02, 0xcc, 0xdd, 0x03}
	out, n := ApplyLongHex(data, target, long)
	if n != 0 {
		t.Fatalf("expected 0 replacements, got %d", n)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("data was modified: %x", out)
	}
}

func TestApplyLongHexDescendingOrder(t *testing.T) {
	target := mustFingerprint(t, "ccdd")
	long := []byte{0x91, 0x92, 0x93, 0x94, 0x95, 0xaa, 0xbb}

	// Two adjacent occurrences at offsets 5 and 7. The replacement span of
	// the second overlaps the first occurrence's bytes; descending-order
	// application must still land both on the right offsets.
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0xcc, 0xdd, 0xcc, 0xdd, 0x06}
	out, n := ApplyLongHex(data, target, long)
	if n != 2 {
		t.Fatalf("expected 2 replacements, got %d", n)
	}

	// Descending application first rewrites [2,9) for the occurrence at 7,
	// then [0,7) for the occurrence at 5, so the surviving tail is the last
	// two bytes of the second long hex plus the trailing byte.
	want := append([]byte(nil), long...)
	want = append(want, 0xaa, 0xbb, 0x06)
	if !bytes.Equal(out, want) {
		t.Fatalf("got %x, want %x", out, want)
	}
}

func TestApplyLongHexSingle(t *testing.T) {
	target := mustFingerprint(t, "ccdd")
	long := []byte{0x91, 0x92, 0x93, 0x94, 0x95, 0xaa, 0xbb}

	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0xcc, 0xdd, 0x07}
	out, n := ApplyLongHex(data, target, long)
	if n != 1 {
		t.Fatalf("expected 1 replacement, got %d", n)
	}
	want := []byte{0x01, 0x91, 0x92, 0x93, 0x94, 0x95, 0xaa, 0xbb, 0x07}
	if !bytes.Equal(out, want) {
		t.Fatalf("got %x, want %x", out, want)
	}
}

func TestReplaceIconZoneScoping(t *testing.T) {
	src := mustFingerprint(t, "aabb")
	dst := mustFingerprint(t, "ccdd")
	srcIdx := mustFingerprint(t, "5511")
	dstIdx := mustFingerprint(t, "6622")

	// One index token far before any structural occurrence, one inside the
	// 50-byte zone right before it. Only the in-zone token may change.
	data := make([]byte, 0, 128)
	data = append(data, srcIdx...) // offset 0: out of zone
	data = append(data, make([]byte, 80)...)
	data = append(data, srcIdx...) // offset 82: in zone
	data = append(data, 0x00, 0x00)
	data = append(data, src...) // offset 86

	out, changed := ReplaceIcon(data, src, dst, srcIdx, dstIdx)
	if !changed {
		t.Fatal("expected a change")
	}
	if !bytes.Equal(out[:2], srcIdx) {
		t.Fatalf("out-of-zone token was rewritten: %x", out[:2])
	}
	if !bytes.Equal(out[82:84], dstIdx) {
		t.Fatalf("in-zone token not rewritten: %x", out[82:84])
	}
	if !bytes.Equal(out[86:88], dst) {
		t.Fatalf("structural fingerprint not rewritten: %x", out[86:88])
	}
}

func TestReplaceIconSkipsWithoutStructuralMatch(t *testing.T) {
	src := mustFingerprint(t, "aabb")
	dst := mustFingerprint(t, "ccdd")
	srcIdx := mustFingerprint(t, "5511")
	dstIdx := mustFingerprint(t, "6622")

	data := append([]byte(nil), srcIdx...)
	out, changed := ReplaceIcon(data, src, dst, srcIdx, dstIdx)
	if changed {
		t.Fatal("expected no change")
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("data was modified: %x", out)
	}
}
