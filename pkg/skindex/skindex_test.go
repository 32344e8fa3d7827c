package skindex

import (
	"os"
	"path/filepath"
	"testing"
)

func writeIndex(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNormalize(t *testing.T) {
	if Normalize("AKM (Lv. 3)") != "akm lv 3" {
		t.Fatalf("got %q", Normalize("AKM (Lv. 3)"))
	}
	if Normalize("akm lv 3") != "akm lv 3" {
		t.Fatalf("got %q", Normalize("akm lv 3"))
	}
	// Idempotent
	once := Normalize("Scar-L, Jester's (Lv. 1)")
	if Normalize(once) != once {
		t.Fatalf("not idempotent: %q vs %q", once, Normalize(once))
	}
}

func TestParse(t *testing.T) {
	path := writeIndex(t, `stray entry - 1111
# Assault Rifles
Glacier AKM - 2222
Gold - Plate M416 - 3333
no separator line
# Snipers
Kar98 Desert - 4444
`)

	idx, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", idx.Len())
	}

	// Headerless leading entry is accepted.
	if hex, ok := idx.Resolve("stray entry"); !ok || hex != "1111" {
		t.Fatalf("got %q %v", hex, ok)
	}

	// Name is everything before the LAST " - ".
	if hex, ok := idx.Resolve("Gold - Plate M416"); !ok || hex != "3333" {
		t.Fatalf("got %q %v", hex, ok)
	}
}

func TestResolveContainment(t *testing.T) {
	path := writeIndex(t, `# Guns
Glacier AKM - 2222
Kar98 - 4444
`)
	idx, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}

	// Query longer than key: key contained in query.
	if hex, ok := idx.Resolve("Glacier AKM (Lv. 5)"); !ok || hex != "2222" {
		t.Fatalf("got %q %v", hex, ok)
	}
	// Query shorter than key: query contained in key.
	if hex, ok := idx.Resolve("glacier"); !ok || hex != "2222" {
		t.Fatalf("got %q %v", hex, ok)
	}

	if _, ok := idx.Resolve("M24"); ok {
		t.Fatal("expected a miss")
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	path := writeIndex(t, `# Guns
AKM - 1111
Glacier AKM - 2222
`)
	idx, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}

	// Both entries contain/are contained; insertion order decides.
	if hex, ok := idx.Resolve("Glacier AKM"); !ok || hex != "1111" {
		t.Fatalf("got %q %v", hex, ok)
	}
}

func TestResolveNilIndex(t *testing.T) {
	var idx *Index
	if _, ok := idx.Resolve("anything"); ok {
		t.Fatal("nil index must miss")
	}
	if idx.Len() != 0 {
		t.Fatal("nil index must be empty")
	}
}
