package fonts

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testFontData locates a TTF on the host; shaping tests are skipped
// when none is available.
func testFontData(t *testing.T) []byte {
	t.Helper()
	roots := []string{"/usr/share/fonts", "/usr/local/share/fonts", "testdata"}
	for _, root := range roots {
		var found string
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || found != "" || d.IsDir() {
				return nil
			}
			if strings.HasSuffix(strings.ToLower(path), ".ttf") {
				found = path
			}
			return nil
		})
		if found != "" {
			data, err := os.ReadFile(found)
			if err == nil {
				return data
			}
		}
	}
	t.Skip("no TTF font available on this host")
	return nil
}

func TestStore_RegisterAndMeasure(t *testing.T) {
	data := testFontData(t)
	store := NewStore()
	if err := store.RegisterTTF("Test", data); err != nil {
		t.Fatalf("RegisterTTF: %v", err)
	}

	w := store.WidthOf("Hello", "Test", 12, 0)
	if w <= 0 {
		t.Fatalf("WidthOf = %v", w)
	}
	longer := store.WidthOf("Hello Hello", "Test", 12, 0)
	if longer <= w {
		t.Fatalf("longer text must be wider: %v vs %v", longer, w)
	}

	spaced := store.WidthOf("Hello", "Test", 12, 2)
	if spaced != w+8 {
		t.Fatalf("character spacing must add (runes-1)*spacing: %v vs %v", spaced, w)
	}

	big := store.WidthOf("Hello", "Test", 24, 0)
	if big <= w {
		t.Fatalf("larger size must be wider: %v vs %v", big, w)
	}
}

func TestStore_LineMetrics(t *testing.T) {
	data := testFontData(t)
	store := NewStore()
	if err := store.RegisterTTF("Test", data); err != nil {
		t.Fatalf("RegisterTTF: %v", err)
	}
	height, asc, desc := store.LineMetrics("Test", 12)
	if height <= 0 || asc <= 0 || desc >= 0 {
		t.Fatalf("LineMetrics = (%v, %v, %v)", height, asc, desc)
	}
	if asc-desc > height+0.01 {
		t.Fatalf("height %v cannot be smaller than asc-desc %v", height, asc-desc)
	}
}

func TestStore_SingleFamilyFallback(t *testing.T) {
	data := testFontData(t)
	store := NewStore()
	if err := store.RegisterTTF("Only", data); err != nil {
		t.Fatalf("RegisterTTF: %v", err)
	}
	// An unknown name resolves to the sole registered family.
	if w := store.WidthOf("x", "Missing", 12, 0); w <= 0 {
		t.Fatalf("fallback width = %v", w)
	}
}

func TestStore_RejectsGarbage(t *testing.T) {
	store := NewStore()
	if err := store.RegisterTTF("Bad", []byte("not a font")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestStore_UnknownFontZeroMetrics(t *testing.T) {
	store := NewStore()
	if w := store.WidthOf("x", "Nope", 12, 0); w != 0 {
		t.Fatalf("width without fonts = %v", w)
	}
}
