package manifest_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bindery/internal/manifest"
	"bindery/internal/services"
)

func writeManifest(t *testing.T, root, folder, body string) {
	t.Helper()
	dir := filepath.Join(root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir folder: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifest.FileName), []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func TestLoadPreservesFileOrder(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "arden-book-01",
		"arden-book-01-01.jpg|https://img.example.com/arden-book-01-01.jpg\n"+
			"arden-book-01-02.jpg|https://img.example.com/arden-book-01-02.jpg\n")

	m, err := manifest.Load(root, "arden-book-01")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	urls := m.URLs()
	if len(urls) != 2 {
		t.Fatalf("expected 2 URLs, got %d", len(urls))
	}
	if urls[0] != "https://img.example.com/arden-book-01-01.jpg" ||
		urls[1] != "https://img.example.com/arden-book-01-02.jpg" {
		t.Fatalf("URL order not preserved: %v", urls)
	}
}

func TestLoadSkipsBlankLines(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "b", "a.jpg|urlA\n\nb.jpg|urlB\n")

	m, err := manifest.Load(root, "b")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(m.Entries) != 2 {
		t.Fatalf("expected blank lines skipped, got %d entries", len(m.Entries))
	}
}

func TestLoadMissing(t *testing.T) {
	root := t.TempDir()
	_, err := manifest.Load(root, "no-such-folder")
	if !errors.Is(err, services.ErrManifestMissing) {
		t.Fatalf("expected ErrManifestMissing, got %v", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"three fields", "a.jpg|urlA|extra\n"},
		{"one field", "just-a-line\n"},
		{"empty url", "a.jpg|\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			writeManifest(t, root, "bad", tc.body)
			_, err := manifest.Load(root, "bad")
			if !errors.Is(err, services.ErrManifestMalformed) {
				t.Fatalf("expected ErrManifestMalformed, got %v", err)
			}
		})
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "c", "a.jpg|urlA\n")

	first, err := manifest.Load(root, "c")
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	second, err := manifest.Load(root, "c")
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if len(first.Entries) != len(second.Entries) || first.Entries[0] != second.Entries[0] {
		t.Fatalf("repeated reads differ: %v vs %v", first.Entries, second.Entries)
	}
}
