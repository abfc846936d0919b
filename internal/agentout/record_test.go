package agentout_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bindery/internal/agentout"
	"bindery/internal/services"
)

func writeRecord(t *testing.T, dir, folder, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, folder+".txt"), []byte(body), 0o644); err != nil {
		t.Fatalf("write record: %v", err)
	}
}

func TestLoadSplitsFields(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "arden-book-01", "24.99 ||| <p>First edition.</p> ||| 3000\n")

	rec, err := agentout.Load(dir, "arden-book-01")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rec.Price != "24.99" {
		t.Fatalf("unexpected price %q", rec.Price)
	}
	if rec.DescriptionHTML != "<p>First edition.</p>" {
		t.Fatalf("unexpected html %q", rec.DescriptionHTML)
	}
	if rec.ConditionID != "3000" {
		t.Fatalf("unexpected condition %q", rec.ConditionID)
	}
}

func TestLoadLeavesHTMLUnescaped(t *testing.T) {
	dir := t.TempDir()
	html := `<ul><li>Author: J. "Jack" Arden &amp; Co.</li></ul>`
	writeRecord(t, dir, "b", "5.00 ||| "+html+" ||| 4000")

	rec, err := agentout.Load(dir, "b")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rec.DescriptionHTML != html {
		t.Fatalf("html was altered: %q", rec.DescriptionHTML)
	}
}

func TestLoadMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := agentout.Load(dir, "nope")
	if !errors.Is(err, services.ErrAgentOutputMissing) {
		t.Fatalf("expected ErrAgentOutputMissing, got %v", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"two fields", "24.99 ||| only-html"},
		{"four fields", "a ||| b ||| c ||| d"},
		{"no delimiter", "just text"},
		{"unspaced delimiter", "24.99|||<p>First edition.</p>|||3000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeRecord(t, dir, "bad", tc.body)
			_, err := agentout.Load(dir, "bad")
			if !errors.Is(err, services.ErrAgentOutputMalformed) {
				t.Fatalf("expected ErrAgentOutputMalformed, got %v", err)
			}
		})
	}
}
