package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"bindery/internal/agentout"
	"bindery/internal/config"
	"bindery/internal/manifest"
)

// SeedFolder writes a complete item folder: the photo URL manifest under the
// image root and the agent output record under the results dir.
func SeedFolder(t testing.TB, cfg *config.Config, folder, price, html, condition string, photoURLs ...string) {
	t.Helper()
	SeedManifest(t, cfg, folder, photoURLs...)
	SeedAgentOutput(t, cfg, folder, fmt.Sprintf("%s ||| %s ||| %s", price, html, condition))
}

// SeedManifest writes a filename|URL manifest for the folder.
func SeedManifest(t testing.TB, cfg *config.Config, folder string, photoURLs ...string) {
	t.Helper()
	dir := filepath.Join(cfg.Paths.ImageRoot, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir image folder: %v", err)
	}
	body := ""
	for i, url := range photoURLs {
		body += fmt.Sprintf("%s-%02d.jpg|%s\n", folder, i+1, url)
	}
	if err := os.WriteFile(filepath.Join(dir, manifest.FileName), []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

// SeedRawManifest writes the manifest body verbatim, for malformed-input
// tests.
func SeedRawManifest(t testing.TB, cfg *config.Config, folder, body string) {
	t.Helper()
	dir := filepath.Join(cfg.Paths.ImageRoot, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir image folder: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifest.FileName), []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

// SeedAgentOutput writes the raw agent record for the folder.
func SeedAgentOutput(t testing.TB, cfg *config.Config, folder, body string) {
	t.Helper()
	if err := os.MkdirAll(cfg.Paths.ResultsDir, 0o755); err != nil {
		t.Fatalf("mkdir results dir: %v", err)
	}
	if err := os.WriteFile(agentout.Path(cfg.Paths.ResultsDir, folder), []byte(body), 0o644); err != nil {
		t.Fatalf("write agent output: %v", err)
	}
}
