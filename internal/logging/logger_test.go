package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bindery/internal/logging"
)

func TestNewWritesToFileOutput(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "bindery.log")

	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("row appended", logging.String("folder", "arden-book-01"), logging.Int("rows", 3))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "arden-book-01") {
		t.Fatalf("log output missing attribute: %s", string(data))
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("should not panic", logging.Error(nil))
}
