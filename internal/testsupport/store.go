package testsupport

import (
	"testing"

	"bindery/internal/config"
	"bindery/internal/logging"
	"bindery/internal/queue"
	"bindery/internal/workbook"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// MustOpenWorkbook opens a workbook.Store for tests and registers cleanup.
func MustOpenWorkbook(t testing.TB, cfg *config.Config, mode workbook.Mode) *workbook.Store {
	t.Helper()

	store, err := workbook.Open(cfg, mode, logging.NewNop())
	if err != nil {
		t.Fatalf("workbook.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
