package processor_test

import (
	"context"
	"strings"
	"testing"

	"bindery/internal/config"
	"bindery/internal/logging"
	"bindery/internal/processor"
	"bindery/internal/queue"
	"bindery/internal/services"
	"bindery/internal/testsupport"
	"bindery/internal/workbook"
)

const sampleHTML = `<p>A handsome copy.</p><ul><li>Author: John Milton</li><li>Title: Paradise Lost</li></ul>`

func newProcessor(t *testing.T, cfg *config.Config, opts ...processor.Option) (*processor.Processor, *queue.Store, *workbook.Store) {
	t.Helper()
	queueStore := testsupport.MustOpenStore(t, cfg)
	workbookStore := testsupport.MustOpenWorkbook(t, cfg, workbook.ModeFresh)
	return processor.New(cfg, queueStore, workbookStore, logging.NewNop(), opts...), queueStore, workbookStore
}

func TestRunProcessesPendingFolders(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.SeedFolder(t, cfg, "folder-001", "24.99", sampleHTML, "4000",
		"https://img.example.com/folder-001/1.jpg",
		"https://img.example.com/folder-001/2.jpg",
	)
	testsupport.SeedFolder(t, cfg, "folder-002", "9.50", sampleHTML, "5000",
		"https://img.example.com/folder-002/1.jpg",
	)

	p, queueStore, workbookStore := newProcessor(t, cfg)
	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := report.Processed(); got != 2 {
		t.Fatalf("processed = %d, want 2", got)
	}
	if report.HasFailures() {
		t.Fatalf("unexpected failures: %+v", report.Results)
	}
	if report.RowCount != 2 {
		t.Errorf("report row count = %d, want 2", report.RowCount)
	}

	count, err := workbookStore.RowCount(context.Background())
	if err != nil {
		t.Fatalf("RowCount: %v", err)
	}
	if count != 2 {
		t.Errorf("workbook rows = %d, want 2", count)
	}

	for _, folder := range []string{"folder-001", "folder-002"} {
		entry, err := queueStore.GetByFolder(context.Background(), folder)
		if err != nil {
			t.Fatalf("GetByFolder(%s): %v", folder, err)
		}
		if entry == nil {
			t.Fatalf("no queue entry for %s", folder)
		}
		if entry.Status != queue.StatusProcessed {
			t.Errorf("%s status = %s, want processed", folder, entry.Status)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.SeedFolder(t, cfg, "folder-001", "24.99", sampleHTML, "4000",
		"https://img.example.com/folder-001/1.jpg",
	)

	p, _, workbookStore := newProcessor(t, cfg)
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	// Already processed, so the second pass has nothing pending.
	if len(report.Results) != 0 {
		t.Fatalf("second pass results = %d, want 0", len(report.Results))
	}
	count, err := workbookStore.RowCount(context.Background())
	if err != nil {
		t.Fatalf("RowCount: %v", err)
	}
	if count != 1 {
		t.Errorf("workbook rows = %d, want 1 after repeated runs", count)
	}
}

func TestRunContinuesPastBadFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.SeedFolder(t, cfg, "folder-001", "24.99", sampleHTML, "4000",
		"https://img.example.com/folder-001/1.jpg",
	)
	// Manifest line with too many fields.
	testsupport.SeedRawManifest(t, cfg, "folder-002", "photo.jpg|https://img.example.com/x.jpg|extra\n")
	testsupport.SeedAgentOutput(t, cfg, "folder-002", "9.50 ||| "+sampleHTML+" ||| 4000")
	testsupport.SeedFolder(t, cfg, "folder-003", "15.00", sampleHTML, "5000",
		"https://img.example.com/folder-003/1.jpg",
	)

	p, queueStore, workbookStore := newProcessor(t, cfg)
	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := report.Processed(); got != 2 {
		t.Errorf("processed = %d, want 2", got)
	}
	if got := report.Failed(); got != 1 {
		t.Errorf("failed = %d, want 1", got)
	}

	entry, err := queueStore.GetByFolder(context.Background(), "folder-002")
	if err != nil {
		t.Fatalf("GetByFolder: %v", err)
	}
	if entry == nil {
		t.Fatal("no queue entry for folder-002")
	}
	if entry.Status != queue.StatusFailed {
		t.Errorf("folder-002 status = %s, want failed", entry.Status)
	}
	if entry.Stage != services.StageManifest {
		t.Errorf("folder-002 stage = %q, want %q", entry.Stage, services.StageManifest)
	}
	if !strings.Contains(entry.ErrorMessage, "manifest") {
		t.Errorf("error message %q should mention the manifest", entry.ErrorMessage)
	}

	count, err := workbookStore.RowCount(context.Background())
	if err != nil {
		t.Fatalf("RowCount: %v", err)
	}
	if count != 2 {
		t.Errorf("workbook rows = %d, want 2", count)
	}
}

func TestRunRecordsAgentOutputFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.SeedManifest(t, cfg, "folder-001", "https://img.example.com/1.jpg")
	// Missing agent output: the folder stays in the queue as failed.

	p, queueStore, _ := newProcessor(t, cfg)
	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := report.Failed(); got != 1 {
		t.Fatalf("failed = %d, want 1", got)
	}
	entry, err := queueStore.GetByFolder(context.Background(), "folder-001")
	if err != nil {
		t.Fatalf("GetByFolder: %v", err)
	}
	if entry == nil {
		t.Fatal("no queue entry for folder-001")
	}
	if entry.Stage != services.StageAgentOutput {
		t.Errorf("stage = %q, want %q", entry.Stage, services.StageAgentOutput)
	}
}

func TestRunSkipPolicyLeavesExistingRow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.SeedFolder(t, cfg, "folder-001", "24.99", sampleHTML, "4000",
		"https://img.example.com/folder-001/1.jpg",
	)

	p, queueStore, workbookStore := newProcessor(t, cfg, processor.WithConflictPolicy(processor.ConflictSkip))
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	// Re-queue the folder with a changed price; skip must keep the old row.
	testsupport.SeedAgentOutput(t, cfg, "folder-001", "99.99 ||| "+sampleHTML+" ||| 4000")
	if ok, err := queueStore.Remove(context.Background(), "folder-001"); err != nil || !ok {
		t.Fatalf("Remove: ok=%v err=%v", ok, err)
	}

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if got := report.Skipped(); got != 1 {
		t.Fatalf("skipped = %d, want 1: %+v", got, report.Results)
	}
	count, err := workbookStore.RowCount(context.Background())
	if err != nil {
		t.Fatalf("RowCount: %v", err)
	}
	if count != 1 {
		t.Errorf("workbook rows = %d, want 1", count)
	}
}

func TestRunOverwritePolicyReplacesRowInPlace(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.SeedFolder(t, cfg, "folder-001", "24.99", sampleHTML, "4000",
		"https://img.example.com/folder-001/1.jpg",
	)
	testsupport.SeedFolder(t, cfg, "folder-002", "9.50", sampleHTML, "5000",
		"https://img.example.com/folder-002/1.jpg",
	)

	p, queueStore, workbookStore := newProcessor(t, cfg, processor.WithConflictPolicy(processor.ConflictOverwrite))
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	testsupport.SeedAgentOutput(t, cfg, "folder-001", "99.99 ||| "+sampleHTML+" ||| 5000")
	if ok, err := queueStore.Remove(context.Background(), "folder-001"); err != nil || !ok {
		t.Fatalf("Remove: ok=%v err=%v", ok, err)
	}

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if got := report.Processed(); got != 1 {
		t.Fatalf("processed = %d, want 1: %+v", got, report.Results)
	}

	count, err := workbookStore.RowCount(context.Background())
	if err != nil {
		t.Fatalf("RowCount: %v", err)
	}
	if count != 2 {
		t.Errorf("workbook rows = %d, want 2 after overwrite", count)
	}
}

func TestProcessFoldersDoesNotTouchQueue(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.SeedFolder(t, cfg, "folder-001", "24.99", sampleHTML, "4000",
		"https://img.example.com/folder-001/1.jpg",
	)

	p, queueStore, _ := newProcessor(t, cfg)
	report, err := p.ProcessFolders(context.Background(), []string{"folder-001"})
	if err != nil {
		t.Fatalf("ProcessFolders: %v", err)
	}
	if got := report.Processed(); got != 1 {
		t.Fatalf("processed = %d, want 1", got)
	}
	entry, err := queueStore.GetByFolder(context.Background(), "folder-001")
	if err != nil {
		t.Fatalf("GetByFolder: %v", err)
	}
	if entry != nil {
		t.Error("ProcessFolders should not create queue entries")
	}
}

func TestParseConflictPolicy(t *testing.T) {
	cases := []struct {
		in   string
		want processor.ConflictPolicy
		ok   bool
	}{
		{"skip", processor.ConflictSkip, true},
		{"OVERWRITE", processor.ConflictOverwrite, true},
		{" skip ", processor.ConflictSkip, true},
		{"replace", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := processor.ParseConflictPolicy(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseConflictPolicy(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
