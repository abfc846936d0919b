package workbook

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/xuri/excelize/v2"

	"bindery/internal/config"
	"bindery/internal/fileutil"
	"bindery/internal/listing"
	"bindery/internal/logging"
	"bindery/internal/services"
)

// Mode selects which workbook an Open call targets.
type Mode string

const (
	// ModeFresh always produces a new empty workbook, overwriting any
	// same-named prior artifact. Used for clean one-off runs.
	ModeFresh Mode = "fresh"
	// ModeLatest targets the current workbook named by the pointer record,
	// falling back to fresh when none exists.
	ModeLatest Mode = "latest"
)

const (
	filePrefix     = "ebay-upl-"
	fileExt        = ".xlsx"
	fileTimeLayout = "01-02-15-04"
	lockFile       = ".bindery.lock"
)

// Store owns workbook file state: a durable, ordered table of listings with
// atomic append semantics. No other component mutates the workbook directly.
// All writes are serialized by an in-process mutex plus a cross-process file
// lock held for the store's lifetime.
type Store struct {
	dir    string
	path   string
	policy config.Listing
	logger *slog.Logger

	mu   sync.Mutex
	lock *flock.Flock
}

// Open acquires the workbook lock and resolves (or creates) the workbook for
// the requested mode. Callers must Close the store to release the lock.
func Open(cfg *config.Config, mode Mode, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	dir := cfg.Paths.WorkbookDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workbook directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire workbook lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("workbook directory %s is locked by another bindery process", dir)
	}

	store := &Store{
		dir:    dir,
		policy: cfg.Listing,
		logger: logger,
		lock:   lock,
	}

	if err := store.resolve(mode); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

func (s *Store) resolve(mode Mode) error {
	switch mode {
	case ModeFresh:
		return s.startFresh()
	case ModeLatest:
		name, err := readPointer(s.dir)
		if err != nil {
			return err
		}
		if name == "" {
			// Pre-pointer directories: migrate from the newest artifact.
			name, err = newestWorkbook(s.dir)
			if err != nil {
				return err
			}
		}
		if name == "" {
			return s.startFresh()
		}
		s.path = filepath.Join(s.dir, name)
		if err := verifySchema(s.path); err != nil {
			return err
		}
		if err := writePointer(s.dir, name); err != nil {
			return err
		}
		s.logger.Debug("opened current workbook", logging.String("workbook", name))
		return nil
	default:
		return fmt.Errorf("unknown workbook mode %q", mode)
	}
}

func (s *Store) startFresh() error {
	name := filePrefix + time.Now().Format(fileTimeLayout) + fileExt
	s.path = filepath.Join(s.dir, name)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return services.Wrap(services.ErrWorkbookWrite, services.StageWorkbook, "create", "name sheet", err)
	}
	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return services.Wrap(services.ErrWorkbookWrite, services.StageWorkbook, "create", "write header", err)
	}
	if err := s.saveAtomic(f); err != nil {
		return err
	}
	if err := writePointer(s.dir, name); err != nil {
		return err
	}
	s.logger.Info("created workbook", logging.String("workbook", name))
	return nil
}

// Close releases the cross-process lock.
func (s *Store) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}

// Path returns the absolute path of the workbook this store targets.
func (s *Store) Path() string {
	return s.path
}

// Append writes the listings as rows in the order given, preserving all
// pre-existing rows, and returns the total data-row count afterwards. The
// write is staged to a temporary file and renamed into place, so a failure
// partway through never leaves a partially written workbook.
func (s *Store) Append(ctx context.Context, listings []listing.Listing) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f, rows, err := s.openRows()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	next := len(rows) + 1
	for i, l := range listings {
		values := rowValues(l, s.policy)
		cell, err := excelize.CoordinatesToCellName(1, next+i)
		if err != nil {
			return 0, services.Wrap(services.ErrWorkbookWrite, services.StageWorkbook, "append", "row coordinates", err)
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return 0, services.Wrap(services.ErrWorkbookWrite, services.StageWorkbook, "append", "write row", err)
		}
	}

	if err := s.saveAtomic(f); err != nil {
		return 0, err
	}

	total := len(rows) - 1 + len(listings)
	s.logger.Info("appended listings",
		logging.Int("rows_appended", len(listings)),
		logging.Int("rows_total", total),
		logging.String("workbook", filepath.Base(s.path)),
	)
	return total, nil
}

// Overwrite replaces the existing row for the listing's folder ID in place,
// preserving row position and count.
func (s *Store) Overwrite(ctx context.Context, l listing.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	f, rows, err := s.openRows()
	if err != nil {
		return err
	}
	defer f.Close()

	target := 0
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if columnValue(row, folderIDColumn) == l.FolderID {
			target = i + 1
			break
		}
	}
	if target == 0 {
		return services.Wrap(services.ErrWorkbookWrite, services.StageWorkbook, "overwrite",
			fmt.Sprintf("no existing row for folder %q", l.FolderID), nil)
	}

	values := rowValues(l, s.policy)
	cell, err := excelize.CoordinatesToCellName(1, target)
	if err != nil {
		return services.Wrap(services.ErrWorkbookWrite, services.StageWorkbook, "overwrite", "row coordinates", err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return services.Wrap(services.ErrWorkbookWrite, services.StageWorkbook, "overwrite", "write row", err)
	}

	if err := s.saveAtomic(f); err != nil {
		return err
	}
	s.logger.Info("overwrote listing row",
		logging.String("folder", l.FolderID),
		logging.Int("row", target),
	)
	return nil
}

// Contains reports whether a listing for folderID already exists in the
// workbook. Linear in the number of rows.
func (s *Store) Contains(ctx context.Context, folderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	f, rows, err := s.openRows()
	if err != nil {
		return false, err
	}
	defer f.Close()

	for i, row := range rows {
		if i == 0 {
			continue
		}
		if columnValue(row, folderIDColumn) == folderID {
			return true, nil
		}
	}
	return false, nil
}

// RowCount returns the number of data rows (excluding the header).
func (s *Store) RowCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f, rows, err := s.openRows()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return len(rows) - 1, nil
}

func (s *Store) openRows() (*excelize.File, [][]string, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrWorkbookWrite, services.StageWorkbook, "open", s.path, err)
	}
	rows, err := f.GetRows(SheetName)
	if err != nil {
		_ = f.Close()
		return nil, nil, services.Wrap(services.ErrWorkbookWrite, services.StageWorkbook, "read", s.path, err)
	}
	if len(rows) == 0 {
		_ = f.Close()
		return nil, nil, services.Wrap(services.ErrWorkbookWrite, services.StageWorkbook, "read", "workbook has no header row", nil)
	}
	return f, rows, nil
}

func (s *Store) saveAtomic(f *excelize.File) error {
	tmp := fileutil.TempSibling(s.path, ".staging.xlsx")
	if err := f.SaveAs(tmp); err != nil {
		_ = os.Remove(tmp)
		return services.Wrap(services.ErrWorkbookWrite, services.StageWorkbook, "save", tmp, err)
	}
	if err := fileutil.ReplaceFile(tmp, s.path); err != nil {
		return services.Wrap(services.ErrWorkbookWrite, services.StageWorkbook, "save", "", err)
	}
	return nil
}

func verifySchema(path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return services.Wrap(services.ErrWorkbookWrite, services.StageWorkbook, "open", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil || len(rows) == 0 {
		return services.Wrap(services.ErrWorkbookWrite, services.StageWorkbook, "verify",
			fmt.Sprintf("%s is missing the %s sheet or header row", filepath.Base(path), SheetName), err)
	}
	header := rows[0]
	for i, want := range Headers {
		if columnValue(header, i) != want {
			return services.Wrap(services.ErrWorkbookWrite, services.StageWorkbook, "verify",
				fmt.Sprintf("%s column %d is %q, expected %q", filepath.Base(path), i+1, columnValue(header, i), want), nil)
		}
	}
	return nil
}

// columnValue reads a cell from a GetRows row, tolerating excelize's trailing
// blank-cell truncation.
func columnValue(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return row[col]
}
