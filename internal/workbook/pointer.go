package workbook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bindery/internal/fileutil"
)

// PointerFile names the small record in the workbook directory that
// identifies the current workbook. An explicit pointer avoids the ambiguity
// of inferring "latest" from modification times under clock skew or
// concurrent writers.
const PointerFile = "current-workbook"

func pointerPath(dir string) string {
	return filepath.Join(dir, PointerFile)
}

// readPointer returns the workbook filename the pointer names, or "" when the
// pointer does not exist or names a file that is gone.
func readPointer(dir string) (string, error) {
	data, err := os.ReadFile(pointerPath(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read workbook pointer: %w", err)
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", nil
	}
	// Pointer entries are bare filenames inside the workbook dir.
	name = filepath.Base(name)
	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat pointed workbook: %w", err)
	}
	return name, nil
}

// writePointer durably records name as the current workbook.
func writePointer(dir, name string) error {
	if err := fileutil.WriteFileAtomic(pointerPath(dir), []byte(filepath.Base(name)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write workbook pointer: %w", err)
	}
	return nil
}

// newestWorkbook is the migration fallback for directories that predate the
// pointer: newest modification time among ebay-upl-*.xlsx files.
func newestWorkbook(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, filePrefix+"*"+fileExt))
	if err != nil {
		return "", fmt.Errorf("scan workbook dir: %w", err)
	}
	if len(matches) == 0 {
		return "", nil
	}

	type candidate struct {
		name  string
		mtime int64
	}
	candidates := make([]candidate, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		candidates = append(candidates, candidate{name: filepath.Base(match), mtime: info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return "", nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].mtime != candidates[j].mtime {
			return candidates[i].mtime > candidates[j].mtime
		}
		return candidates[i].name > candidates[j].name
	})
	return candidates[0].name, nil
}
