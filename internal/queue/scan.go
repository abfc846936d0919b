package queue

import (
	"context"
	"fmt"
	"os"
	"strings"

	"bindery/internal/agentout"
	"bindery/internal/config"
	"bindery/internal/manifest"
)

// Scan enumerates item folders under the image root and enqueues any the
// store has not seen. Existing entries keep their state, so scanning is
// idempotent; re-running a queue pass never resurrects processed folders.
// Folders are visited in lexicographic order.
func (s *Store) Scan(ctx context.Context, cfg *config.Config) ([]*Entry, error) {
	dirEntries, err := os.ReadDir(cfg.Paths.ImageRoot)
	if err != nil {
		return nil, fmt.Errorf("read image root %q: %w", cfg.Paths.ImageRoot, err)
	}

	var entries []*Entry
	for _, dirEntry := range dirEntries {
		if !dirEntry.IsDir() || strings.HasPrefix(dirEntry.Name(), ".") {
			continue
		}
		folder := dirEntry.Name()
		entry, err := s.Enqueue(
			ctx,
			folder,
			manifest.Path(cfg.Paths.ImageRoot, folder),
			agentout.Path(cfg.Paths.ResultsDir, folder),
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
