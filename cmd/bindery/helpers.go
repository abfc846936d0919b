package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"bindery/internal/listing"
)

func errInvalidConflictPolicy(value string) error {
	return fmt.Errorf("invalid conflict policy %q (expected skip or overwrite)", value)
}

// listItemFolders enumerates folder IDs under the image root in lexicographic
// order, skipping hidden entries and plain files.
func listItemFolders(imageRoot string) ([]string, error) {
	entries, err := os.ReadDir(imageRoot)
	if err != nil {
		return nil, fmt.Errorf("read image root %q: %w", imageRoot, err)
	}
	folders := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		folders = append(folders, entry.Name())
	}
	sort.Strings(folders)
	return folders, nil
}

// truncateReason shortens failure reasons for table output without splitting
// multi-byte characters.
func truncateReason(reason string, limit int) string {
	return listing.Truncate(reason, limit)
}
