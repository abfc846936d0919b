// Package manifest reads the per-folder image URL manifest produced by the
// upload stage.
//
// The manifest is a UTF-8 text file of `filename|URL` lines. Line order is
// semantically meaningful: the first entry is the listing's primary photo, so
// readers preserve file order exactly.
package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"bindery/internal/services"
)

// FileName is the manifest artifact the upload stage writes into each folder.
const FileName = "uploaded_urls.txt"

// Entry maps a local image filename to its uploaded permanent URL.
type Entry struct {
	Filename string
	URL      string
}

// Manifest is the ordered filename-to-URL mapping for one item folder.
type Manifest struct {
	Folder  string
	Entries []Entry
}

// URLs returns the photo URLs in manifest order.
func (m Manifest) URLs() []string {
	urls := make([]string, 0, len(m.Entries))
	for _, entry := range m.Entries {
		urls = append(urls, entry.URL)
	}
	return urls
}

// Path returns the manifest location for a folder under the image root.
func Path(imageRoot, folder string) string {
	return filepath.Join(imageRoot, folder, FileName)
}

// Load reads and parses the manifest for a folder. It has no side effects and
// is safe to call repeatedly.
func Load(imageRoot, folder string) (Manifest, error) {
	path := Path(imageRoot, folder)
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, services.Wrap(services.ErrManifestMissing, services.StageManifest, "load", path, nil)
		}
		return Manifest{}, services.Wrap(services.ErrManifestMissing, services.StageManifest, "load", path, err)
	}
	defer file.Close()

	m := Manifest{Folder: folder}
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) != 2 {
			return Manifest{}, services.Wrap(
				services.ErrManifestMalformed,
				services.StageManifest,
				"parse",
				fmt.Sprintf("%s line %d: expected filename|URL, got %d fields", filepath.Base(path), lineNo, len(fields)),
				nil,
			)
		}
		filename := strings.TrimSpace(fields[0])
		url := strings.TrimSpace(fields[1])
		if filename == "" || url == "" {
			return Manifest{}, services.Wrap(
				services.ErrManifestMalformed,
				services.StageManifest,
				"parse",
				fmt.Sprintf("%s line %d: empty filename or URL", filepath.Base(path), lineNo),
				nil,
			)
		}
		m.Entries = append(m.Entries, Entry{Filename: filename, URL: url})
	}
	if err := scanner.Err(); err != nil {
		return Manifest{}, services.Wrap(services.ErrManifestMalformed, services.StageManifest, "read", path, err)
	}

	return m, nil
}
