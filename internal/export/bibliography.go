// Package export writes the consolidated bibliography file and reads it
// back for consistency checks.
package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the name of the bibliography file in the store root.
const FileName = "ref.bib"

// WriteBibliography regenerates the bibliography at path from the given
// BibTeX files: each file's content followed by a newline, in order.
// The file is written to a temporary file and renamed into place, so
// readers never see a partial bibliography.
func WriteBibliography(path string, bibPaths []string) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*.bib")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	for _, bibPath := range bibPaths {
		data, err := os.ReadFile(bibPath)
		if err != nil {
			tmpFile.Close()
			return fmt.Errorf("reading %s: %w", bibPath, err)
		}
		if _, err := tmpFile.Write(data); err != nil {
			tmpFile.Close()
			return fmt.Errorf("writing %s: %w", bibPath, err)
		}
		if _, err := tmpFile.WriteString("\n"); err != nil {
			tmpFile.Close()
			return fmt.Errorf("writing newline: %w", err)
		}
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}
