package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// stagingPrefix marks in-progress writes. Scans skip dot directories, so a
// crash mid-write never surfaces a half-written record.
const stagingPrefix = ".staging-"

// Write persists the record under root and returns its directory. If the
// location already exists the write is a no-op and written is false: the
// same key and text always name the same record.
//
// Files are first written to a staging directory, which is then renamed
// into place.
func (r *Record) Write(root string) (dir string, written bool, err error) {
	dir = filepath.Join(root, r.Location())
	if _, err := os.Stat(dir); err == nil {
		return dir, false, nil
	} else if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("checking %s: %w", dir, err)
	}

	staging := filepath.Join(root, stagingPrefix+uuid.NewString())
	if err := os.MkdirAll(staging, 0755); err != nil {
		return "", false, fmt.Errorf("creating staging directory: %w", err)
	}

	success := false
	defer func() {
		if !success {
			os.RemoveAll(staging)
		}
	}()

	if err := r.writeFiles(staging); err != nil {
		return "", false, err
	}

	if err := os.Rename(staging, dir); err != nil {
		return "", false, fmt.Errorf("moving record into place: %w", err)
	}

	success = true
	return dir, true, nil
}

func (r *Record) writeFiles(dir string) error {
	meta, err := json.MarshalIndent(r.Meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, MetaName), append(meta, '\n'), 0644); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, BibName), []byte(r.BibTeX), 0644); err != nil {
		return fmt.Errorf("writing bibtex: %w", err)
	}

	if err := WriteNotes(dir, r.Notes); err != nil {
		return err
	}

	if r.HasDocument() {
		if err := os.WriteFile(filepath.Join(dir, r.DocumentName()), r.Document, 0644); err != nil {
			return fmt.Errorf("writing document: %w", err)
		}
	}
	return nil
}

// WriteNotes replaces the notes of the record in dir. Empty notes remove
// the notes file. Notes are not part of the content hash.
func WriteNotes(dir, notes string) error {
	path := filepath.Join(dir, NotesName)
	if notes == "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing notes: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(notes), 0644); err != nil {
		return fmt.Errorf("writing notes: %w", err)
	}
	return nil
}

// Load reads the record stored in dir. Document bytes are only read when
// withDocument is set; DocumentExt is filled in either way.
func Load(dir string, withDocument bool) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetaName))
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}

	r := &Record{DocumentExt: DefaultDocumentExt}
	if err := json.Unmarshal(data, &r.Meta); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Join(dir, MetaName), err)
	}
	r.Key = r.Meta.Key

	bib, err := os.ReadFile(filepath.Join(dir, BibName))
	if err != nil {
		return nil, fmt.Errorf("reading bibtex: %w", err)
	}
	r.BibTeX = string(bib)

	notes, err := os.ReadFile(filepath.Join(dir, NotesName))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading notes: %w", err)
	}
	r.Notes = string(notes)

	docPath, ok := FindDocument(dir)
	if ok {
		r.DocumentExt = strings.TrimPrefix(filepath.Ext(docPath), ".")
		if withDocument {
			if r.Document, err = os.ReadFile(docPath); err != nil {
				return nil, fmt.Errorf("reading document: %w", err)
			}
		}
	}
	return r, nil
}

// FindDocument returns the path of the document file in dir, if any. The
// document is the one regular file that is not part of the record layout.
func FindDocument(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		switch name := e.Name(); name {
		case MetaName, BibName, NotesName:
			continue
		default:
			if strings.HasPrefix(name, ".") {
				continue
			}
			return filepath.Join(dir, name), true
		}
	}
	return "", false
}

// IsRecordDir reports whether dir holds a record marker.
func IsRecordDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, MetaName))
	return err == nil && info.Mode().IsRegular()
}

// Scan returns the record directory names directly under root in lexical
// order. Dot directories, including staging leftovers, are skipped.
func Scan(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}
	var locations []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if IsRecordDir(filepath.Join(root, e.Name())) {
			locations = append(locations, e.Name())
		}
	}
	return locations, nil
}
