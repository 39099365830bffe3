// Package store manages the reference store: a root directory with one
// content-addressed directory per record, an in-memory index rebuilt from
// it on open, and a bibliography regenerated after every mutation.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/matsen/refman/internal/author"
	"github.com/matsen/refman/internal/editor"
	"github.com/matsen/refman/internal/export"
	"github.com/matsen/refman/internal/fetch"
	"github.com/matsen/refman/internal/index"
	"github.com/matsen/refman/internal/record"
)

// Fetcher resolves identifiers into records.
type Fetcher interface {
	FromDOI(ctx context.Context, doi string, opts fetch.Options) (*record.Record, error)
	FromArXiv(ctx context.Context, arxivID string, opts fetch.Options) (*record.Record, error)
	FromBibTeX(ctx context.Context, text string, opts fetch.Options) (*record.Record, error)
}

// Store is an open reference store. It is not safe for concurrent use,
// and only one process may hold a root at a time.
type Store struct {
	root    string
	idx     *index.Index
	fetcher Fetcher
	editor  editor.Editor
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithFetcher sets the fetcher used by the Add operations.
func WithFetcher(f Fetcher) Option {
	return func(s *Store) {
		s.fetcher = f
	}
}

// WithEditor sets the editor used by EditMetadata.
func WithEditor(e editor.Editor) Option {
	return func(s *Store) {
		s.editor = e
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open opens the store at root, creating the directory if needed, and
// indexes every record found in it. Locations are indexed in lexical
// order. Unreadable record directories are logged and skipped.
func Open(root string, opts ...Option) (*Store, error) {
	s := &Store{
		root:   root,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		s.fetcher = fetch.NewClient(fetch.WithLogger(s.logger))
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating store root: %w", err)
	}

	idx, err := index.Open()
	if err != nil {
		return nil, err
	}
	s.idx = idx

	if err := s.rebuild(); err != nil {
		idx.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) rebuild() error {
	locations, err := record.Scan(s.root)
	if err != nil {
		return err
	}

	for _, loc := range locations {
		dir := filepath.Join(s.root, loc)
		rec, err := record.Load(dir, false)
		if err != nil {
			s.logger.Warn("skipping unreadable record", "location", loc, "error", err)
			continue
		}
		if _, err := s.idx.Insert(entryFor(rec, loc, dir)); err != nil {
			return fmt.Errorf("indexing %s: %w", loc, err)
		}
	}

	s.logger.Debug("indexed store", "root", s.root, "records", len(locations))
	return nil
}

// Close releases the index.
func (s *Store) Close() error {
	return s.idx.Close()
}

// Root returns the store root directory.
func (s *Store) Root() string {
	return s.root
}

// BibliographyPath returns the path of the exported bibliography.
func (s *Store) BibliographyPath() string {
	return filepath.Join(s.root, export.FileName)
}

// Dir returns the directory of an indexed entry.
func (s *Store) Dir(e index.Entry) string {
	return filepath.Join(s.root, e.Location)
}

// Export regenerates the bibliography from the index, in index order.
func (s *Store) Export() error {
	entries, err := s.idx.All()
	if err != nil {
		return err
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.BibPath
	}
	if err := export.WriteBibliography(s.BibliographyPath(), paths); err != nil {
		return fmt.Errorf("exporting bibliography: %w", err)
	}
	s.logger.Debug("wrote bibliography", "path", s.BibliographyPath(), "records", len(paths))
	return nil
}

// List returns every indexed record in index order.
func (s *Store) List() ([]index.Entry, error) {
	return s.idx.All()
}

// Search runs a full-text query over keys, titles, authors and years.
func (s *Store) Search(query string, limit int) ([]index.Entry, error) {
	return s.idx.Search(query, limit)
}

// ByAuthor returns the records, in index order, whose authors match every
// query.
func (s *Store) ByAuthor(queries []author.Query) ([]index.Entry, error) {
	entries, err := s.idx.All()
	if err != nil {
		return nil, err
	}

	var matched []index.Entry
	for _, e := range entries {
		rec, err := record.Load(s.Dir(e), false)
		if err != nil {
			s.logger.Warn("skipping unreadable record", "location", e.Location, "error", err)
			continue
		}
		if author.AllMatch(queries, rec.Meta) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// Lookup returns the stored record with the DOI or arXiv id, compared
// case-insensitively, or nil. The DOI is tried first.
func (s *Store) Lookup(doi, arxivID string) (*record.Record, error) {
	e, err := s.lookupEntry(doi, arxivID)
	if err != nil || e == nil {
		return nil, err
	}
	return record.Load(s.Dir(*e), false)
}

func (s *Store) lookupEntry(doi, arxivID string) (*index.Entry, error) {
	if doi != "" {
		e, err := s.idx.LookupDOI(doi)
		if err != nil || e != nil {
			return e, err
		}
	}
	if arxivID != "" {
		return s.idx.LookupArXiv(arxivID)
	}
	return nil, nil
}

func entryFor(rec *record.Record, location, dir string) index.Entry {
	return index.Entry{
		Year:     rec.Meta.Year,
		Key:      rec.Key,
		Title:    rec.Meta.Title,
		Authors:  rec.Meta.AuthorsText(),
		DOI:      rec.Meta.DOI,
		ArXivID:  rec.Meta.ArXivID,
		Location: location,
		BibPath:  filepath.Join(dir, record.BibName),
	}
}
