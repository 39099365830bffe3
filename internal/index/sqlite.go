// Package index is the in-memory SQLite index over stored records. It is
// rebuilt from disk on every start and never persisted.
package index

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/matsen/refman/internal/normalize"
)

// Entry is one indexed record.
type Entry struct {
	Seq      int64  `json:"-"`
	Year     int    `json:"year"`
	Key      string `json:"key"`
	Title    string `json:"title"`
	Authors  string `json:"authors"`
	DOI      string `json:"doi"`      // Lowercased
	ArXivID  string `json:"arxiv_id"` // Lowercased
	Location string `json:"location"`
	BibPath  string `json:"bib_path"`
}

// Index wraps the in-memory database.
type Index struct {
	db *sql.DB
}

// selectFields is the column list shared by all queries.
const selectFields = `seq, year, key, title, authors, doi, arxiv_id, location, bib_path`

// Open creates an empty in-memory index.
func Open() (*Index, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every connection to :memory: is a separate database, so there must
	// be exactly one.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Index{db: db}, nil
}

// Close releases the database.
func (x *Index) Close() error {
	return x.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE records (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			year INTEGER NOT NULL,
			key TEXT NOT NULL,
			title TEXT NOT NULL,
			authors TEXT NOT NULL,
			doi TEXT NOT NULL,
			arxiv_id TEXT NOT NULL,
			location TEXT NOT NULL UNIQUE,
			bib_path TEXT NOT NULL
		);

		CREATE INDEX idx_records_key ON records(key);
		CREATE INDEX idx_records_doi ON records(doi) WHERE doi != '';
		CREATE INDEX idx_records_arxiv ON records(arxiv_id) WHERE arxiv_id != '';

		CREATE VIRTUAL TABLE records_fts USING fts5(
			location UNINDEXED,
			key,
			title,
			authors,
			year
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Insert appends e to the index and returns it with its sequence number.
// Identifiers are lowercased. A location may only be indexed once.
func (x *Index) Insert(e Entry) (Entry, error) {
	e.DOI = normalize.LowerDOI(e.DOI)
	e.ArXivID = strings.ToLower(strings.TrimSpace(e.ArXivID))

	tx, err := x.db.Begin()
	if err != nil {
		return e, fmt.Errorf("beginning insert: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO records (year, key, title, authors, doi, arxiv_id, location, bib_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Year, e.Key, e.Title, e.Authors, e.DOI, e.ArXivID, e.Location, e.BibPath)
	if err != nil {
		return e, fmt.Errorf("inserting %s: %w", e.Location, err)
	}
	if e.Seq, err = res.LastInsertId(); err != nil {
		return e, fmt.Errorf("reading sequence of %s: %w", e.Location, err)
	}

	_, err = tx.Exec(`
		INSERT INTO records_fts (location, key, title, authors, year)
		VALUES (?, ?, ?, ?, ?)`,
		e.Location, e.Key, e.Title, e.Authors, yearText(e.Year))
	if err != nil {
		return e, fmt.Errorf("inserting fts for %s: %w", e.Location, err)
	}

	if err := tx.Commit(); err != nil {
		return e, fmt.Errorf("committing %s: %w", e.Location, err)
	}
	return e, nil
}

// Delete removes the entry at location. Deleting an absent location is not
// an error.
func (x *Index) Delete(location string) error {
	tx, err := x.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM records WHERE location = ?`, location); err != nil {
		return fmt.Errorf("deleting %s: %w", location, err)
	}
	if _, err := tx.Exec(`DELETE FROM records_fts WHERE location = ?`, location); err != nil {
		return fmt.Errorf("deleting fts for %s: %w", location, err)
	}
	return tx.Commit()
}

// LookupDOI returns the first entry with the DOI, compared
// case-insensitively, or nil.
func (x *Index) LookupDOI(doi string) (*Entry, error) {
	doi = normalize.LowerDOI(doi)
	if doi == "" {
		return nil, nil
	}
	return x.first(`WHERE doi = ?`, doi)
}

// LookupArXiv returns the first entry with the arXiv id, compared
// case-insensitively, or nil.
func (x *Index) LookupArXiv(id string) (*Entry, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil, nil
	}
	return x.first(`WHERE arxiv_id = ?`, id)
}

// ByLocation returns the entry at location, or nil.
func (x *Index) ByLocation(location string) (*Entry, error) {
	return x.first(`WHERE location = ?`, location)
}

// Exact returns the entries whose key or location equals s.
func (x *Index) Exact(s string) ([]Entry, error) {
	return x.query(`WHERE key = ? OR location = ? ORDER BY seq`, s, s)
}

// ByLocationPrefix returns the entries whose location starts with prefix.
// The comparison is case-sensitive and treats every character literally.
func (x *Index) ByLocationPrefix(prefix string) ([]Entry, error) {
	return x.query(`WHERE substr(location, 1, ?) = ? ORDER BY seq`, len([]rune(prefix)), prefix)
}

// All returns every entry in insertion order.
func (x *Index) All() ([]Entry, error) {
	return x.query(`ORDER BY seq`)
}

// Count returns the number of indexed records.
func (x *Index) Count() (int, error) {
	var n int
	err := x.db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&n)
	return n, err
}

// Search runs a full-text query over key, title, authors and year, best
// matches first.
func (x *Index) Search(query string, limit int) ([]Entry, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := x.db.Query(`
		SELECT r.seq, r.year, r.key, r.title, r.authors, r.doi, r.arxiv_id, r.location, r.bib_path
		FROM records r
		JOIN (SELECT location, rank FROM records_fts WHERE records_fts MATCH ?) f
			ON r.location = f.location
		ORDER BY f.rank, r.seq
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (x *Index) first(where string, args ...any) (*Entry, error) {
	entries, err := x.query(where+` ORDER BY seq LIMIT 1`, args...)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

func (x *Index) query(clause string, args ...any) ([]Entry, error) {
	rows, err := x.db.Query(`SELECT `+selectFields+` FROM records `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Seq, &e.Year, &e.Key, &e.Title, &e.Authors, &e.DOI, &e.ArXivID, &e.Location, &e.BibPath); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func yearText(year int) string {
	if year == 0 {
		return ""
	}
	return fmt.Sprintf("%d", year)
}

// prepareFTSQuery quotes queries containing FTS5 operators so user input
// is matched literally.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}
	if strings.ContainsAny(query, "\"*+-:(){}[]^~./_") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}
	return query
}
