package store

import (
	"context"
	"fmt"
	"os"

	"github.com/matsen/refman/internal/fetch"
	"github.com/matsen/refman/internal/index"
	"github.com/matsen/refman/internal/normalize"
	"github.com/matsen/refman/internal/record"
	"github.com/matsen/refman/internal/reference"
)

// EditResult reports the outcome of EditMetadata.
type EditResult struct {
	Key      string `json:"key"`
	OldKey   string `json:"old_key"`
	Location string `json:"location"`
	Changed  bool   `json:"changed"`
}

// Rekey gives the record matching oldPattern a new key. The record is
// written at its new location before the old one is removed, so a failure
// never loses it. Document and notes move with it. A key used by another
// record fails with ErrKeyExists before anything is written.
func (s *Store) Rekey(ctx context.Context, oldPattern, newKey string) (string, error) {
	if !normalize.ValidKey(newKey) {
		return "", fmt.Errorf("%w: key %q", fetch.ErrInvalidIdentifier, newKey)
	}

	old, err := s.ResolveKey(oldPattern, true)
	if err != nil {
		return "", err
	}
	owner, err := s.keyOwner(newKey, old.Location)
	if err != nil {
		return "", err
	}
	if owner != nil {
		return "", keyExists(newKey, owner.Location)
	}

	cur, err := record.Load(s.Dir(old), true)
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", old.Location, err)
	}

	next, err := fetch.ParseBibTeX(cur.BibTeX, newKey)
	if err != nil {
		return "", err
	}
	next.Meta = carryMeta(cur.Meta, next.Meta)

	if err := s.replace(old, cur, next); err != nil {
		return "", err
	}
	s.logger.Info("rekeyed record", "old_key", old.Key, "key", next.Key, "location", next.Location())
	return next.Key, nil
}

// EditMetadata opens the BibTeX of the record matching pattern in the
// editor. Changed text replaces the record as Rekey does; unchanged text
// leaves everything as is and is reported with Changed false.
func (s *Store) EditMetadata(ctx context.Context, pattern string) (EditResult, error) {
	if s.editor == nil {
		return EditResult{}, ErrNoEditor
	}

	old, err := s.ResolveKey(pattern, true)
	if err != nil {
		return EditResult{}, err
	}
	cur, err := record.Load(s.Dir(old), true)
	if err != nil {
		return EditResult{}, fmt.Errorf("loading %s: %w", old.Location, err)
	}

	edited, err := s.editor.Edit(ctx, cur.BibTeX)
	if err != nil {
		return EditResult{}, fmt.Errorf("editing %s: %w", old.Key, err)
	}

	result := EditResult{Key: old.Key, OldKey: old.Key, Location: old.Location}
	if edited == cur.BibTeX {
		s.logger.Warn("bibtex unchanged, nothing to do", "key", old.Key)
		return result, nil
	}

	next, err := fetch.ParseBibTeX(edited, "")
	if err != nil {
		return EditResult{}, err
	}
	if next.Location() == old.Location {
		s.logger.Warn("bibtex unchanged after normalization, nothing to do", "key", old.Key)
		return result, nil
	}
	owner, err := s.keyOwner(next.Key, old.Location)
	if err != nil {
		return EditResult{}, err
	}
	if owner != nil {
		return EditResult{}, keyExists(next.Key, owner.Location)
	}

	if err := s.replace(old, cur, next); err != nil {
		return EditResult{}, err
	}
	s.logger.Info("edited record", "old_key", old.Key, "key", next.Key, "location", next.Location())

	result.Key = next.Key
	result.Location = next.Location()
	result.Changed = true
	return result, nil
}

// replace stores next in place of the indexed record old (loaded as cur).
// The new record is written and indexed first; only then is the old
// location removed. An unindexed directory already at the new location
// fails the replace and the old record stays put.
func (s *Store) replace(old index.Entry, cur, next *record.Record) error {
	next.Document = cur.Document
	next.DocumentExt = cur.DocumentExt
	next.Notes = cur.Notes

	if next.Location() == old.Location {
		return nil
	}

	indexed, err := s.idx.ByLocation(next.Location())
	if err != nil {
		return err
	}
	if indexed == nil {
		if err := s.persist(next); err != nil {
			return err
		}
	}

	if err := os.RemoveAll(s.Dir(old)); err != nil {
		return fmt.Errorf("removing %s: %w", old.Location, err)
	}
	if err := s.idx.Delete(old.Location); err != nil {
		return err
	}
	return s.Export()
}

// carryMeta keeps metadata gathered at fetch time, such as values filled
// in from Crossref, across a key change.
func carryMeta(cur, parsed reference.Metadata) reference.Metadata {
	merged := cur
	merged.Key = parsed.Key
	merged.Fields = parsed.Fields
	return merged
}

// Remove deletes the record matching pattern. Prefix matching is only
// used when allowWildcard is set, and a key or location that matches
// exactly is removed even if it is also a prefix of other locations.
func (s *Store) Remove(pattern string, allowWildcard bool) (index.Entry, error) {
	e, err := s.ResolveKey(pattern, allowWildcard)
	if err != nil {
		return index.Entry{}, err
	}

	if err := os.RemoveAll(s.Dir(e)); err != nil {
		return index.Entry{}, fmt.Errorf("removing %s: %w", e.Location, err)
	}
	if err := s.idx.Delete(e.Location); err != nil {
		return index.Entry{}, err
	}
	if err := s.Export(); err != nil {
		return index.Entry{}, err
	}

	s.logger.Info("removed record", "key", e.Key, "location", e.Location)
	return e, nil
}

// SetNotes replaces the notes of the record matching pattern. Notes are
// not part of the content hash, so the record keeps its location.
func (s *Store) SetNotes(pattern, notes string) (index.Entry, error) {
	e, err := s.ResolveKey(pattern, true)
	if err != nil {
		return index.Entry{}, err
	}
	if err := record.WriteNotes(s.Dir(e), notes); err != nil {
		return index.Entry{}, err
	}
	s.logger.Info("updated notes", "key", e.Key)
	return e, nil
}

// Notes returns the notes of the record matching pattern.
func (s *Store) Notes(pattern string) (string, error) {
	e, err := s.ResolveKey(pattern, true)
	if err != nil {
		return "", err
	}
	rec, err := record.Load(s.Dir(e), false)
	if err != nil {
		return "", err
	}
	return rec.Notes, nil
}

// DocumentPath returns the document file of the record matching pattern.
func (s *Store) DocumentPath(pattern string) (string, error) {
	e, err := s.ResolveKey(pattern, true)
	if err != nil {
		return "", err
	}
	path, ok := record.FindDocument(s.Dir(e))
	if !ok {
		return "", fmt.Errorf("%w: %s", fetch.ErrNoDocument, e.Key)
	}
	return path, nil
}
