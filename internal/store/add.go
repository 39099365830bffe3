package store

import (
	"context"
	"fmt"
	"os"

	"github.com/matsen/refman/internal/fetch"
	"github.com/matsen/refman/internal/index"
	"github.com/matsen/refman/internal/normalize"
	"github.com/matsen/refman/internal/pdf"
	"github.com/matsen/refman/internal/record"
)

// AddOptions are the caller's choices for an add.
type AddOptions struct {
	// Key overrides the derived citation key.
	Key string

	// Document is a local path or URL of the document to attach.
	Document string

	// Progress receives status updates. Nil discards them.
	Progress fetch.Progress
}

func (o AddOptions) fetchOptions() fetch.Options {
	return fetch.Options{Key: o.Key, Document: o.Document, Progress: o.Progress}
}

// AddFromDOI adds the work with the given DOI and returns its key. If the
// DOI is already stored, its key is returned and nothing is fetched.
func (s *Store) AddFromDOI(ctx context.Context, doi string, opts AddOptions) (string, error) {
	doi = normalize.CanonicalDOI(doi)
	if !normalize.ValidateDOI(doi) {
		return "", fmt.Errorf("%w: doi %q", fetch.ErrInvalidIdentifier, doi)
	}

	existing, err := s.idx.LookupDOI(doi)
	if err != nil {
		return "", err
	}
	if existing != nil {
		s.logger.Info("doi already stored", "doi", doi, "key", existing.Key)
		return existing.Key, nil
	}

	rec, err := s.fetcher.FromDOI(ctx, doi, opts.fetchOptions())
	if err != nil {
		return "", err
	}
	return s.add(rec, opts.Key != "")
}

// AddFromArXiv adds an arXiv preprint and returns its key. If the id is
// already stored, its key is returned and nothing is fetched.
func (s *Store) AddFromArXiv(ctx context.Context, arxivID string, opts AddOptions) (string, error) {
	id := normalize.CanonicalArXivID(arxivID)
	if !normalize.ValidateArXivID(id) {
		return "", fmt.Errorf("%w: arxiv %q", fetch.ErrInvalidIdentifier, arxivID)
	}

	existing, err := s.idx.LookupArXiv(id)
	if err != nil {
		return "", err
	}
	if existing != nil {
		s.logger.Info("arxiv id already stored", "arxiv", id, "key", existing.Key)
		return existing.Key, nil
	}

	rec, err := s.fetcher.FromArXiv(ctx, id, opts.fetchOptions())
	if err != nil {
		return "", err
	}
	return s.add(rec, opts.Key != "")
}

// AddFromBibTeX adds a record from BibTeX text and returns its key. A
// record with the same key and text is the same record: its key is
// returned and nothing is written. Text carrying a DOI or arXiv id that
// is already stored also resolves to the stored record.
func (s *Store) AddFromBibTeX(ctx context.Context, text string, opts AddOptions) (string, error) {
	rec, err := s.fetcher.FromBibTeX(ctx, text, opts.fetchOptions())
	if err != nil {
		return "", err
	}

	existing, err := s.lookupEntry(rec.Meta.DOI, rec.Meta.ArXivID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		s.logger.Info("identifier already stored", "doi", rec.Meta.DOI, "arxiv", rec.Meta.ArXivID, "key", existing.Key)
		return existing.Key, nil
	}
	return s.add(rec, opts.Key != "")
}

// AddFromDocument reads the DOI printed in a local PDF and adds that DOI
// with the file attached.
func (s *Store) AddFromDocument(ctx context.Context, path string, opts AddOptions) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	if !pdf.LooksLikePDF(data) {
		return "", fmt.Errorf("%s is not a PDF", path)
	}

	doi, err := pdf.ExtractDOI(path)
	if err != nil {
		return "", fmt.Errorf("extracting DOI: %w", err)
	}
	if doi == "" {
		return "", fmt.Errorf("%w: %s", ErrNoDOI, path)
	}
	s.logger.Info("found DOI in document", "doi", doi, "path", path)

	opts.Document = path
	return s.AddFromDOI(ctx, doi, opts)
}

// add persists rec, indexes it and regenerates the bibliography. A record
// whose location is already indexed is not indexed twice. When rec's key
// is used by another record, an explicit key fails with ErrKeyExists and
// any other key is disambiguated with a letter suffix.
func (s *Store) add(rec *record.Record, explicitKey bool) (string, error) {
	indexed, err := s.idx.ByLocation(rec.Location())
	if err != nil {
		return "", err
	}
	if indexed != nil {
		s.logger.Info("record already stored", "key", indexed.Key, "location", indexed.Location)
		return indexed.Key, nil
	}

	owner, err := s.keyOwner(rec.Key, "")
	if err != nil {
		return "", err
	}
	if owner != nil {
		if explicitKey {
			return "", keyExists(rec.Key, owner.Location)
		}
		stored, err := s.disambiguate(rec)
		if err != nil {
			return "", err
		}
		if stored != nil {
			s.logger.Info("record already stored", "key", stored.Key, "location", stored.Location)
			return stored.Key, nil
		}
	}

	if err := s.persist(rec); err != nil {
		return "", err
	}
	if err := s.Export(); err != nil {
		return "", err
	}

	s.logger.Info("added record", "key", rec.Key, "location", rec.Location(), "document", rec.HasDocument())
	return rec.Key, nil
}

// disambiguate re-keys rec to the first of <key>a .. <key>z that no other
// record uses. If the re-keyed text is already stored, that entry is
// returned and rec is left as is.
func (s *Store) disambiguate(rec *record.Record) (*index.Entry, error) {
	base := rec.Key
	for c := 'a'; c <= 'z'; c++ {
		key := base + string(c)
		next, err := fetch.ParseBibTeX(rec.BibTeX, key)
		if err != nil {
			return nil, err
		}

		stored, err := s.idx.ByLocation(next.Location())
		if err != nil {
			return nil, err
		}
		if stored != nil {
			return stored, nil
		}

		owner, err := s.keyOwner(key, "")
		if err != nil {
			return nil, err
		}
		if owner != nil {
			continue
		}

		s.logger.Info("key in use, disambiguated", "key", base, "new_key", key)
		rec.Key = next.Key
		rec.BibTeX = next.BibTeX
		rec.Meta = carryMeta(rec.Meta, next.Meta)
		return nil, nil
	}
	return nil, fmt.Errorf("%w: no free suffix for %q", ErrKeyExists, base)
}

// persist writes rec to disk and indexes it. A directory already at rec's
// location that the index does not know about is left alone.
func (s *Store) persist(rec *record.Record) error {
	dir, written, err := rec.Write(s.root)
	if err != nil {
		return fmt.Errorf("writing %s: %w", rec.Location(), err)
	}
	if !written {
		return fmt.Errorf("%w: %s", ErrUnindexedLocation, rec.Location())
	}

	if _, err := s.idx.Insert(entryFor(rec, rec.Location(), dir)); err != nil {
		return err
	}
	return nil
}
