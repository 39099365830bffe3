package importer

import (
	"context"
	"log/slog"

	"github.com/matsen/refman/internal/fetch"
	"github.com/matsen/refman/internal/normalize"
	"github.com/matsen/refman/internal/store"
)

// Item is one reference to import.
type Item struct {
	Key      string // Citation key from the source, possibly unusable
	DOI      string
	ArXivID  string
	BibTeX   string // Entry text used when nothing is fetched
	Document string // Local path of the document, or ""
}

func (it Item) label() string {
	switch {
	case it.Key != "":
		return it.Key
	case it.DOI != "":
		return it.DOI
	default:
		return it.ArXivID
	}
}

// Adder is the part of a store an import needs.
type Adder interface {
	AddFromDOI(ctx context.Context, doi string, opts store.AddOptions) (string, error)
	AddFromArXiv(ctx context.Context, arxivID string, opts store.AddOptions) (string, error)
	AddFromBibTeX(ctx context.Context, text string, opts store.AddOptions) (string, error)
}

// Failure is an item that could not be imported.
type Failure struct {
	Item  string `json:"item"`
	Error string `json:"error"`
}

// Result summarizes an import.
type Result struct {
	Added  []string  `json:"added"`
	Failed []Failure `json:"failed"`
}

// Options control an import.
type Options struct {
	// Fetch resolves items with a DOI or arXiv id upstream instead of
	// storing their BibTeX as given.
	Fetch bool

	Progress fetch.Progress
	Logger   *slog.Logger
}

// Import adds items in order. A failing item is recorded and the import
// continues; only a cancelled context stops it early.
func Import(ctx context.Context, a Adder, items []Item, opts Options) Result {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var res Result
	for _, it := range items {
		if ctx.Err() != nil {
			res.Failed = append(res.Failed, Failure{Item: it.label(), Error: ctx.Err().Error()})
			continue
		}

		key, err := importOne(ctx, a, it, opts)
		if err != nil {
			logger.Warn("import failed", "item", it.label(), "error", err)
			res.Failed = append(res.Failed, Failure{Item: it.label(), Error: err.Error()})
			continue
		}
		logger.Debug("imported", "item", it.label(), "key", key)
		res.Added = append(res.Added, key)
	}
	return res
}

func importOne(ctx context.Context, a Adder, it Item, opts Options) (string, error) {
	addOpts := store.AddOptions{Document: it.Document, Progress: opts.Progress}
	if normalize.ValidKey(it.Key) {
		addOpts.Key = it.Key
	}

	switch {
	case opts.Fetch && it.DOI != "":
		return a.AddFromDOI(ctx, it.DOI, addOpts)
	case opts.Fetch && it.ArXivID != "":
		addOpts.Document = ""
		return a.AddFromArXiv(ctx, it.ArXivID, addOpts)
	default:
		return a.AddFromBibTeX(ctx, it.BibTeX, addOpts)
	}
}
