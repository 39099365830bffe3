package fetch

import (
	"context"
	"fmt"

	"github.com/matsen/refman/internal/bibtex"
	"github.com/matsen/refman/internal/normalize"
	"github.com/matsen/refman/internal/record"
)

// FromArXiv builds a record for an arXiv preprint. The BibTeX is rewritten
// into the canonical arXiv layout. The PDF is required: there is no
// fallback source for preprints, so a failed download fails the call.
// opts.Document is ignored.
func (c *Client) FromArXiv(ctx context.Context, arxivID string, opts Options) (*record.Record, error) {
	id := normalize.CanonicalArXivID(arxivID)
	if !normalize.ValidateArXivID(id) {
		return nil, invalidIdentifier("arxiv", arxivID)
	}
	if opts.Key != "" && !normalize.ValidKey(opts.Key) {
		return nil, invalidIdentifier("key", opts.Key)
	}
	progress := opts.progress()

	progress.Report(id, "Retrieving bibtex entry.")
	url := expand(c.endpoints.ArXivBibTeX, "arxiv", id)
	resp, err := c.get(ctx, "arxiv bibtex", url)
	if err != nil {
		return nil, err
	}

	src, err := bibtex.Parse(string(resp.Body))
	if err != nil {
		return nil, &UpstreamError{Op: "arxiv bibtex", URL: url, StatusCode: 200, Err: fmt.Errorf("parsing response: %w", err)}
	}

	key := opts.Key
	if key == "" {
		key = normalize.DeriveKey(bibtex.ToMetadata(src))
	}
	text := bibtex.FormatArXiv(src, key, id)

	entry, err := bibtex.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("formatting arxiv entry: %w", err)
	}
	meta := bibtex.ToMetadata(entry)
	if meta.ArXivID == "" {
		meta.ArXivID = id
	}
	rec := record.New(key, meta, text)

	progress.Report(id, "Retrieving document.")
	doc, err := c.download(ctx, "arxiv pdf", expand(c.endpoints.ArXivPDF, "arxiv", id), "arxiv")
	if err != nil {
		return nil, fmt.Errorf("arxiv document for %s: %w", id, err)
	}
	rec.Document = doc.Data
	rec.DocumentExt = doc.Ext
	return rec, nil
}
