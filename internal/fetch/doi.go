package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matsen/refman/internal/bibtex"
	"github.com/matsen/refman/internal/normalize"
	"github.com/matsen/refman/internal/record"
)

// FromDOI builds a record for a DOI. Metadata and BibTeX come from Crossref
// and must both succeed; the document is best effort and the record is
// returned without one when every source fails.
func (c *Client) FromDOI(ctx context.Context, doi string, opts Options) (*record.Record, error) {
	doi = normalize.CanonicalDOI(doi)
	if !normalize.ValidateDOI(doi) {
		return nil, invalidIdentifier("doi", doi)
	}
	if opts.Key != "" && !normalize.ValidKey(opts.Key) {
		return nil, invalidIdentifier("key", opts.Key)
	}
	progress := opts.progress()

	progress.Report(doi, "Retrieving structured reference info.")
	cp, err := c.Citeproc(ctx, doi)
	if err != nil {
		return nil, err
	}

	progress.Report(doi, "Retrieving bibtex entry.")
	text, err := c.CrossrefBibTeX(ctx, doi)
	if err != nil {
		return nil, err
	}

	rec, err := buildRecord(text, opts.Key)
	if err != nil {
		return nil, fmt.Errorf("crossref bibtex for %s: %w", doi, err)
	}
	cp.fillGaps(&rec.Meta)
	if rec.Meta.DOI == "" {
		rec.Meta.DOI = doi
	}

	progress.Report(doi, "Retrieving document.")
	if doc := c.resolveDocument(ctx, doi, cp, opts); doc != nil {
		rec.Document = doc.Data
		rec.DocumentExt = doc.Ext
	}
	return rec, nil
}

// Citeproc fetches the structured Crossref record of a DOI.
func (c *Client) Citeproc(ctx context.Context, doi string) (*Citeproc, error) {
	url := expand(c.endpoints.Crossref, "doi", escapeDOI(doi), "fmt", FormatCiteproc)
	resp, err := c.get(ctx, "crossref citeproc", url)
	if err != nil {
		return nil, err
	}

	var cp Citeproc
	if err := json.Unmarshal(resp.Body, &cp); err != nil {
		return nil, &UpstreamError{Op: "crossref citeproc", URL: url, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return &cp, nil
}

// CrossrefBibTeX fetches the BibTeX rendering of a DOI.
func (c *Client) CrossrefBibTeX(ctx context.Context, doi string) (string, error) {
	url := expand(c.endpoints.Crossref, "doi", escapeDOI(doi), "fmt", FormatBibTeX)
	resp, err := c.get(ctx, "crossref bibtex", url)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(resp.Body)), nil
}

// buildRecord applies the key policy to text and derives metadata. The key
// is, in order: the override, the entry's own key if usable, or one derived
// from the metadata. Months are normalized last.
func buildRecord(text, key string) (*record.Record, error) {
	entry, err := bibtex.Parse(text)
	if err != nil {
		return nil, err
	}

	if key == "" && !normalize.ValidKey(entry.Key) {
		key = normalize.DeriveKey(bibtex.ToMetadata(entry))
	}
	if key != "" {
		if text, err = bibtex.OverrideKey(text, key); err != nil {
			return nil, err
		}
	}
	text = bibtex.FixMonths(text)

	entry, err = bibtex.Parse(text)
	if err != nil {
		return nil, err
	}
	meta := bibtex.ToMetadata(entry)
	return record.New(entry.Key, meta, text), nil
}
