package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/matsen/refman/internal/normalize"
	"github.com/matsen/refman/internal/record"
)

// FromBibTeX builds a record from user-supplied BibTeX. No metadata is
// fetched; the only network access is an explicit document URL. A missing
// or unusable explicit document leaves the record without one.
func (c *Client) FromBibTeX(ctx context.Context, text string, opts Options) (*record.Record, error) {
	text = strings.TrimSpace(text)
	if opts.Key != "" && !normalize.ValidKey(opts.Key) {
		return nil, invalidIdentifier("key", opts.Key)
	}

	rec, err := buildRecord(text, opts.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: bibtex: %v", ErrInvalidIdentifier, err)
	}
	progress := opts.progress()

	if opts.Document != "" {
		progress.Report(rec.Key, "Retrieving document.")
		doc, err := c.explicitDocument(ctx, opts.Document)
		if err != nil {
			c.logger.Warn("explicit document unavailable", "key", rec.Key, "source", opts.Document, "error", err)
			progress.Report(rec.Key, "Could not use "+opts.Document+": "+err.Error())
		} else {
			rec.Document = doc.Data
			rec.DocumentExt = doc.Ext
		}
	}
	return rec, nil
}

// ParseBibTeX derives the record FromBibTeX would build, without any I/O.
// Used to re-key and edit existing records.
func ParseBibTeX(text, key string) (*record.Record, error) {
	rec, err := buildRecord(strings.TrimSpace(text), key)
	if err != nil {
		return nil, fmt.Errorf("%w: bibtex: %v", ErrInvalidIdentifier, err)
	}
	return rec, nil
}
