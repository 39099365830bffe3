package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/matsen/refman/internal/normalize"
	"github.com/matsen/refman/internal/record"
)

// document is a retrieved document payload.
type document struct {
	Data   []byte
	Ext    string
	Source string // explicit, link, mirror or arxiv
}

// explicitDocument reads a document from a local path or URL. URLs are only
// accepted when the response has a document content type.
func (c *Client) explicitDocument(ctx context.Context, src string) (*document, error) {
	if normalize.ValidateURL(src) {
		return c.download(ctx, "explicit document", src, "explicit")
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src, err)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(src)), ".")
	if ext == "" {
		ext = record.DefaultDocumentExt
	}
	return &document{Data: data, Ext: ext, Source: "explicit"}, nil
}

// download fetches url and accepts the body only if it is a document.
func (c *Client) download(ctx context.Context, op, url, source string) (*document, error) {
	resp, err := c.get(ctx, op, url)
	if err != nil {
		return nil, err
	}
	if !isDocument(resp.ContentType) {
		return nil, fmt.Errorf("%w: %s returned %q", ErrNoDocument, url, resp.ContentType)
	}
	return &document{Data: resp.Body, Ext: record.DefaultDocumentExt, Source: source}, nil
}

// resolveDocument runs the document chain for a DOI: the explicit source,
// then each citeproc link with a document content type, then the mirror.
// Failures are logged and reported but never returned; nil means no source
// produced a document.
func (c *Client) resolveDocument(ctx context.Context, doi string, cp *Citeproc, opts Options) *document {
	progress := opts.progress()

	if opts.Document != "" {
		doc, err := c.explicitDocument(ctx, opts.Document)
		if err == nil {
			progress.Report(doi, "Got document from "+opts.Document+".")
			return doc
		}
		c.logger.Warn("explicit document unavailable", "doi", doi, "source", opts.Document, "error", err)
		progress.Report(doi, "Could not use "+opts.Document+": "+err.Error())
	}

	if links := cp.DocumentLinks(); len(links) > 0 {
		progress.Report(doi, "Found document link from crossref, attempting download.")
		for _, link := range links {
			doc, err := c.download(ctx, "citeproc link", link, "link")
			if err == nil {
				progress.Report(doi, "Got document from citeproc link.")
				return doc
			}
			c.logger.Warn("citeproc link failed", "doi", doi, "url", link, "error", err)
		}
	} else if len(cp.Link) > 0 {
		progress.Report(doi, "Citeproc record has links, but none to a document.")
	}

	if c.endpoints.Mirror == "" {
		c.logger.Warn("no document retrieved, mirror disabled", "doi", doi)
		progress.Report(doi, "No document available.")
		return nil
	}

	progress.Report(doi, "Falling back to mirror for document retrieval.")
	doc, err := c.mirrorDocument(ctx, doi)
	if err != nil {
		c.logger.Warn("no document retrieved", "doi", doi, "source", "mirror", "error", err)
		progress.Report(doi, "Failed to get document from mirror. No document available.")
		return nil
	}
	progress.Report(doi, "Got document from mirror.")
	return doc
}

// mirrorDocument looks the DOI up on the mirror. The mirror either serves
// the document directly or an HTML page embedding it.
func (c *Client) mirrorDocument(ctx context.Context, doi string) (*document, error) {
	pageURL := expand(c.endpoints.Mirror, "doi", escapeDOI(doi))
	page, err := c.get(ctx, "mirror lookup", pageURL)
	if err != nil {
		return nil, err
	}
	if isDocument(page.ContentType) {
		return &document{Data: page.Body, Ext: record.DefaultDocumentExt, Source: "mirror"}, nil
	}

	link, err := findEmbeddedDocument(string(page.Body))
	if err != nil {
		return nil, err
	}
	target, err := resolveLink(page.URL, link)
	if err != nil {
		return nil, err
	}
	return c.download(ctx, "mirror document", target, "mirror")
}

// findEmbeddedDocument returns the first iframe or embed src of an HTML
// page, or failing that the first anchor pointing at a .pdf.
func findEmbeddedDocument(page string) (string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parsing mirror page: %w", err)
	}

	var embedded, anchor string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if embedded != "" {
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "iframe", "embed":
				if src := attr(n, "src"); src != "" {
					embedded = src
					return
				}
			case "a":
				href := attr(n, "href")
				if anchor == "" && isPDFLink(href) {
					anchor = href
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	if embedded != "" {
		return embedded, nil
	}
	if anchor != "" {
		return anchor, nil
	}
	return "", errors.New("mirror page embeds no document")
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func isPDFLink(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}

// resolveLink resolves a possibly relative or protocol-relative link
// against the page it was found on.
func resolveLink(base, link string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing page URL: %w", err)
	}
	l, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parsing document link %q: %w", link, err)
	}
	return b.ResolveReference(l).String(), nil
}
