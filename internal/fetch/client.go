// Package fetch resolves identifiers into records: metadata and BibTeX from
// Crossref or arXiv, and a document from a chain of fallback sources.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultCrossrefURL is the Crossref content-negotiation endpoint.
	DefaultCrossrefURL = "http://api.crossref.org/works/{doi}/transform/application/{fmt}"

	// DefaultArXivBibTeXURL returns the BibTeX entry of a preprint.
	DefaultArXivBibTeXURL = "https://arxiv.org/bibtex/{arxiv}"

	// DefaultArXivPDFURL returns the PDF of a preprint.
	DefaultArXivPDFURL = "https://arxiv.org/pdf/{arxiv}.pdf"

	// Crossref output formats.
	FormatCiteproc = "citeproc+json"
	FormatBibTeX   = "x-bibtex"

	// DefaultUserAgent is sent with every request. Some upstreams reject
	// clients that do not look like a browser.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

	// DefaultTimeout bounds each request.
	DefaultTimeout = 60 * time.Second

	// DefaultRateLimit is the number of requests per second.
	DefaultRateLimit = 5.0

	// documentType is the content type accepted for documents.
	documentType = "application/pdf"
)

// Endpoints are the URL templates used by the client. Placeholders are
// {doi}, {fmt} and {arxiv}. An empty Mirror disables the mirror fallback.
type Endpoints struct {
	Crossref    string
	ArXivBibTeX string
	ArXivPDF    string
	Mirror      string
}

// DefaultEndpoints returns the public service endpoints. The mirror is
// disabled unless configured.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Crossref:    DefaultCrossrefURL,
		ArXivBibTeX: DefaultArXivBibTeXURL,
		ArXivPDF:    DefaultArXivPDFURL,
	}
}

// Client is a rate-limited HTTP client for the metadata and document
// sources.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	endpoints  Endpoints
	userAgent  string
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithEndpoints replaces all endpoint templates (for testing).
func WithEndpoints(e Endpoints) ClientOption {
	return func(c *Client) {
		c.endpoints = e
	}
}

// WithMirrorURL sets the mirror template. Empty disables the mirror.
func WithMirrorURL(tmpl string) ClientOption {
	return func(c *Client) {
		c.endpoints.Mirror = tmpl
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit sets the maximum requests per second.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLogger sets the logger used for degraded document retrieval.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a new fetch client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		endpoints:  DefaultEndpoints(),
		userAgent:  DefaultUserAgent,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoints returns the client's endpoint templates.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// response is a fully read upstream response.
type response struct {
	URL         string
	ContentType string
	Body        []byte
}

// get performs one rate-limited GET. Non-2xx answers become UpstreamErrors.
func (c *Client) get(ctx context.Context, op, url string) (*response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &UpstreamError{Op: op, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: op, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &UpstreamError{Op: op, URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Op: op, URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	return &response{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// isDocument reports whether a content type denotes a document payload.
func isDocument(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), documentType)
	}
	return mediaType == documentType
}

// expand fills the placeholders of an endpoint template.
func expand(tmpl string, vars ...string) string {
	pairs := make([]string, 0, len(vars))
	for i := 0; i+1 < len(vars); i += 2 {
		pairs = append(pairs, "{"+vars[i]+"}", vars[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// escapeDOI escapes the characters of a DOI that would end a URL path.
// Slashes are kept, as the upstream APIs expect them literally.
var escapeDOI = strings.NewReplacer("%", "%25", "#", "%23", "?", "%3F").Replace
