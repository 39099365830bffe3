package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/refman/internal/fetch/fetchtest"
)

const linkedDOI = "10.5555/links"

const linkedBibTeX = "@article{Doe_2020,\n  doi = {10.5555/links},\n  author = {Jane Doe},\n  title = {Linked},\n  year = 2020,\n  month = {June}\n}"

func newTestClient(srv *fetchtest.Server, opts ...ClientOption) *Client {
	base := []ClientOption{
		WithEndpoints(Endpoints{
			Crossref:    srv.CrossrefTemplate(),
			ArXivBibTeX: srv.ArXivBibTeXTemplate(),
			ArXivPDF:    srv.ArXivPDFTemplate(),
		}),
		WithRateLimit(1000),
		WithLogger(slog.New(slog.DiscardHandler)),
	}
	return NewClient(append(base, opts...)...)
}

// handleLinked registers a DOI whose citeproc record lists two document
// links: the first serves HTML, the second a PDF.
func handleLinked(srv *fetchtest.Server) {
	citeproc := fmt.Sprintf(`{"DOI":%q,"title":["Linked"],"link":[`+
		`{"URL":"%s/landing","content-type":"application/pdf"},`+
		`{"URL":"%s/unspecified","content-type":"unspecified"},`+
		`{"URL":"%s/real.pdf","content-type":"application/pdf"}]}`,
		linkedDOI, srv.URL, srv.URL, srv.URL)
	srv.Handle(fetchtest.CrossrefPath(linkedDOI, FormatCiteproc), fetchtest.Response{ContentType: "application/json", Body: []byte(citeproc)})
	srv.Handle(fetchtest.CrossrefPath(linkedDOI, FormatBibTeX), fetchtest.Response{ContentType: "application/x-bibtex", Body: []byte(linkedBibTeX)})
	srv.Handle("/landing", fetchtest.Response{ContentType: "text/html", Body: []byte("<html></html>")})
	srv.Handle("/unspecified", fetchtest.Response{ContentType: "application/pdf", Body: []byte("wrong")})
	srv.Handle("/real.pdf", fetchtest.Response{ContentType: "application/pdf", Body: fetchtest.TestPDF})
}

type recordedProgress struct {
	messages []string
}

func (p *recordedProgress) Report(subject, msg string) {
	p.messages = append(p.messages, subject+": "+msg)
}

func (p *recordedProgress) contains(s string) bool {
	for _, m := range p.messages {
		if strings.Contains(m, s) {
			return true
		}
	}
	return false
}

func TestFromDOI_Wasserman(t *testing.T) {
	srv := fetchtest.NewServer(t)
	c := newTestClient(srv)

	rec, err := c.FromDOI(context.Background(), fetchtest.WassermanDOI, Options{})
	require.NoError(t, err)

	assert.Equal(t, "Wasserman_2018", rec.Key)
	assert.Equal(t, fetchtest.WassermanBibTeX, rec.BibTeX)
	assert.Equal(t, fetchtest.WassermanDOI, rec.Meta.DOI)
	assert.Equal(t, 2018, rec.Meta.Year)
	assert.Equal(t, "Topological Data Analysis", rec.Meta.Title)
	assert.Nil(t, rec.Document, "unspecified link content type must not yield a document")

	assert.Equal(t, 1, srv.Hits(fetchtest.CrossrefPath(fetchtest.WassermanDOI, FormatCiteproc)))
	assert.Equal(t, 1, srv.Hits(fetchtest.CrossrefPath(fetchtest.WassermanDOI, FormatBibTeX)))
	assert.Equal(t, DefaultUserAgent, srv.LastUserAgent())
}

func TestFromDOI_CanonicalizesInput(t *testing.T) {
	srv := fetchtest.NewServer(t)
	c := newTestClient(srv)

	rec, err := c.FromDOI(context.Background(), "https://doi.org/"+fetchtest.WassermanDOI, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Wasserman_2018", rec.Key)
}

func TestFromDOI_KeyOverride(t *testing.T) {
	srv := fetchtest.NewServer(t)
	c := newTestClient(srv)

	rec, err := c.FromDOI(context.Background(), fetchtest.WassermanDOI, Options{Key: "TestKey_2000"})
	require.NoError(t, err)

	assert.Equal(t, "TestKey_2000", rec.Key)
	assert.Equal(t, "TestKey_2000", rec.Meta.Key)
	assert.True(t, strings.HasPrefix(rec.BibTeX, "@article{TestKey_2000,"))
	assert.Equal(t, fetchtest.WassermanDOI, rec.Meta.DOI)
}

func TestFromDOI_InvalidIdentifier(t *testing.T) {
	srv := fetchtest.NewServer(t)
	c := newTestClient(srv)

	for _, doi := range []string{"", "0", "abcd", "11.1234/x", "10.12/short"} {
		t.Run(doi, func(t *testing.T) {
			_, err := c.FromDOI(context.Background(), doi, Options{})
			assert.ErrorIs(t, err, ErrInvalidIdentifier)
			assert.True(t, IsInvalidIdentifier(err))
		})
	}

	_, err := c.FromDOI(context.Background(), fetchtest.WassermanDOI, Options{Key: "bad key"})
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	assert.Equal(t, 0, srv.Requests(), "invalid input must not reach the network")
}

func TestFromDOI_UpstreamError(t *testing.T) {
	srv := fetchtest.NewServer(t)
	c := newTestClient(srv)

	_, err := c.FromDOI(context.Background(), "10.1234/missing", Options{})
	require.Error(t, err)
	assert.True(t, IsUpstream(err))
	assert.True(t, IsNotFound(err))

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, 404, upErr.StatusCode)
	assert.Equal(t, "crossref citeproc", upErr.Op)
	assert.Contains(t, upErr.URL, "/works/10.1234/missing/transform/application/citeproc+json")
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestFromDOI_BibTeXFailure(t *testing.T) {
	srv := fetchtest.NewServer(t)
	srv.Handle(fetchtest.CrossrefPath(fetchtest.WassermanDOI, FormatBibTeX), fetchtest.Response{Status: 503})
	c := newTestClient(srv)

	_, err := c.FromDOI(context.Background(), fetchtest.WassermanDOI, Options{})
	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, 503, upErr.StatusCode)
	assert.Equal(t, "crossref bibtex", upErr.Op)
}

func TestFromDOI_ExplicitLocalDocument(t *testing.T) {
	srv := fetchtest.NewServer(t)
	c := newTestClient(srv)

	path := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(path, fetchtest.TestPDF, 0644))

	rec, err := c.FromDOI(context.Background(), fetchtest.WassermanDOI, Options{Document: path})
	require.NoError(t, err)
	assert.Equal(t, fetchtest.TestPDF, rec.Document)
	assert.Equal(t, "pdf", rec.DocumentExt)
}

func TestFromDOI_ExplicitURLWrongContentType(t *testing.T) {
	srv := fetchtest.NewServer(t)
	srv.Handle("/page", fetchtest.Response{ContentType: "text/html", Body: []byte("<html></html>")})
	c := newTestClient(srv)

	progress := &recordedProgress{}
	rec, err := c.FromDOI(context.Background(), fetchtest.WassermanDOI, Options{
		Document: srv.URL + "/page",
		Progress: progress,
	})
	require.NoError(t, err, "a bad explicit document degrades, it does not fail")
	assert.Nil(t, rec.Document)
	assert.True(t, progress.contains("No document available."))
}

func TestFromDOI_MissingLocalDocument(t *testing.T) {
	srv := fetchtest.NewServer(t)
	c := newTestClient(srv)

	rec, err := c.FromDOI(context.Background(), fetchtest.WassermanDOI, Options{Document: filepath.Join(t.TempDir(), "none.pdf")})
	require.NoError(t, err)
	assert.Nil(t, rec.Document)
}

func TestFromDOI_CiteprocLinks(t *testing.T) {
	srv := fetchtest.NewServer(t)
	handleLinked(srv)
	c := newTestClient(srv)

	rec, err := c.FromDOI(context.Background(), linkedDOI, Options{})
	require.NoError(t, err)

	assert.Equal(t, "Doe_2020", rec.Key)
	assert.Equal(t, "jun", rec.Meta.Month)
	assert.Contains(t, rec.BibTeX, "month = {jun}")
	assert.Equal(t, fetchtest.TestPDF, rec.Document)
	assert.Equal(t, 1, srv.Hits("/landing"), "wrong content type falls through to the next link")
	assert.Equal(t, 0, srv.Hits("/unspecified"), "links without a document type are skipped")
	assert.Equal(t, 1, srv.Hits("/real.pdf"))
}

func TestFromDOI_MirrorHTML(t *testing.T) {
	srv := fetchtest.NewServer(t)
	srv.Handle(fetchtest.MirrorPath(fetchtest.WassermanDOI), fetchtest.Response{
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(`<html><body><div id="article"><iframe src="/files/wasserman.pdf#view=FitH"></iframe></div></body></html>`),
	})
	srv.Handle("/files/wasserman.pdf", fetchtest.Response{ContentType: "application/pdf", Body: fetchtest.TestPDF})
	c := newTestClient(srv, WithMirrorURL(srv.MirrorTemplate()))

	progress := &recordedProgress{}
	rec, err := c.FromDOI(context.Background(), fetchtest.WassermanDOI, Options{Progress: progress})
	require.NoError(t, err)
	assert.Equal(t, fetchtest.TestPDF, rec.Document)
	assert.True(t, progress.contains("Got document from mirror."))
}

func TestFromDOI_MirrorFailureSwallowed(t *testing.T) {
	srv := fetchtest.NewServer(t)
	srv.Handle(fetchtest.MirrorPath(fetchtest.WassermanDOI), fetchtest.Response{Status: 500})
	c := newTestClient(srv, WithMirrorURL(srv.MirrorTemplate()))

	progress := &recordedProgress{}
	rec, err := c.FromDOI(context.Background(), fetchtest.WassermanDOI, Options{Progress: progress})
	require.NoError(t, err)
	assert.Nil(t, rec.Document)
	assert.Equal(t, 1, srv.Hits(fetchtest.MirrorPath(fetchtest.WassermanDOI)))
	assert.True(t, progress.contains("Failed to get document from mirror."))
}

func TestFromArXiv(t *testing.T) {
	srv := fetchtest.NewServer(t)
	c := newTestClient(srv)

	rec, err := c.FromArXiv(context.Background(), "arXiv:"+fetchtest.BronsteinArXiv+"v3", Options{})
	require.NoError(t, err)

	assert.Equal(t, "Bronstein_2021", rec.Key)
	assert.Equal(t, fetchtest.BronsteinArXiv, rec.Meta.ArXivID)
	assert.Equal(t, "", rec.Meta.DOI)
	assert.True(t, strings.HasPrefix(rec.BibTeX, "@article{Bronstein_2021,\nAuthor        = {"))
	assert.Contains(t, rec.BibTeX, "File          = {Bronstein_2021.pdf}")
	assert.Equal(t, fetchtest.TestPDF, rec.Document)
}

func TestFromArXiv_KeyOverride(t *testing.T) {
	srv := fetchtest.NewServer(t)
	c := newTestClient(srv)

	rec, err := c.FromArXiv(context.Background(), fetchtest.BronsteinArXiv, Options{Key: "GDL_2021"})
	require.NoError(t, err)
	assert.Equal(t, "GDL_2021", rec.Key)
	assert.Contains(t, rec.BibTeX, "File          = {GDL_2021.pdf}")
}

func TestFromArXiv_DocumentFailureIsFatal(t *testing.T) {
	srv := fetchtest.NewServer(t)
	srv.Handle("/pdf/"+fetchtest.BronsteinArXiv+".pdf", fetchtest.Response{ContentType: "text/html", Body: []byte("captcha")})
	c := newTestClient(srv)

	_, err := c.FromArXiv(context.Background(), fetchtest.BronsteinArXiv, Options{})
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestFromArXiv_InvalidIdentifier(t *testing.T) {
	srv := fetchtest.NewServer(t)
	c := newTestClient(srv)

	for _, id := range []string{"", "abcd.1234", "2104-13478", "2104."} {
		_, err := c.FromArXiv(context.Background(), id, Options{})
		assert.ErrorIs(t, err, ErrInvalidIdentifier, id)
	}
	assert.Equal(t, 0, srv.Requests())
}

func TestFromBibTeX(t *testing.T) {
	srv := fetchtest.NewServer(t)
	c := newTestClient(srv)

	rec, err := c.FromBibTeX(context.Background(), "\n@misc{whatever, title = {Notes}, author = {Ada Lovelace}, year = {1843}}\n", Options{Key: "Lovelace_1843"})
	require.NoError(t, err)

	assert.Equal(t, "Lovelace_1843", rec.Key)
	assert.Equal(t, "@misc{Lovelace_1843,\n  title = {Notes},\n  author = {Ada Lovelace},\n  year = {1843},\n  doi = {}\n}", rec.BibTeX)
	assert.Equal(t, "", rec.Meta.DOI)
	assert.Nil(t, rec.Document)
	assert.Equal(t, 0, srv.Requests())
}

func TestFromBibTeX_DerivesKeyWhenUnusable(t *testing.T) {
	c := NewClient(WithLogger(slog.New(slog.DiscardHandler)))

	rec, err := c.FromBibTeX(context.Background(), "@misc{, author = {Kurt Gödel}, year = 1931}", Options{})
	require.NoError(t, err)
	assert.Equal(t, "Godel_1931", rec.Key)
}

func TestParseBibTeX_OneLineMonths(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "braced",
			in:   "@article{Knuth_1984, title={Literate Programming}, author={Donald E. Knuth}, year={1984}, month={March}}",
			want: "@article{Knuth_1984, title={Literate Programming}, author={Donald E. Knuth}, year={1984}, month={mar}}",
		},
		{
			name: "crossref shape",
			in:   " @article{Wasserman_2018, title={Topological Data Analysis}, volume={5}, DOI={10.1146/annurev-statistics-031017-100045}, journal={Annual Review of Statistics and Its Application}, author={Wasserman, Larry}, year={2018}, month=Mar, pages={501-532} }",
			want: "@article{Wasserman_2018, title={Topological Data Analysis}, volume={5}, DOI={10.1146/annurev-statistics-031017-100045}, journal={Annual Review of Statistics and Its Application}, author={Wasserman, Larry}, year={2018}, month=mar, pages={501-532} }",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseBibTeX(tt.in, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.BibTeX)
			assert.Equal(t, "mar", rec.Meta.Month)
		})
	}
}

func TestFromBibTeX_Invalid(t *testing.T) {
	c := NewClient()
	_, err := c.FromBibTeX(context.Background(), "not bibtex", Options{})
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestFromBibTeX_ExplicitURL(t *testing.T) {
	srv := fetchtest.NewServer(t)
	srv.Handle("/doc.pdf", fetchtest.Response{ContentType: "application/pdf", Body: fetchtest.TestPDF})
	c := newTestClient(srv)

	rec, err := c.FromBibTeX(context.Background(), fetchtest.WassermanBibTeX, Options{Document: srv.URL + "/doc.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "Wasserman_2018", rec.Key)
	assert.Equal(t, fetchtest.WassermanBibTeX, rec.BibTeX)
	assert.Equal(t, fetchtest.TestPDF, rec.Document)
}

func TestFindEmbeddedDocument(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		want    string
		wantErr bool
	}{
		{"iframe", `<iframe src="https://cdn.example.org/a.pdf"></iframe>`, "https://cdn.example.org/a.pdf", false},
		{"embed", `<embed type="application/pdf" src="//cdn.example.org/b.pdf">`, "//cdn.example.org/b.pdf", false},
		{"iframe wins over anchor", `<a href="/x.pdf">x</a><iframe src="/y.pdf"></iframe>`, "/y.pdf", false},
		{"anchor to pdf", `<a href="/about">about</a><a href="/files/c.PDF?dl=1">c</a>`, "/files/c.PDF?dl=1", false},
		{"nothing", `<p>not found</p>`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := findEmbeddedDocument(tt.page)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveLink(t *testing.T) {
	got, err := resolveLink("https://mirror.example.org/10.1/x", "//cdn.example.org/b.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.org/b.pdf", got)

	got, err = resolveLink("https://mirror.example.org/10.1/x", "/files/b.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://mirror.example.org/files/b.pdf", got)
}

func TestIsDocument(t *testing.T) {
	assert.True(t, isDocument("application/pdf"))
	assert.True(t, isDocument("Application/PDF; charset=binary"))
	assert.False(t, isDocument("text/html"))
	assert.False(t, isDocument("unspecified"))
	assert.False(t, isDocument(""))
}
