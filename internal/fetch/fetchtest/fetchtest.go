// Package fetchtest serves canned upstream responses for fetch and store
// tests.
package fetchtest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Response is a canned answer for one path.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Server is an httptest server standing in for Crossref, arXiv and the
// mirror. Unknown paths answer 404.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]Response
	hits      map[string]int
	userAgent string
}

// NewServer starts a server with the Wasserman and Bronstein fixtures
// registered. It is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		responses: make(map[string]Response),
		hits:      make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)

	s.Handle(CrossrefPath(WassermanDOI, "citeproc+json"), Response{ContentType: "application/json", Body: []byte(WassermanCiteproc)})
	s.Handle(CrossrefPath(WassermanDOI, "x-bibtex"), Response{ContentType: "application/x-bibtex", Body: []byte(WassermanBibTeX)})
	s.Handle("/bibtex/"+BronsteinArXiv, Response{ContentType: "text/plain; charset=utf-8", Body: []byte(BronsteinBibTeX)})
	s.Handle("/pdf/"+BronsteinArXiv+".pdf", Response{ContentType: "application/pdf", Body: TestPDF})
	return s
}

// Handle registers a response for path, replacing any previous one.
func (s *Server) Handle(path string, r Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.Status == 0 {
		r.Status = http.StatusOK
	}
	s.responses[path] = r
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	s.userAgent = r.Header.Get("User-Agent")
	resp, ok := s.responses[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.Status)
	w.Write(resp.Body)
}

// Hits returns the number of requests made for path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Requests returns the total number of requests served.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.hits {
		n += c
	}
	return n
}

// LastUserAgent returns the User-Agent of the most recent request.
func (s *Server) LastUserAgent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userAgent
}

// CrossrefTemplate returns a Crossref endpoint template on this server.
func (s *Server) CrossrefTemplate() string {
	return s.URL + "/works/{doi}/transform/application/{fmt}"
}

// ArXivBibTeXTemplate returns an arXiv BibTeX endpoint template.
func (s *Server) ArXivBibTeXTemplate() string {
	return s.URL + "/bibtex/{arxiv}"
}

// ArXivPDFTemplate returns an arXiv PDF endpoint template.
func (s *Server) ArXivPDFTemplate() string {
	return s.URL + "/pdf/{arxiv}.pdf"
}

// MirrorTemplate returns a mirror endpoint template.
func (s *Server) MirrorTemplate() string {
	return s.URL + "/mirror/{doi}"
}

// CrossrefPath returns the request path for a DOI in the given format.
func CrossrefPath(doi, format string) string {
	return "/works/" + doi + "/transform/application/" + format
}

// MirrorPath returns the mirror request path for a DOI.
func MirrorPath(doi string) string {
	return "/mirror/" + doi
}
