package fetch

import (
	"encoding/json"
	"strings"

	"github.com/matsen/refman/internal/reference"
)

// Citeproc is the subset of a Crossref citeproc+json record used to fill
// metadata gaps and to discover document links.
type Citeproc struct {
	DOI            string         `json:"DOI"`
	Type           string         `json:"type"`
	Title          textList       `json:"title"`
	ContainerTitle textList       `json:"container-title"`
	Publisher      string         `json:"publisher"`
	Author         []CiteprocName `json:"author"`
	Issued         CiteprocDate   `json:"issued"`
	Link           []CiteprocLink `json:"link"`
	URL            string         `json:"URL"`
}

// CiteprocName is an author entry.
type CiteprocName struct {
	Given   string `json:"given"`
	Family  string `json:"family"`
	Literal string `json:"literal"`
}

// CiteprocDate is a date in date-parts form, e.g. [[2018, 3, 7]].
type CiteprocDate struct {
	DateParts [][]int `json:"date-parts"`
}

// CiteprocLink is a full-text link advertised by the publisher.
type CiteprocLink struct {
	URL                 string `json:"URL"`
	ContentType         string `json:"content-type"`
	ContentVersion      string `json:"content-version"`
	IntendedApplication string `json:"intended-application"`
}

// textList decodes a field Crossref sends either as a string or a list.
type textList []string

func (t *textList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = textList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = list
	return nil
}

func (t textList) first() string {
	for _, s := range t {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// Year returns the issued year, or 0 if unknown.
func (c *Citeproc) Year() int {
	if len(c.Issued.DateParts) == 0 || len(c.Issued.DateParts[0]) == 0 {
		return 0
	}
	return c.Issued.DateParts[0][0]
}

// Authors returns the author list in normalized form.
func (c *Citeproc) Authors() []reference.Author {
	authors := make([]reference.Author, 0, len(c.Author))
	for _, a := range c.Author {
		if a.Family == "" && a.Literal != "" {
			authors = append(authors, reference.Author{Last: a.Literal})
			continue
		}
		authors = append(authors, reference.Author{First: a.Given, Last: a.Family})
	}
	return authors
}

// DocumentLinks returns the links whose declared content type is a
// document, in the order Crossref lists them.
func (c *Citeproc) DocumentLinks() []string {
	var urls []string
	for _, l := range c.Link {
		if l.URL != "" && isDocument(l.ContentType) {
			urls = append(urls, l.URL)
		}
	}
	return urls
}

// fillGaps copies citeproc values into the empty fields of meta.
func (c *Citeproc) fillGaps(meta *reference.Metadata) {
	if meta.Title == "" {
		meta.Title = c.Title.first()
	}
	if len(meta.Authors) == 0 {
		meta.Authors = c.Authors()
	}
	if meta.Year == 0 {
		meta.Year = c.Year()
	}
	if meta.Venue == "" {
		meta.Venue = c.ContainerTitle.first()
	}
	if meta.Venue == "" {
		meta.Venue = c.Publisher
	}
}
