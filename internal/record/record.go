// Package record defines one stored reference and its on-disk layout.
//
// A record lives in <root>/<key>_<hash>/ where hash is the first seven hex
// digits of the MD5 of its BibTeX text. The directory holds:
//
//	meta.json    normalized metadata; its presence marks a record directory
//	entry.bib    the BibTeX text, verbatim
//	notes.org    free-form notes, only when non-empty
//	<key>.<ext>  the document, only when one was retrieved
package record

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/matsen/refman/internal/reference"
)

// File names inside a record directory.
const (
	MetaName  = "meta.json"
	BibName   = "entry.bib"
	NotesName = "notes.org"
)

// DefaultDocumentExt is the extension used for retrieved documents.
const DefaultDocumentExt = "pdf"

// HashLen is the number of hex digits of the content hash in a location.
const HashLen = 7

// Record is one stored reference.
type Record struct {
	Key         string
	Meta        reference.Metadata
	BibTeX      string
	Document    []byte // nil when no document is available
	DocumentExt string
	Notes       string
}

// New creates a record for bibtex under key. The metadata key is forced to
// key so the two never disagree.
func New(key string, meta reference.Metadata, bibtex string) *Record {
	meta.Key = key
	return &Record{
		Key:         key,
		Meta:        meta,
		BibTeX:      bibtex,
		DocumentExt: DefaultDocumentExt,
	}
}

// HasDocument reports whether the record carries document bytes.
func (r *Record) HasDocument() bool {
	return len(r.Document) > 0
}

// Location returns the content-addressed directory name of the record.
func (r *Record) Location() string {
	return Location(r.Key, r.BibTeX)
}

// DocumentName returns the document file name, <key>.<ext>.
func (r *Record) DocumentName() string {
	ext := r.DocumentExt
	if ext == "" {
		ext = DefaultDocumentExt
	}
	return r.Key + "." + ext
}

// Location derives a record directory name from its key and BibTeX text.
func Location(key, bibtex string) string {
	return key + "_" + ContentHash(bibtex)
}

// ContentHash returns the first HashLen hex digits of md5(bibtex).
func ContentHash(bibtex string) string {
	sum := md5.Sum([]byte(bibtex))
	return hex.EncodeToString(sum[:])[:HashLen]
}
