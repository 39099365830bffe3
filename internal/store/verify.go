package store

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/refman/internal/export"
	"github.com/matsen/refman/internal/pdf"
	"github.com/matsen/refman/internal/record"
)

// VerifyReport lists the consistency problems found by Verify. Keys are
// reported in index order.
type VerifyReport struct {
	Records           int      `json:"records"`
	MissingDocuments  []string `json:"missing_documents"`
	InvalidDocuments  []string `json:"invalid_documents"`
	MissingFromExport []string `json:"missing_from_export"`
	DuplicateKeys     []string `json:"duplicate_keys"`
	Orphans           []string `json:"orphans"`
}

// OK reports whether nothing but missing documents was found. A missing
// document is a normal degraded state, not an inconsistency.
func (r *VerifyReport) OK() bool {
	return len(r.InvalidDocuments) == 0 && len(r.MissingFromExport) == 0 &&
		len(r.DuplicateKeys) == 0 && len(r.Orphans) == 0
}

// Verify checks the store for consistency: every indexed record is
// in the bibliography once, PDF documents look like PDFs, and the root
// holds nothing but records. Records without a document are listed too.
func (s *Store) Verify() (*VerifyReport, error) {
	entries, err := s.idx.All()
	if err != nil {
		return nil, err
	}
	bib, err := export.ParseBibTeXFile(s.BibliographyPath())
	if err != nil {
		return nil, err
	}

	report := &VerifyReport{
		Records:       len(entries),
		DuplicateKeys: bib.Duplicates(),
	}
	for _, e := range entries {
		if !bib.HasEntry(e.Key, "") {
			report.MissingFromExport = append(report.MissingFromExport, e.Key)
		}

		path, ok := record.FindDocument(s.Dir(e))
		if !ok {
			report.MissingDocuments = append(report.MissingDocuments, e.Key)
			continue
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") && !documentLooksLikePDF(path) {
			report.InvalidDocuments = append(report.InvalidDocuments, e.Key)
		}
	}

	dirs, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		if strings.HasPrefix(d.Name(), ".") || !record.IsRecordDir(filepath.Join(s.root, d.Name())) {
			report.Orphans = append(report.Orphans, d.Name())
		}
	}

	return report, nil
}

func documentLooksLikePDF(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, 1024)
	n, _ := f.Read(head)
	return pdf.LooksLikePDF(head[:n])
}
