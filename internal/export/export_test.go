package export

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestWriteBibliography(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "A_1", "entry.bib")
	b := filepath.Join(dir, "B_2", "entry.bib")
	writeFile(t, a, "@misc{A,\n  doi = {10.1000/A}\n}")
	writeFile(t, b, "@misc{B, title = {B}}\n")

	out := filepath.Join(dir, FileName)
	if err := WriteBibliography(out, []string{b, a}); err != nil {
		t.Fatalf("WriteBibliography() error = %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "@misc{B, title = {B}}\n\n@misc{A,\n  doi = {10.1000/A}\n}\n"
	if string(got) != want {
		t.Errorf("bibliography = %q, want %q", got, want)
	}

	// Regenerating replaces the file instead of appending.
	if err := WriteBibliography(out, []string{a}); err != nil {
		t.Fatalf("WriteBibliography() error = %v", err)
	}
	got, _ = os.ReadFile(out)
	if string(got) != "@misc{A,\n  doi = {10.1000/A}\n}\n" {
		t.Errorf("bibliography after regenerate = %q", got)
	}

	if err := WriteBibliography(out, nil); err != nil {
		t.Fatalf("WriteBibliography(nil) error = %v", err)
	}
	got, _ = os.ReadFile(out)
	if len(got) != 0 {
		t.Errorf("empty bibliography = %q, want empty", got)
	}
}

func TestWriteBibliography_MissingSource(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, FileName)
	writeFile(t, out, "previous")

	err := WriteBibliography(out, []string{filepath.Join(dir, "missing.bib")})
	if err == nil {
		t.Fatal("WriteBibliography() with a missing source should fail")
	}

	got, _ := os.ReadFile(out)
	if string(got) != "previous" {
		t.Errorf("failed write must leave the old file, got %q", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}
}

func TestParseBibTeXFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, "@article{Wasserman_2018,\n"+
		"\tdoi = {10.1146/ANNUREV-statistics-031017-100045},\n"+
		"\tyear = 2018\n}\n"+
		"@article{Bronstein_2021,\nAuthor        = {Michael M. Bronstein}\n}\n"+
		"@misc{Lovelace_1843,\n  doi = {}\n}\n"+
		"@misc{Bronstein_2021, title = {dup}}\n")

	idx, err := ParseBibTeXFile(path)
	if err != nil {
		t.Fatalf("ParseBibTeXFile() error = %v", err)
	}

	wantOrder := []string{"Wasserman_2018", "Bronstein_2021", "Lovelace_1843", "Bronstein_2021"}
	if !reflect.DeepEqual(idx.Order, wantOrder) {
		t.Errorf("Order = %v, want %v", idx.Order, wantOrder)
	}
	if got := idx.DOIs["10.1146/annurev-statistics-031017-100045"]; got != "Wasserman_2018" {
		t.Errorf("DOIs lookup = %q, want Wasserman_2018", got)
	}
	if len(idx.DOIs) != 1 {
		t.Errorf("len(DOIs) = %d, want 1", len(idx.DOIs))
	}
	if !reflect.DeepEqual(idx.Duplicates(), []string{"Bronstein_2021"}) {
		t.Errorf("Duplicates() = %v", idx.Duplicates())
	}
}

func TestParseBibTeXFile_Missing(t *testing.T) {
	idx, err := ParseBibTeXFile(filepath.Join(t.TempDir(), "none.bib"))
	if err != nil {
		t.Fatalf("ParseBibTeXFile() error = %v", err)
	}
	if len(idx.Keys) != 0 {
		t.Errorf("expected empty index, got %d keys", len(idx.Keys))
	}
}

func TestHasEntry(t *testing.T) {
	idx := NewBibTeXIndex()
	idx.Keys["Smith_2020"] = true
	idx.DOIs["10.1234/test"] = "Smith_2020"

	tests := []struct {
		name string
		key  string
		doi  string
		want bool
	}{
		{"match by DOI", "Other", "10.1234/TEST", true},
		{"match by DOI URL", "Other", "https://doi.org/10.1234/test", true},
		{"match by key", "Smith_2020", "", true},
		{"no match", "Other", "10.9999/x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idx.HasEntry(tt.key, tt.doi); got != tt.want {
				t.Errorf("HasEntry(%q, %q) = %v, want %v", tt.key, tt.doi, got, tt.want)
			}
		})
	}
}
