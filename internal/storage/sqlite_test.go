package storage

import (
	"path/filepath"
	"testing"

	"github.com/scholarsite/citekit/internal/bibtex"
)

const testBib = `@article{wallis2024,
  title = {Quantifying exposure biases in {ERA5}},
  author = {Wallis, T. and Osborn, T. J.},
  year = {2024},
  doi = {https://doi.org/10.1002/JOC.8401}
}

@inproceedings{muller2021,
  title = {Sea ice extent in the {Arctic}},
  author = {M{\"u}ller, Jan},
  year = {2021}
}

@misc{noyear,
  title = {Notes on temperature records}
}
`

// setupTestDB opens a database in a temp dir and fills it from testBib.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	n, err := db.RebuildFromIndex(bibtex.BuildIndex(testBib), ContentHash(testBib))
	if err != nil {
		t.Fatalf("RebuildFromIndex() error = %v", err)
	}
	if n != 3 {
		t.Fatalf("RebuildFromIndex() = %d, want 3", n)
	}
	return db
}

func TestRebuildFromIndex(t *testing.T) {
	db := setupTestDB(t)

	count, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}

	// Rebuilding replaces rather than appends.
	if _, err := db.RebuildFromIndex(bibtex.BuildIndex(testBib), "other"); err != nil {
		t.Fatalf("second RebuildFromIndex() error = %v", err)
	}
	if count, _ := db.Count(); count != 3 {
		t.Errorf("Count() after rebuild = %d, want 3", count)
	}
}

func TestIsFresh(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	hash := ContentHash(testBib)
	fresh, err := db.IsFresh(hash)
	if err != nil {
		t.Fatalf("IsFresh() error = %v", err)
	}
	if fresh {
		t.Error("empty database should not be fresh")
	}

	if _, err := db.RebuildFromIndex(bibtex.BuildIndex(testBib), hash); err != nil {
		t.Fatal(err)
	}
	if fresh, _ := db.IsFresh(hash); !fresh {
		t.Error("IsFresh() = false after rebuild with same hash")
	}
	if fresh, _ := db.IsFresh(ContentHash(testBib + " ")); fresh {
		t.Error("IsFresh() = true for different text")
	}
}

func TestSearch(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name    string
		query   string
		wantKey string
		wantLen int
	}{
		{"title word", "exposure", "wallis2024", 1},
		{"prefix", "quant", "wallis2024", 1},
		{"author", "osborn", "wallis2024", 1},
		{"folded diacritics", "Müller", "muller2021", 1},
		{"year", "2021", "muller2021", 1},
		{"punctuation", "sea-ice (arctic)", "muller2021", 1},
		{"two words", "sea arctic", "muller2021", 1},
		{"no match", "volcano", "", 0},
		{"empty", "   ", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := db.Search(tt.query, 10)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", tt.query, err)
			}
			if len(hits) != tt.wantLen {
				t.Fatalf("Search(%q) returned %d hits, want %d", tt.query, len(hits), tt.wantLen)
			}
			if tt.wantKey != "" && hits[0].Key != tt.wantKey {
				t.Errorf("Search(%q)[0].Key = %q, want %q", tt.query, hits[0].Key, tt.wantKey)
			}
		})
	}
}

func TestSearch_HitFields(t *testing.T) {
	db := setupTestDB(t)

	hits, err := db.Search("ERA5", 1)
	if err != nil || len(hits) != 1 {
		t.Fatalf("Search() = %v, %v", hits, err)
	}
	h := hits[0]
	if h.DOI != "10.1002/joc.8401" {
		t.Errorf("DOI = %q, want normalized", h.DOI)
	}
	if h.Title != "Quantifying exposure biases in ERA5" {
		t.Errorf("Title = %q", h.Title)
	}
	if h.Type != "article" || h.Year != "2024" {
		t.Errorf("Type = %q, Year = %q", h.Type, h.Year)
	}
	if h.Text == "" {
		t.Error("Text should hold the raw entry")
	}
}

func TestSearchField(t *testing.T) {
	db := setupTestDB(t)

	hits, err := db.SearchField("title", "temperature", 10)
	if err != nil {
		t.Fatalf("SearchField() error = %v", err)
	}
	if len(hits) != 1 || hits[0].Key != "noyear" {
		t.Errorf("SearchField(title) = %+v", hits)
	}

	// "wallis" only appears in the author and key columns.
	hits, err = db.SearchField("title", "wallis", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("SearchField(title, wallis) = %d hits, want 0", len(hits))
	}

	if _, err := db.SearchField("venue", "x", 10); err == nil {
		t.Error("SearchField() with unknown field should fail")
	}
}

func TestListAll(t *testing.T) {
	db := setupTestDB(t)

	hits, err := db.ListAll(0)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	want := []string{"wallis2024", "muller2021", "noyear"}
	if len(hits) != len(want) {
		t.Fatalf("ListAll() returned %d, want %d", len(hits), len(want))
	}
	for i, key := range want {
		if hits[i].Key != key {
			t.Errorf("ListAll()[%d].Key = %q, want %q", i, hits[i].Key, key)
		}
	}

	limited, _ := db.ListAll(2)
	if len(limited) != 2 {
		t.Errorf("ListAll(2) returned %d", len(limited))
	}
}

func TestPrepareFTSQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"sea ice", `"sea"* "ice"*`},
		{`say "hi"`, `"say"* "hi"*`},
		{"a\"b", `"a""b"*`},
		{"(x)", `"x"*`},
	}

	for _, tt := range tests {
		if got := prepareFTSQuery(tt.in); got != tt.want {
			t.Errorf("prepareFTSQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
