// Package storage keeps a SQLite full-text search cache of the bibliography.
package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/scholarsite/citekit/internal/bibtex"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Hit is one entry returned by Search.
type Hit struct {
	Key     string `json:"key"`
	Type    string `json:"type"`
	DOI     string `json:"doi,omitempty"`
	Title   string `json:"title"`
	Authors string `json:"authors,omitempty"`
	Year    string `json:"year,omitempty"`
	Text    string `json:"-"`
}

const selectEntryFields = `key, type, doi, title, authors, year, text`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		-- One row per entry, in source order
		CREATE TABLE IF NOT EXISTS entries (
			pos INTEGER PRIMARY KEY,
			key TEXT NOT NULL,
			type TEXT NOT NULL,
			doi TEXT,
			title TEXT NOT NULL,
			authors TEXT,
			year TEXT,
			text TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_entries_doi ON entries(doi) WHERE doi IS NOT NULL AND doi != '';

		CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
			pos UNINDEXED,
			key,
			title,
			authors,
			year
		);

		-- Hash of the bibliography text the tables were built from
		CREATE TABLE IF NOT EXISTS meta (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}

// ContentHash returns the hex SHA-256 of a bibliography text.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// IsFresh reports whether the cache was last built from text with this hash.
func (d *DB) IsFresh(hash string) (bool, error) {
	var stored string
	err := d.db.QueryRow(`SELECT value FROM meta WHERE name = 'content_hash'`).Scan(&stored)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading content hash: %w", err)
	}
	return stored == hash, nil
}

// RebuildFromIndex clears the cache and rebuilds it from idx, recording hash.
func (d *DB) RebuildFromIndex(idx *bibtex.Index, hash string) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return 0, fmt.Errorf("clearing entries table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM entries_fts"); err != nil {
		return 0, fmt.Errorf("clearing entries_fts table: %w", err)
	}

	entryStmt, err := tx.Prepare(`
		INSERT INTO entries (pos, key, type, doi, title, authors, year, text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing entries insert: %w", err)
	}
	defer entryStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO entries_fts (pos, key, title, authors, year)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for pos, e := range idx.Entries {
		h := HitFromEntry(e)
		_, err := entryStmt.Exec(pos, h.Key, h.Type, nullableString(h.DOI), h.Title,
			nullableString(h.Authors), nullableString(h.Year), h.Text)
		if err != nil {
			return 0, fmt.Errorf("inserting entry %d (%s): %w", pos, h.Key, err)
		}

		if _, err := ftsStmt.Exec(pos, h.Key, bibtex.FoldDiacritics(h.Title),
			bibtex.FoldDiacritics(h.Authors), h.Year); err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", h.Key, err)
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta (name, value) VALUES ('content_hash', ?)`, hash); err != nil {
		return 0, fmt.Errorf("recording content hash: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return idx.Len(), nil
}

// HitFromEntry extracts the display fields of an entry.
func HitFromEntry(e bibtex.Entry) Hit {
	return Hit{
		Key:     e.Key(),
		Type:    e.Type(),
		DOI:     bibtex.NormalizeDOI(e.Field("doi")),
		Title:   bibtex.PlainText(e.Field("title")),
		Authors: bibtex.PlainText(e.Field("author")),
		Year:    e.Field("year"),
		Text:    e.Text(),
	}
}

// Search performs a full-text search over keys, titles, authors, and years.
// Results are ordered by FTS rank.
func (d *DB) Search(query string, limit int) ([]Hit, error) {
	ftsQuery := prepareFTSQuery(bibtex.FoldDiacritics(query))
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`
		SELECT `+prefixed("e.", selectEntryFields)+`
		FROM entries_fts
		JOIN entries e ON e.pos = entries_fts.pos
		WHERE entries_fts MATCH ?
		ORDER BY entries_fts.rank
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanHits(rows)
}

// SearchField restricts the search to one column: author, title, or key.
func (d *DB) SearchField(field, value string, limit int) ([]Hit, error) {
	var column string
	switch field {
	case "author":
		column = "authors"
	case "title", "key":
		column = field
	default:
		return nil, fmt.Errorf("unknown search field: %s", field)
	}

	terms := prepareFTSQuery(bibtex.FoldDiacritics(value))
	if terms == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`
		SELECT `+prefixed("e.", selectEntryFields)+`
		FROM entries_fts
		JOIN entries e ON e.pos = entries_fts.pos
		WHERE entries_fts MATCH ?
		ORDER BY entries_fts.rank
		LIMIT ?`, column+" : ("+terms+")", limit)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", field, err)
	}
	defer rows.Close()

	return scanHits(rows)
}

// ListAll returns entries in source order, optionally limited.
func (d *DB) ListAll(limit int) ([]Hit, error) {
	query := `SELECT ` + selectEntryFields + ` FROM entries ORDER BY pos`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	return scanHits(rows)
}

// Count returns the number of cached entries.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&count)
	return count, err
}

func scanHits(rows *sql.Rows) ([]Hit, error) {
	var hits []Hit
	for rows.Next() {
		var h Hit
		var doi, authors, year sql.NullString
		if err := rows.Scan(&h.Key, &h.Type, &doi, &h.Title, &authors, &year, &h.Text); err != nil {
			return nil, err
		}
		h.DOI = doi.String
		h.Authors = authors.String
		h.Year = year.String
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func prefixed(prefix, fields string) string {
	parts := strings.Split(fields, ",")
	for i, p := range parts {
		parts[i] = prefix + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// nullableString converts a string to sql.NullString, treating empty as NULL.
func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery turns free text into an FTS5 query. Each word becomes a
// quoted prefix term, so punctuation never reaches the FTS parser.
func prepareFTSQuery(query string) string {
	var terms []string
	for _, word := range strings.Fields(query) {
		word = strings.Trim(word, "\"'.,;:!?()[]{}")
		if word == "" {
			continue
		}
		terms = append(terms, "\""+strings.ReplaceAll(word, "\"", "\"\"")+"\"*")
	}
	return strings.Join(terms, " ")
}
