package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "github.com/glebarez/sqlite"
	"golang.org/x/xerrors"

	"edusearch/internal/apperrors"
)

// SQLiteStore is the persisted Store implementation, normalized into three
// tables the way Xhy51-project_changes' SQLiteIndexV2 separates documents,
// vocabulary, and term_frequencies rather than packing everything into one
// nested document as the Java/Mongo original does.
type SQLiteStore struct {
	db *sql.DB
}

// Open connects to the SQLite database at dataSource (a file path or
// ":memory:") and ensures the schema exists. A malformed data source or a
// connect failure is reported as apperrors.ErrInvalidStoreConfig /
// ErrStoreConnectFailed respectively, mirroring mongoConnect's three-way
// error split from the original source even though the backend changed.
func Open(ctx context.Context, dataSource string) (*SQLiteStore, error) {
	if dataSource == "" {
		return nil, xerrors.Errorf("store: %w: empty data source", apperrors.ErrInvalidStoreConfig)
	}

	db, err := sql.Open("sqlite", dataSource)
	if err != nil {
		return nil, xerrors.Errorf("store: %w: %v", apperrors.ErrInvalidStoreConfig, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, xerrors.Errorf("store: %w: %v", apperrors.ErrStoreConnectFailed, err)
	}

	if err := createSchema(ctx, db); err != nil {
		db.Close()
		return nil, xerrors.Errorf("store: %w: %v", apperrors.ErrCollectionCreateFailed, err)
	}

	return &SQLiteStore{db: db}, nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS crawler_docs (
			id            TEXT PRIMARY KEY,
			url           TEXT NOT NULL,
			title         TEXT NOT NULL,
			max_frequency REAL NOT NULL
		);

		CREATE TABLE IF NOT EXISTS inverted_index (
			term TEXT PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS postings (
			term   TEXT NOT NULL,
			doc_id TEXT NOT NULL,
			freq   REAL NOT NULL,
			PRIMARY KEY (term, doc_id),
			FOREIGN KEY (term) REFERENCES inverted_index(term)
		);

		CREATE INDEX IF NOT EXISTS idx_postings_term ON postings(term);
	`)
	return err
}

func (s *SQLiteStore) InsertDoc(ctx context.Context, doc Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO crawler_docs (id, url, title, max_frequency) VALUES (?, ?, ?, ?)`,
		doc.ID, doc.URL, doc.Title, doc.MaxFrequency)
	if isUniqueViolation(err) {
		return apperrors.ErrDuplicateKey
	}
	if err != nil {
		return xerrors.Errorf("store: %w: %v", apperrors.ErrStoreWriteFailed, err)
	}
	return nil
}

func (s *SQLiteStore) InsertTerm(ctx context.Context, rec IndexRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return xerrors.Errorf("store: %w: %v", apperrors.ErrStoreWriteFailed, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO inverted_index (term) VALUES (?)`, rec.Term); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateKey
		}
		return xerrors.Errorf("store: %w: %v", apperrors.ErrStoreWriteFailed, err)
	}
	for docID, freq := range rec.Index {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO postings (term, doc_id, freq) VALUES (?, ?, ?)`,
			rec.Term, docID, freq); err != nil {
			return xerrors.Errorf("store: %w: %v", apperrors.ErrStoreWriteFailed, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return xerrors.Errorf("store: %w: %v", apperrors.ErrStoreWriteFailed, err)
	}
	return nil
}

// UpdateTermIndex deletes and reinserts every posting row for term inside a
// single transaction, but — faithfully to spec.md §4.2/§9 — does not hold
// that transaction across the FindTerm read the Indexer performed before
// calling this. Two concurrent updaters can each read the same prior state
// and the later commit wins, losing the earlier one's postings.
func (s *SQLiteStore) UpdateTermIndex(ctx context.Context, term string, postings map[string]float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return xerrors.Errorf("store: %w: %v", apperrors.ErrStoreWriteFailed, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM postings WHERE term = ?`, term); err != nil {
		return xerrors.Errorf("store: %w: %v", apperrors.ErrStoreWriteFailed, err)
	}
	for docID, freq := range postings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO postings (term, doc_id, freq) VALUES (?, ?, ?)`,
			term, docID, freq); err != nil {
			return xerrors.Errorf("store: %w: %v", apperrors.ErrStoreWriteFailed, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return xerrors.Errorf("store: %w: %v", apperrors.ErrStoreWriteFailed, err)
	}
	return nil
}

func (s *SQLiteStore) FindDoc(ctx context.Context, id string) (*Document, error) {
	var d Document
	err := s.db.QueryRowContext(ctx,
		`SELECT id, url, title, max_frequency FROM crawler_docs WHERE id = ?`, id,
	).Scan(&d.ID, &d.URL, &d.Title, &d.MaxFrequency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, xerrors.Errorf("store: %w: %v", apperrors.ErrStoreReadFailed, err)
	}
	return &d, nil
}

func (s *SQLiteStore) FindTerm(ctx context.Context, term string) (*IndexRecord, error) {
	var exists string
	err := s.db.QueryRowContext(ctx, `SELECT term FROM inverted_index WHERE term = ?`, term).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, xerrors.Errorf("store: %w: %v", apperrors.ErrStoreReadFailed, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT doc_id, freq FROM postings WHERE term = ?`, term)
	if err != nil {
		return nil, xerrors.Errorf("store: %w: %v", apperrors.ErrStoreReadFailed, err)
	}
	defer rows.Close()

	rec := &IndexRecord{Term: term, Index: map[string]float64{}}
	for rows.Next() {
		var docID string
		var freq float64
		if err := rows.Scan(&docID, &freq); err != nil {
			return nil, xerrors.Errorf("store: %w: %v", apperrors.ErrStoreReadFailed, err)
		}
		rec.Index[docID] = freq
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.Errorf("store: %w: %v", apperrors.ErrStoreReadFailed, err)
	}
	return rec, nil
}

func (s *SQLiteStore) DistinctTerms(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT term FROM inverted_index`)
	if err != nil {
		return nil, xerrors.Errorf("store: %w: %v", apperrors.ErrStoreReadFailed, err)
	}
	defer rows.Close()

	terms := make(map[string]struct{})
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, xerrors.Errorf("store: %w: %v", apperrors.ErrStoreReadFailed, err)
		}
		terms[t] = struct{}{}
	}
	return terms, rows.Err()
}

func (s *SQLiteStore) CountTerms(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inverted_index`).Scan(&n); err != nil {
		return 0, xerrors.Errorf("store: %w: %v", apperrors.ErrStoreReadFailed, err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isUniqueViolation reports whether err came from a PRIMARY KEY/UNIQUE
// constraint failure. modernc.org/sqlite (behind glebarez/sqlite) reports
// these as *sqlite.Error with a message containing "UNIQUE constraint" or
// "constraint failed"; matching on text keeps this store free of a direct
// dependency on the driver's internal error type.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, sub := range []string{"UNIQUE constraint", "constraint failed", "PRIMARY KEY"} {
		if strings.Contains(msg, sub) {
			return true
		}
	}
	return false
}
