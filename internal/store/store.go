// Package store abstracts the persistent document and inverted-index
// collections the Indexer and Retriever read and write. Grounded on
// Xhy51-project_changes' Indexer interface (index.go/indexer.go) and the
// two-collection (CrawlerDocs/InvertedIndex) shape spec.md §6 describes for
// the original's MongoDB collections; realized here over SQLite via
// github.com/glebarez/sqlite, the teacher's own driver choice.
package store

import "context"

// Document is one record in the CrawlerDocs collection: one per
// successfully crawled page, created exactly once, never mutated.
type Document struct {
	ID           string
	URL          string
	Title        string
	MaxFrequency float64
}

// IndexRecord is one record in the InvertedIndex collection: one per
// distinct stemmed term, holding the posting map from document ID to raw
// (possibly title-boosted) term frequency.
type IndexRecord struct {
	Term  string
	Index map[string]float64
}

// Store is the persistence surface the Indexer and Retriever need. Single-
// writer access to a term's posting map is NOT assumed: two concurrent
// callers may both observe a term absent and both InsertTerm, or both
// read-modify-write UpdateTermIndex and the later writer wins. That
// looseness is accepted by spec.md §5/§9, not a bug in this interface.
type Store interface {
	InsertDoc(ctx context.Context, doc Document) error
	InsertTerm(ctx context.Context, rec IndexRecord) error
	// UpdateTermIndex replaces the entire posting map for term.
	UpdateTermIndex(ctx context.Context, term string, postings map[string]float64) error
	FindDoc(ctx context.Context, id string) (*Document, error)
	FindTerm(ctx context.Context, term string) (*IndexRecord, error)
	DistinctTerms(ctx context.Context) (map[string]struct{}, error)
	CountTerms(ctx context.Context) (int, error)
	Close() error
}
