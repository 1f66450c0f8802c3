package store

import (
	"context"
	"sync"

	"edusearch/internal/apperrors"
)

// MemStore is an in-memory Store, grounded on Xhy51-project_changes'
// InMemIndexer/InMemIndex. Used by package tests that exercise Indexer and
// Retriever without a SQLite file, and as a reference implementation of the
// same race the SQLite store preserves: UpdateTermIndex replaces the whole
// posting map without coordinating with a prior FindTerm.
type MemStore struct {
	mu    sync.Mutex
	docs  map[string]Document
	terms map[string]map[string]float64 // term -> docID -> freq
}

// NewMemStore returns an empty in-memory Store.
func NewMemStore() *MemStore {
	return &MemStore{
		docs:  make(map[string]Document),
		terms: make(map[string]map[string]float64),
	}
}

func (m *MemStore) InsertDoc(_ context.Context, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.docs[doc.ID]; exists {
		return apperrors.ErrDuplicateKey
	}
	m.docs[doc.ID] = doc
	return nil
}

func (m *MemStore) InsertTerm(_ context.Context, rec IndexRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.terms[rec.Term]; exists {
		return apperrors.ErrDuplicateKey
	}
	postings := make(map[string]float64, len(rec.Index))
	for k, v := range rec.Index {
		postings[k] = v
	}
	m.terms[rec.Term] = postings
	return nil
}

func (m *MemStore) UpdateTermIndex(_ context.Context, term string, postings map[string]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make(map[string]float64, len(postings))
	for k, v := range postings {
		copied[k] = v
	}
	m.terms[term] = copied
	return nil
}

func (m *MemStore) FindDoc(_ context.Context, id string) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *MemStore) FindTerm(_ context.Context, term string) (*IndexRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	postings, ok := m.terms[term]
	if !ok {
		return nil, nil
	}
	copied := make(map[string]float64, len(postings))
	for k, v := range postings {
		copied[k] = v
	}
	return &IndexRecord{Term: term, Index: copied}, nil
}

func (m *MemStore) DistinctTerms(_ context.Context) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]struct{}, len(m.terms))
	for t := range m.terms {
		out[t] = struct{}{}
	}
	return out, nil
}

func (m *MemStore) CountTerms(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.terms), nil
}

func (m *MemStore) Close() error { return nil }
