// Package retriever implements the ranked-retrieval algorithm: IDF lookup,
// per-document TF-IDF accumulation, and cosine similarity against the
// query vector, returning the top 25 (URL, title) pairs. Grounded on
// original_source/BrowserAlgorithm.java's search/calcSearchIDF/docTF_IDF/
// cosineSimilarities/pageSort/getURLs pipeline, and on
// Xhy51-project_changes' Index.SearchTFIDF for the Go-idiomatic shape of a
// single-pass scorer plus a sort step.
package retriever

import (
	"context"
	"math"
	"sort"

	"golang.org/x/xerrors"

	"edusearch/internal/apperrors"
	"edusearch/internal/store"
	"edusearch/internal/textpipeline"
)

// MaxResults is the maximum number of ranked results Search returns.
const MaxResults = 25

// Result is one ranked hit: a document's URL and title.
type Result struct {
	URL   string
	Title string
}

// Retriever answers queries against a Store using the term-count snapshot
// taken at construction time as indexSize (spec.md Glossary: Corpus size).
type Retriever struct {
	store     store.Store
	pipeline  *textpipeline.Pipeline
	indexSize int
}

// New constructs a Retriever and snapshots the current distinct-term count
// as the corpus size used in every IDF calculation for its lifetime.
func New(ctx context.Context, s store.Store, p *textpipeline.Pipeline) (*Retriever, error) {
	n, err := s.CountTerms(ctx)
	if err != nil {
		return nil, xerrors.Errorf("retriever: %w: %v", apperrors.ErrStoreReadFailed, err)
	}
	return &Retriever{store: s, pipeline: p, indexSize: n}, nil
}

type accumulator struct {
	num, den  float64
	firstSeen int
}

// Search implements spec.md §4.5: clean the query, retain terms present in
// the index, compute each retained term's IDF, accumulate per-document
// TF-IDF dot products and vector lengths, compute cosine similarity, and
// return the top MaxResults ranked (URL, Title) pairs in order.
//
// Ties break in favor of the document encountered earlier while scanning
// retained terms. Go map iteration order is randomized, so "encountered
// earlier" is made deterministic by walking retained terms in sorted order
// and recording each document's first-seen index explicitly, rather than
// relying on incidental map order the way the original HashMap-based
// algorithm effectively does.
func (r *Retriever) Search(ctx context.Context, query string) ([]Result, error) {
	queryWords := r.pipeline.CleanQuery(query)
	if len(queryWords) == 0 {
		return nil, nil
	}

	distinct, err := r.store.DistinctTerms(ctx)
	if err != nil {
		return nil, xerrors.Errorf("retriever: %w: %v", apperrors.ErrStoreReadFailed, err)
	}
	terms := make([]string, 0, len(queryWords))
	for t := range queryWords {
		if _, ok := distinct[t]; ok {
			terms = append(terms, t)
		}
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return nil, nil
	}

	idf := make(map[string]float64, len(terms))
	records := make(map[string]*store.IndexRecord, len(terms))
	for _, t := range terms {
		rec, err := r.store.FindTerm(ctx, t)
		if err != nil {
			return nil, xerrors.Errorf("retriever: %w: %v", apperrors.ErrStoreReadFailed, err)
		}
		if rec == nil || len(rec.Index) == 0 {
			continue
		}
		records[t] = rec
		// indexSize/len(rec.Index) is an integer division, matching
		// BrowserAlgorithm.java's calcSearchIDF (long indexSize / int
		// numDocs) rather than promoting to float first.
		idf[t] = math.Log10(float64(r.indexSize / len(rec.Index)))
	}

	var queryVectorLenSq float64
	for _, t := range terms {
		w := queryWords[t] * idf[t]
		queryVectorLenSq += w * w
	}
	queryLen := math.Sqrt(queryVectorLenSq)

	acc := make(map[string]*accumulator)
	var order []string
	for _, t := range terms {
		rec, ok := records[t]
		if !ok {
			continue
		}
		qw := queryWords[t] * idf[t]

		docIDs := make([]string, 0, len(rec.Index))
		for d := range rec.Index {
			docIDs = append(docIDs, d)
		}
		sort.Strings(docIDs)

		for _, d := range docIDs {
			rawFreq := rec.Index[d]
			doc, err := r.store.FindDoc(ctx, d)
			if err != nil {
				return nil, xerrors.Errorf("retriever: %w: %v", apperrors.ErrStoreReadFailed, err)
			}
			if doc == nil {
				continue
			}
			tf := rawFreq / doc.MaxFrequency
			dw := tf * idf[t]

			a, ok := acc[d]
			if !ok {
				a = &accumulator{firstSeen: len(order)}
				acc[d] = a
				order = append(order, d)
			}
			a.num += dw * qw
			a.den += dw * dw
		}
	}

	type scored struct {
		docID     string
		cosine    float64
		firstSeen int
	}
	hits := make([]scored, 0, len(acc))
	for d, a := range acc {
		den := math.Sqrt(a.den) * queryLen
		if den == 0 {
			continue
		}
		hits = append(hits, scored{docID: d, cosine: a.num / den, firstSeen: a.firstSeen})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].cosine != hits[j].cosine {
			return hits[i].cosine > hits[j].cosine
		}
		return hits[i].firstSeen < hits[j].firstSeen
	})
	if len(hits) > MaxResults {
		hits = hits[:MaxResults]
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		doc, err := r.store.FindDoc(ctx, h.docID)
		if err != nil {
			return nil, xerrors.Errorf("retriever: %w: %v", apperrors.ErrStoreReadFailed, err)
		}
		if doc == nil || doc.URL == "" {
			continue
		}
		results = append(results, Result{URL: doc.URL, Title: doc.Title})
	}
	return results, nil
}
