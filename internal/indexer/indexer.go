// Package indexer implements the title-boost frequency accumulation and
// insert/merge protocol against a Store. Grounded on
// Xhy51-project_changes' Index.Add/SQLiteIndex.Add (lower -> stop filter ->
// stem -> tf/df bookkeeping) and original_source/Crawler.java's
// processPage, which this generalizes from a single flat frequency map
// into the two-collection Document/IndexRecord shape spec.md §3 describes.
package indexer

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"edusearch/internal/apperrors"
	"edusearch/internal/store"
	"edusearch/internal/textpipeline"
)

// Indexer turns a crawled page's (title, body) into a Document record and
// a set of inverted-index updates.
type Indexer struct {
	store    store.Store
	pipeline *textpipeline.Pipeline
	log      *logrus.Entry
}

// New constructs an Indexer over the given Store and Pipeline. log may be
// nil, in which case logrus's standard logger is used.
func New(s store.Store, p *textpipeline.Pipeline, log *logrus.Entry) *Indexer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Indexer{store: s, pipeline: p, log: log}
}

// Index implements spec.md §4.3 steps 1-6: tokenize title and body, build
// the body frequency map (dropping tokens over textpipeline.MaxTokenLength),
// capture maxFreq before the title boost is applied, apply the boost, write
// the Document record, then insert/merge each (term, freq) into the
// inverted index.
//
// maxFreq is deliberately left at -Inf when the body yields no tokens —
// preserved from the original's Integer.MIN_VALUE sentinel rather than
// skipping the document (spec.md §9 Open Questions; see DESIGN.md).
func (ix *Indexer) Index(ctx context.Context, docID, url, title, body string) error {
	titleTokens := ix.pipeline.Normalize(title)
	bodyTokens := ix.pipeline.Normalize(body)

	freq := make(map[string]float64)
	for _, tok := range bodyTokens {
		if len(tok) > textpipeline.MaxTokenLength {
			continue
		}
		freq[tok]++
	}

	maxFreq := math.Inf(-1)
	for _, v := range freq {
		if v > maxFreq {
			maxFreq = v
		}
	}

	for _, tok := range titleTokens {
		if len(tok) > textpipeline.MaxTokenLength {
			continue
		}
		freq[tok] += maxFreq
	}

	doc := store.Document{ID: docID, URL: url, Title: title, MaxFrequency: maxFreq}
	if err := ix.store.InsertDoc(ctx, doc); err != nil {
		ix.log.WithError(err).WithField("doc_id", docID).Warn("indexer: dropping document insert")
	}

	for term, f := range freq {
		if err := ix.upsertTerm(ctx, term, docID, f); err != nil {
			return xerrors.Errorf("indexer: %w", err)
		}
	}
	return nil
}

// upsertTerm looks up term's posting map; if absent it inserts a new
// IndexRecord, otherwise it appends (docID -> f) and writes the whole map
// back. Write failures on a single term are logged and swallowed per
// spec.md §4.3/§7; read failures propagate to the caller.
func (ix *Indexer) upsertTerm(ctx context.Context, term, docID string, f float64) error {
	rec, err := ix.store.FindTerm(ctx, term)
	if err != nil {
		return xerrors.Errorf("%w: %v", apperrors.ErrStoreReadFailed, err)
	}

	if rec == nil {
		err := ix.store.InsertTerm(ctx, store.IndexRecord{Term: term, Index: map[string]float64{docID: f}})
		if err != nil {
			ix.log.WithError(err).WithField("term", term).Warn("indexer: dropping term insert")
		}
		return nil
	}

	rec.Index[docID] = f
	if err := ix.store.UpdateTermIndex(ctx, term, rec.Index); err != nil {
		ix.log.WithError(err).WithField("term", term).Warn("indexer: dropping term update")
	}
	return nil
}
