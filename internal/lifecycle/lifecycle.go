// Package lifecycle wires the Crawler, Indexer, Store, and Retriever
// together and exposes a typed event channel in place of the direct
// callbacks (crawlFinished/unexpectedTermination) the original wires into
// its UI layer. Grounded on original_source/SearchEngine.java (the
// UserInteractions collaborator) and UserInteractions.java, inverted per
// spec.md §9 Design Notes: this package imports nothing from
// internal/httpui or cmd/edusearchd.
package lifecycle

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"edusearch/internal/apperrors"
	"edusearch/internal/crawler"
	"edusearch/internal/indexer"
	"edusearch/internal/retriever"
	"edusearch/internal/store"
	"edusearch/internal/textpipeline"
)

// EventKind identifies what a Lifecycle Event reports.
type EventKind int

const (
	// EventWaitingStarted is raised when a crawl begins; the original
	// shows a waiting indicator for the span between this and
	// EventCrawlFinished.
	EventWaitingStarted EventKind = iota
	// EventCrawlFinished is raised once every crawl worker has drained.
	EventCrawlFinished
	// EventFatalError is raised for a fault in apperrors' fatal class
	// (store connect/invalid-config/collection-create/stopwords-missing),
	// after which Teardown is called with graceful=false.
	EventFatalError
)

// Event is one lifecycle notification. Status is only meaningful when
// Kind == EventFatalError and mirrors spec.md §6's UI status codes.
type Event struct {
	Kind      EventKind
	Status    apperrors.StatusCode
	Err       error
	SessionID string
}

// Lifecycle owns a Store, Indexer, and Retriever, and drives a single
// Crawler run at a time, publishing Event values on Events().
type Lifecycle struct {
	store    store.Store
	pipeline *textpipeline.Pipeline
	indexer  *indexer.Indexer
	log      *logrus.Entry

	retrieverMu sync.RWMutex
	retriever   *retriever.Retriever

	events chan Event
	cancel context.CancelFunc
	cr     *crawler.Crawler
}

// New wires a Lifecycle over an already-open Store and loaded stopword
// set. The Retriever is constructed eagerly so Search is usable before any
// crawl has run (against whatever the store already contains); RunCrawl
// re-snapshots it once the crawl finishes (see refreshRetriever).
func New(ctx context.Context, s store.Store, stopwords map[string]struct{}, log *logrus.Entry) (*Lifecycle, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	p := textpipeline.New(stopwords)
	r, err := retriever.New(ctx, s, p)
	if err != nil {
		return nil, err
	}
	return &Lifecycle{
		store:     s,
		pipeline:  p,
		indexer:   indexer.New(s, p, log),
		retriever: r,
		log:       log,
		events:    make(chan Event, 8),
	}, nil
}

// refreshRetriever re-snapshots the corpus size the Retriever scores
// against. Called once a crawl finishes, since the Retriever constructed
// in New captured indexSize against whatever the store held at startup —
// zero, on a fresh store — and spec.md §4.6 hands control to the Retriever
// only after the crawl drains, not before.
func (l *Lifecycle) refreshRetriever(ctx context.Context, log *logrus.Entry) {
	r, err := retriever.New(ctx, l.store, l.pipeline)
	if err != nil {
		log.WithError(err).Warn("lifecycle: failed to refresh retriever after crawl, keeping stale index size")
		return
	}
	l.retrieverMu.Lock()
	l.retriever = r
	l.retrieverMu.Unlock()
}

// Events returns the channel Event values are published on. The channel is
// never closed by Lifecycle; callers select on it alongside their own
// cancellation.
func (l *Lifecycle) Events() <-chan Event {
	return l.events
}

// RunCrawl starts a crawl under a fresh session ID attached to every log
// line the run produces, and returns immediately; completion and failure
// are reported on Events(). Calling RunCrawl while a previous crawl is
// still in flight is not supported.
func (l *Lifecycle) RunCrawl(parent context.Context, cfg crawler.Config) {
	sessionID := uuid.New().String()
	log := l.log.WithField("session_id", sessionID)

	ctx, cancel := context.WithCancel(parent)
	l.cancel = cancel

	l.cr = crawler.New(cfg, indexer.New(l.store, l.pipeline, log), log, func() {
		l.refreshRetriever(ctx, log)
		l.events <- Event{Kind: EventCrawlFinished, SessionID: sessionID}
	})

	log.Info("lifecycle: crawl starting")
	l.events <- Event{Kind: EventWaitingStarted, SessionID: sessionID}
	l.cr.Run(ctx)
}

// Search delegates to the wrapped Retriever.
func (l *Lifecycle) Search(ctx context.Context, query string) ([]retriever.Result, error) {
	l.retrieverMu.RLock()
	r := l.retriever
	l.retrieverMu.RUnlock()
	return r.Search(ctx, query)
}

// ReportFatal publishes an EventFatalError for err and tears down
// ungracefully, mirroring SearchEngine.java's unexpectedTermination path.
func (l *Lifecycle) ReportFatal(ctx context.Context, err error) {
	l.events <- Event{Kind: EventFatalError, Status: apperrors.Status(err), Err: err}
	l.Teardown(ctx, false)
}

// Teardown closes the Store and cancels any in-flight Crawler. graceful
// distinguishes a normal-exit teardown (SearchEngine.java's termination())
// from a crash-path one (unexpectedTermination()) purely for logging —
// the cleanup performed is identical either way once context.Context
// carries cancellation throughout.
func (l *Lifecycle) Teardown(ctx context.Context, graceful bool) {
	if graceful {
		l.log.Info("lifecycle: graceful teardown")
	} else {
		l.log.Warn("lifecycle: unexpected teardown")
	}

	if l.cr != nil {
		if l.cancel != nil {
			l.cr.ShutdownAndWait(l.cancel)
		} else {
			l.cr.Shutdown()
		}
	}
	if err := l.store.Close(); err != nil {
		l.log.WithError(err).Warn("lifecycle: error closing store")
	}
}
