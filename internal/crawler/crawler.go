// Package crawler implements the bounded concurrent crawl loop: a fixed
// worker pool drains an unbounded job queue of URLs, fetching, parsing, and
// indexing each page before enqueuing its outbound links. Grounded on
// original_source/Crawler.java for the state machine and termination
// protocol, and on Xhy51-project_changes' download.go/extract.go/clean.go
// for the fetch/parse/link-clean steps, re-idiomed per spec.md §9 Design
// Notes: sync.Map for the visited set, a sync.WaitGroup + sync.Once barrier
// in place of threadOpenCount + synchronized.
package crawler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"edusearch/internal/indexer"
)

// DefaultWorkers is the fixed worker-pool size (spec.md §4.4: "default
// W=4").
const DefaultWorkers = 4

// DefaultCrawlCap is the maximum number of pages indexed in one crawl
// (spec.md §4.4: "default L=5000").
const DefaultCrawlCap = 5000

// DefaultShutdownGrace is how long the termination protocol waits for
// in-flight tasks to finish before a hard cancel (spec.md §4.4/§7).
const DefaultShutdownGrace = 10 * time.Second

// Config configures one crawl run.
type Config struct {
	StartURL        string
	Domain          string
	ExcludeKeywords []string
	Workers         int
	CrawlCap        int
	FetchTimeout    time.Duration
	ShutdownGrace   time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.CrawlCap <= 0 {
		c.CrawlCap = DefaultCrawlCap
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.ShutdownGrace <= 0 {
		c.ShutdownGrace = DefaultShutdownGrace
	}
	return c
}

// Crawler runs a fixed-size worker pool against a single job queue,
// dispatching crawled pages to an Indexer and enqueuing their outbound
// links until the crawl cap is hit or Shutdown is called.
type Crawler struct {
	cfg    Config
	filter linkFilter
	ix     *indexer.Indexer
	client *http.Client
	log    *logrus.Entry

	queue   *jobQueue
	visited sync.Map // string -> struct{}
	counter atomic.Int64
	pending atomic.Int64 // queued + in-flight tasks; queue closes when this hits zero

	wg           sync.WaitGroup
	shutdownOnce sync.Once
	done         chan struct{}

	onFinished func()
}

// New constructs a Crawler. onFinished, if non-nil, is called exactly once
// after the last worker drains — the crawlFinished signal spec.md §4.4/4.6
// hands to the lifecycle collaborator.
func New(cfg Config, ix *indexer.Indexer, log *logrus.Entry, onFinished func()) *Crawler {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Crawler{
		cfg:        cfg,
		filter:     newLinkFilter(cfg.Domain, cfg.ExcludeKeywords),
		ix:         ix,
		client:     newHTTPClient(cfg.FetchTimeout),
		log:        log,
		queue:      newJobQueue(),
		done:       make(chan struct{}),
		onFinished: onFinished,
	}
}

// Run starts the worker pool and seeds the queue with StartURL. It returns
// immediately; the crawl proceeds on the pool's own goroutines. Calling Run
// more than once on the same Crawler is not supported.
func (c *Crawler) Run(ctx context.Context) {
	if c.cfg.StartURL == "" {
		close(c.done)
		if c.onFinished != nil {
			c.onFinished()
		}
		return
	}

	c.wg.Add(c.cfg.Workers)
	for i := 0; i < c.cfg.Workers; i++ {
		go c.work(ctx, i)
	}
	c.enqueue(c.cfg.StartURL)

	go func() {
		c.wg.Wait()
		close(c.done)
		if c.onFinished != nil {
			c.onFinished()
		}
	}()
}

// Done returns a channel closed once every worker has drained, whether
// because the crawl cap was reached or Shutdown was called.
func (c *Crawler) Done() <-chan struct{} {
	return c.done
}

// Shutdown requests pool termination: the queue is closed so no further
// items are accepted, in-flight tasks get up to ShutdownGrace to finish,
// then ctx's cancellation (via the caller) is relied on to interrupt
// anything still running. Shutdown is idempotent.
func (c *Crawler) Shutdown() {
	c.shutdownOnce.Do(func() {
		c.log.Info("crawler: shutdown requested")
		c.queue.close()
	})
}

// ShutdownAndWait requests pool termination and blocks until either every
// worker has drained or ShutdownGrace elapses, in which case it calls
// cancel to hard-interrupt whatever is still running (spec.md §4.4/§7: "run
// to completion within a 10s grace, then are interrupted").
func (c *Crawler) ShutdownAndWait(cancel context.CancelFunc) {
	c.Shutdown()
	select {
	case <-c.done:
	case <-time.After(c.cfg.ShutdownGrace):
		c.log.Warn("crawler: shutdown grace elapsed, cancelling in-flight work")
		cancel()
		<-c.done
	}
}

func (c *Crawler) enqueue(rawURL string) {
	key := normalizeKey(rawURL)
	if _, loaded := c.visited.LoadOrStore(key, struct{}{}); loaded {
		return
	}
	c.pending.Add(1)
	c.queue.push(rawURL)
}

// taskDone marks one popped task (successful, failed, or cap-aborted) as
// finished. Once every queued-or-in-flight task has been accounted for —
// pending reaches zero with nothing left to discover — the queue is closed
// so idle workers waiting in jobQueue.pop() unblock and drain, exactly as
// when the crawl cap forces a Shutdown (spec.md §2/§4.6: "drains workers at
// completion").
func (c *Crawler) taskDone() {
	if c.pending.Add(-1) == 0 {
		c.queue.close()
	}
}

// work is one worker's loop: Pending -> Fetching -> Parsing -> Indexing ->
// Enqueuing -> Done, any step collapsing directly to Done on error
// (spec.md §4.4).
func (c *Crawler) work(ctx context.Context, id int) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		rawURL, ok := c.queue.pop()
		if !ok {
			return
		}

		log := c.log.WithFields(logrus.Fields{"worker": id, "url": rawURL, "state": "fetching"})

		if int(c.counter.Load()) >= c.cfg.CrawlCap {
			c.taskDone()
			c.Shutdown()
			return
		}

		body, err := fetch(ctx, c.client, rawURL)
		if err != nil {
			log.WithError(err).Debug("crawler: fetch failed")
			c.taskDone()
			continue
		}

		log = log.WithField("state", "parsing")
		base, err := url.Parse(rawURL)
		if err != nil {
			log.WithError(err).Debug("crawler: unparsable url")
			c.taskDone()
			continue
		}
		p := extract(body)

		n := c.counter.Add(1)
		if int(n) > c.cfg.CrawlCap {
			c.taskDone()
			c.Shutdown()
			return
		}
		docID := strconv.FormatInt(n, 10)

		log = log.WithField("state", "indexing")
		if err := c.ix.Index(ctx, docID, rawURL, p.title, p.text); err != nil {
			log.WithError(err).Warn("crawler: index failed")
		}

		if int(n) >= c.cfg.CrawlCap {
			c.taskDone()
			c.Shutdown()
			return
		}

		log = log.WithField("state", "enqueuing")
		for _, href := range p.hrefs {
			resolved := resolveHref(base, href)
			if resolved == "" || !c.filter.allow(resolved) {
				continue
			}
			c.enqueue(resolved)
		}
		c.taskDone()
	}
}
