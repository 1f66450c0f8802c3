// Command edusearchd wires Config -> Lifecycle -> Crawler/Retriever ->
// httpui and serves the search page until interrupted. No algorithmic
// content lives here; it is pure composition.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edusearch/internal/config"
	"edusearch/internal/httpui"
	"edusearch/internal/lifecycle"
	"edusearch/internal/retriever"
	"edusearch/internal/store"
	"edusearch/internal/textpipeline"
)

func main() {
	var cfg config.Config
	var addr string
	var runCrawl bool

	flag.StringVar(&cfg.StoreDataSource, "store", "edusearch.db", "SQLite data source for the document store")
	flag.StringVar(&cfg.StopwordsPath, "stopwords", config.DefaultStopwordsPath, "path to a newline-delimited stopword list")
	flag.StringVar(&cfg.StartURL, "start-url", config.DefaultStartURL, "seed URL for the crawl")
	flag.StringVar(&cfg.Domain, "domain", config.DefaultDomain, "link filter: required substring of a candidate URL")
	flag.IntVar(&cfg.Workers, "workers", 0, "crawl worker pool size (0 = default)")
	flag.IntVar(&cfg.CrawlCap, "crawl-cap", 0, "maximum pages indexed per crawl (0 = default)")
	flag.StringVar(&addr, "addr", ":8080", "HTTP listen address")
	flag.BoolVar(&runCrawl, "crawl", true, "run a crawl on startup before serving")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("edusearchd: invalid config: %v", err)
	}

	logger := cfg.Logger

	stopwords, err := textpipeline.LoadStopwords(cfg.StopwordsPath)
	if err != nil {
		logger.WithError(err).Fatal("edusearchd: loading stopwords")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := store.Open(ctx, cfg.StoreDataSource)
	if err != nil {
		logger.WithError(err).Fatal("edusearchd: opening store")
	}

	lc, err := lifecycle.New(ctx, s, stopwords, logger)
	if err != nil {
		logger.WithError(err).Fatal("edusearchd: constructing lifecycle")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("edusearchd: shutdown signal received")
		lc.Teardown(ctx, true)
		cancel()
		os.Exit(0)
	}()

	if runCrawl {
		go func() {
			for ev := range lc.Events() {
				switch ev.Kind {
				case lifecycle.EventWaitingStarted:
					logger.WithField("session_id", ev.SessionID).Info("edusearchd: crawl started")
				case lifecycle.EventCrawlFinished:
					logger.WithField("session_id", ev.SessionID).Info("edusearchd: crawl finished")
				case lifecycle.EventFatalError:
					logger.WithError(ev.Err).WithField("status", ev.Status).Error("edusearchd: fatal lifecycle error")
				}
			}
		}()
		lc.RunCrawl(ctx, cfg.CrawlerConfig())
	}

	searcher := httpui.Adapt(lc.Search, func(r retriever.Result) httpui.Result {
		return httpui.Result{URL: r.URL, Title: r.Title}
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      httpui.NewRouter(searcher, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.WithField("addr", addr).Info("edusearchd: serving")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Fatal("edusearchd: server error")
	}
}
