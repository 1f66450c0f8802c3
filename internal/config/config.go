// Package config loads and validates the settings cmd/edusearchd needs to
// wire a Store, Crawler, and Lifecycle together. Grounded on
// MrDiipo-Search_Engine's crawler.Config/Validate() shape: defaults filled
// in place, hard failures collected into a single *multierror.Error rather
// than returned one at a time.
package config

import (
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"edusearch/internal/crawler"
)

// DefaultStartURL is the crawl seed carried over from the original, which
// always crawled a single fixed host.
const DefaultStartURL = "https://www.muhlenberg.edu/"

// DefaultDomain is the link-filter domain substring (spec.md §4.4:
// cleanLinks requires "muhlenberg.edu").
const DefaultDomain = "muhlenberg.edu"

// DefaultStopwordsPath is the stopword-list path Validate fills in when
// none is given.
const DefaultStopwordsPath = "stopwords.txt"

// Config holds everything cmd/edusearchd needs to start a Lifecycle: where
// the document store lives, what to crawl, and how many workers to run.
type Config struct {
	// StoreDataSource is the SQLite data source name, e.g. a file path or
	// "file::memory:?cache=shared".
	StoreDataSource string
	// StopwordsPath points at a newline-delimited stopword list.
	StopwordsPath string
	// StartURL seeds the crawl. Defaults to DefaultStartURL.
	StartURL string
	// Domain restricts the link filter to URLs containing this substring.
	// Defaults to DefaultDomain.
	Domain string
	// ExcludeKeywords are substrings that disqualify a link even if it
	// matches Domain.
	ExcludeKeywords []string
	// Workers is the crawl worker-pool size. Defaults to
	// crawler.DefaultWorkers.
	Workers int
	// CrawlCap is the maximum number of pages indexed per crawl. Defaults
	// to crawler.DefaultCrawlCap.
	CrawlCap int
	// FetchTimeout bounds a single page fetch. Defaults to
	// crawler.DefaultFetchTimeout.
	FetchTimeout time.Duration

	Logger *logrus.Entry
}

// Validate fills in defaults for anything left unset and collects hard
// failures — a missing store data source, or a negative tunable — into a
// single *multierror.Error, mirroring MrDiipo-Search_Engine's
// crawler.Config.Validate().
func (c *Config) Validate() error {
	var err error

	if c.StoreDataSource == "" {
		err = multierror.Append(err, xerrors.Errorf("store data source has not been provided"))
	}
	if c.StopwordsPath == "" {
		c.StopwordsPath = DefaultStopwordsPath
	}
	if c.StartURL == "" {
		c.StartURL = DefaultStartURL
	}
	if c.Domain == "" {
		c.Domain = DefaultDomain
	}
	if len(c.ExcludeKeywords) == 0 {
		c.ExcludeKeywords = []string{"keyword"}
	}
	if c.Workers < 0 {
		err = multierror.Append(err, xerrors.Errorf("invalid value for workers: %d", c.Workers))
	} else if c.Workers == 0 {
		c.Workers = crawler.DefaultWorkers
	}
	if c.CrawlCap < 0 {
		err = multierror.Append(err, xerrors.Errorf("invalid value for crawl cap: %d", c.CrawlCap))
	} else if c.CrawlCap == 0 {
		c.CrawlCap = crawler.DefaultCrawlCap
	}
	if c.FetchTimeout < 0 {
		err = multierror.Append(err, xerrors.Errorf("invalid value for fetch timeout: %s", c.FetchTimeout))
	} else if c.FetchTimeout == 0 {
		c.FetchTimeout = crawler.DefaultFetchTimeout
	}
	if c.Logger == nil {
		c.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return err
}

// CrawlerConfig projects the crawl-relevant fields into a crawler.Config.
func (c Config) CrawlerConfig() crawler.Config {
	return crawler.Config{
		StartURL:        c.StartURL,
		Domain:          c.Domain,
		ExcludeKeywords: c.ExcludeKeywords,
		Workers:         c.Workers,
		CrawlCap:        c.CrawlCap,
		FetchTimeout:    c.FetchTimeout,
	}
}
