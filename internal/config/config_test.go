package config

import (
	"testing"

	"github.com/hashicorp/go-multierror"

	"edusearch/internal/crawler"
)

func TestValidateFillsDefaults(t *testing.T) {
	c := Config{StoreDataSource: "test.db"}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.StartURL != DefaultStartURL {
		t.Errorf("StartURL = %q; want default %q", c.StartURL, DefaultStartURL)
	}
	if c.Domain != DefaultDomain {
		t.Errorf("Domain = %q; want default %q", c.Domain, DefaultDomain)
	}
	if c.Workers != crawler.DefaultWorkers {
		t.Errorf("Workers = %d; want default %d", c.Workers, crawler.DefaultWorkers)
	}
	if c.CrawlCap != crawler.DefaultCrawlCap {
		t.Errorf("CrawlCap = %d; want default %d", c.CrawlCap, crawler.DefaultCrawlCap)
	}
	if len(c.ExcludeKeywords) != 1 || c.ExcludeKeywords[0] != "keyword" {
		t.Errorf("ExcludeKeywords = %v; want [keyword]", c.ExcludeKeywords)
	}
}

func TestValidateRejectsMissingStoreDataSource(t *testing.T) {
	c := Config{}
	err := c.Validate()
	if err == nil {
		t.Fatal("Validate() = nil; want error for missing store data source")
	}
	if _, ok := err.(*multierror.Error); !ok {
		t.Fatalf("Validate() error type = %T; want *multierror.Error", err)
	}
}

func TestValidateRejectsNegativeTunables(t *testing.T) {
	c := Config{StoreDataSource: "test.db", Workers: -1, CrawlCap: -5}
	merr, ok := c.Validate().(*multierror.Error)
	if !ok {
		t.Fatal("Validate() did not return a *multierror.Error")
	}
	if len(merr.Errors) != 2 {
		t.Fatalf("len(Errors) = %d; want 2 (workers + crawl cap)", len(merr.Errors))
	}
}
