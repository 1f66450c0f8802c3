package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"edusearch/internal/indexer"
	"edusearch/internal/store"
	"edusearch/internal/textpipeline"
)

func TestResolveHrefRejectsFragmentsAndScriptLinks(t *testing.T) {
	base, err := url.Parse("https://www.muhlenberg.edu/page")
	if err != nil {
		t.Fatalf("url.Parse: %v", err)
	}
	cases := map[string]string{
		"#top":                                "",
		"":                                    "",
		"javascript:void(0)":                  "",
		"mailto:a@muhlenberg.edu":              "",
		"/about":                               "https://www.muhlenberg.edu/about",
		"https://www.muhlenberg.edu/ok#frag": "https://www.muhlenberg.edu/ok",
	}
	for href, want := range cases {
		if got := resolveHref(base, href); got != want {
			t.Errorf("resolveHref(%q) = %q; want %q", href, got, want)
		}
	}
}

func TestLinkFilterDomainAndKeyword(t *testing.T) {
	f := newLinkFilter("muhlenberg.edu", []string{"keyword"})
	if f.allow("https://other.edu/page") {
		t.Error("allow(other.edu) = true; want false (outside domain)")
	}
	if f.allow("https://www.muhlenberg.edu/keyword/x") {
		t.Error("allow(.../keyword/x) = true; want false (excluded keyword)")
	}
	if !f.allow("https://www.muhlenberg.edu/ok") {
		t.Error("allow(.../ok) = false; want true")
	}
	if !f.allow("https://WWW.Muhlenberg.EDU/ok") {
		t.Error("allow(uppercase host) = false; want true (domain match is case-insensitive)")
	}
	if f.allow("https://WWW.Muhlenberg.EDU/KEYWORD/x") {
		t.Error("allow(uppercase keyword) = true; want false (keyword match is case-insensitive)")
	}
}

func TestNormalizeKeyDedupesSchemeAndWWW(t *testing.T) {
	a := normalizeKey("https://www.example.muhlenberg.edu/")
	b := normalizeKey("http://example.muhlenberg.edu/")
	if a != b {
		t.Errorf("normalizeKey mismatch: %q vs %q", a, b)
	}
}

func TestCrawlVisitsSeedAndRespectsCap(t *testing.T) {
	var hits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		prefix := strings.TrimSuffix(r.URL.Path, "/")
		fmt.Fprintf(w, `<html><head><title>Page %s</title></head><body>
			<p>hello world</p>
			<a href="%s/a">a</a>
			<a href="%s/b">b</a>
		</body></html>`, r.URL.Path, prefix, prefix)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := store.NewMemStore()
	p := textpipeline.New(nil)
	ix := indexer.New(s, p, nil)

	done := make(chan struct{})
	cfg := Config{
		StartURL: srv.URL + "/",
		Domain:   "127.0.0.1",
		Workers:  2,
		CrawlCap: 3,
	}
	c := New(cfg, ix, nil, func() { close(done) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c.Run(ctx)

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("crawl did not finish before timeout")
	}

	n, err := s.CountTerms(ctx)
	if err != nil {
		t.Fatalf("CountTerms: %v", err)
	}
	if n == 0 {
		t.Fatal("expected at least one term indexed")
	}
	for _, id := range []string{"1", "2", "3"} {
		if d, err := s.FindDoc(ctx, id); err != nil || d == nil {
			t.Fatalf("FindDoc(%s) = (%v, %v); want a document within the cap", id, d, err)
		}
	}
	if d, err := s.FindDoc(ctx, "4"); err != nil || d != nil {
		t.Fatalf("FindDoc(4) = (%v, %v); want none (crawl cap is 3)", d, err)
	}
}

func TestCrawlEmptyStartURLFinishesImmediately(t *testing.T) {
	s := store.NewMemStore()
	p := textpipeline.New(nil)
	ix := indexer.New(s, p, nil)

	done := make(chan struct{})
	c := New(Config{}, ix, nil, func() { close(done) })
	c.Run(context.Background())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run with empty StartURL did not signal done")
	}
}
