package crawler

import (
	"net/url"
	"strings"
)

// resolveHref resolves href against base and strips its fragment, rejecting
// anything that isn't a fetchable http(s) page. Grounded on
// Xhy51-project_changes' CleanHref, which rejects javascript:/data:/empty/
// fragment-only hrefs the same way.
func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(href), "javascript:") || strings.HasPrefix(strings.ToLower(href), "data:") || strings.HasPrefix(strings.ToLower(href), "mailto:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// normalizeKey collapses a URL to the canonical form used as the visited-set
// key, stripping the scheme and "www." prefix the way Crawler.java's
// storeCleanedLinks does (it strips "https://www.", "http://www.",
// "https://", "http://" before recording a link as seen).
func normalizeKey(rawURL string) string {
	key := rawURL
	for _, prefix := range []string{"https://www.", "http://www.", "https://", "http://"} {
		if strings.HasPrefix(key, prefix) {
			key = strings.TrimPrefix(key, prefix)
			break
		}
	}
	return strings.TrimSuffix(key, "/")
}

// linkFilter decides which discovered links are eligible to be enqueued,
// grounded on Crawler.java's cleanLinks: a link must stay within the
// configured domain and must not contain any of the configured excluded
// keywords.
type linkFilter struct {
	domain          string
	excludeKeywords []string
}

func newLinkFilter(domain string, excludeKeywords []string) linkFilter {
	lowered := make([]string, len(excludeKeywords))
	for i, kw := range excludeKeywords {
		lowered[i] = strings.ToLower(kw)
	}
	return linkFilter{domain: strings.ToLower(domain), excludeKeywords: lowered}
}

// allow compares against the lowercased form of rawURL, matching
// Crawler.java's cleanLinks (link.toLowerCase().contains("muhlenberg.edu")):
// an uppercase host must not bypass the domain or keyword filter.
func (f linkFilter) allow(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	if f.domain != "" && !strings.Contains(lower, f.domain) {
		return false
	}
	for _, kw := range f.excludeKeywords {
		if kw != "" && strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}
