// Package textpipeline implements the deterministic text-normalization
// pipeline shared by the Indexer and Retriever: lowercase, strip
// non-alphanumerics, split, drop stopwords, stem.
//
// Grounded on Xhy51-project_changes' Index.Add/SQLiteIndex.Add word
// processing (lower -> stop filter -> stem) and Crawler.java's
// cleanQuery/processPage, with the stopword set and stemmer carried as
// values on a Pipeline instead of the package-level globals the original
// sources use (Design Notes: avoid hidden globals).
package textpipeline

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball/english"
)

// MaxTokenLength is the length above which a stemmed token is dropped
// during frequency accumulation, but not during query cleaning.
const MaxTokenLength = 30

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

// Pipeline normalizes raw text into stemmed tokens using a fixed stopword
// set. It is stateless aside from that set and is safe for concurrent use.
type Pipeline struct {
	stopwords map[string]struct{}
}

// New constructs a Pipeline over the given stopword set. A nil set is
// treated as empty, not as "use some default" — callers that need
// stopwords.txt should load it with LoadStopwords and pass the result here.
func New(stopwords map[string]struct{}) *Pipeline {
	if stopwords == nil {
		stopwords = map[string]struct{}{}
	}
	return &Pipeline{stopwords: stopwords}
}

func (p *Pipeline) isStopword(tok string) bool {
	_, bad := p.stopwords[tok]
	return bad
}

// Normalize runs the full pipeline: lowercase, strip non-alphanumerics to
// single spaces, split on whitespace runs, drop stopwords, stem. It does
// not apply the 30-character length cutoff; callers that accumulate
// frequencies (the Indexer) apply that themselves.
func (p *Pipeline) Normalize(text string) []string {
	cleaned := nonAlnum.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(cleaned)

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" || p.isStopword(f) {
			continue
		}
		tokens = append(tokens, english.Stem(f, true))
	}
	return tokens
}

// CleanQuery normalizes text and returns each surviving term mapped to its
// frequency normalized by the total token count (including duplicates),
// i.e. a probability distribution over query terms. An empty result means
// the query carried nothing but stopwords/punctuation.
func (p *Pipeline) CleanQuery(text string) map[string]float64 {
	tokens := p.Normalize(text)
	if len(tokens) == 0 {
		return map[string]float64{}
	}

	counts := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	total := float64(len(tokens))
	for t, c := range counts {
		counts[t] = c / total
	}
	return counts
}
