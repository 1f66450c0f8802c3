package textpipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeStripsStopwordsAndStems(t *testing.T) {
	p := New(map[string]struct{}{"the": {}, "a": {}})
	got := p.Normalize("The Quick, quick foxes!")
	want := []string{"quick", "quick", "fox"}
	if len(got) != len(want) {
		t.Fatalf("Normalize() = %#v; want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Normalize()[%d] = %q; want %q", i, got[i], want[i])
		}
	}
}

func TestCleanQueryIsAProbabilityDistribution(t *testing.T) {
	p := New(map[string]struct{}{"the": {}, "a": {}})
	got := p.CleanQuery("the A quick")
	if len(got) != 1 {
		t.Fatalf("CleanQuery() = %#v; want a single retained term", got)
	}
	if got["quick"] != 1.0 {
		t.Fatalf("CleanQuery()[quick] = %v; want 1.0", got["quick"])
	}
}

func TestCleanQuerySumsToOne(t *testing.T) {
	p := New(nil)
	got := p.CleanQuery("run running runs jump")
	var sum float64
	for _, v := range got {
		sum += v
	}
	if sum < 0.999 || sum > 1.001 {
		t.Fatalf("CleanQuery() frequencies sum to %v; want ~1.0", sum)
	}
}

func TestCleanQueryEmptyInput(t *testing.T) {
	p := New(map[string]struct{}{"the": {}})
	got := p.CleanQuery("the")
	if len(got) != 0 {
		t.Fatalf("CleanQuery(%q) = %#v; want empty", "the", got)
	}
}

func TestNormalizeIdempotentUpToStopwordDrop(t *testing.T) {
	p := New(nil)
	x := "Running Foxes"
	once := p.Normalize(x)
	twice := p.Normalize(joinTokens(once))
	if len(once) != len(twice) {
		t.Fatalf("normalize(normalize(x)) = %#v; want same length as %#v", twice, once)
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("normalize(normalize(x))[%d] = %q; want %q", i, twice[i], once[i])
		}
	}
}

func joinTokens(tokens []string) string {
	out := ""
	for i, t := range tokens {
		if i > 0 {
			out += " "
		}
		out += t
	}
	return out
}

func TestLoadStopwordsMissingFile(t *testing.T) {
	_, err := LoadStopwords(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatalf("LoadStopwords on missing file should error")
	}
}

func TestLoadStopwordsReadsLowercasedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stopwords.txt")
	if err := os.WriteFile(path, []byte("The\nA\n\nAND\n"), 0o644); err != nil {
		t.Fatalf("write stopwords file: %v", err)
	}
	set, err := LoadStopwords(path)
	if err != nil {
		t.Fatalf("LoadStopwords: %v", err)
	}
	for _, w := range []string{"the", "a", "and"} {
		if _, ok := set[w]; !ok {
			t.Fatalf("LoadStopwords() missing %q", w)
		}
	}
	if len(set) != 3 {
		t.Fatalf("LoadStopwords() = %#v; want 3 entries", set)
	}
}
