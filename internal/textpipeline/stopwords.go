package textpipeline

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/xerrors"

	"edusearch/internal/apperrors"
)

// LoadStopwords reads one lowercase token per line from path. Absence of
// the file is fatal (spec §6): callers should surface the returned error
// through Lifecycle as ErrStopwordsMissing.
func LoadStopwords(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("textpipeline: %w: %v", apperrors.ErrStopwordsMissing, err)
	}
	defer f.Close()

	set := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, xerrors.Errorf("textpipeline: %w: %v", apperrors.ErrStopwordsMissing, err)
	}
	return set, nil
}
