// Package httpui provides the HTTP surface described by spec.md §6 as a
// contract only: a page with a single text field and button, and a /search
// endpoint that returns the ranked results as a JSON array of
// {"url", "title"} objects. Grounded on Xhy51-project_changes' server.go (NewMux,
// /search?q=term as JSON), rebuilt on github.com/gorilla/mux in place of
// a bare http.ServeMux per the rest of the example pack's routing idiom.
package httpui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Searcher is the subset of lifecycle.Lifecycle the HTTP surface depends
// on, kept narrow so httpui never needs to import internal/lifecycle's
// Crawler-wiring concerns.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Result mirrors retriever.Result; httpui declares its own copy so it
// doesn't need to import internal/retriever just for a two-field struct.
type Result struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// NewRouter builds the search page and JSON /search endpoint. Library
// only: it does not call http.ListenAndServe itself.
func NewRouter(s Searcher, log *logrus.Entry) http.Handler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, searchPageHTML)
	}).Methods(http.MethodGet)

	r.HandleFunc("/search", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query().Get("q")
		results, err := s.Search(req.Context(), q)
		if err != nil {
			log.WithError(err).WithField("query", q).Warn("httpui: search failed")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(results)
	}).Methods(http.MethodGet)

	return r
}

const searchPageHTML = `<!DOCTYPE html>
<html>
<head><title>edusearch</title></head>
<body>
<form action="/search" method="get">
  <input type="text" name="q">
  <button type="submit">Search</button>
</form>
</body>
</html>
`
