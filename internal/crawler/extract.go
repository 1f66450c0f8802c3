package crawler

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// page is what the crawler needs out of one fetched HTML document: its
// title, its visible text (for indexing), and its raw anchor hrefs (for
// link discovery). Grounded on Xhy51-project_changes' Extract, extended to
// also pull <title> since spec.md §4.4 step 4 needs it for the Indexer.
type page struct {
	title string
	text  string
	hrefs []string
}

// extract parses body as HTML and walks the tree once, skipping text under
// <script>/<style> the way Xhy51-project_changes' Extract does.
func extract(body []byte) page {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return page{}
	}

	var p page
	var textParts []string
	var skipDepth int

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (strings.EqualFold(n.Data, "script") || strings.EqualFold(n.Data, "style")) {
			skipDepth++
		}

		if skipDepth == 0 {
			switch {
			case n.Type == html.TextNode:
				if t := strings.TrimSpace(n.Data); t != "" {
					textParts = append(textParts, t)
				}
			case n.Type == html.ElementNode && strings.EqualFold(n.Data, "title") && p.title == "":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					p.title = strings.TrimSpace(n.FirstChild.Data)
				}
			case n.Type == html.ElementNode && strings.EqualFold(n.Data, "a"):
				for _, a := range n.Attr {
					if strings.EqualFold(a.Key, "href") {
						if v := strings.TrimSpace(a.Val); v != "" {
							p.hrefs = append(p.hrefs, v)
						}
					}
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && (strings.EqualFold(n.Data, "script") || strings.EqualFold(n.Data, "style")) {
			skipDepth--
		}
	}
	walk(root)

	p.text = strings.Join(textParts, " ")
	return p
}
