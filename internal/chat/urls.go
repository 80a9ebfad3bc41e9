package chat

import (
	"regexp"

	"github.com/ashaai/asha-server/internal/listings"
	"github.com/ashaai/asha-server/internal/vectordb"
)

var (
	jobLinkPattern   = regexp.MustCompile(`Link:\s*(\S+)`)
	eventLinkPattern = regexp.MustCompile(`Event URL:\s*(\S+)`)
)

// ExtractURLs collects the listing links referenced by a set of retrieved
// chunks, deduplicated and in retrieval order. The structured Link metadata
// wins; chunks missing it are scanned for the formatter's "Link:" or
// "Event URL:" label depending on category.
func ExtractURLs(results []vectordb.SearchResult) []string {
	seen := make(map[string]struct{})
	var urls []string

	add := func(u string) {
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	for _, r := range results {
		if link := r.Document.Metadata.Link; link != "" {
			add(link)
			continue
		}
		pattern := jobLinkPattern
		if r.Document.Metadata.Category == listings.CategoryEvents {
			pattern = eventLinkPattern
		}
		if m := pattern.FindStringSubmatch(r.Document.Content); m != nil {
			add(m[1])
		}
	}
	return urls
}
