package chat

import (
	"regexp"
	"time"

	"github.com/ashaai/asha-server/internal/vectordb"
)

// datePattern matches the "happening on 2025-07-01" phrasing that event
// chunks carry in their prose.
var datePattern = regexp.MustCompile(`on (\d{4}-\d{2}-\d{2})`)

// FilterUpcoming drops retrieved chunks whose listing date is strictly before
// asOf's calendar day. The structured StartsOn metadata is consulted first;
// chunks without it fall back to scanning the text for an "on YYYY-MM-DD"
// phrase. Chunks with no date, and chunks whose match is not a real calendar
// date, are kept: a listing without a usable date is not known to be stale.
func FilterUpcoming(results []vectordb.SearchResult, asOf time.Time) []vectordb.SearchResult {
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)

	var kept []vectordb.SearchResult
	for _, r := range results {
		if starts := r.Document.Metadata.StartsOn; !starts.IsZero() {
			if starts.Before(day) {
				continue
			}
		} else if m := datePattern.FindStringSubmatch(r.Document.Content); m != nil {
			if d, err := time.Parse("2006-01-02", m[1]); err == nil && d.Before(day) {
				continue
			}
		}
		kept = append(kept, r)
	}
	return kept
}
