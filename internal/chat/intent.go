package chat

import (
	"strings"

	"github.com/ashaai/asha-server/internal/listings"
)

// Intent classifies what a query is asking for.
type Intent int

const (
	// IntentIdentity is a question about the assistant itself.
	IntentIdentity Intent = iota
	// IntentListings is a jobs-or-events question answered from the index.
	IntentListings
	// IntentFollowUp continues an existing conversation without retrieval.
	IntentFollowUp
	// IntentWeb is an open-domain question answered via web search.
	IntentWeb
)

func (i Intent) String() string {
	switch i {
	case IntentIdentity:
		return "identity"
	case IntentListings:
		return "listings"
	case IntentFollowUp:
		return "follow-up"
	default:
		return "web"
	}
}

// Decision is the outcome of classifying one query. Category is only set for
// IntentListings.
type Decision struct {
	Intent   Intent
	Category listings.Category
}

// Classifier routes an incoming query to an intent. hasHistory reports
// whether the session already holds prior turns.
type Classifier interface {
	Classify(query string, hasHistory bool) Decision
}

// identityPhrases short-circuit to the canned identity reply.
var identityPhrases = []string{
	"who are you",
	"what are you",
	"your name",
	"herkey",
	"jobsforher",
}

// jobKeywords select the jobs category; listingKeywords as a whole gate the
// retrieval path. Category selection is first-match substring presence, so
// "job fair" resolves to jobs because "job" is checked before the event
// keywords.
var (
	jobKeywords     = []string{"job", "internship"}
	listingKeywords = []string{"job", "internship", "career", "resume", "event", "workshop", "summit", "fair"}
)

// KeywordClassifier is the default substring-matching classifier. Precedence:
// identity > listings > follow-up > web.
type KeywordClassifier struct{}

func (KeywordClassifier) Classify(query string, hasHistory bool) Decision {
	q := strings.ToLower(query)

	for _, phrase := range identityPhrases {
		if strings.Contains(q, phrase) {
			return Decision{Intent: IntentIdentity}
		}
	}

	for _, keyword := range listingKeywords {
		if strings.Contains(q, keyword) {
			category := listings.CategoryEvents
			for _, jk := range jobKeywords {
				if strings.Contains(q, jk) {
					category = listings.CategoryJobs
					break
				}
			}
			return Decision{Intent: IntentListings, Category: category}
		}
	}

	if hasHistory {
		return Decision{Intent: IntentFollowUp}
	}
	return Decision{Intent: IntentWeb}
}
