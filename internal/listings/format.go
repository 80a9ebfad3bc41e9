package listings

import (
	"fmt"
	"time"
)

// Formatting turns one structured record into the narrative paragraph that is
// embedded into the vector index and quoted back in prompts. The output is
// deterministic: the same record always yields the same string. Missing fields
// render as empty substitutions.
//
// Two labels in the prose are load-bearing downstream: "Link:" / "Event URL:"
// are scanned by the URL extractor, and "on <YYYY-MM-DD>" is scanned by the
// temporal filter.

// FormatJob renders a job row as prose.
func FormatJob(j Job) string {
	return fmt.Sprintf(`Imagine this opportunity: At %s, there's a role titled "%s" located in %s (%s mode).
They're looking for someone with %s of experience in the %s industry, especially within the %s domain.
The role demands key skills like %s.

Here's a quick summary: %s
Your responsibilities may include: %s
To qualify, you'll need: %s

Interested? Explore more or apply here. Link: %s
`, j.Company, j.Title, j.Location, j.WorkMode,
		j.Experience, j.Industry, j.FunctionalArea,
		j.KeySkills, j.Summary, j.Responsibilities, j.Requirements, j.Link)
}

// FormatEvent renders an event row as prose.
func FormatEvent(e Event) string {
	return fmt.Sprintf(`Don't miss this event: "%s" happening on %s at %s in %s (%s mode).
It falls under categories like %s.

Want to join? Register now: %s
Learn more here. Event URL: %s
`, e.Title, e.Date, e.Time, e.Location, e.Mode,
		e.Categories, e.RegisterLink, e.EventURL)
}

// StartsOn parses the event's date field. The second return is false when the
// field is empty or not an ISO date.
func (e Event) StartsOn() (time.Time, bool) {
	t, err := time.Parse("2006-01-02", e.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
