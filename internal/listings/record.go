package listings

// Category partitions the index by listing kind.
type Category string

const (
	CategoryJobs   Category = "jobs"
	CategoryEvents Category = "events"
)

// Job is one row of the structured jobs dataset.
type Job struct {
	Company          string
	Title            string
	Location         string
	WorkMode         string
	Experience       string
	Industry         string
	FunctionalArea   string
	KeySkills        string
	Summary          string
	Responsibilities string
	Requirements     string
	Link             string
}

// Event is one row of the events dataset.
type Event struct {
	Title        string
	Date         string
	Time         string
	Location     string
	Mode         string
	Categories   string
	RegisterLink string
	EventURL     string
}
