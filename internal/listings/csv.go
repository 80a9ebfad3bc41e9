package listings

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// readRows reads a CSV file and returns one map per row, keyed by the header
// row's column names. Missing cells map to empty strings.
func readRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadJobs reads the structured jobs dataset. Columns absent from the file
// render as empty fields; an unreadable file is an error.
func LoadJobs(path string) ([]Job, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	jobs := make([]Job, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, Job{
			Company:          row["Company"],
			Title:            row["Job Title"],
			Location:         row["Location"],
			WorkMode:         row["Work Mode"],
			Experience:       row["Experience"],
			Industry:         row["Industry"],
			FunctionalArea:   row["Functional Area"],
			KeySkills:        row["Key Skills"],
			Summary:          row["Job Summary"],
			Responsibilities: row["Responsibilities"],
			Requirements:     row["Requirements"],
			Link:             row["Link"],
		})
	}
	return jobs, nil
}

// LoadEvents reads the events dataset.
func LoadEvents(path string) ([]Event, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, Event{
			Title:        row["Title"],
			Date:         row["Date"],
			Time:         row["Time"],
			Location:     row["Location"],
			Mode:         row["Mode"],
			Categories:   row["Categories"],
			RegisterLink: row["Register Link"],
			EventURL:     row["Event URL"],
		})
	}
	return events, nil
}

// Discover returns the dataset files under dir matching any of the given
// doublestar glob patterns, sorted for deterministic ordering.
func Discover(dir string, patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad dataset pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}

	sort.Strings(out)
	return out, nil
}
