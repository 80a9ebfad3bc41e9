package listings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatJobDeterministic(t *testing.T) {
	j := Job{
		Company:   "Acme Corp",
		Title:     "Backend Engineer",
		Location:  "Mumbai",
		WorkMode:  "Hybrid",
		KeySkills: "Go, SQL",
		Link:      "https://example.com/jobs/42",
	}

	first := FormatJob(j)
	second := FormatJob(j)
	if first != second {
		t.Fatal("FormatJob is not deterministic for identical input")
	}

	if !strings.Contains(first, "Acme Corp") {
		t.Error("formatted job missing company name")
	}
	if !strings.Contains(first, `"Backend Engineer"`) {
		t.Error("formatted job missing quoted title")
	}
	if !strings.Contains(first, "Link: https://example.com/jobs/42") {
		t.Error("formatted job missing labelled link")
	}
}

func TestFormatJobMissingFields(t *testing.T) {
	// A zero-value record must still format, with empty substitutions.
	out := FormatJob(Job{})
	if out == "" {
		t.Fatal("FormatJob returned empty string for zero record")
	}
	if !strings.Contains(out, "Imagine this opportunity") {
		t.Error("formatted job lost its fixed prose")
	}
}

func TestFormatEvent(t *testing.T) {
	e := Event{
		Title:        "Women in Tech Summit",
		Date:         "2030-06-15",
		Time:         "10:00 AM",
		Location:     "Bengaluru",
		Mode:         "Offline",
		Categories:   "Networking",
		RegisterLink: "https://example.com/register",
		EventURL:     "https://example.com/events/summit",
	}

	out := FormatEvent(e)
	if FormatEvent(e) != out {
		t.Fatal("FormatEvent is not deterministic")
	}
	if !strings.Contains(out, "happening on 2030-06-15") {
		t.Error("formatted event missing the dated phrase the temporal filter scans")
	}
	if !strings.Contains(out, "Event URL: https://example.com/events/summit") {
		t.Error("formatted event missing labelled event URL")
	}
}

func TestEventStartsOn(t *testing.T) {
	if _, ok := (Event{Date: "not-a-date"}).StartsOn(); ok {
		t.Error("expected StartsOn to fail for malformed date")
	}
	if _, ok := (Event{}).StartsOn(); ok {
		t.Error("expected StartsOn to fail for empty date")
	}
	when, ok := (Event{Date: "2030-01-02"}).StartsOn()
	if !ok {
		t.Fatal("expected StartsOn to parse ISO date")
	}
	if when.Year() != 2030 || when.Month() != 1 || when.Day() != 2 {
		t.Errorf("StartsOn parsed wrong date: %v", when)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadJobs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "structured_jobs.csv")
	writeFile(t, path, "Company,Job Title,Location,Link\nAcme,Engineer,Pune,https://a.example/1\nBeta,Analyst,Delhi,https://a.example/2\n")

	jobs, err := LoadJobs(path)
	if err != nil {
		t.Fatalf("LoadJobs failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Company != "Acme" || jobs[0].Title != "Engineer" {
		t.Errorf("unexpected first job: %+v", jobs[0])
	}
	// Columns absent from the file come back empty, not as an error.
	if jobs[0].KeySkills != "" {
		t.Errorf("expected empty KeySkills, got %q", jobs[0].KeySkills)
	}
}

func TestLoadEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "herkey_events.csv")
	writeFile(t, path, "Title,Date,Event URL\nSummit,2030-06-15,https://e.example/1\n")

	events, err := LoadEvents(path)
	if err != nil {
		t.Fatalf("LoadEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Title != "Summit" || events[0].EventURL != "https://e.example/1" {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestLoadJobsMissingFile(t *testing.T) {
	if _, err := LoadJobs(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for missing dataset file")
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "structured_jobs.csv"), "Company\n")
	writeFile(t, filepath.Join(sub, "structured_jobs_v2.csv"), "Company\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")

	files, err := Discover(dir, []string{"**/structured_jobs*.csv"})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 matches, got %d: %v", len(files), files)
	}
}
