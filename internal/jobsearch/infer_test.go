package jobsearch

import (
	"testing"

	"github.com/sgrishin/recruit-pilot/internal/crm"
)

func TestInferSearchTerm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record *crm.Record
		expect string
	}{
		{
			name: "seniority and role from summaries",
			record: &crm.Record{
				ID:                "a0N123456789012",
				InterviewsSummary: "Strong senior backend candidate with Go experience",
			},
			expect: "Senior Backend Engineer",
		},
		{
			name: "role only",
			record: &crm.Record{
				ID:              "a0N123456789012",
				ReasonCapableOf: "solid devops background",
			},
			expect: "DevOps Engineer",
		},
		{
			name: "resume heading heuristic",
			record: &crm.Record{
				ID: "a0N123456789012",
				Candidate: &crm.Candidate{
					ResumeText: "Jane Doe\nPlatform Infrastructure Architect\nExperience: ...",
				},
			},
			expect: "Platform Infrastructure Architect",
		},
		{
			name:   "generic fallback",
			record: &crm.Record{ID: "a0N123456789012", Name: "Opportunity 42"},
			expect: "Software Engineer",
		},
		{
			name: "seniority with fallback role",
			record: &crm.Record{
				ID:                "a0N123456789012",
				ScorecardReport:   "Candidate operates at staff level",
				InterviewFeedback: "no specific role mentioned",
			},
			expect: "Staff Software Engineer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := InferSearchTerm(tt.record); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestBuildQuery(t *testing.T) {
	t.Parallel()

	q := buildQuery(SearchParams{
		SearchTerm:    "Senior Go Developer",
		ResultsWanted: 3,
		HoursOld:      72,
		Sites:         []string{"indeed", "linkedin"},
		Country:       "USA",
	})

	if q.Get("search_term") != "Senior Go Developer" {
		t.Fatalf("unexpected search_term: %q", q.Get("search_term"))
	}
	if q.Get("results_wanted") != "3" {
		t.Fatalf("unexpected results_wanted: %q", q.Get("results_wanted"))
	}
	if got := q["site_name"]; len(got) != 2 || got[0] != "indeed" || got[1] != "linkedin" {
		t.Fatalf("unexpected site_name values: %v", got)
	}
	if _, ok := q["location"]; ok {
		t.Fatalf("empty location should be omitted")
	}
}

func TestWithOverride(t *testing.T) {
	t.Parallel()

	base := SearchParams{SearchTerm: "inferred", ResultsWanted: 20, HoursOld: 72}
	merged := base.withOverride(&Override{SearchTerm: "explicit", ResultsWanted: 3})

	if merged.SearchTerm != "explicit" {
		t.Fatalf("override search term not applied: %q", merged.SearchTerm)
	}
	if merged.ResultsWanted != 3 {
		t.Fatalf("override results not applied: %d", merged.ResultsWanted)
	}
	if merged.HoursOld != 72 {
		t.Fatalf("unset override should not clear hours_old: %d", merged.HoursOld)
	}
}
