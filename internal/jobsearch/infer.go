package jobsearch

import (
	"regexp"
	"strings"

	"github.com/sgrishin/recruit-pilot/internal/crm"
)

// fallbackSearchTerm guarantees a usable query when nothing can be inferred
// from the record.
const fallbackSearchTerm = "Software Engineer"

type termPattern struct {
	re    *regexp.Regexp
	label string
}

var seniorityPatterns = []termPattern{
	{regexp.MustCompile(`\bprincipal\b`), "Principal"},
	{regexp.MustCompile(`\bstaff\b`), "Staff"},
	{regexp.MustCompile(`\blead\b`), "Lead"},
	{regexp.MustCompile(`\bsenior\b|\bsr\.?\b`), "Senior"},
	{regexp.MustCompile(`\bmid\b|\bmid[- ]level\b`), "Mid"},
	{regexp.MustCompile(`\bjunior\b|\bjr\.?\b`), "Junior"},
	{regexp.MustCompile(`\bintern\b|\binternship\b`), "Intern"},
}

var rolePatterns = []termPattern{
	{regexp.MustCompile(`\bsite reliability engineer\b|\bsre\b`), "Site Reliability Engineer"},
	{regexp.MustCompile(`\bdevops\b`), "DevOps Engineer"},
	{regexp.MustCompile(`\bfull[- ]?stack\b`), "Full Stack Engineer"},
	{regexp.MustCompile(`\bback[- ]?end\b`), "Backend Engineer"},
	{regexp.MustCompile(`\bfront[- ]?end\b`), "Frontend Engineer"},
	{regexp.MustCompile(`\bsoftware (engineer|developer|dev)\b`), "Software Engineer"},
	{regexp.MustCompile(`\bdata scientist\b`), "Data Scientist"},
	{regexp.MustCompile(`\bdata engineer\b`), "Data Engineer"},
	{regexp.MustCompile(`\bml (engineer|scientist)\b|\bmachine learning (engineer|scientist)\b`), "Machine Learning Engineer"},
	{regexp.MustCompile(`\bai engineer\b`), "AI Engineer"},
	{regexp.MustCompile(`\bdata analyst\b`), "Data Analyst"},
	{regexp.MustCompile(`\bproduct manager\b|\bpm\b`), "Product Manager"},
	{regexp.MustCompile(`\bproject manager\b`), "Project Manager"},
	{regexp.MustCompile(`\bqa\b|\bquality assurance\b|\btest(ing)? engineer\b`), "QA Engineer"},
	{regexp.MustCompile(`\bsecurity engineer\b|\bapplication security\b|\bappsec\b`), "Security Engineer"},
	{regexp.MustCompile(`\bcloud engineer\b`), "Cloud Engineer"},
	{regexp.MustCompile(`\bsolutions? architect\b`), "Solutions Architect"},
	{regexp.MustCompile(`\bandroid (dev(eloper)?|engineer)\b`), "Android Engineer"},
	{regexp.MustCompile(`\bios (dev(eloper)?|engineer)\b`), "iOS Engineer"},
	{regexp.MustCompile(`\bmobile (dev(eloper)?|engineer)\b`), "Mobile Engineer"},
}

var roleNouns = []string{"engineer", "developer", "manager", "scientist", "analyst", "architect", "designer"}

// collectText gathers the free-text candidate signals used for inference.
// Resume text is preferred when present; the bare display name only
// contributes keywords and is never used as a search term itself.
func collectText(record *crm.Record) string {
	parts := []string{
		record.Name,
		record.InterviewsSummary,
		record.AIInterviewSummary,
		record.ScorecardReport,
		record.InterviewFeedback,
		record.ReasonCapableOf,
	}
	if resume := record.ResumeText(); resume != "" {
		parts = append(parts, resume)
	}

	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

// InferSearchTerm derives a job-search term from the record through a
// deterministic cascade: seniority keyword, role keyword, resume-heading
// heuristic, then the generic fallback.
func InferSearchTerm(record *crm.Record) string {
	text := strings.ToLower(collectText(record))

	var seniority string
	for _, p := range seniorityPatterns {
		if p.re.MatchString(text) {
			seniority = p.label
			break
		}
	}

	var role string
	for _, p := range rolePatterns {
		if p.re.MatchString(text) {
			role = p.label
			break
		}
	}

	// Resume heading heuristic: a short line near the top naming a role.
	if role == "" {
		role = roleFromResumeHeading(record.ResumeText())
	}

	if role == "" {
		role = fallbackSearchTerm
	}

	if seniority != "" {
		return seniority + " " + role
	}
	return role
}

func roleFromResumeHeading(resume string) string {
	resume = strings.TrimSpace(resume)
	if resume == "" {
		return ""
	}

	lines := strings.Split(resume, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}

	for _, line := range lines {
		clean := strings.TrimSpace(line)
		words := len(strings.Fields(clean))
		if words < 2 || words > 8 {
			continue
		}
		lower := strings.ToLower(clean)
		for _, noun := range roleNouns {
			if strings.Contains(lower, noun) {
				return clean
			}
		}
	}

	return ""
}
