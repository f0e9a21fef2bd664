package crm

import (
	"regexp"

	"github.com/sgrishin/recruit-pilot/internal/apperr"
)

var validRecordID = regexp.MustCompile(`^[A-Za-z0-9]{15,18}$`)

// ValidateRecordID checks the CRM identifier shape before any network call.
func ValidateRecordID(id string) error {
	if !validRecordID.MatchString(id) {
		return apperr.Validation("invalid record id %q: must be 15-18 alphanumeric characters", id)
	}
	return nil
}

// Candidate is the nested candidate sub-record attached to an opportunity.
type Candidate struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	ResumeText string `json:"resume_text,omitempty"`
}

// Record is a candidate/opportunity record fetched from the CRM.
type Record struct {
	ID        string     `json:"id"`
	Name      string     `json:"name,omitempty"`
	Candidate *Candidate `json:"candidate,omitempty"`

	ScorecardSum       *float64 `json:"scorecard_sum,omitempty"`
	ReasonCapableOf    string   `json:"reason_capable_of,omitempty"`
	InterviewsSummary  string   `json:"interviews_summary,omitempty"`
	SalaryExpectations string   `json:"salary_expectations,omitempty"`
	ScorecardReport    string   `json:"scorecard_report,omitempty"`
	AIInterviewSummary string   `json:"ai_interview_summary,omitempty"`
	InterviewScore     *float64 `json:"interview_score,omitempty"`
	InterviewFeedback  string   `json:"interview_feedback,omitempty"`
}

// ResumeText returns the candidate resume text, empty when no candidate is
// linked.
func (r *Record) ResumeText() string {
	if r == nil || r.Candidate == nil {
		return ""
	}
	return r.Candidate.ResumeText
}

// InterviewRecord is the persisted record linked 1:1 to an opportunity,
// holding the AI interview summary.
type InterviewRecord struct {
	ID       string `json:"id,omitempty"`
	RecordID string `json:"record_id"`
	Summary  string `json:"summary"`
}
