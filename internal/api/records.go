package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sgrishin/recruit-pilot/internal/apperr"
	"github.com/sgrishin/recruit-pilot/internal/jobsearch"
)

const minJobDescriptionLen = 50

type analysisRequest struct {
	JobDescription string `json:"job_description"`
}

type analysisResponse struct {
	ID         string `json:"id"`
	Analysis   string `json:"analysis"`
	FitAndGaps string `json:"fit_and_gaps"`
}

// GetRecord returns the raw CRM record.
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.records.FetchRecord(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		h.Error(w, err)
		return
	}
	JSON(w, http.StatusOK, record)
}

// AnalyzeRecord runs the one-shot assessment plus fit review.
func (h *Handler) AnalyzeRecord(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if !h.decode(w, r, &req) {
		return
	}

	record, err := h.records.FetchRecord(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		h.Error(w, err)
		return
	}

	analysisText, err := h.analyzer.Analyze(r.Context(), record, req.JobDescription)
	if err != nil {
		h.Error(w, err)
		return
	}
	fitText, err := h.fit.Assess(r.Context(), record, req.JobDescription)
	if err != nil {
		h.Error(w, err)
		return
	}

	JSON(w, http.StatusOK, analysisResponse{
		ID:         record.ID,
		Analysis:   analysisText,
		FitAndGaps: fitText,
	})
}

// SearchJobs runs a direct job search for the record. Query parameters
// override the inferred search term and the configured defaults.
func (h *Handler) SearchJobs(w http.ResponseWriter, r *http.Request) {
	record, err := h.records.FetchRecord(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		h.Error(w, err)
		return
	}

	override, err := overrideFromQuery(r)
	if err != nil {
		h.Error(w, err)
		return
	}

	jobs, err := h.jobs.Search(r.Context(), record, override)
	if err != nil {
		h.Error(w, apperr.Gateway("job search", err))
		return
	}
	JSON(w, http.StatusOK, jobs)
}

func overrideFromQuery(r *http.Request) (*jobsearch.Override, error) {
	q := r.URL.Query()
	override := &jobsearch.Override{
		SearchTerm: q.Get("search_term"),
		Location:   q.Get("location"),
	}

	for key, dst := range map[string]*int{
		"results_wanted": &override.ResultsWanted,
		"hours_old":      &override.HoursOld,
	} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, apperr.Validation("%s must be a positive integer", key)
		}
		*dst = n
	}
	return override, nil
}

type questionsRequest struct {
	JobDescription string `json:"job_description"`
}

type questionsResponse struct {
	Questions []string `json:"questions"`
}

// GenerateQuestions derives interview questions from a raw job
// description.
func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req questionsRequest
	if !h.decode(w, r, &req) {
		return
	}

	description := strings.TrimSpace(req.JobDescription)
	if description == "" {
		h.Error(w, apperr.Validation("job description cannot be empty"))
		return
	}
	if len(description) < minJobDescriptionLen {
		h.Error(w, apperr.Validation("job description must be at least %d characters long", minJobDescriptionLen))
		return
	}

	JSON(w, http.StatusOK, questionsResponse{
		Questions: h.questions.Questions(r.Context(), description),
	})
}
