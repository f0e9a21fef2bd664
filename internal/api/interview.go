package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type yesNoAnswersRequest struct {
	Answers []bool `json:"answers"`
}

type completeInterviewRequest struct {
	OpenEndedAnswers []string `json:"open_ended_answers"`
}

// StartInterview opens an interview session for the record.
func (h *Handler) StartInterview(w http.ResponseWriter, r *http.Request) {
	result, err := h.interviews.Start(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		h.Error(w, err)
		return
	}
	JSON(w, http.StatusOK, result)
}

// SubmitYesNoAnswers records the screening round answers.
func (h *Handler) SubmitYesNoAnswers(w http.ResponseWriter, r *http.Request) {
	var req yesNoAnswersRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.interviews.SubmitYesNoAnswers(r.Context(), chi.URLParam(r, "interviewID"), req.Answers)
	if err != nil {
		h.Error(w, err)
		return
	}
	JSON(w, http.StatusOK, result)
}

// CompleteInterview records the open-ended answers and persists the
// summary.
func (h *Handler) CompleteInterview(w http.ResponseWriter, r *http.Request) {
	var req completeInterviewRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.interviews.Complete(r.Context(), chi.URLParam(r, "interviewID"), req.OpenEndedAnswers)
	if err != nil {
		h.Error(w, err)
		return
	}
	JSON(w, http.StatusOK, result)
}

// InterviewStatus reports the current interview step.
func (h *Handler) InterviewStatus(w http.ResponseWriter, r *http.Request) {
	result, err := h.interviews.GetStatus(chi.URLParam(r, "interviewID"))
	if err != nil {
		h.Error(w, err)
		return
	}
	JSON(w, http.StatusOK, result)
}
