package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type workflowStartRequest struct {
	JobDescription string `json:"job_description"`
}

type careerPathRequest struct {
	CareerPath string `json:"career_path"`
}

// StartWorkflow opens a career workflow session for the record.
func (h *Handler) StartWorkflow(w http.ResponseWriter, r *http.Request) {
	var req workflowStartRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.workflows.Start(r.Context(), chi.URLParam(r, "recordID"), req.JobDescription)
	if err != nil {
		h.Error(w, err)
		return
	}
	JSON(w, http.StatusOK, result)
}

// SubmitCareerPath advances the workflow with the candidate's goal.
func (h *Handler) SubmitCareerPath(w http.ResponseWriter, r *http.Request) {
	var req careerPathRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.workflows.SubmitCareerPath(r.Context(), chi.URLParam(r, "workflowID"), req.CareerPath)
	if err != nil {
		h.Error(w, err)
		return
	}
	JSON(w, http.StatusOK, result)
}

// CompleteWorkflow finishes the workflow and returns the final bundle.
func (h *Handler) CompleteWorkflow(w http.ResponseWriter, r *http.Request) {
	result, err := h.workflows.Complete(r.Context(), chi.URLParam(r, "workflowID"))
	if err != nil {
		h.Error(w, err)
		return
	}
	JSON(w, http.StatusOK, result)
}

// WorkflowStatus reports the current step.
func (h *Handler) WorkflowStatus(w http.ResponseWriter, r *http.Request) {
	result, err := h.workflows.Status(chi.URLParam(r, "workflowID"))
	if err != nil {
		h.Error(w, err)
		return
	}
	JSON(w, http.StatusOK, result)
}
