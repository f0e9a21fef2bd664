package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter assembles the service routes around the handler.
func NewRouter(h *Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/records/{recordID}", func(r chi.Router) {
		r.Get("/", h.GetRecord)
		r.Post("/analysis", h.AnalyzeRecord)
		r.Get("/jobs", h.SearchJobs)
		r.Post("/workflow/start", h.StartWorkflow)
		r.Post("/interview/start", h.StartInterview)
	})

	r.Route("/workflow/{workflowID}", func(r chi.Router) {
		r.Post("/career-path", h.SubmitCareerPath)
		r.Post("/complete", h.CompleteWorkflow)
		r.Get("/status", h.WorkflowStatus)
	})

	r.Route("/interview/{interviewID}", func(r chi.Router) {
		r.Post("/answers", h.SubmitYesNoAnswers)
		r.Post("/complete", h.CompleteInterview)
		r.Get("/status", h.InterviewStatus)
	})

	r.Post("/job-analyzer/questions", h.GenerateQuestions)

	return r
}

// requestLogger logs one line per request with method, path, status and
// duration.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
			)
		})
	}
}
