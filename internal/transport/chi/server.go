package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/overlap/internal/domain"
	dombatch "github.com/kailas-cloud/overlap/internal/domain/batch"
	analysisuc "github.com/kailas-cloud/overlap/internal/usecase/analysis"
	healthuc "github.com/kailas-cloud/overlap/internal/usecase/health"
	submissionuc "github.com/kailas-cloud/overlap/internal/usecase/submission"
	"github.com/kailas-cloud/overlap/internal/version"
)

// multipartMemory is the in-memory part of a parsed upload; the rest spills to disk.
const multipartMemory = 32 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// sentinelStatus maps a domain sentinel to its HTTP status and error code.
type sentinelStatus struct {
	err    error
	status int
	code   ErrorCode
}

// sentinels is ordered; the first match wins.
var sentinels = []sentinelStatus{
	{domain.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{domain.ErrInvalidDocument, http.StatusUnprocessableEntity, CodeInvalidDocument},
	{domain.ErrTooManyDocuments, http.StatusUnprocessableEntity, CodeTooManyDocuments},
	{domain.ErrInvalidQuery, http.StatusBadRequest, CodeValidationFailed},
	{domain.ErrInvalidSubmission, http.StatusBadRequest, CodeValidationFailed},
	{domain.ErrEmptyText, http.StatusBadRequest, CodeValidationFailed},
	{domain.ErrUnsupportedFormat, http.StatusUnsupportedMediaType, CodeUnsupportedFormat},
	{domain.ErrTooLarge, http.StatusRequestEntityTooLarge, CodePayloadTooLarge},
}

// Server serves the overlap HTTP API.
type Server struct {
	submissions     *submissionuc.Service
	analysis        *analysisuc.Service
	health          *healthuc.Service
	logger          *zap.Logger
	errorHandlers   []errorHandler
	maxFiles        int
	maxFileBytes    int
	analysisTimeout time.Duration
}

// NewServer creates an HTTP API server.
func NewServer(
	submissions *submissionuc.Service,
	analysis *analysisuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		submissions:  submissions,
		analysis:     analysis,
		health:       health,
		logger:       logger,
		maxFiles:     submissionuc.DefaultMaxFiles,
		maxFileBytes: submissionuc.DefaultMaxFileBytes,
	}
	s.errorHandlers = []errorHandler{deadlineHandler}
	for _, st := range sentinels {
		s.errorHandlers = append(s.errorHandlers, sentinelHandler(st.err, st.status, st.code))
	}
	return s
}

// WithUploadLimits bounds the request body of POST /submissions.
func (s *Server) WithUploadLimits(maxFiles, maxFileBytes int) *Server {
	if maxFiles > 0 {
		s.maxFiles = maxFiles
	}
	if maxFileBytes > 0 {
		s.maxFileBytes = maxFileBytes
	}
	return s
}

// WithAnalysisTimeout bounds a single POST /analysis run. Zero means no bound.
func (s *Server) WithAnalysisTimeout(d time.Duration) *Server {
	s.analysisTimeout = d
	return s
}

// Routes registers all API routes on r.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/submissions", func(r gochi.Router) {
		r.Post("/", s.UploadSubmissions)
		r.Get("/", s.ListSubmissions)
		r.Get("/{id}", s.GetSubmission)
	})
	r.Post("/analysis", s.RunAnalysis)
	r.Get("/results", s.ListResults)
	r.Get("/stats", s.Stats)
	r.Delete("/data", s.ClearData)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}

// UploadSubmissions handles POST /submissions (multipart: files, student_ids).
func (s *Server) UploadSubmissions(w http.ResponseWriter, r *http.Request) {
	maxBody := int64(s.maxFiles)*int64(s.maxFileBytes) + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", maxBody))
			return
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["files"]
	studentIDs := r.MultipartForm.Value["student_ids"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "at least one file is required")
		return
	}
	if len(files) != len(studentIDs) {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, fmt.Sprintf(
			"The number of files (%d) and student IDs (%d) must be the same.", len(files), len(studentIDs),
		))
		return
	}

	uploads := make([]submissionuc.Upload, len(files))
	for i, fh := range files {
		content, err := readPart(fh, s.maxFileBytes)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Failed to read file "+fh.Filename)
			return
		}
		uploads[i] = submissionuc.Upload{StudentID: studentIDs[i], Filename: fh.Filename, Content: content}
	}

	results := s.submissions.Upload(r.Context(), uploads)

	items := make([]UploadItem, len(results))
	for i, res := range results {
		items[i] = uploadItemToDTO(res)
		if res.Err() != nil {
			s.logger.Warn("upload item rejected",
				zap.String("filename", res.Name()),
				zap.Error(res.Err()),
			)
		}
	}
	writeJSON(w, http.StatusOK, UploadResponse{
		Uploaded: dombatch.Count(results, dombatch.StatusOK),
		Failed:   dombatch.Count(results, dombatch.StatusError),
		Items:    items,
	})
}

// readPart reads at most limit+1 bytes so oversized files can be reported by the service.
func readPart(fh *multipart.FileHeader, limit int) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open part: %w", err)
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(io.LimitReader(f, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("read part: %w", err)
	}
	return data, nil
}

// ListSubmissions handles GET /submissions.
func (s *Server) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.submissions.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	items := make([]Submission, len(subs))
	for i := range subs {
		items[i] = submissionToDTO(&subs[i])
	}
	writeJSON(w, http.StatusOK, SubmissionListResponse{Items: items, Total: len(items)})
}

// GetSubmission handles GET /submissions/{id}.
func (s *Server) GetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := s.submissions.Get(r.Context(), gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SubmissionDetail{Submission: submissionToDTO(&sub), Text: sub.Text()})
}

// RunAnalysis handles POST /analysis.
func (s *Server) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.analysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.analysisTimeout)
		defer cancel()
	}

	run, err := s.analysis.Run(ctx)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runToDTO(&run))
}

// ListResults handles GET /results?min_score=&limit=.
func (s *Server) ListResults(w http.ResponseWriter, r *http.Request) {
	params, err := bindResultsParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	results, err := s.analysis.Results(r.Context(), derefFloat(params.MinScore), derefInt(params.Limit))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	items := make([]Result, len(results))
	for i, res := range results {
		items[i] = resultToDTO(res)
	}
	writeJSON(w, http.StatusOK, ResultListResponse{Items: items, Total: len(items)})
}

// Stats handles GET /stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.analysis.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsToDTO(st))
}

// ClearData handles DELETE /data.
func (s *Server) ClearData(w http.ResponseWriter, r *http.Request) {
	subs, results, err := s.analysis.Clear(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ClearResponse{SubmissionsDeleted: subs, ResultsDeleted: results})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Checks:  checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	for _, st := range sentinels {
		if errors.Is(err, st.err) {
			return st.err.Error()
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "analysis timed out"
	}
	return "internal error"
}

// errorCode returns the error code for a domain error.
func errorCode(err error) ErrorCode {
	for _, st := range sentinels {
		if errors.Is(err, st.err) {
			return st.code
		}
	}
	return CodeInternalError
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// deadlineHandler reports an analysis run that outlived its timeout.
func deadlineHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	writeError(w, http.StatusGatewayTimeout, CodeTimeout, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
