package chi

import (
	"time"

	dombatch "github.com/kailas-cloud/overlap/internal/domain/batch"
	domcmp "github.com/kailas-cloud/overlap/internal/domain/comparison"
	domsub "github.com/kailas-cloud/overlap/internal/domain/submission"
	analysisuc "github.com/kailas-cloud/overlap/internal/usecase/analysis"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodeNotFound          ErrorCode = "not_found"
	CodeUnsupportedFormat ErrorCode = "unsupported_format"
	CodePayloadTooLarge   ErrorCode = "payload_too_large"
	CodeTooManyDocuments  ErrorCode = "too_many_documents"
	CodeInvalidDocument   ErrorCode = "invalid_document"
	CodeTimeout           ErrorCode = "timeout"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

// UploadItem is the outcome of one uploaded file.
type UploadItem struct {
	Filename string         `json:"filename"`
	ID       string         `json:"id,omitempty"`
	Status   string         `json:"status"`
	Error    *ErrorResponse `json:"error,omitempty"`
}

// UploadResponse is the body of POST /submissions.
type UploadResponse struct {
	Uploaded int          `json:"uploaded"`
	Failed   int          `json:"failed"`
	Items    []UploadItem `json:"items"`
}

// Submission is a stored submission without its text.
type Submission struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	Filename   string    `json:"filename"`
	TextLength int       `json:"text_length"`
	CreatedAt  time.Time `json:"created_at"`
}

// SubmissionDetail is a stored submission with its extracted text.
type SubmissionDetail struct {
	Submission
	Text string `json:"text"`
}

// SubmissionListResponse is the body of GET /submissions.
type SubmissionListResponse struct {
	Items []Submission `json:"items"`
	Total int          `json:"total"`
}

// Run is a completed analysis summary.
type Run struct {
	Algorithm   string    `json:"algorithm"`
	Documents   int       `json:"documents"`
	Comparisons int       `json:"comparisons"`
	Degraded    int       `json:"degraded"`
	DurationMS  int64     `json:"duration_ms"`
	CompletedAt time.Time `json:"completed_at"`
}

// Result is the similarity of one pair of submissions.
type Result struct {
	SubmissionA string  `json:"submission_a"`
	SubmissionB string  `json:"submission_b"`
	StudentA    string  `json:"student_a"`
	StudentB    string  `json:"student_b"`
	Score       float64 `json:"score"`
	Status      string  `json:"status"`
}

// ResultListResponse is the body of GET /results.
type ResultListResponse struct {
	Items []Result `json:"items"`
	Total int      `json:"total"`
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Submissions int  `json:"submissions"`
	Results     int  `json:"results"`
	LastRun     *Run `json:"last_run,omitempty"`
}

// ClearResponse is the body of DELETE /data.
type ClearResponse struct {
	SubmissionsDeleted int `json:"submissions_deleted"`
	ResultsDeleted     int `json:"results_deleted"`
}

// ResultsParams are the query parameters of GET /results.
type ResultsParams struct {
	MinScore *float64 `form:"min_score"`
	Limit    *int     `form:"limit"`
}

func submissionToDTO(s *domsub.Submission) Submission {
	return Submission{
		ID:         s.ID(),
		StudentID:  s.StudentID(),
		Filename:   s.Filename(),
		TextLength: s.TextLength(),
		CreatedAt:  s.CreatedAt(),
	}
}

func runToDTO(r *domcmp.Run) Run {
	return Run{
		Algorithm:   string(r.Algorithm),
		Documents:   r.Documents,
		Comparisons: r.Comparisons,
		Degraded:    r.Degraded,
		DurationMS:  r.Duration.Milliseconds(),
		CompletedAt: r.CompletedAt,
	}
}

func resultToDTO(r domcmp.Result) Result {
	return Result{
		SubmissionA: r.SubmissionA(),
		SubmissionB: r.SubmissionB(),
		StudentA:    r.StudentA(),
		StudentB:    r.StudentB(),
		Score:       r.Score(),
		Status:      string(r.Status()),
	}
}

func statsToDTO(st analysisuc.Stats) StatsResponse {
	resp := StatsResponse{Submissions: st.Submissions, Results: st.Results}
	if st.LastRun != nil {
		run := runToDTO(st.LastRun)
		resp.LastRun = &run
	}
	return resp
}

func uploadItemToDTO(r dombatch.Result) UploadItem {
	item := UploadItem{
		Filename: r.Name(),
		ID:       r.ID(),
		Status:   string(r.Status()),
	}
	if r.Err() != nil {
		item.Error = &ErrorResponse{
			Code:    errorCode(r.Err()),
			Message: safeDomainMessage(r.Err()),
		}
	}
	return item
}
