package comparison

import (
	"time"

	"github.com/kailas-cloud/overlap/internal/domain/algorithm"
)

// Status is the outcome of scoring one pair.
type Status string

// Pair status values.
const (
	StatusOK Status = "ok"
	// StatusDegraded marks a pair whose score fell back to 0 after a scoring failure.
	StatusDegraded Status = "degraded"
)

// Result is the persisted similarity of two submissions.
// SubmissionA was uploaded before SubmissionB.
type Result struct {
	submissionA string
	submissionB string
	studentA    string
	studentB    string
	score       float64
	status      Status
}

// NewResult creates a Result.
func NewResult(submissionA, submissionB, studentA, studentB string, score float64, degraded bool) Result {
	status := StatusOK
	if degraded {
		status = StatusDegraded
	}
	return Result{
		submissionA: submissionA, submissionB: submissionB,
		studentA: studentA, studentB: studentB,
		score: score, status: status,
	}
}

// SubmissionA returns the id of the earlier submission.
func (r Result) SubmissionA() string { return r.submissionA }

// SubmissionB returns the id of the later submission.
func (r Result) SubmissionB() string { return r.submissionB }

// StudentA returns the student id of the earlier submission.
func (r Result) StudentA() string { return r.studentA }

// StudentB returns the student id of the later submission.
func (r Result) StudentB() string { return r.studentB }

// Score returns the similarity in [0, 1].
func (r Result) Score() float64 { return r.score }

// Status returns the scoring outcome.
func (r Result) Status() Status { return r.status }

// Degraded reports whether Score is a fallback value.
func (r Result) Degraded() bool { return r.status == StatusDegraded }

// Run summarizes one analysis pass over all submissions.
type Run struct {
	Algorithm   algorithm.Algorithm
	Documents   int
	Comparisons int
	Degraded    int
	Duration    time.Duration
	CompletedAt time.Time
}
