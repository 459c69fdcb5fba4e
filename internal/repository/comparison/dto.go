package comparison

import (
	"time"

	"github.com/kailas-cloud/overlap/internal/domain/algorithm"
	domcmp "github.com/kailas-cloud/overlap/internal/domain/comparison"
)

// snapshot is the JSON document stored for the latest run.
type snapshot struct {
	Run     runRow      `json:"run"`
	Results []resultRow `json:"results"`
}

type runRow struct {
	Algorithm   string    `json:"algorithm"`
	Documents   int       `json:"documents"`
	Comparisons int       `json:"comparisons"`
	Degraded    int       `json:"degraded"`
	DurationNS  int64     `json:"duration_ns"`
	CompletedAt time.Time `json:"completed_at"`
}

type resultRow struct {
	SubmissionA string  `json:"submission_a"`
	SubmissionB string  `json:"submission_b"`
	StudentA    string  `json:"student_a"`
	StudentB    string  `json:"student_b"`
	Score       float64 `json:"score"`
	Status      string  `json:"status"`
}

func toSnapshot(run domcmp.Run, results []domcmp.Result) snapshot {
	rows := make([]resultRow, len(results))
	for i, r := range results {
		rows[i] = resultRow{
			SubmissionA: r.SubmissionA(),
			SubmissionB: r.SubmissionB(),
			StudentA:    r.StudentA(),
			StudentB:    r.StudentB(),
			Score:       r.Score(),
			Status:      string(r.Status()),
		}
	}
	return snapshot{
		Run: runRow{
			Algorithm:   string(run.Algorithm),
			Documents:   run.Documents,
			Comparisons: run.Comparisons,
			Degraded:    run.Degraded,
			DurationNS:  run.Duration.Nanoseconds(),
			CompletedAt: run.CompletedAt.UTC(),
		},
		Results: rows,
	}
}

func (s *snapshot) run() domcmp.Run {
	return domcmp.Run{
		Algorithm:   algorithm.Algorithm(s.Run.Algorithm),
		Documents:   s.Run.Documents,
		Comparisons: s.Run.Comparisons,
		Degraded:    s.Run.Degraded,
		Duration:    time.Duration(s.Run.DurationNS),
		CompletedAt: s.Run.CompletedAt,
	}
}

func (s *snapshot) results() []domcmp.Result {
	out := make([]domcmp.Result, len(s.Results))
	for i, r := range s.Results {
		out[i] = domcmp.NewResult(
			r.SubmissionA, r.SubmissionB, r.StudentA, r.StudentB,
			r.Score, domcmp.Status(r.Status) == domcmp.StatusDegraded,
		)
	}
	return out
}
