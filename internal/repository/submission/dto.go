package submission

import (
	"fmt"
	"strconv"
	"time"

	domsub "github.com/kailas-cloud/overlap/internal/domain/submission"
)

// Hash field names.
const (
	fieldID        = "id"
	fieldStudentID = "student_id"
	fieldFilename  = "filename"
	fieldText      = "text"
	fieldSeq       = "seq"
	fieldCreatedAt = "created_at"
)

// submissionToHash converts a domain Submission to a map for HSET.
func submissionToHash(s *domsub.Submission) map[string]string {
	return map[string]string{
		fieldID:        s.ID(),
		fieldStudentID: s.StudentID(),
		fieldFilename:  s.Filename(),
		fieldText:      s.Text(),
		fieldSeq:       strconv.FormatInt(s.Seq(), 10),
		fieldCreatedAt: s.CreatedAt().Format(time.RFC3339Nano),
	}
}

// submissionFromHash hydrates a domain Submission from an HGETALL result map.
func submissionFromHash(m map[string]string) (domsub.Submission, error) {
	seq, err := strconv.ParseInt(m[fieldSeq], 10, 64)
	if err != nil {
		return domsub.Submission{}, fmt.Errorf("invalid seq: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, m[fieldCreatedAt])
	if err != nil {
		return domsub.Submission{}, fmt.Errorf("invalid created_at: %w", err)
	}
	return domsub.Reconstruct(
		m[fieldID], m[fieldStudentID], m[fieldFilename], m[fieldText], seq, createdAt,
	), nil
}
