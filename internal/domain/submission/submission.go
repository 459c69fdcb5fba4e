package submission

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/overlap/internal/domain"
)

// MaxTextSize is the maximum extracted text size in bytes.
const MaxTextSize = 4 << 20 // 4MB

// MaxStudentIDLength bounds the student identifier length.
const MaxStudentIDLength = 256

// Submission is one uploaded document with its extracted text (immutable value object).
type Submission struct {
	id        string
	studentID string
	filename  string
	text      string
	seq       int64
	createdAt time.Time
}

// New validates and creates a Submission.
// The filename is reduced to its base name; text must contain something besides whitespace.
func New(id, studentID, filename, text string, seq int64, createdAt time.Time) (Submission, error) {
	if id == "" {
		return Submission{}, fmt.Errorf("submission id is required: %w", domain.ErrInvalidSubmission)
	}
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return Submission{}, fmt.Errorf("student id is required: %w", domain.ErrInvalidSubmission)
	}
	if len(studentID) > MaxStudentIDLength {
		return Submission{}, fmt.Errorf(
			"student id too long (max %d): %w", MaxStudentIDLength, domain.ErrInvalidSubmission,
		)
	}
	name := SanitizeFilename(filename)
	if name == "" {
		return Submission{}, fmt.Errorf("filename is required: %w", domain.ErrInvalidSubmission)
	}
	if !utf8.ValidString(text) {
		return Submission{}, fmt.Errorf("text is not valid UTF-8: %w", domain.ErrInvalidSubmission)
	}
	if strings.TrimSpace(text) == "" {
		return Submission{}, fmt.Errorf("%s: %w", name, domain.ErrEmptyText)
	}
	if len(text) > MaxTextSize {
		return Submission{}, fmt.Errorf("text too large (max %d bytes): %w", MaxTextSize, domain.ErrTooLarge)
	}

	return Submission{
		id:        id,
		studentID: studentID,
		filename:  name,
		text:      text,
		seq:       seq,
		createdAt: createdAt.UTC(),
	}, nil
}

// Reconstruct creates a Submission without validation (storage hydration).
func Reconstruct(id, studentID, filename, text string, seq int64, createdAt time.Time) Submission {
	return Submission{
		id: id, studentID: studentID, filename: filename,
		text: text, seq: seq, createdAt: createdAt,
	}
}

// SanitizeFilename strips directories so an upload can never name a path.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	base := path.Base(strings.TrimSpace(name))
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}

// ID returns the submission identifier.
func (s *Submission) ID() string { return s.id }

// StudentID returns the submitting student's identifier.
func (s *Submission) StudentID() string { return s.studentID }

// Filename returns the sanitized original filename.
func (s *Submission) Filename() string { return s.filename }

// Text returns the extracted text.
func (s *Submission) Text() string { return s.text }

// TextLength returns the extracted text length in characters.
func (s *Submission) TextLength() int { return utf8.RuneCountInString(s.text) }

// Seq returns the upload sequence number; lower values were uploaded first.
func (s *Submission) Seq() int64 { return s.seq }

// CreatedAt returns the upload time.
func (s *Submission) CreatedAt() time.Time { return s.createdAt }
