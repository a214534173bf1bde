package csvimport

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFile is returned when the uploaded file has no content.
	ErrEmptyFile = errors.New("file is empty")

	// ErrInvalidEncoding is returned when the content is not valid UTF-8.
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")

	// ErrMissingHeader is returned when the file has no header row.
	ErrMissingHeader = errors.New("file is missing a header row")
)

// RowError describes why a single row was rejected.
type RowError struct {
	Line    int    `json:"line"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface.
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("line %d, column %q: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ErrorList accumulates row errors up to a cap so a file full of garbage
// does not balloon the response.
type ErrorList struct {
	errors []RowError
	limit  int
	total  int
}

// NewErrorList creates an ErrorList that keeps at most limit errors.
func NewErrorList(limit int) *ErrorList {
	if limit <= 0 {
		limit = 100
	}
	return &ErrorList{limit: limit}
}

// Add records a row error, dropping it when the cap is reached but still
// counting it toward the total.
func (l *ErrorList) Add(line int, column, message, value string) {
	l.total++
	if len(l.errors) < l.limit {
		l.errors = append(l.errors, RowError{Line: line, Column: column, Message: message, Value: value})
	}
}

// Errors returns the kept errors.
func (l *ErrorList) Errors() []RowError {
	return l.errors
}

// Total returns the number of errors seen, including dropped ones.
func (l *ErrorList) Total() int {
	return l.total
}

// Truncated reports whether errors were dropped due to the cap.
func (l *ErrorList) Truncated() bool {
	return l.total > l.limit
}
