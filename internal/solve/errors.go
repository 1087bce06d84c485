package solve

import "fmt"

// ErrorKind partitions failures by which boundary produced them.
type ErrorKind string

const (
	// KindSafety marks files whose content was flagged by the pre-analysis
	// screen, or whose screening call failed.
	KindSafety ErrorKind = "safety"
	// KindClassification covers license detection failures, including an
	// unavailable provider.
	KindClassification ErrorKind = "classification"
	// KindRewrite covers failed, timed-out, or unusable translation calls.
	KindRewrite ErrorKind = "rewrite"
	// KindCanceled marks files whose turn never came before the batch was
	// canceled.
	KindCanceled ErrorKind = "canceled"
	// KindInternal covers recovered panics and other unexpected failures.
	KindInternal ErrorKind = "internal"
)

// TaskError is a per-file failure captured into a TaskResult. It never
// escapes the solver boundary.
type TaskError struct {
	Kind ErrorKind
	Err  error
}

func (e *TaskError) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }
func (e *TaskError) Unwrap() error { return e.Err }

func newTaskError(kind ErrorKind, err error) *TaskError {
	return &TaskError{Kind: kind, Err: err}
}
