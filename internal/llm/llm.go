package llm

import (
	"context"
	"errors"
)

// Client is the capability surface every provider exposes. Task solving,
// classification and rewriting all depend on this interface only; the
// concrete provider is selected once at startup.
type Client interface {
	Name() string
	Complete(ctx context.Context, system, prompt string) (string, error)
	Close() error
}

// ErrEmptyResponse is returned when a provider answers with no usable text.
var ErrEmptyResponse = errors.New("empty response from LLM")

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}
