package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyCorpus is returned when an index build receives zero chunks.
var ErrEmptyCorpus = errors.New("empty corpus: no chunks to index")

// ErrNotReady is returned by Ask before any successful ingest.
var ErrNotReady = errors.New("session not ready: no index built")

// ExtractionError reports a failure to extract text from a source document.
type ExtractionError struct {
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// EmbeddingError reports a failure from the embedding capability.
// Transient distinguishes retryable causes (network, quota) from
// permanent ones (malformed input, bad credentials).
type EmbeddingError struct {
	Transient bool
	Err       error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// GenerationError reports a failure from the generation capability.
type GenerationError struct {
	Transient bool
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// AsEmbeddingError wraps err as an EmbeddingError unless it already is one.
func AsEmbeddingError(err error) error {
	var ee *EmbeddingError
	if errors.As(err, &ee) {
		return err
	}
	return &EmbeddingError{Err: err}
}

// AsGenerationError wraps err as a GenerationError unless it already is one.
func AsGenerationError(err error) error {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return err
	}
	return &GenerationError{Err: err}
}
