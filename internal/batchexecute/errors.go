package batchexecute

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized reports an HTTP 401. The stored session is invalid or
	// expired; callers must refresh credentials before retrying.
	ErrUnauthorized = errors.New("batchexecute: unauthorized")

	// ErrEmptyResponse reports a well-formed response that produced zero
	// usable records after tag filtering.
	ErrEmptyResponse = errors.New("batchexecute: no usable response records")
)

// BatchError reports a non-2xx transport response other than 401. Body is the
// raw response body, kept for diagnostics only.
type BatchError struct {
	StatusCode int
	Reason     string
	Body       string
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batchexecute: request failed: %d %s", e.StatusCode, e.Reason)
}

// FramingError reports an unrecoverable defect in the chunked wire stream.
// It aborts the whole chunked decode; per-record defects do not raise it.
type FramingError struct {
	Line    int
	Reason  string
	Snippet string
}

func (e *FramingError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("batchexecute: framing error at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("batchexecute: framing error at line %d: %s (%q)", e.Line, e.Reason, e.Snippet)
}
