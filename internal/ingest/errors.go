package ingest

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable marks the persistence layer as unreachable at batch
// start. The API layer reports it as 500; everything else in the taxonomy maps
// to 400 or is absorbed.
var ErrStoreUnavailable = errors.New("store unavailable")

// EnvelopeError means the webhook body had no recognizable shape: neither a
// resultObject field nor a CSV URL, or the embedded JSON failed to parse or
// was not a list. Batch-fatal.
type EnvelopeError struct {
	Reason string
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("invalid envelope: %s", e.Reason)
}

// DownloadError means the referenced CSV payload could not be fetched.
// Batch-fatal.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download csv %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// RecordError captures the failure of a single record. It never escapes the
// pipeline: the record is logged and counted, and the batch continues.
type RecordError struct {
	Index int
	Kind  RecordKind
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (%s): %v", e.Index, e.Kind, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
