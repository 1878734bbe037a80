package labeler

import "fmt"

// MalformedEventError indicates the inbound S3 event did not carry the
// fields the handler needs. Redelivering the same event cannot succeed.
type MalformedEventError struct {
	Reason string
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed S3 event: %s", e.Reason)
}

// DetectionError wraps a label detection failure. The event may
// succeed on redelivery.
type DetectionError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("label detection failed for s3://%s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *DetectionError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed result write. No prior state was
// mutated, so redelivery is safe.
type PersistenceError struct {
	Table string
	Key   string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to write result for %q to table %s: %v", e.Key, e.Table, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
