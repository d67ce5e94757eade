package sync

import "errors"

var (
	// ErrRemoteUnavailable indicates the remote datastore is unreachable.
	// Treated as transient: logged and retried on the next sync pass.
	ErrRemoteUnavailable = errors.New("remote datastore unavailable")

	// ErrTimeout indicates a remote call exceeded its timeout. Also
	// transient, never surfaced as a blocking error.
	ErrTimeout = errors.New("remote call timed out")

	// ErrRemoteRejected indicates the remote side returned a non-2xx status
	// for a well-formed request.
	ErrRemoteRejected = errors.New("remote datastore rejected request")
)
