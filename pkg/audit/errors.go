package audit

import "errors"

var (
	// ErrNilRecorder is returned when a trail is constructed without a recorder.
	ErrNilRecorder = errors.New("audit: recorder is required")
)
