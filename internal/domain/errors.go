package domain

import "errors"

var ErrSnapshotNotFound = errors.New("snapshot not found")

// ValidationError reports a malformed record field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

// CaptureError reports a failed environment capture. When the failure came
// from pip, the wrapped error carries the manager's diagnostic output.
type CaptureError struct {
	Msg string
	Err error
}

func (e *CaptureError) Error() string {
	msg := "capture: " + e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CaptureError) Unwrap() error { return e.Err }

// RestoreError reports a failed environment restore.
type RestoreError struct {
	Msg string
	Err error
}

func (e *RestoreError) Error() string {
	msg := "restore: " + e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RestoreError) Unwrap() error { return e.Err }

// NotebookError reports a failed notebook operation.
type NotebookError struct {
	Msg  string
	Path string
	Err  error
}

func (e *NotebookError) Error() string {
	msg := "notebook: " + e.Msg
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NotebookError) Unwrap() error { return e.Err }
