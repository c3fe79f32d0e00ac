package session

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionAlreadyActive is returned by Start while a session is not Idle.
	ErrSessionAlreadyActive = errors.New("a packet capture is already in progress")
	// ErrCaptureStartFailed marks engine failures while beginning a capture.
	ErrCaptureStartFailed = errors.New("capture start failed")
	// ErrCaptureStopFailed marks engine failures while ending a capture.
	ErrCaptureStopFailed = errors.New("capture stop failed")
	// ErrEnumeration marks engine failures while listing interfaces.
	ErrEnumeration = errors.New("interface enumeration failed")
	// ErrNotCapturing is returned by engines asked to end a capture that has
	// already finished.
	ErrNotCapturing = errors.New("no active capture to stop")
)

// ValidationError rejects a request before any engine call is made.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// EngineError wraps a capture engine failure. errors.Is matches both the
// Kind sentinel and the engine's own error.
type EngineError struct {
	Kind error
	Err  error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *EngineError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
