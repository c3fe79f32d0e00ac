// Package capture is the packet-capture engine behind a console session.
package capture

import (
	"errors"
	"time"

	"github.com/google/gopacket"
)

// Messages carried by the stopped event of a capture stream.
const (
	MsgDurationElapsed  = "duration elapsed"
	MsgStoppedByRequest = "stopped by operator"
	MsgSourceExhausted  = "capture source exhausted"
)

const (
	// DefaultSnapLen is used when LiveSource.SnapLen is zero.
	DefaultSnapLen = 1600
	// DefaultReadTimeout bounds each blocking read so a live handle can be
	// closed promptly.
	DefaultReadTimeout = 500 * time.Millisecond

	eventBuffer = 256
)

var (
	// ErrCaptureInProgress is returned by BeginCapture while a capture runs.
	ErrCaptureInProgress = errors.New("a capture is already running")
	// ErrNoSource is returned when an Engine has no Source configured.
	ErrNoSource = errors.New("no capture source configured")
)

// Stream is an opened packet source.
type Stream interface {
	// Packets yields decoded packets until the source is exhausted or closed.
	Packets() chan gopacket.Packet

	// Close releases the underlying handle or file.
	Close()
}

// Source opens packet streams for the engine.
type Source interface {
	// Open starts reading from iface with the BPF filter applied.
	// An empty filter captures everything.
	Open(iface, filter string) (Stream, error)
}
