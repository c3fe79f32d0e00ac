package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"EnigmaNetz/Enigma-Capture-Console/internal/capture/summary"
	"EnigmaNetz/Enigma-Capture-Console/internal/events"
	"EnigmaNetz/Enigma-Capture-Console/internal/logger"
	"EnigmaNetz/Enigma-Capture-Console/internal/netif"
	"EnigmaNetz/Enigma-Capture-Console/internal/session"
)

// Engine runs one capture at a time from its Source and streams summarized
// packets to the session controller.
type Engine struct {
	source Source
	log    *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewEngine creates an Engine reading from source.
func NewEngine(source Source, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Discard()
	}
	return &Engine{source: source, log: log}
}

// ListInterfaces enumerates the host's capture interfaces.
func (e *Engine) ListInterfaces(ctx context.Context) ([]netif.Interface, error) {
	return ListInterfaces()
}

// BeginCapture opens the source and starts the capture loop. The returned
// stream ends with exactly one stopped event and is then closed.
func (e *Engine) BeginCapture(ctx context.Context, req session.Request) (<-chan events.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running() {
		return nil, ErrCaptureInProgress
	}
	if e.source == nil {
		return nil, ErrNoSource
	}

	stream, err := e.source.Open(req.Interface, req.Filter)
	if err != nil {
		e.log.Error("Failed to open capture on %s: %v", req.Interface, err)
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	out := make(chan events.Event, eventBuffer)
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done

	e.log.Info("Capturing on %s for %v (filter %q)", req.Interface, req.Duration, req.Filter)
	go e.captureLoop(runCtx, stream, req.Duration, out, done)
	return out, nil
}

// EndCapture cancels the running capture and waits for its loop to exit,
// bounded by ctx. It returns session.ErrNotCapturing when nothing runs.
func (e *Engine) EndCapture(ctx context.Context) error {
	e.mu.Lock()
	if !e.running() {
		e.mu.Unlock()
		return session.ErrNotCapturing
	}
	cancel, done := e.cancel, e.done
	e.mu.Unlock()

	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for capture to stop: %w", ctx.Err())
	}
}

// running must be called with e.mu held.
func (e *Engine) running() bool {
	if e.done == nil {
		return false
	}
	select {
	case <-e.done:
		e.done = nil
		e.cancel = nil
		return false
	default:
		return true
	}
}

func (e *Engine) captureLoop(ctx context.Context, stream Stream, duration time.Duration, out chan<- events.Event, done chan<- struct{}) {
	defer close(done)
	defer close(out)

	var timeout <-chan time.Time
	if duration > 0 {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		timeout = timer.C
	}

	packets := stream.Packets()
	packetCount := 0
	message := ""

loop:
	for {
		select {
		case <-ctx.Done():
			message = MsgStoppedByRequest
			break loop

		case <-timeout:
			message = MsgDurationElapsed
			break loop

		case packet, ok := <-packets:
			if !ok {
				message = MsgSourceExhausted
				break loop
			}
			if packet == nil {
				continue
			}
			select {
			case out <- events.Packet(summary.Summarize(packet)):
				packetCount++
			case <-ctx.Done():
				message = MsgStoppedByRequest
				break loop
			}
		}
	}

	stream.Close()
	e.log.Info("Capture completed: %d packets (%s)", packetCount, message)
	out <- events.Stop(message)
}
