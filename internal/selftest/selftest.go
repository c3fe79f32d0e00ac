// Package selftest checks that live capture works on this host by capturing
// HTTP traffic it generates against a loopback server.
package selftest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"EnigmaNetz/Enigma-Capture-Console/internal/events"
	"EnigmaNetz/Enigma-Capture-Console/internal/logger"
	"EnigmaNetz/Enigma-Capture-Console/internal/session"
)

// ErrNoPackets means the capture ran but saw none of the generated traffic.
var ErrNoPackets = errors.New("capture saw no self-test traffic")

// Config controls the self-test capture.
type Config struct {
	// Interface should carry loopback traffic
	Interface string
	// Duration is rounded up to whole seconds. Defaults to 3s
	Duration time.Duration
}

// Result reports what the self-test generated and observed.
type Result struct {
	Filter      string
	Requests    int64
	Packets     int
	StopMessage string
}

type countingSink struct {
	packets atomic.Int64
	stopped chan string
}

func (s *countingSink) OnPacket(events.PacketEvent) { s.packets.Add(1) }

func (s *countingSink) OnStopped(message string) {
	select {
	case s.stopped <- message:
	default:
	}
}

// Run starts a loopback HTTP server, captures its port on cfg.Interface
// through engine while generating requests, and reports what was seen.
func Run(ctx context.Context, engine session.Engine, cfg Config, log *logger.Logger) (Result, error) {
	if log == nil {
		log = logger.Discard()
	}
	if cfg.Duration <= 0 {
		cfg.Duration = 3 * time.Second
	}

	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.Copy(io.Discard, r.Body)
			w.WriteHeader(http.StatusOK)
		}),
		ReadHeaderTimeout: time.Second,
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return Result{}, fmt.Errorf("failed to start loopback server: %w", err)
	}
	go srv.Serve(listener)
	defer srv.Shutdown(context.Background())

	addr := listener.Addr().(*net.TCPAddr)
	result := Result{Filter: fmt.Sprintf("tcp port %d", addr.Port)}

	sink := &countingSink{stopped: make(chan string, 1)}
	controller := session.NewController(session.Config{Engine: engine, Sink: sink, Logger: log})

	err = controller.Start(ctx, session.Params{
		Interface:       cfg.Interface,
		Filter:          result.Filter,
		DurationSeconds: int(math.Ceil(cfg.Duration.Seconds())),
	})
	if err != nil {
		return result, err
	}

	genCtx, cancelGen := context.WithCancel(ctx)
	var requests atomic.Int64
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		generate(genCtx, "http://"+addr.String(), &requests)
	}()

	select {
	case result.StopMessage = <-sink.stopped:
	case <-ctx.Done():
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := controller.Stop(stopCtx); err != nil {
			log.Warn("Self-test stop failed: %v", err)
		}
		_ = controller.Wait(stopCtx)
		result.StopMessage = controller.State().LastMessage
	}
	cancelGen()
	wg.Wait()

	result.Requests = requests.Load()
	result.Packets = int(sink.packets.Load())
	log.Info("Self-test on %s: %d requests, %d packets captured", cfg.Interface, result.Requests, result.Packets)
	if result.Packets == 0 {
		return result, ErrNoPackets
	}
	return result, nil
}

func generate(ctx context.Context, url string, requests *atomic.Int64) {
	client := &http.Client{Timeout: time.Second}
	for ctx.Err() == nil {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if resp, err := client.Do(req); err == nil {
			resp.Body.Close()
			requests.Add(1)
		}
		select {
		case <-ctx.Done():
		case <-time.After(100 * time.Millisecond):
		}
	}
}
