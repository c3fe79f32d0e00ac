// Package session coordinates a single packet-capture session between the
// operator, the capture engine and the packet display.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"EnigmaNetz/Enigma-Capture-Console/internal/events"
	"EnigmaNetz/Enigma-Capture-Console/internal/logger"
	"EnigmaNetz/Enigma-Capture-Console/internal/netif"
	"EnigmaNetz/Enigma-Capture-Console/internal/subscription"
	"EnigmaNetz/Enigma-Capture-Console/internal/templates"
)

// StreamClosedMessage is reported when an engine closes its stream without
// sending a stopped event.
const StreamClosedMessage = "capture stream closed"

const queuedStopTimeout = 5 * time.Second

// State is the lifecycle state of the session.
type State int

const (
	Idle State = iota
	Starting
	Running
	Stopping
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return "idle"
	}
}

// Session is a snapshot of the current capture session. SubscriptionActive
// mirrors the subscription manager, so it turns false a moment before a
// finishing session reports Idle.
type Session struct {
	ID                 string
	State              State
	Interface          string
	Filter             string
	DurationSeconds    int
	SubscriptionActive bool
	StartedAt          time.Time
	PacketCount        int
	LastMessage        string
}

// Params is an operator's capture request. A TemplateID naming a known
// template overrides Filter and DurationSeconds.
type Params struct {
	Interface       string
	Filter          string
	TemplateID      string
	DurationSeconds int
}

// Config wires a Controller.
type Config struct {
	Engine    Engine
	Templates TemplateSource
	Sink      Sink
	Logger    *logger.Logger
	Metrics   *Metrics
}

// Controller owns the session state machine. At most one session exists at
// a time. The mutex is never held across engine or sink calls.
type Controller struct {
	engine  Engine
	tpls    TemplateSource
	sink    Sink
	log     *logger.Logger
	metrics *Metrics
	subs    *subscription.Manager

	mu            sync.Mutex
	session       Session
	handle        subscription.Handle
	stopRequested bool
	force         chan string
	idle          chan struct{}
}

// NewController returns an idle controller.
func NewController(cfg Config) *Controller {
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	idle := make(chan struct{})
	close(idle)
	c := &Controller{
		engine:  cfg.Engine,
		tpls:    cfg.Templates,
		sink:    cfg.Sink,
		log:     log,
		metrics: cfg.Metrics,
		subs:    subscription.NewManager(),
		idle:    idle,
	}
	c.metrics.setState(Idle)
	return c
}

// State returns a snapshot of the current session.
func (c *Controller) State() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	s.SubscriptionActive = s.State != Idle && c.handle.Valid() && c.subs.Current() == c.handle
	return s
}

// Wait blocks until the session is Idle or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Interfaces lists capture interfaces and classifies them against the
// uplink hint.
func (c *Controller) Interfaces(ctx context.Context, uplinkHint string) ([]netif.Classified, error) {
	ifaces, err := c.engine.ListInterfaces(ctx)
	if err != nil {
		c.log.Error("Failed to list interfaces: %v", err)
		return nil, &EngineError{Kind: ErrEnumeration, Err: err}
	}
	return netif.Classify(ifaces, uplinkHint), nil
}

// Start begins a capture session. It fails with ErrSessionAlreadyActive
// unless the controller is Idle, with a *ValidationError before any engine
// call, or with an *EngineError if the engine refuses the capture.
func (c *Controller) Start(ctx context.Context, p Params) error {
	c.mu.Lock()
	if c.session.State != Idle {
		c.mu.Unlock()
		return ErrSessionAlreadyActive
	}

	iface := strings.TrimSpace(p.Interface)
	if iface == "" {
		c.mu.Unlock()
		return &ValidationError{Field: "interface", Reason: "an interface must be selected"}
	}

	var available []templates.CaptureTemplate
	if c.tpls != nil {
		available = c.tpls.Templates()
	}
	resolved, err := templates.Resolve(p.TemplateID, available, p.Filter, p.DurationSeconds)
	if err != nil {
		c.mu.Unlock()
		return &ValidationError{Field: "duration", Reason: "must be a positive number of seconds", Err: err}
	}

	id := uuid.NewString()
	c.session = Session{
		ID:              id,
		State:           Starting,
		Interface:       iface,
		Filter:          resolved.Filter,
		DurationSeconds: resolved.Duration,
		StartedAt:       time.Now(),
	}
	c.handle = c.subs.Attach(
		func(ev events.PacketEvent) { c.onPacket(id, ev) },
		func(msg string) { c.onStopped(id, msg) },
	)
	c.stopRequested = false
	c.force = make(chan string, 1)
	c.idle = make(chan struct{})
	handle := c.handle
	force := c.force
	c.metrics.setState(Starting)
	c.mu.Unlock()

	c.log.Info("Starting capture %s on %s (filter %q, %ds)", id, iface, resolved.Filter, resolved.Duration)

	stream, err := c.engine.BeginCapture(ctx, Request{
		Interface: iface,
		Filter:    resolved.Filter,
		Duration:  time.Duration(resolved.Duration) * time.Second,
	})
	if err != nil {
		c.mu.Lock()
		c.subs.Detach(handle)
		idle := c.resetLocked(fmt.Sprintf("%v: %v", ErrCaptureStartFailed, err))
		c.mu.Unlock()
		close(idle)

		c.metrics.startFailed()
		c.log.Error("Capture %s failed to start: %v", id, err)
		return &EngineError{Kind: ErrCaptureStartFailed, Err: err}
	}

	c.mu.Lock()
	c.session.State = Running
	pending := c.stopRequested
	c.stopRequested = false
	c.metrics.setState(Running)
	c.mu.Unlock()

	c.metrics.started()
	go c.pump(handle, stream, force)

	if pending {
		c.log.Info("Applying stop requested while capture %s was starting", id)
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), queuedStopTimeout)
		defer cancel()
		if err := c.Stop(stopCtx); err != nil {
			c.log.Warn("Queued stop for capture %s failed: %v", id, err)
		}
	}
	return nil
}

// Stop ends the running session. It is a no-op when Idle or already
// Stopping. A stop while Starting is queued and applied once the engine
// has accepted the capture. If the engine fails to stop, Stop waits for the
// session to be forced Idle, so it must not be called from a Sink callback.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	switch c.session.State {
	case Idle, Stopping:
		c.mu.Unlock()
		return nil
	case Starting:
		c.stopRequested = true
		c.mu.Unlock()
		c.log.Debug("Stop queued until capture start completes")
		return nil
	}
	c.session.State = Stopping
	id := c.session.ID
	force := c.force
	idle := c.idle
	c.metrics.setState(Stopping)
	c.mu.Unlock()

	c.log.Info("Stopping capture %s", id)
	err := c.engine.EndCapture(ctx)
	if err == nil || errors.Is(err, ErrNotCapturing) {
		return nil
	}

	// The engine's stream may never deliver its stop now. The pump finishes
	// the session instead, after any packet it is already handing out.
	c.log.Error("Capture %s failed to stop cleanly, forcing idle: %v", id, err)
	select {
	case force <- fmt.Sprintf("%v: %v", ErrCaptureStopFailed, err):
	default:
	}
	<-idle
	return &EngineError{Kind: ErrCaptureStopFailed, Err: err}
}

// pump is the only goroutine that calls the sink. After a forced stop it
// keeps draining the stream so the engine is never blocked on a send.
func (c *Controller) pump(h subscription.Handle, stream <-chan events.Event, force <-chan string) {
	for {
		select {
		case msg := <-force:
			c.subs.DeliverStopped(h, msg)
			force = nil
		case ev, ok := <-stream:
			if !ok {
				c.subs.DeliverStopped(h, StreamClosedMessage)
				return
			}
			if ev.Stopped {
				c.subs.DeliverStopped(h, ev.Message)
				continue
			}
			c.subs.DeliverPacket(h, ev.Packet)
		}
	}
}

func (c *Controller) onPacket(id string, ev events.PacketEvent) {
	c.mu.Lock()
	if c.session.ID != id || c.session.State == Idle {
		c.mu.Unlock()
		return
	}
	c.session.PacketCount++
	c.mu.Unlock()

	c.metrics.forwarded()
	if c.sink != nil {
		c.sink.OnPacket(ev)
	}
}

func (c *Controller) onStopped(id string, message string) {
	c.mu.Lock()
	if c.session.ID != id || c.session.State == Idle {
		c.mu.Unlock()
		return
	}
	reason := stopReasonEngine
	if c.session.State == Stopping {
		reason = stopReasonOperator
	}
	count := c.session.PacketCount
	idle := c.resetLocked(message)
	c.mu.Unlock()

	c.metrics.stopped(reason)
	c.log.Info("Capture %s stopped after %d packets: %s", id, count, message)
	if c.sink != nil {
		c.sink.OnStopped(message)
	}
	close(idle)
}

// resetLocked returns the session to Idle and hands back the idle channel
// for the caller to close once it has released the lock.
func (c *Controller) resetLocked(message string) chan struct{} {
	idle := c.idle
	c.session = Session{State: Idle, LastMessage: message}
	c.handle = subscription.Handle{}
	c.stopRequested = false
	c.force = nil
	c.metrics.setState(Idle)
	return idle
}
