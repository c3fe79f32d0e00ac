package session

import (
	"context"
	"time"

	"EnigmaNetz/Enigma-Capture-Console/internal/events"
	"EnigmaNetz/Enigma-Capture-Console/internal/netif"
	"EnigmaNetz/Enigma-Capture-Console/internal/templates"
)

// Request is what the controller asks the engine to capture.
type Request struct {
	Interface string
	Filter    string
	Duration  time.Duration
}

// Engine is the packet-capture backend.
//
// BeginCapture returns the session's event stream: zero or more packet
// events, exactly one stopped event, then the channel is closed. The engine
// enforces Duration itself. ctx bounds the begin call only, not the capture.
type Engine interface {
	ListInterfaces(ctx context.Context) ([]netif.Interface, error)
	BeginCapture(ctx context.Context, req Request) (<-chan events.Event, error)
	EndCapture(ctx context.Context) error
}

// TemplateSource supplies the templates Start resolves against.
type TemplateSource interface {
	Templates() []templates.CaptureTemplate
}

// Sink is the display side of a session.
type Sink interface {
	OnPacket(ev events.PacketEvent)
	OnStopped(message string)
}
