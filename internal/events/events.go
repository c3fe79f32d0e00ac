// Package events defines the capture stream shared by the engine, the
// subscription manager and the session controller.
package events

import "time"

// PacketEvent describes one observed packet. It is forwarded and never stored.
type PacketEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Protocol    string    `json:"protocol"`
	Length      int       `json:"length"`
	Summary     string    `json:"summary"`
}

// Event is one element of a capture stream. A stream carries zero or more
// packet events followed by exactly one stopped event, after which the
// channel is closed.
type Event struct {
	Packet  PacketEvent
	Stopped bool
	// Message is set on the stopped event only.
	Message string
}

// Packet wraps p as a stream element.
func Packet(p PacketEvent) Event {
	return Event{Packet: p}
}

// Stop returns the terminal stream element.
func Stop(message string) Event {
	return Event{Stopped: true, Message: message}
}
