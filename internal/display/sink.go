// Package display renders capture output for the terminal.
package display

import (
	"fmt"
	"io"
	"sync"

	"EnigmaNetz/Enigma-Capture-Console/internal/events"
)

const timeLayout = "15:04:05.000"

// Stats counts what a PacketSink has seen.
type Stats struct {
	Shown    int
	Filtered int
}

// PacketSink prints one line per packet and a final stop line.
type PacketSink struct {
	w      io.Writer
	filter *Filter

	mu      sync.Mutex
	stats   Stats
	stopped chan string
}

// NewPacketSink writes to w, skipping packets filter rejects. filter may be nil.
func NewPacketSink(w io.Writer, filter *Filter) *PacketSink {
	return &PacketSink{
		w:       w,
		filter:  filter,
		stopped: make(chan string, 1),
	}
}

// OnPacket prints ev when it passes the filter.
func (s *PacketSink) OnPacket(ev events.PacketEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.filter.Match(ev) {
		s.stats.Filtered++
		return
	}
	s.stats.Shown++
	fmt.Fprintln(s.w, FormatPacket(s.stats.Shown, ev))
}

// OnStopped prints the stop message and releases Stopped.
func (s *PacketSink) OnStopped(message string) {
	s.mu.Lock()
	stats := s.stats
	fmt.Fprintln(s.w, stoppedStyle.Render("Capture stopped: "+message))
	if stats.Filtered > 0 {
		fmt.Fprintln(s.w, dimStyle.Render(fmt.Sprintf("%d packets shown, %d hidden by display filter", stats.Shown, stats.Filtered)))
	} else {
		fmt.Fprintln(s.w, dimStyle.Render(fmt.Sprintf("%d packets shown", stats.Shown)))
	}
	s.mu.Unlock()

	select {
	case s.stopped <- message:
	default:
	}
}

// Stopped yields the stop message once the session ends.
func (s *PacketSink) Stopped() <-chan string {
	return s.stopped
}

// Stats returns the current counters.
func (s *PacketSink) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// FormatPacket renders one packet line.
func FormatPacket(n int, ev events.PacketEvent) string {
	proto := ev.Protocol
	if proto == "" {
		proto = "OTHER"
	}
	return fmt.Sprintf("%5d %s %s %s -> %s %5d  %s",
		n,
		dimStyle.Render(ev.Timestamp.Format(timeLayout)),
		protocolStyle(ev.Protocol).Width(7).Render(proto),
		orDash(ev.Source),
		orDash(ev.Destination),
		ev.Length,
		ev.Summary,
	)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
