// Package subscription holds the single live registration of packet and
// stopped handlers for a capture session.
package subscription

import (
	"sync"

	"EnigmaNetz/Enigma-Capture-Console/internal/events"
)

// PacketHandler receives packet events in arrival order.
type PacketHandler func(events.PacketEvent)

// StoppedHandler receives the terminal stop message.
type StoppedHandler func(message string)

// Handle identifies one registration. The zero Handle matches nothing.
type Handle struct {
	id uint64
}

// Valid reports whether h was returned by Attach.
func (h Handle) Valid() bool {
	return h.id != 0
}

// Manager keeps at most one registration alive. Each Attach on an idle
// manager starts a new generation, so handles from earlier registrations
// can never deliver into, or detach, a later one.
type Manager struct {
	mu        sync.Mutex
	next      uint64
	active    uint64
	onPacket  PacketHandler
	onStopped StoppedHandler
}

// NewManager returns an idle manager.
func NewManager() *Manager {
	return &Manager{}
}

// Attach registers the handlers. While a registration is active this is a
// no-op that returns the existing handle.
func (m *Manager) Attach(onPacket PacketHandler, onStopped StoppedHandler) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != 0 {
		return Handle{id: m.active}
	}
	m.next++
	m.active = m.next
	m.onPacket = onPacket
	m.onStopped = onStopped
	return Handle{id: m.active}
}

// Detach unregisters both handlers. Repeated or stale detaches are no-ops.
func (m *Manager) Detach(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detachLocked(h)
}

func (m *Manager) detachLocked(h Handle) bool {
	if h.id == 0 || h.id != m.active {
		return false
	}
	m.active = 0
	m.onPacket = nil
	m.onStopped = nil
	return true
}

// Active reports whether a registration is live.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active != 0
}

// Current returns the live handle, or the zero Handle.
func (m *Manager) Current() Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Handle{id: m.active}
}

// DeliverPacket forwards ev when h is the live registration and reports
// whether it was delivered.
func (m *Manager) DeliverPacket(h Handle, ev events.PacketEvent) bool {
	m.mu.Lock()
	if h.id == 0 || h.id != m.active {
		m.mu.Unlock()
		return false
	}
	fn := m.onPacket
	m.mu.Unlock()

	if fn != nil {
		fn(ev)
	}
	return true
}

// DeliverStopped detaches h and then forwards the stop message, so the
// stopped handler runs at most once per registration.
func (m *Manager) DeliverStopped(h Handle, message string) bool {
	m.mu.Lock()
	fn := m.onStopped
	if !m.detachLocked(h) {
		m.mu.Unlock()
		return false
	}
	m.mu.Unlock()

	if fn != nil {
		fn(message)
	}
	return true
}
