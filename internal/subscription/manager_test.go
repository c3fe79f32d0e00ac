package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EnigmaNetz/Enigma-Capture-Console/internal/events"
)

type recorder struct {
	packets []events.PacketEvent
	stopped []string
}

func (r *recorder) onPacket(ev events.PacketEvent) { r.packets = append(r.packets, ev) }
func (r *recorder) onStopped(msg string)           { r.stopped = append(r.stopped, msg) }

func TestAttach_Idempotent(t *testing.T) {
	m := NewManager()
	first := &recorder{}
	second := &recorder{}

	h1 := m.Attach(first.onPacket, first.onStopped)
	h2 := m.Attach(second.onPacket, second.onStopped)
	require.True(t, h1.Valid())
	assert.Equal(t, h1, h2)

	m.DeliverPacket(h2, events.PacketEvent{Protocol: "TCP"})
	assert.Len(t, first.packets, 1, "the first registration stays in effect")
	assert.Empty(t, second.packets)

	m.Detach(h2)
	assert.False(t, m.Active())
	assert.False(t, m.DeliverPacket(h1, events.PacketEvent{}))
}

func TestDetach_Idempotent(t *testing.T) {
	m := NewManager()
	r := &recorder{}
	h := m.Attach(r.onPacket, r.onStopped)

	m.Detach(h)
	assert.NotPanics(t, func() {
		m.Detach(h)
		m.Detach(Handle{})
	})
	assert.False(t, m.Active())
}

func TestDeliverStopped_SelfDetachesOnce(t *testing.T) {
	m := NewManager()
	r := &recorder{}
	h := m.Attach(r.onPacket, func(msg string) {
		assert.False(t, m.Active(), "manager detaches before forwarding stop")
		r.onStopped(msg)
	})

	assert.True(t, m.DeliverPacket(h, events.PacketEvent{Length: 60}))
	assert.True(t, m.DeliverStopped(h, "duration elapsed"))
	assert.False(t, m.DeliverStopped(h, "duration elapsed"))
	assert.False(t, m.DeliverPacket(h, events.PacketEvent{Length: 61}))

	assert.Len(t, r.packets, 1)
	assert.Equal(t, []string{"duration elapsed"}, r.stopped)
}

func TestStaleHandleCannotTouchNewRegistration(t *testing.T) {
	m := NewManager()
	old := &recorder{}
	fresh := &recorder{}

	h1 := m.Attach(old.onPacket, old.onStopped)
	m.Detach(h1)
	h2 := m.Attach(fresh.onPacket, fresh.onStopped)
	require.NotEqual(t, h1, h2)

	assert.False(t, m.DeliverPacket(h1, events.PacketEvent{}))
	assert.False(t, m.DeliverStopped(h1, "late"))
	m.Detach(h1)
	assert.True(t, m.Active())
	assert.Equal(t, h2, m.Current())

	assert.True(t, m.DeliverPacket(h2, events.PacketEvent{}))
	assert.Len(t, fresh.packets, 1)
	assert.Empty(t, old.packets)
}
