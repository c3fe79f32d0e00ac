package selftest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EnigmaNetz/Enigma-Capture-Console/internal/events"
	"EnigmaNetz/Enigma-Capture-Console/internal/netif"
	"EnigmaNetz/Enigma-Capture-Console/internal/session"
)

// scriptedEngine emits a fixed number of packets after a short delay and
// then reports the duration as elapsed.
type scriptedEngine struct {
	packets  int
	beginErr error
	req      session.Request
}

func (e *scriptedEngine) ListInterfaces(ctx context.Context) ([]netif.Interface, error) {
	return nil, nil
}

func (e *scriptedEngine) BeginCapture(ctx context.Context, req session.Request) (<-chan events.Event, error) {
	e.req = req
	if e.beginErr != nil {
		return nil, e.beginErr
	}
	out := make(chan events.Event, e.packets+1)
	go func() {
		time.Sleep(300 * time.Millisecond)
		for i := 0; i < e.packets; i++ {
			out <- events.Packet(events.PacketEvent{Protocol: "TCP"})
		}
		out <- events.Stop("duration elapsed")
		close(out)
	}()
	return out, nil
}

func (e *scriptedEngine) EndCapture(ctx context.Context) error {
	return session.ErrNotCapturing
}

func TestRun_Success(t *testing.T) {
	engine := &scriptedEngine{packets: 4}
	result, err := Run(context.Background(), engine, Config{Interface: "lo", Duration: 1500 * time.Millisecond}, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Packets)
	assert.Equal(t, "duration elapsed", result.StopMessage)
	assert.True(t, strings.HasPrefix(result.Filter, "tcp port "))
	assert.Equal(t, result.Filter, engine.req.Filter)
	assert.Equal(t, "lo", engine.req.Interface)
	assert.Equal(t, 2*time.Second, engine.req.Duration)
	assert.GreaterOrEqual(t, result.Requests, int64(1))
}

func TestRun_NoPackets(t *testing.T) {
	result, err := Run(context.Background(), &scriptedEngine{}, Config{Interface: "lo"}, nil)
	assert.ErrorIs(t, err, ErrNoPackets)
	assert.Zero(t, result.Packets)
}

func TestRun_StartFailure(t *testing.T) {
	engine := &scriptedEngine{beginErr: errors.New("permission denied")}
	_, err := Run(context.Background(), engine, Config{Interface: "lo"}, nil)
	assert.ErrorIs(t, err, session.ErrCaptureStartFailed)
}
