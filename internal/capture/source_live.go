package capture

import (
	"fmt"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
)

// LiveSource captures from a network device through libpcap (or Npcap on
// Windows).
type LiveSource struct {
	// SnapLen is the maximum number of bytes kept per packet.
	// If zero, DefaultSnapLen is used
	SnapLen int

	// Promiscuous puts the device in promiscuous mode
	Promiscuous bool

	// ReadTimeout bounds each read on the handle.
	// If zero, DefaultReadTimeout is used
	ReadTimeout time.Duration
}

type liveStream struct {
	handle *pcap.Handle
	source *gopacket.PacketSource
}

func (s *liveStream) Packets() chan gopacket.Packet { return s.source.Packets() }
func (s *liveStream) Close()                        { s.handle.Close() }

// Open opens iface and installs filter.
func (l LiveSource) Open(iface, filter string) (Stream, error) {
	snapLen := l.SnapLen
	if snapLen <= 0 {
		snapLen = DefaultSnapLen
	}
	timeout := l.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}

	handle, err := pcap.OpenLive(iface, int32(snapLen), l.Promiscuous, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to open device %s: %w", iface, err)
	}

	if filter != "" {
		if err := handle.SetBPFFilter(filter); err != nil {
			handle.Close()
			return nil, fmt.Errorf("invalid capture filter %q: %w", filter, err)
		}
	}

	return &liveStream{
		handle: handle,
		source: gopacket.NewPacketSource(handle, handle.LinkType()),
	}, nil
}
