//go:build windows

package netif

import (
	"fmt"
	"net"

	"golang.org/x/sys/windows"
)

// DefaultRouteInterface returns the adapter GUID of the interface Windows
// would route public traffic through. Npcap device names embed the GUID,
// so it works as an uplink hint against pcap device names.
func DefaultRouteInterface() (string, error) {
	var index uint32
	v4 := &windows.SockaddrInet4{Addr: [4]byte{8, 8, 8, 8}}
	if err := windows.GetBestInterfaceEx(v4, &index); err != nil {
		v6 := &windows.SockaddrInet6{}
		copy(v6.Addr[:], net.ParseIP("2001:4860:4860::8888"))
		if err6 := windows.GetBestInterfaceEx(v6, &index); err6 != nil {
			return "", fmt.Errorf("%w: %v", ErrUplinkUnknown, err)
		}
	}

	ids, err := AdapterIDs()
	if err != nil {
		return "", err
	}
	id, ok := ids[int(index)]
	if !ok {
		return "", ErrUplinkUnknown
	}
	return id, nil
}
