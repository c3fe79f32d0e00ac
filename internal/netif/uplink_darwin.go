//go:build darwin

package netif

import (
	"fmt"
	"net"
	"syscall"

	"golang.org/x/net/route"
)

// DefaultRouteInterface returns the name of the interface holding the
// default route, read from the kernel routing table.
func DefaultRouteInterface() (string, error) {
	rib, err := route.FetchRIB(syscall.AF_UNSPEC, route.RIBTypeRoute, 0)
	if err != nil {
		return "", fmt.Errorf("failed to read routing table: %w", err)
	}
	msgs, err := route.ParseRIB(route.RIBTypeRoute, rib)
	if err != nil {
		return "", fmt.Errorf("failed to parse routing table: %w", err)
	}

	for _, msg := range msgs {
		rm, ok := msg.(*route.RouteMessage)
		if !ok || !isDefaultRoute(rm) {
			continue
		}
		iface, err := net.InterfaceByIndex(rm.Index)
		if err != nil {
			continue
		}
		return iface.Name, nil
	}
	return "", ErrUplinkUnknown
}

// isDefaultRoute matches an up gateway route to 0.0.0.0/0 or ::/0.
func isDefaultRoute(rm *route.RouteMessage) bool {
	if rm.Flags&syscall.RTF_UP == 0 || rm.Flags&syscall.RTF_GATEWAY == 0 {
		return false
	}
	if len(rm.Addrs) <= syscall.RTAX_DST {
		return false
	}
	switch dst := rm.Addrs[syscall.RTAX_DST].(type) {
	case *route.Inet4Addr:
		if dst.IP != [4]byte{} {
			return false
		}
	case *route.Inet6Addr:
		if dst.IP != [16]byte{} {
			return false
		}
	default:
		return false
	}
	if len(rm.Addrs) <= syscall.RTAX_NETMASK {
		return true
	}
	switch mask := rm.Addrs[syscall.RTAX_NETMASK].(type) {
	case *route.Inet4Addr:
		return mask.IP == [4]byte{}
	case *route.Inet6Addr:
		return mask.IP == [16]byte{}
	}
	return true
}
