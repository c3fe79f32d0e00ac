//go:build darwin

package netif

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/route"
)

func routeMessage(flags int, dst, mask route.Addr) *route.RouteMessage {
	addrs := make([]route.Addr, syscall.RTAX_MAX)
	addrs[syscall.RTAX_DST] = dst
	addrs[syscall.RTAX_NETMASK] = mask
	return &route.RouteMessage{Flags: flags, Index: 4, Addrs: addrs}
}

func TestIsDefaultRoute(t *testing.T) {
	up := syscall.RTF_UP | syscall.RTF_GATEWAY

	tests := []struct {
		name string
		msg  *route.RouteMessage
		want bool
	}{
		{"ipv4 default", routeMessage(up, &route.Inet4Addr{}, &route.Inet4Addr{}), true},
		{"ipv4 default without mask", routeMessage(up, &route.Inet4Addr{}, nil), true},
		{"ipv6 default", routeMessage(up, &route.Inet6Addr{}, &route.Inet6Addr{}), true},
		{"subnet", routeMessage(up, &route.Inet4Addr{IP: [4]byte{192, 168, 1, 0}}, &route.Inet4Addr{IP: [4]byte{255, 255, 255, 0}}), false},
		{"zero destination with a mask", routeMessage(up, &route.Inet4Addr{}, &route.Inet4Addr{IP: [4]byte{255, 0, 0, 0}}), false},
		{"not a gateway", routeMessage(syscall.RTF_UP, &route.Inet4Addr{}, nil), false},
		{"link destination", routeMessage(up, &route.LinkAddr{Index: 4}, nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDefaultRoute(tt.msg))
		})
	}
}
