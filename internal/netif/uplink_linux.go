//go:build linux

package netif

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// DefaultRouteInterface returns the name of the interface holding the
// default route. IPv4 and IPv6 routes in the main table are considered.
func DefaultRouteInterface() (string, error) {
	routes, err := netlink.RouteList(nil, netlink.FAMILY_ALL)
	if err != nil {
		return "", fmt.Errorf("failed to read routing table: %w", err)
	}

	route, ok := defaultRoute(routes)
	if !ok {
		return "", ErrUplinkUnknown
	}

	link, err := netlink.LinkByIndex(route.LinkIndex)
	if err != nil {
		return "", fmt.Errorf("failed to resolve link %d: %w", route.LinkIndex, err)
	}
	return link.Attrs().Name, nil
}

// defaultRoute picks the default route with the lowest metric. IPv4 wins a tie.
func defaultRoute(routes []netlink.Route) (netlink.Route, bool) {
	var best netlink.Route
	found := false
	for _, r := range routes {
		if r.LinkIndex == 0 || !isDefaultDst(r) {
			continue
		}
		if !found || r.Priority < best.Priority ||
			(r.Priority == best.Priority && isIPv4Route(r) && !isIPv4Route(best)) {
			best = r
			found = true
		}
	}
	return best, found
}

func isDefaultDst(r netlink.Route) bool {
	if r.Dst == nil {
		return true
	}
	ones, _ := r.Dst.Mask.Size()
	return ones == 0 && r.Dst.IP.IsUnspecified()
}

func isIPv4Route(r netlink.Route) bool {
	if r.Family != 0 {
		return r.Family == netlink.FAMILY_V4
	}
	if r.Gw != nil {
		return r.Gw.To4() != nil
	}
	return r.Dst != nil && r.Dst.IP.To4() != nil
}
