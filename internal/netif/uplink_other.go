//go:build !linux && !darwin && !windows

package netif

// DefaultRouteInterface is not implemented on this platform; the uplink
// hint has to be supplied by the operator.
func DefaultRouteInterface() (string, error) {
	return "", ErrUplinkUnknown
}
