package netif

import "errors"

// ErrUplinkUnknown is returned when no default route interface can be found.
var ErrUplinkUnknown = errors.New("default network interface not found")
