// Package netif describes network interfaces as the console sees them and
// decides which of them is the uplink.
package netif

import (
	"net"
	"strings"
)

// Interface is an immutable snapshot of one capture-capable interface.
type Interface struct {
	Name         string           `json:"name"`
	DisplayName  string           `json:"displayName"`
	Description  string           `json:"description"`
	HardwareAddr net.HardwareAddr `json:"hardwareAddr"`
	Addresses    []string         `json:"addrs"`
	IsUp         bool             `json:"isUp"`
	IsLoopback   bool             `json:"isLoopback"`
}

// Status is the display status of a classified interface.
type Status int

const (
	StatusDown Status = iota
	StatusUp
	StatusUplink
)

func (s Status) String() string {
	switch s {
	case StatusUplink:
		return "Uplink"
	case StatusUp:
		return "Up"
	default:
		return "Down"
	}
}

// Classified pairs an interface with its display status.
type Classified struct {
	Interface
	Status Status `json:"status"`
}

// IsUplink reports whether iface matches the uplink hint. The match is a
// case-insensitive substring test against the name and the description.
func IsUplink(iface Interface, uplinkHint string) bool {
	if uplinkHint == "" {
		return false
	}
	hint := strings.ToLower(uplinkHint)
	return strings.Contains(strings.ToLower(iface.Name), hint) ||
		strings.Contains(strings.ToLower(iface.Description), hint)
}

// Classify tags each interface Uplink, Up or Down, in that order of
// precedence. An uplink reported down is still labelled Uplink.
func Classify(ifaces []Interface, uplinkHint string) []Classified {
	out := make([]Classified, 0, len(ifaces))
	for _, iface := range ifaces {
		status := StatusDown
		switch {
		case IsUplink(iface, uplinkHint):
			status = StatusUplink
		case iface.IsUp:
			status = StatusUp
		}
		out = append(out, Classified{Interface: iface, Status: status})
	}
	return out
}
