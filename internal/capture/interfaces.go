package capture

import (
	"fmt"
	"net"
	"strings"

	"github.com/google/gopacket/pcap"

	"EnigmaNetz/Enigma-Capture-Console/internal/netif"
)

// Swapped out in tests.
var (
	netInterfaces = net.Interfaces
	findAllDevs   = pcap.FindAllDevs
	adapterIDs    = netif.AdapterIDs
)

// ListInterfaces joins the OS interface table with the pcap device list.
// A matched interface is named by its pcap device so it can be opened, and
// pcap supplies the description. A pcap failure only loses those.
func ListInterfaces() ([]netif.Interface, error) {
	ifaces, err := netInterfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate interfaces: %w", err)
	}

	devices, _ := findAllDevs()
	ids, _ := adapterIDs()

	out := make([]netif.Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		var addrs []string
		var ips []net.IP
		if ifAddrs, err := iface.Addrs(); err == nil {
			for _, a := range ifAddrs {
				addrs = append(addrs, a.String())
				if ipnet, ok := a.(*net.IPNet); ok {
					ips = append(ips, ipnet.IP)
				}
			}
		}

		entry := netif.Interface{
			Name:         iface.Name,
			DisplayName:  iface.Name,
			HardwareAddr: iface.HardwareAddr,
			Addresses:    addrs,
			IsUp:         iface.Flags&net.FlagUp != 0,
			IsLoopback:   iface.Flags&net.FlagLoopback != 0,
		}
		if dev, ok := matchDevice(iface.Name, ids[iface.Index], ips, devices); ok {
			entry.Name = dev.Name
			entry.Description = dev.Description
		}
		out = append(out, entry)
	}
	return out, nil
}

// matchDevice finds the pcap device behind an OS interface. libpcap uses
// the OS name; Npcap names devices \Device\NPF_{GUID}, which are matched by
// adapter GUID and then by a shared address.
func matchDevice(name, adapterID string, ips []net.IP, devices []pcap.Interface) (pcap.Interface, bool) {
	for _, dev := range devices {
		if dev.Name == name {
			return dev, true
		}
	}
	if adapterID != "" {
		for _, dev := range devices {
			if strings.HasSuffix(strings.ToUpper(dev.Name), strings.ToUpper(adapterID)) {
				return dev, true
			}
		}
	}
	for _, dev := range devices {
		for _, da := range dev.Addresses {
			for _, ip := range ips {
				if da.IP != nil && da.IP.Equal(ip) {
					return dev, true
				}
			}
		}
	}
	return pcap.Interface{}, false
}
