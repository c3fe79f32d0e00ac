// Package summary turns decoded packets into display events.
package summary

import (
	"fmt"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"EnigmaNetz/Enigma-Capture-Console/internal/events"
)

// Summarize extracts endpoints, the transport protocol and a one-line
// description from packet.
func Summarize(packet gopacket.Packet) events.PacketEvent {
	md := packet.Metadata()
	ev := events.PacketEvent{
		Timestamp: md.Timestamp,
		Length:    md.Length,
	}
	if ev.Length == 0 {
		ev.Length = len(packet.Data())
	}

	var parts []string

	if eth, ok := packet.Layer(layers.LayerTypeEthernet).(*layers.Ethernet); ok {
		parts = append(parts, fmt.Sprintf("Eth %s->%s", eth.SrcMAC, eth.DstMAC))
	}

	if ip4, ok := packet.Layer(layers.LayerTypeIPv4).(*layers.IPv4); ok {
		ev.Source = ip4.SrcIP.String()
		ev.Destination = ip4.DstIP.String()
		parts = append(parts, fmt.Sprintf("IPv4 %s->%s Proto:%s", ip4.SrcIP, ip4.DstIP, ip4.Protocol))
	} else if ip6, ok := packet.Layer(layers.LayerTypeIPv6).(*layers.IPv6); ok {
		ev.Source = ip6.SrcIP.String()
		ev.Destination = ip6.DstIP.String()
		parts = append(parts, fmt.Sprintf("IPv6 %s->%s Proto:%s", ip6.SrcIP, ip6.DstIP, ip6.NextHeader))
	} else if arp, ok := packet.Layer(layers.LayerTypeARP).(*layers.ARP); ok {
		ev.Protocol = "ARP"
		ev.Source = formatProtoAddr(arp.SourceProtAddress)
		ev.Destination = formatProtoAddr(arp.DstProtAddress)
		parts = append(parts, fmt.Sprintf("ARP op:%d %s->%s", arp.Operation, ev.Source, ev.Destination))
	}

	if tcp, ok := packet.Layer(layers.LayerTypeTCP).(*layers.TCP); ok {
		ev.Protocol = "TCP"
		parts = append(parts, fmt.Sprintf("TCP %d->%d Flags:[%s]", tcp.SrcPort, tcp.DstPort, strings.Join(TCPFlags(tcp), ",")))
	} else if udp, ok := packet.Layer(layers.LayerTypeUDP).(*layers.UDP); ok {
		ev.Protocol = "UDP"
		parts = append(parts, fmt.Sprintf("UDP %d->%d", udp.SrcPort, udp.DstPort))
	} else if icmp, ok := packet.Layer(layers.LayerTypeICMPv4).(*layers.ICMPv4); ok {
		ev.Protocol = "ICMPv4"
		parts = append(parts, fmt.Sprintf("ICMPv4 Type:%d Code:%d", icmp.TypeCode.Type(), icmp.TypeCode.Code()))
	} else if icmp6, ok := packet.Layer(layers.LayerTypeICMPv6).(*layers.ICMPv6); ok {
		ev.Protocol = "ICMPv6"
		parts = append(parts, fmt.Sprintf("ICMPv6 Type:%d Code:%d", icmp6.TypeCode.Type(), icmp6.TypeCode.Code()))
	}

	ev.Summary = strings.Join(parts, " ")
	return ev
}

// TCPFlags lists the set flags of tcp in header order.
func TCPFlags(tcp *layers.TCP) []string {
	var flags []string
	if tcp.SYN {
		flags = append(flags, "SYN")
	}
	if tcp.ACK {
		flags = append(flags, "ACK")
	}
	if tcp.FIN {
		flags = append(flags, "FIN")
	}
	if tcp.RST {
		flags = append(flags, "RST")
	}
	if tcp.PSH {
		flags = append(flags, "PSH")
	}
	if tcp.URG {
		flags = append(flags, "URG")
	}
	if tcp.ECE {
		flags = append(flags, "ECE")
	}
	if tcp.CWR {
		flags = append(flags, "CWR")
	}
	return flags
}

func formatProtoAddr(b []byte) string {
	if len(b) != 4 {
		return fmt.Sprintf("%x", b)
	}
	return fmt.Sprintf("%d.%d.%d.%d", b[0], b[1], b[2], b[3])
}
