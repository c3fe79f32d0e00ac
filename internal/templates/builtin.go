package templates

// Builtin returns the predefined templates shipped with the console.
func Builtin() []CaptureTemplate {
	return []CaptureTemplate{
		{Name: "HTTP/HTTPS", Description: "HTTP & HTTPS traffic", BPFFilter: "tcp port 80 or tcp port 443"},
		{Name: "DNS", Description: "DNS queries", BPFFilter: "udp port 53"},
		{Name: "ARP", Description: "Address resolution", BPFFilter: "arp"},
		{Name: "ICMP", Description: "Ping traffic", BPFFilter: "icmp"},
		{Name: "IPv4", Description: "All IPv4", BPFFilter: "ip"},
		{Name: "IPv6", Description: "All IPv6", BPFFilter: "ip6"},
		{Name: "SSH", Description: "SSH access", BPFFilter: "tcp port 22"},
		{Name: "RDP", Description: "Remote desktop", BPFFilter: "tcp port 3389"},
	}
}
