package display

import "github.com/charmbracelet/lipgloss"

var (
	textColor   = lipgloss.Color("#FAFAFA")
	dimColor    = lipgloss.Color("#626262")
	accentColor = lipgloss.Color("#04B575")
	headerBg    = lipgloss.Color("#3C3C3C")
	errorColor  = lipgloss.Color("#FF6B6B")

	tcpColor  = lipgloss.Color("#7CB9E8")
	udpColor  = lipgloss.Color("#72BF6A")
	icmpColor = lipgloss.Color("#FFB347")
	arpColor  = lipgloss.Color("#DDA0DD")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(headerBg)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	uplinkStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	downStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	stoppedStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)
)

func protocolStyle(protocol string) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch protocol {
	case "TCP":
		return s.Foreground(tcpColor)
	case "UDP":
		return s.Foreground(udpColor)
	case "ICMPv4", "ICMPv6":
		return s.Foreground(icmpColor)
	case "ARP":
		return s.Foreground(arpColor)
	default:
		return s.Foreground(dimColor)
	}
}
