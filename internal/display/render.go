package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"EnigmaNetz/Enigma-Capture-Console/internal/netif"
	"EnigmaNetz/Enigma-Capture-Console/internal/templates"
)

// RenderInterfaces renders classified interfaces as a table.
func RenderInterfaces(ifaces []netif.Classified) string {
	rows := make([][]string, 0, len(ifaces))
	for _, iface := range ifaces {
		name := iface.DisplayName
		if name == "" {
			name = iface.Name
		}
		rows = append(rows, []string{
			name,
			iface.Description,
			iface.HardwareAddr.String(),
			strings.Join(iface.Addresses, ", "),
			iface.Status.String(),
		})
	}
	return renderTable([]string{"NAME", "DESCRIPTION", "MAC", "ADDRESSES", "STATUS"}, rows, func(col int, cell string) lipgloss.Style {
		if col != 4 {
			return lipgloss.NewStyle()
		}
		switch cell {
		case netif.StatusUplink.String():
			return uplinkStyle
		case netif.StatusDown.String():
			return downStyle
		default:
			return lipgloss.NewStyle()
		}
	})
}

// RenderTemplates renders capture templates as a table.
func RenderTemplates(tpls []templates.CaptureTemplate) string {
	rows := make([][]string, 0, len(tpls))
	for _, t := range tpls {
		rows = append(rows, []string{
			t.Name,
			t.Description,
			t.BPFFilter,
			fmt.Sprintf("%ds", t.EffectiveDuration()),
		})
	}
	return renderTable([]string{"NAME", "DESCRIPTION", "FILTER", "DURATION"}, rows, nil)
}

func renderTable(header []string, rows [][]string, cellStyle func(col int, cell string) lipgloss.Style) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = headerStyle.Width(widths[i] + 2).Render(h)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	b.WriteByte('\n')

	for _, row := range rows {
		for i, cell := range row {
			style := lipgloss.NewStyle()
			if cellStyle != nil {
				style = cellStyle(i, cell)
			}
			cells[i] = style.Width(widths[i] + 2).Render(cell)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteByte('\n')
	}
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("(none)"))
		b.WriteByte('\n')
	}
	return b.String()
}
