package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 44

// styles are the sidebar styles of one theme.
type styles struct {
	canvas, sidebar, header, label, value, graph, help, err lipgloss.Style

	running, paused, placing lipgloss.Style
	barLow, barMid, barHigh  lipgloss.Style
}

func newStyles(t Theme) styles {
	bold := lipgloss.NewStyle().Bold(true)
	return styles{
		canvas: lipgloss.NewStyle().Padding(padTop, padLeft),
		sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(sidebarWidth),
		header: bold.Foreground(t.Accent).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		graph:  lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		err:    bold.Foreground(t.Error),

		running: bold.Foreground(t.Success),
		paused:  bold.Foreground(t.Warning),
		placing: bold.Foreground(t.Secondary),

		barLow:  lipgloss.NewStyle().Foreground(t.Success),
		barMid:  lipgloss.NewStyle().Foreground(t.Warning),
		barHigh: lipgloss.NewStyle().Foreground(t.Error),
	}
}

// bar renders a gauge filled to fraction of width, shifting from the
// success to the error color as it fills.
func (st styles) bar(fraction float64, width int) string {
	filled := min(max(int(fraction*float64(width)), 0), width)
	s := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	switch {
	case fraction > 0.8:
		return st.barHigh.Render(s)
	case fraction > 0.4:
		return st.barMid.Render(s)
	}
	return st.barLow.Render(s)
}
