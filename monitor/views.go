package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

func (m *Model) headerView() string {
	var s strings.Builder

	s.WriteString(m.style.Main.SetString("Session " + m.sessionID).String())
	s.WriteString("\n\n")

	tier := m.style.Tiers[m.result.Tier]
	s.WriteString(m.style.Main.SetString(fmt.Sprintf("%d / 100 ", m.result.Score)).String())
	s.WriteString(tier.SetString(string(m.result.Tier)).String())
	s.WriteString("\n\n")
	s.WriteString(m.progress.ViewAs(float64(m.result.Score) / 100))

	return s.String()
}

func (m *Model) breakdownView() string {
	var s strings.Builder

	for _, d := range m.result.Breakdown {
		line := fmt.Sprintf("%-20s %3d  -%d", d.Category, d.Count, d.Deduction)

		if d.Count == 0 {
			s.WriteString(m.style.Hint.SetString(line).String())
		} else {
			s.WriteString(m.style.Secondary.SetString(line).String())
		}

		s.WriteString("\n")
	}

	return s.String()
}

func (m *Model) recentView() string {
	if len(m.events) == 0 {
		return m.style.Hint.SetString("No violations yet").String()
	}

	var s strings.Builder

	start := max(0, len(m.events)-recentEvents)
	for i := len(m.events) - 1; i >= start; i-- {
		ev := &m.events[i]

		s.WriteString(m.style.Secondary.SetString(fmt.Sprintf(
			"%s  %s",
			ev.Timestamp.Local().Format("15:04:05"),
			ev.Description,
		)).String())
		s.WriteString("\n")
	}

	return s.String()
}

func (m *Model) statusView() string {
	switch {
	case m.err != nil:
		return m.style.Tiers[m.result.Tier].SetString("error: " + m.err.Error()).String()
	case m.done != nil:
		return m.style.Hint.SetString(fmt.Sprintf(
			"signal finished: %d samples, %d accepted",
			m.done.Samples,
			m.done.Accepted,
		)).String()
	default:
		return m.style.Hint.SetString("watching...").String()
	}
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(m.headerView())
	s.WriteString("\n\n")
	s.WriteString(m.breakdownView())
	s.WriteString("\n")
	s.WriteString(m.recentView())
	s.WriteString("\n")
	s.WriteString(m.statusView())
	s.WriteString("\n\n" + m.help.ShortHelpView([]key.Binding{
		defaultKeymap.refresh,
		defaultKeymap.quit,
	}))

	return m.style.Base.Render(s.String())
}
