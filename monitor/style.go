package monitor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ayoisaiah/proctor/internal/models"
)

// Style holds the lipgloss styles of the dashboard.
type Style struct {
	Base      lipgloss.Style
	Main      lipgloss.Style
	Secondary lipgloss.Style
	Hint      lipgloss.Style
	Tiers     map[models.RiskTier]lipgloss.Style
}

// NewStyle returns the dashboard styles for a dark or light terminal.
func NewStyle(dark bool) Style {
	main, secondary, hint := "#1f2937", "#4b5563", "#6b7280"
	if dark {
		main, secondary, hint = "#f9fafb", "#d1d5db", "#9ca3af"
	}

	tier := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c))
	}

	return Style{
		Base:      lipgloss.NewStyle().Padding(1, 2),
		Main:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(main)),
		Secondary: lipgloss.NewStyle().Foreground(lipgloss.Color(secondary)),
		Hint:      lipgloss.NewStyle().Foreground(lipgloss.Color(hint)),
		Tiers: map[models.RiskTier]lipgloss.Style{
			models.RiskLow:      tier("#16a34a"),
			models.RiskMedium:   tier("#ca8a04"),
			models.RiskHigh:     tier("#c026d3"),
			models.RiskCritical: tier("#dc2626"),
		},
	}
}
