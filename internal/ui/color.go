// Package ui holds the console styling helpers shared by the CLI commands.
package ui

import (
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/proctor/internal/models"
)

var DarkTheme bool

func Green(a any) string {
	if DarkTheme {
		return pterm.LightGreen(a)
	}

	return pterm.Green(a)
}

func Yellow(a any) string {
	if DarkTheme {
		return pterm.LightYellow(a)
	}

	return pterm.Yellow(a)
}

func Cyan(a any) string {
	if DarkTheme {
		return pterm.LightCyan(a)
	}

	return pterm.Cyan(a)
}

func Magenta(a any) string {
	if DarkTheme {
		return pterm.LightMagenta(a)
	}

	return pterm.Magenta(a)
}

func Red(a any) string {
	if DarkTheme {
		return pterm.LightRed(a)
	}

	return pterm.Red(a)
}

func Highlight(a any) string {
	if DarkTheme {
		return pterm.LightWhite(a)
	}

	return pterm.Black(a)
}

// Tier colours a risk tier by severity.
func Tier(t models.RiskTier) string {
	switch t {
	case models.RiskLow:
		return Green(t)
	case models.RiskMedium:
		return Yellow(t)
	case models.RiskHigh:
		return Magenta(t)
	default:
		return Red(t)
	}
}

// Status colours a session status.
func Status(s models.Status) string {
	switch s {
	case models.StatusActive:
		return Green(s)
	case models.StatusPending:
		return Cyan(s)
	case models.StatusExpired:
		return Red(s)
	default:
		return Highlight(s)
	}
}
