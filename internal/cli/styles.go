// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared lipgloss styles for shell output.
//
// Query results are never styled; only the banner, settings listings,
// messages and echoed statements are.

package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
	if !ColorsEnabled() {
		pterm.DisableStyling()
	}
}

var (
	// TitleStyle renders the welcome banner.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

	// settingStyle renders setting names in .show.
	settingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	// ValueStyle renders setting values.
	ValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	// DimStyle renders hints such as the ".help" pointer in the banner.
	DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// RenderLabel renders a setting name padded to width cells.
func RenderLabel(label string, width int) string {
	return settingStyle.Width(width).Render(label)
}
