// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorTitle    = lipgloss.Color("#7C3AED")
	colorMuted    = lipgloss.Color("#6B7280")
	colorOK       = lipgloss.Color("#10B981")
	colorError    = lipgloss.Color("#EF4444")
	colorWarning  = lipgloss.Color("#F59E0B")
	colorVariable = lipgloss.Color("#3B82F6")
)

// Styles shared by all CLI output.
var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorTitle)
	MutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	SuccessStyle  = lipgloss.NewStyle().Foreground(colorOK)
	ErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	WarningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	VariableStyle = lipgloss.NewStyle().Foreground(colorVariable)

	successIcon = SuccessStyle.Render("✓")
	errorIcon   = ErrorStyle.Render("✗")
)

// bindingStatus is how a referenced variable gets its value, as listed by vars.
type bindingStatus string

const (
	statusSupplied bindingStatus = "supplied"
	statusDefault  bindingStatus = "default"
	statusUnset    bindingStatus = "unset"
	statusMissing  bindingStatus = "missing"
)

var statusStyles = map[bindingStatus]lipgloss.Style{
	statusSupplied: SuccessStyle,
	statusDefault:  SuccessStyle,
	statusUnset:    WarningStyle,
	statusMissing:  ErrorStyle,
}

// render pads the status to a fixed column before styling it.
func (s bindingStatus) render() string {
	return statusStyles[s].Render(fmt.Sprintf("%-8s", s))
}
