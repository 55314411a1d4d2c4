package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ritual-tui/ritual/internal/models"
)

// Adaptive colors for light and dark terminals.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOrange = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
	colorPurple = lipgloss.AdaptiveColor{Light: "91", Dark: "141"}
)

// Semantic styles for CLI output.
var (
	styleBrand   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleVersion = lipgloss.NewStyle().Foreground(colorGreen)
	styleLabel   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleHint    = lipgloss.NewStyle().Foreground(colorDim)
	styleHeading = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	styleRunning = lipgloss.NewStyle().Bold(true).Foreground(colorOrange)
	styleRecur   = lipgloss.NewStyle().Foreground(colorPurple)
)

// Task state badge styles.
var (
	badgeTodo      = lipgloss.NewStyle().Foreground(colorWhite)
	badgeCompleted = lipgloss.NewStyle().Foreground(colorGreen)
	badgeDelegated = lipgloss.NewStyle().Foreground(colorCyan)
	badgeDelayed   = lipgloss.NewStyle().Foreground(colorYellow)
)

// Calendar cell styles.
var (
	calToday    = lipgloss.NewStyle().Bold(true).Foreground(colorOrange)
	calSelected = lipgloss.NewStyle().Reverse(true)
	calBusy     = lipgloss.NewStyle().Foreground(colorGreen)
	calOutside  = lipgloss.NewStyle().Foreground(colorDim)
)

func stateBadge(s models.TaskState) string {
	switch s {
	case models.TaskStateCompleted:
		return badgeCompleted.Render("[x]")
	case models.TaskStateDelegated:
		return badgeDelegated.Render("[>]")
	case models.TaskStateDelayed:
		return badgeDelayed.Render("[~]")
	}
	return badgeTodo.Render("[ ]")
}
