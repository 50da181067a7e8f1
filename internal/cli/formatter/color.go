package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/ganttline/internal/domain"
)

// Palette shared by the chart, the tables and the TUI chrome.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusPill is the glyph and label shown for a task status.
func StatusPill(status domain.TaskStatus) string {
	switch status {
	case domain.StatusDone:
		return StyleDim.Render("✔ Done")
	case domain.StatusInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.StatusInReview:
		return StyleBlue.Render("◐ In Review")
	case domain.StatusOnHold:
		return StyleYellow.Render("○ On Hold")
	case domain.StatusRework:
		return StyleRed.Render("↺ Rework")
	case domain.StatusCancelled:
		return StyleDim.Render("✖ Cancelled")
	case domain.StatusAssigned:
		return StylePurple.Render("◇ Assigned")
	case domain.StatusNew, domain.StatusDraft:
		return StyleFg.Render("○ " + titleCase(string(status)))
	default:
		return StyleDim.Render(string(status))
	}
}

// Header upper-cases text and underlines it.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ReplaceAll(s[1:], "_", " ")
}
