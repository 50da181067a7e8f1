package gantt

import "github.com/alexanderramin/ganttline/internal/domain"

// Palette is the background/border/text color triple for a status.
type Palette struct {
	Background string
	Border     string
	Text       string
}

// StatusPalette maps every enumerated status to its colors. Unknown
// statuses fall back to the "new" palette.
func StatusPalette(s domain.TaskStatus) Palette {
	switch s {
	case domain.StatusDraft:
		return Palette{Background: "#f3f4f6", Border: "#9ca3af", Text: "#374151"}
	case domain.StatusAssigned:
		return Palette{Background: "#ede9fe", Border: "#8b5cf6", Text: "#5b21b6"}
	case domain.StatusInProgress:
		return Palette{Background: "#fef3c7", Border: "#f59e0b", Text: "#92400e"}
	case domain.StatusOnHold:
		return Palette{Background: "#fee2e2", Border: "#f87171", Text: "#991b1b"}
	case domain.StatusInReview:
		return Palette{Background: "#cffafe", Border: "#06b6d4", Text: "#155e75"}
	case domain.StatusRework:
		return Palette{Background: "#ffedd5", Border: "#f97316", Text: "#9a3412"}
	case domain.StatusDone:
		return Palette{Background: "#dcfce7", Border: "#22c55e", Text: "#166534"}
	case domain.StatusCancelled:
		return Palette{Background: "#e5e7eb", Border: "#6b7280", Text: "#4b5563"}
	default:
		// domain.StatusNew and anything unrecognized.
		return Palette{Background: "#dbeafe", Border: "#3b82f6", Text: "#1e40af"}
	}
}

// PriorityAccent is the left-edge accent color for a priority. Unknown
// priorities use the medium accent.
func PriorityAccent(p domain.Priority) string {
	switch p {
	case domain.PriorityLow:
		return "#94a3b8"
	case domain.PriorityHigh:
		return "#f97316"
	case domain.PriorityCritical:
		return "#dc2626"
	default:
		return "#3b82f6"
	}
}

// CriticalRingColor outlines bars on the critical path.
const CriticalRingColor = "#dc2626"
