package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a task progress bar like [████░░░░]  45%.
// Done work is green, work under a third is red, the rest yellow.
func RenderProgress(percent int, width int) string {
	percent = max(0, min(percent, 100))
	width = max(width, 2)

	filled := percent * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleYellow
	switch {
	case percent >= 100:
		style = StyleGreen
	case percent < 33:
		style = StyleRed
	}
	return fmt.Sprintf("[%s] %3d%%", style.Render(bar), percent)
}
