package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label string

	// Percent is in [0, 100].
	Percent float64
	Width   int
}

// View renders the bar with t's styles. Plain themes draw the bar with
// '#' and '.' so it survives without color.
func (p ProgressBar) View(t *Theme) string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(p.Label)
		b.WriteString("  ")
	}

	labelWidth := lipgloss.Width(b.String())
	const percentWidth = 6 // "  100%"

	barWidth := max(p.Width-labelWidth-percentWidth, 4)
	filled := int(float64(barWidth) * p.Percent / 100)
	filled = max(0, min(filled, barWidth))
	empty := barWidth - filled

	if t.Plain {
		b.WriteString(strings.Repeat("#", filled))
		b.WriteString(strings.Repeat(".", empty))
	} else {
		b.WriteString(t.BarFill.Render(strings.Repeat(" ", filled)))
		b.WriteString(t.BarEmpty.Render(strings.Repeat(" ", empty)))
	}

	b.WriteString(t.Dim.Render(fmt.Sprintf("  %3d%%", int(p.Percent))))
	return b.String()
}
