package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay centers popupContent over a greyed-out mainContent
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, width, height int) string {
	styled := pr.styles.Popup.Render(popupContent)

	modalW := lipgloss.Width(styled)
	modalH := lipgloss.Height(styled)
	x := max(0, (width-modalW)/2)
	y := max(0, (height-modalH)/2)

	base := strings.Split(pr.desaturate(mainContent), "\n")
	for len(base) < height {
		base = append(base, "")
	}

	for i, line := range strings.Split(styled, "\n") {
		row := y + i
		if row >= len(base) {
			break
		}
		b := Fit(base[row], width)
		end := min(width, x+ansi.StringWidth(line))
		base[row] = ansi.Cut(b, 0, x) + ansi.Truncate(line, end-x, "") + ansi.Cut(b, end, width)
	}
	return strings.Join(base, "\n")
}

// desaturate strips styles and recolors text dim gray
func (pr *PopupRenderer) desaturate(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = pr.styles.Desaturated.Render(ansi.Strip(line))
	}
	return strings.Join(lines, "\n")
}
