package views

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"carousel/internal/domain"
	"carousel/internal/engine"
)

// GutterCells is the width of each nav gutter when controls sit outside the track
const GutterCells = 2

// maxPips caps the position indicator; longer tracks show a counter only
const maxPips = 24

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width             int
	Height            int
	ContainerCells    int
	CellWidthPx       int
	GapPx             int
	DividerEnabled    bool
	NavigationEnabled bool
	NavPosition       domain.NavPosition
	Items             []domain.Item
	VM                engine.ViewModel
	StatusMessage     string
	StatusIsError     bool
	HelpView          string
	ShowHelp          bool
	HelpContent       string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	items       ItemRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(dividerColor string) *Renderer {
	styles := NewStyles(dividerColor)
	return &Renderer{
		styles:      styles,
		items:       NewCardRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles returns the active styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// SetItemRenderer replaces the card renderer
func (r *Renderer) SetItemRenderer(ir ItemRenderer) {
	r.items = ir
}

// SetDividerColor restyles dividers
func (r *Renderer) SetDividerColor(color string) {
	r.styles.Divider = r.styles.Divider.Foreground(lipgloss.Color(color))
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	title := r.styles.Title.Render("carousel")
	tier := r.styles.Dim.Render(fmt.Sprintf("%s · %d visible", state.VM.Breakpoint, state.VM.VisibleCount))
	content.WriteString(joinEnds(title, tier, state.Width))
	content.WriteString("\n\n")

	for _, line := range r.RenderTrack(state) {
		content.WriteString(line)
		content.WriteString("\n")
	}
	content.WriteString("\n")
	content.WriteString(Fit(r.renderPosition(state), state.Width))
	content.WriteString("\n")

	if state.StatusMessage != "" {
		style := r.styles.Status
		if state.StatusIsError {
			style = r.styles.StatusError
		}
		content.WriteString(style.Render(ansi.Truncate(state.StatusMessage, state.Width, "…")))
	}
	content.WriteString("\n")
	content.WriteString(r.styles.Help.Render(state.HelpView))

	out := content.String()
	if state.ShowHelp && state.HelpContent != "" {
		out = r.popupRender.RenderPopupOverlay(out, state.HelpContent, state.Width, state.Height)
	}
	return out
}

// RenderTrack renders the visible part of the track plus nav controls.
// Every returned line is exactly state.Width cells wide.
func (r *Renderer) RenderTrack(state ViewState) []string {
	vm := state.VM
	cell := float64(max(1, state.CellWidthPx))
	itemCells := int(vm.ItemWidthPx / cell)
	gapCells := int(math.Round(float64(state.GapPx) / cell))
	if state.DividerEnabled {
		gapCells = max(1, gapCells)
	}

	container := state.ContainerCells
	var rows []string
	if itemCells == 0 || container <= 0 || len(state.Items) == 0 {
		rows = Box(nil, max(0, container), CardHeight)
	} else {
		strip := r.renderStrip(state, itemCells, gapCells)
		offset := 0
		if stridePx := vm.ItemWidthPx + float64(state.GapPx); stridePx > 0 {
			offset = int(math.Round(-vm.TranslateXPx/stridePx)) * (itemCells + gapCells)
		}
		rows = make([]string, len(strip))
		for i, line := range strip {
			rows[i] = Fit(ansi.Cut(line, offset, offset+container), container)
		}
	}

	return r.decorate(state, rows)
}

func (r *Renderer) renderStrip(state ViewState, itemCells, gapCells int) []string {
	n := len(state.Items)
	builders := make([]strings.Builder, CardHeight)
	for i, item := range state.Items {
		card := r.items.RenderItem(item, itemCells, CardHeight)
		card = Box(card, itemCells, CardHeight)
		for row := range builders {
			builders[row].WriteString(card[row])
		}
		if i == n-1 {
			break
		}
		showDivider := i < len(state.VM.DividerFlags) && state.VM.DividerFlags[i]
		gap := r.renderGap(gapCells, showDivider)
		for row := range builders {
			builders[row].WriteString(gap)
		}
	}
	out := make([]string, CardHeight)
	for i := range builders {
		out[i] = builders[i].String()
	}
	return out
}

func (r *Renderer) renderGap(cells int, divider bool) string {
	if cells <= 0 {
		return ""
	}
	if !divider {
		return strings.Repeat(" ", cells)
	}
	left := (cells - 1) / 2
	return strings.Repeat(" ", left) + r.styles.Divider.Render("│") + strings.Repeat(" ", cells-1-left)
}

// decorate adds the previous/next controls around or over the track rows
func (r *Renderer) decorate(state ViewState, rows []string) []string {
	vm := state.VM
	mid := len(rows) / 2
	prev := r.arrow("‹", vm.CanGoPrevious)
	next := r.arrow("›", vm.CanGoNext)

	out := make([]string, len(rows))
	switch {
	case state.NavigationEnabled && state.NavPosition == domain.NavOutside:
		blank := strings.Repeat(" ", GutterCells)
		for i, row := range rows {
			left, right := blank, blank
			if i == mid && vm.ShowNavigation {
				left = prev + " "
				right = " " + next
			}
			out[i] = Fit(left+row+right, state.Width)
		}
	default:
		for i, row := range rows {
			if i == mid && vm.ShowNavigation && ansi.StringWidth(row) >= 2 {
				w := ansi.StringWidth(row)
				row = prev + ansi.Cut(row, 1, w-1) + next
			}
			out[i] = Fit(row, state.Width)
		}
	}
	return out
}

func (r *Renderer) arrow(glyph string, enabled bool) string {
	if enabled {
		return r.styles.Nav.Render(glyph)
	}
	return r.styles.NavDisabled.Render(glyph)
}

// renderPosition renders pips for each window start, or a counter for long tracks
func (r *Renderer) renderPosition(state ViewState) string {
	vm := state.VM
	total := len(state.Items)
	if total == 0 {
		return r.styles.Dim.Render("no items")
	}
	counter := r.styles.Dim.Render(fmt.Sprintf("%d-%d of %d", vm.WindowStart+1, vm.WindowEnd, total))
	if !vm.ShowNavigation || vm.MaxIndex+1 > maxPips {
		return counter
	}
	var pips strings.Builder
	for i := 0; i <= vm.MaxIndex; i++ {
		if i == vm.ClampedIndex {
			pips.WriteString(r.styles.PipActive.Render("●"))
		} else {
			pips.WriteString(r.styles.Pip.Render("○"))
		}
	}
	return pips.String() + "  " + counter
}

// joinEnds places left and right on one line of width cells
func joinEnds(left, right string, width int) string {
	gap := width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		return Fit(left, width)
	}
	return left + strings.Repeat(" ", gap) + right
}
