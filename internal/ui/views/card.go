package views

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"carousel/internal/domain"
)

// CardHeight is the number of rows every item occupies
const CardHeight = 7

// ItemRenderer draws one item into a width x height cell box
type ItemRenderer interface {
	RenderItem(item domain.Item, width, height int) []string
}

// ItemRendererFunc adapts a function to ItemRenderer
type ItemRendererFunc func(item domain.Item, width, height int) []string

// RenderItem calls f
func (f ItemRendererFunc) RenderItem(item domain.Item, width, height int) []string {
	return f(item, width, height)
}

// CardRenderer is the default item renderer: a bordered card with title, tag and body
type CardRenderer struct {
	styles *Styles
}

// NewCardRenderer creates a card renderer
func NewCardRenderer(styles *Styles) *CardRenderer {
	return &CardRenderer{styles: styles}
}

// RenderItem renders item as a card
func (c *CardRenderer) RenderItem(item domain.Item, width, height int) []string {
	// border (2) + padding (2)
	inner := width - 4
	if inner < 1 || height < 3 {
		return Box(nil, width, height)
	}

	lines := []string{c.styles.CardTitle.Render(runewidth.Truncate(singleLine(item.Title), inner, "…"))}
	if item.Tag != "" {
		lines = append(lines, c.styles.CardTag.Render(runewidth.Truncate(singleLine(item.Tag), inner, "…")))
	}
	for _, l := range wrap(sanitize(item.Body), inner) {
		lines = append(lines, c.styles.CardBody.Render(l))
	}
	if rows := height - 2; len(lines) > rows {
		lines = lines[:rows]
	}

	card := c.styles.Card.
		Width(width - 2).
		Height(height - 2).
		Render(strings.Join(lines, "\n"))
	return Box(strings.Split(card, "\n"), width, height)
}

// Box forces lines into exactly height rows of width cells
func Box(lines []string, width, height int) []string {
	out := make([]string, height)
	for i := range out {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		out[i] = Fit(line, width)
	}
	return out
}

// Fit truncates or pads an ANSI string to width cells
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// wrap breaks s into lines of at most width cells; words longer than a line are split
func wrap(s string, width int) []string {
	var out []string
	for _, line := range strings.Split(ansi.Wrap(s, width, ""), "\n") {
		if line = strings.TrimRight(line, " "); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// singleLine sanitizes s and folds line breaks into spaces
func singleLine(s string) string {
	return strings.Join(strings.Fields(sanitize(s)), " ")
}

// sanitize drops control characters that would break the layout
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if r == '\t' {
			return ' '
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
