package observer

import (
	"os"

	"golang.org/x/term"
)

// TerminalHost measures the terminal a file descriptor is attached to.
// It has no resize notifier of its own, so observers fall back to the window signal.
type TerminalHost struct {
	Fd          int
	CellWidthPx float64
	// ReservedCells are subtracted from the terminal width, e.g. for outside nav controls.
	ReservedCells int
}

// NewTerminalHost measures stdout
func NewTerminalHost(cellWidthPx float64) *TerminalHost {
	return &TerminalHost{Fd: int(os.Stdout.Fd()), CellWidthPx: cellWidthPx}
}

// ContentWidth returns the usable width in px, or 0 when the fd is not a terminal.
func (h *TerminalHost) ContentWidth() float64 {
	width, _, err := term.GetSize(h.Fd)
	if err != nil {
		return 0
	}
	cells := width - h.ReservedCells
	if cells <= 0 {
		return 0
	}
	return float64(cells) * h.CellWidthPx
}
