package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	keys KeyMap
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer(keys KeyMap) *HelpRenderer {
	return &HelpRenderer{keys: keys}
}

// RenderHelpContent renders the help popup body
func (r *HelpRenderer) RenderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(8)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("Carousel Help"))
	help.WriteString("\n")

	sections := []struct {
		name     string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{r.keys.Previous.Help().Key, "Previous window"},
			{r.keys.Next.Help().Key, "Next window"},
			{r.keys.First.Help().Key, "First window"},
			{r.keys.Last.Help().Key, "Last window"},
		}},
		{"Other", [][2]string{
			{r.keys.Frames.Help().Key, "Page every window"},
			{r.keys.Reload.Help().Key, "Reload configuration"},
			{r.keys.Help.Help().Key, "Toggle this help"},
			{r.keys.Quit.Help().Key, "Quit"},
		}},
	}
	for i, s := range sections {
		if i > 0 {
			help.WriteString("\n")
		}
		help.WriteString(sectionStyle.Render(s.name))
		help.WriteString("\n")
		for _, b := range s.bindings {
			help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(b[0]), descStyle.Render(b[1])))
		}
	}

	return strings.TrimRight(help.String(), "\n")
}

// PagerOps runs content through the ov pager
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps(program *tea.Program) *PagerOps {
	return &PagerOps{
		program: program,
	}
}

// ShowInPager hands the terminal to ov until the user quits it
func (h *PagerOps) ShowInPager(content string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal() // Ignore error as we're in defer context
	}()

	return Page(strings.NewReader(content))
}

// Page shows r in ov. It takes over the terminal until the user quits.
func Page(r io.Reader) error {
	root, err := oviewer.NewRoot(r)
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
