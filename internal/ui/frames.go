package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"carousel/internal/config"
	"carousel/internal/domain"
	"carousel/internal/engine"
	"carousel/internal/ui/views"
)

// EngineConfig maps the file configuration onto an engine revision
func EngineConfig(cfg *config.Config) engine.Config {
	c := cfg.Carousel
	return engine.Config{
		ItemCount:         len(cfg.Items),
		GapPx:             c.GapPx,
		StepSize:          c.StepSize,
		Tiers:             c.BreakpointTiers(),
		NavigationEnabled: c.NavigationEnabled,
		DividerEnabled:    c.DividerEnabled,
		DividerColor:      c.DividerColor,
		NavPosition:       c.NavPosition,
	}
}

// ReservedCells is the width taken from the track by outside nav gutters
func ReservedCells(cfg *config.Config) int {
	if cfg.Carousel.NavigationEnabled && cfg.Carousel.NavPosition == domain.NavOutside {
		return 2 * views.GutterCells
	}
	return 0
}

// viewState builds the renderer input for one frame
func viewState(cfg *config.Config, vm engine.ViewModel, cols, rows, containerCells int) views.ViewState {
	return views.ViewState{
		Width:             cols,
		Height:            rows,
		ContainerCells:    containerCells,
		CellWidthPx:       cfg.Carousel.CellWidthPx,
		GapPx:             cfg.Carousel.GapPx,
		DividerEnabled:    cfg.Carousel.DividerEnabled,
		NavigationEnabled: cfg.Carousel.NavigationEnabled,
		NavPosition:       cfg.Carousel.NavPosition,
		Items:             cfg.Items,
		VM:                vm,
	}
}

// Frames renders the track at every window position for a terminal cols wide
func Frames(cfg *config.Config, cols int, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pane := NewPane(cfg.Carousel.CellWidthPx)
	pane.Resize(cols, ReservedCells(cfg), cfg.Carousel.CellWidthPx)

	eng := engine.New(EngineConfig(cfg), engine.WithLogger(logger))
	eng.SetViewportWidth(float64(cols * cfg.Carousel.CellWidthPx))
	if err := eng.Mount(pane); err != nil {
		return "", fmt.Errorf("failed to mount carousel: %w", err)
	}
	defer eng.Unmount()

	renderer := views.NewRenderer(cfg.Carousel.DividerColor)
	var out strings.Builder

	vm := eng.ViewModel()
	for i := 0; i <= vm.MaxIndex; i++ {
		eng.SetIndex(i)
		vm = eng.ViewModel()

		header := fmt.Sprintf("window %d/%d  items %d-%d of %d  translateX %.0fpx",
			i+1, vm.MaxIndex+1, vm.WindowStart+1, vm.WindowEnd, len(cfg.Items), vm.TranslateXPx)
		out.WriteString(renderer.Styles().Title.Render(header))
		out.WriteString("\n")
		for _, line := range renderer.RenderTrack(viewState(cfg, vm, cols, 0, pane.Cells())) {
			out.WriteString(line)
			out.WriteString("\n")
		}
		out.WriteString("\n")
	}
	logger.Debug("rendered frames", zap.Int("count", vm.MaxIndex+1), zap.Int("cols", cols))
	return out.String(), nil
}
