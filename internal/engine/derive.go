// Package engine composes breakpoint resolution, layout, navigation and divider
// placement into the view model a renderer consumes.
package engine

import (
	"carousel/internal/breakpoint"
	"carousel/internal/divider"
	"carousel/internal/domain"
	"carousel/internal/layout"
	"carousel/internal/navigation"
)

// Config is one revision of the carousel configuration
type Config struct {
	ItemCount         int
	GapPx             int
	StepSize          int
	Tiers             []breakpoint.Tier
	NavigationEnabled bool
	DividerEnabled    bool
	DividerColor      string
	NavPosition       domain.NavPosition
}

// DefaultConfig returns a configuration with no items, a 16px gap and the default tiers
func DefaultConfig() Config {
	return Config{
		GapPx:             16,
		StepSize:          1,
		Tiers:             breakpoint.DefaultTiers(),
		NavigationEnabled: true,
		NavPosition:       domain.NavInside,
	}
}

// Normalized returns c with out-of-range values replaced
func (c Config) Normalized() Config {
	c.ItemCount = max(0, c.ItemCount)
	c.GapPx = max(0, c.GapPx)
	c.StepSize = max(1, c.StepSize)
	if !c.NavPosition.Valid() {
		c.NavPosition = domain.NavInside
	}
	if len(c.Tiers) == 0 {
		c.Tiers = breakpoint.DefaultTiers()
	}
	return c
}

// Viewport is the observed environment
type Viewport struct {
	// WidthPx selects the breakpoint tier
	WidthPx float64
	// Breakpoint names a tier directly and takes precedence over WidthPx
	Breakpoint string
	// ContainerWidthPx is the measured width of the host element, 0 until measured
	ContainerWidthPx float64
}

// ViewModel is everything a renderer needs for one frame
type ViewModel struct {
	ItemWidthPx    float64
	TrackWidthPx   float64
	TranslateXPx   float64
	VisibleCount   int
	ClampedIndex   int
	MaxIndex       int
	CanGoPrevious  bool
	CanGoNext      bool
	ShowNavigation bool
	Breakpoint     string
	// WindowStart and WindowEnd bound the visible items, end exclusive
	WindowStart  int
	WindowEnd    int
	DividerFlags []bool
}

// Derive computes the view model from scratch. It only reads nav.RawIndex, so the
// result does not depend on the bounds the caller last used.
func Derive(cfg Config, vp Viewport, nav navigation.State) ViewModel {
	cfg = cfg.Normalized()
	res := breakpoint.NewResolver(cfg.Tiers)
	return derive(cfg, res, vp, nav.RawIndex)
}

func derive(cfg Config, res *breakpoint.Resolver, vp Viewport, raw int) ViewModel {
	tier := resolveTier(res, vp)
	visible := res.VisibleCount(tier)

	maxIndex := navigation.MaxIndex(cfg.ItemCount, visible)
	clamped := navigation.Clamp(raw, maxIndex)

	geo := layout.Calculate(layout.Input{
		ContainerWidthPx: vp.ContainerWidthPx,
		VisibleCount:     visible,
		GapPx:            cfg.GapPx,
		ItemCount:        cfg.ItemCount,
		ClampedIndex:     clamped,
	})

	return ViewModel{
		ItemWidthPx:    geo.ItemWidthPx,
		TrackWidthPx:   geo.TrackWidthPx,
		TranslateXPx:   geo.TranslateXPx,
		VisibleCount:   visible,
		ClampedIndex:   clamped,
		MaxIndex:       maxIndex,
		CanGoPrevious:  clamped > 0,
		CanGoNext:      clamped < maxIndex,
		ShowNavigation: cfg.NavigationEnabled && maxIndex > 0,
		Breakpoint:     tier.Name,
		WindowStart:    clamped,
		WindowEnd:      divider.LastVisible(clamped, visible, cfg.ItemCount) + 1,
		DividerFlags:   divider.Flags(cfg.DividerEnabled, clamped, visible, cfg.ItemCount),
	}
}

func resolveTier(res *breakpoint.Resolver, vp Viewport) breakpoint.Tier {
	if vp.Breakpoint != "" {
		if t, ok := res.ByName(vp.Breakpoint); ok {
			return t
		}
	}
	return res.Resolve(vp.WidthPx)
}
