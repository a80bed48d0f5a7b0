// Package layout provides pure functions for carousel track dimensions.
// All values are in px.
package layout

import "math"

// MinItemWidthPx is the narrowest an item is ever laid out.
// Below it the track overflows instead of shrinking further.
const MinItemWidthPx = 50

// Input contains the parameters needed to lay out the track.
type Input struct {
	ContainerWidthPx float64
	VisibleCount     int
	GapPx            int
	ItemCount        int
	ClampedIndex     int
}

// Layout is the derived geometry of the track.
type Layout struct {
	ItemWidthPx  float64
	TrackWidthPx float64
	TranslateXPx float64
}

// Calculate derives the item width, track width and offset in one pass.
func Calculate(in Input) Layout {
	item := ItemWidth(in.ContainerWidthPx, in.VisibleCount, in.GapPx)
	return Layout{
		ItemWidthPx:  item,
		TrackWidthPx: TrackWidth(item, in.GapPx, in.ItemCount),
		TranslateXPx: TranslateX(in.ClampedIndex, item, in.GapPx),
	}
}

// ItemWidth splits the container between visibleCount items separated by gapPx.
// Returns 0 while the container has not been measured (width <= 0) or when
// visibleCount is not positive.
func ItemWidth(containerWidthPx float64, visibleCount, gapPx int) float64 {
	if containerWidthPx <= 0 || visibleCount <= 0 {
		return 0
	}
	totalGap := float64(gapPx * (visibleCount - 1))
	available := containerWidthPx - totalGap
	raw := math.Floor(available / float64(visibleCount))
	return math.Max(MinItemWidthPx, raw)
}

// TrackWidth is the width of the full strip of itemCount items.
func TrackWidth(itemWidthPx float64, gapPx, itemCount int) float64 {
	if itemCount <= 0 {
		return 0
	}
	w := (itemWidthPx+float64(gapPx))*float64(itemCount) - float64(gapPx)
	return math.Max(0, w)
}

// Stride is the distance between the left edges of two neighbouring items.
func Stride(itemWidthPx float64, gapPx int) float64 {
	return itemWidthPx + float64(gapPx)
}

// TranslateX is the horizontal offset of the track for the clamped index.
func TranslateX(clampedIndex int, itemWidthPx float64, gapPx int) float64 {
	if clampedIndex <= 0 {
		return 0
	}
	return -(float64(clampedIndex) * Stride(itemWidthPx, gapPx))
}
