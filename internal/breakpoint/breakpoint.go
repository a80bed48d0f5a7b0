// Package breakpoint maps a viewport width to a named tier and a visible-item count.
package breakpoint

import "sort"

// Default tier thresholds in px.
const (
	SmallWidth  = 576
	MediumWidth = 768
	LargeWidth  = 992
)

// Tier is a named viewport-width category.
type Tier struct {
	Name string
	// MinWidth is the inclusive lower bound of the tier.
	MinWidth float64
	// MaxWidth is the exclusive upper bound. Zero means unbounded ("and up").
	MaxWidth float64
	// Visible is the number of items shown in this tier. Zero means not configured.
	Visible int
}

// Matches reports whether width falls inside the tier's range.
func (t Tier) Matches(width float64) bool {
	if width < t.MinWidth {
		return false
	}
	return t.MaxWidth <= 0 || width < t.MaxWidth
}

// DefaultTiers returns xs:1, sm:2, md:3, lg:4.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "xs", MinWidth: 0, Visible: 1},
		{Name: "sm", MinWidth: SmallWidth, Visible: 2},
		{Name: "md", MinWidth: MediumWidth, Visible: 3},
		{Name: "lg", MinWidth: LargeWidth, Visible: 4},
	}
}

// Resolver resolves the active tier for a width.
// Tiers are kept narrowest to widest and evaluated widest first.
type Resolver struct {
	tiers []Tier
}

// NewResolver creates a resolver. An empty list falls back to DefaultTiers.
func NewResolver(tiers []Tier) *Resolver {
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinWidth < sorted[j].MinWidth
	})
	return &Resolver{tiers: sorted}
}

// Tiers returns the tiers ordered narrowest to widest.
func (r *Resolver) Tiers() []Tier {
	out := make([]Tier, len(r.tiers))
	copy(out, r.tiers)
	return out
}

// Priority returns the evaluation order: widest tier first.
func (r *Resolver) Priority() []Tier {
	out := make([]Tier, 0, len(r.tiers))
	for i := len(r.tiers) - 1; i >= 0; i-- {
		out = append(out, r.tiers[i])
	}
	return out
}

// Resolve returns the single active tier for width. The widest matching tier wins.
// A width below every tier resolves to the narrowest one.
func (r *Resolver) Resolve(width float64) Tier {
	for _, t := range r.Priority() {
		if t.Matches(width) {
			return t
		}
	}
	return r.tiers[0]
}

// ByName returns the tier with the given name.
func (r *Resolver) ByName(name string) (Tier, bool) {
	for _, t := range r.tiers {
		if t.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}

// VisibleCount returns the item count for tier, cascading to the next-smaller
// configured tier and finally to 1.
func (r *Resolver) VisibleCount(tier Tier) int {
	if tier.Visible >= 1 {
		return tier.Visible
	}
	idx := r.indexOf(tier)
	for i := idx - 1; i >= 0; i-- {
		if r.tiers[i].Visible >= 1 {
			return r.tiers[i].Visible
		}
	}
	return 1
}

// VisibleFor resolves width and returns the active tier with its count.
func (r *Resolver) VisibleFor(width float64) (Tier, int) {
	t := r.Resolve(width)
	return t, r.VisibleCount(t)
}

// indexOf matches the whole tier so tiers sharing a name keep their own position
func (r *Resolver) indexOf(tier Tier) int {
	for i, t := range r.tiers {
		if t == tier {
			return i
		}
	}
	return 0
}
