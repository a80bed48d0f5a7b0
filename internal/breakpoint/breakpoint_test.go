package breakpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDefaults(t *testing.T) {
	r := NewResolver(nil)

	tests := []struct {
		name        string
		width       float64
		wantTier    string
		wantVisible int
	}{
		{name: "zero width", width: 0, wantTier: "xs", wantVisible: 1},
		{name: "just below sm", width: 575, wantTier: "xs", wantVisible: 1},
		{name: "exact sm", width: 576, wantTier: "sm", wantVisible: 2},
		{name: "md", width: 800, wantTier: "md", wantVisible: 3},
		{name: "exact lg", width: 992, wantTier: "lg", wantVisible: 4},
		{name: "very wide", width: 4000, wantTier: "lg", wantVisible: 4},
		{name: "negative", width: -10, wantTier: "xs", wantVisible: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, visible := r.VisibleFor(tt.width)
			assert.Equal(t, tt.wantTier, tier.Name)
			assert.Equal(t, tt.wantVisible, visible)
		})
	}
}

func TestResolveWidestMatchWins(t *testing.T) {
	// md and lg are both "and up" tiers; 1000 matches both.
	r := NewResolver([]Tier{
		{Name: "sm", MinWidth: 500, Visible: 2},
		{Name: "md", MinWidth: 700, Visible: 3},
		{Name: "lg", MinWidth: 900, Visible: 4},
	})

	assert.True(t, r.tiers[1].Matches(1000))
	assert.True(t, r.tiers[2].Matches(1000))

	tier, visible := r.VisibleFor(1000)
	assert.Equal(t, "lg", tier.Name)
	assert.Equal(t, 4, visible)
}

func TestPriorityIsWidestFirst(t *testing.T) {
	r := NewResolver([]Tier{
		{Name: "lg", MinWidth: 992},
		{Name: "xs", MinWidth: 0},
		{Name: "md", MinWidth: 768},
	})

	var names []string
	for _, tier := range r.Priority() {
		names = append(names, tier.Name)
	}
	assert.Equal(t, []string{"lg", "md", "xs"}, names)
}

func TestBoundedTier(t *testing.T) {
	r := NewResolver([]Tier{
		{Name: "xs", MinWidth: 0, Visible: 1},
		{Name: "tablet", MinWidth: 600, MaxWidth: 900, Visible: 2},
		{Name: "desk", MinWidth: 1200, Visible: 5},
	})

	assert.Equal(t, "tablet", r.Resolve(650).Name)
	// 1000 is past tablet's max and below desk.
	assert.Equal(t, "xs", r.Resolve(1000).Name)
	assert.Equal(t, "desk", r.Resolve(1200).Name)
}

func TestVisibleCountFallback(t *testing.T) {
	tests := []struct {
		name  string
		tiers []Tier
		width float64
		want  int
	}{
		{
			name: "missing count uses next smaller tier",
			tiers: []Tier{
				{Name: "xs", MinWidth: 0, Visible: 1},
				{Name: "sm", MinWidth: 576, Visible: 2},
				{Name: "md", MinWidth: 768},
			},
			width: 800,
			want:  2,
		},
		{
			name: "cascade skips several empty tiers",
			tiers: []Tier{
				{Name: "xs", MinWidth: 0, Visible: 3},
				{Name: "sm", MinWidth: 576},
				{Name: "md", MinWidth: 768},
				{Name: "lg", MinWidth: 992},
			},
			width: 2000,
			want:  3,
		},
		{
			name: "nothing configured falls back to one",
			tiers: []Tier{
				{Name: "xs", MinWidth: 0},
				{Name: "lg", MinWidth: 992},
			},
			width: 1000,
			want:  1,
		},
		{
			name: "negative count treated as missing",
			tiers: []Tier{
				{Name: "xs", MinWidth: 0, Visible: 2},
				{Name: "lg", MinWidth: 992, Visible: -4},
			},
			width: 1000,
			want:  2,
		},
		{
			name: "shared name cascades from resolved position",
			tiers: []Tier{
				{Name: "edge", MinWidth: 0, Visible: 1},
				{Name: "sm", MinWidth: 576, Visible: 2},
				{Name: "edge", MinWidth: 768},
			},
			width: 800,
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := NewResolver(tt.tiers).VisibleFor(tt.width)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestByName(t *testing.T) {
	r := NewResolver(nil)

	tier, ok := r.ByName("md")
	assert.True(t, ok)
	assert.Equal(t, 3, r.VisibleCount(tier))

	_, ok = r.ByName("xxl")
	assert.False(t, ok)
}

func TestNewResolverCopiesInput(t *testing.T) {
	in := DefaultTiers()
	r := NewResolver(in)
	in[0].Visible = 99

	tier, _ := r.ByName("xs")
	assert.Equal(t, 1, tier.Visible)
}
