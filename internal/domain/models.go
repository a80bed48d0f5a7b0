package domain

// Item is one catalog card shown in the carousel
type Item struct {
	Title string `toml:"title"`
	Body  string `toml:"body"`
	Tag   string `toml:"tag,omitempty"`
}

// NavPosition places the previous/next controls
type NavPosition string

const (
	NavInside  NavPosition = "inside"
	NavOutside NavPosition = "outside"
)

// Valid reports whether p is a known position
func (p NavPosition) Valid() bool {
	return p == NavInside || p == NavOutside
}
