package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"

	"carousel/internal/breakpoint"
	"carousel/internal/domain"
	"carousel/internal/eventbus"
)

const (
	// FileName is the config file name inside the config directory
	FileName = "config.toml"
	// DefaultDividerColor is the theme divider colour
	DefaultDividerColor = "#3C3C3C"
	// DefaultCellWidthPx converts terminal cells to px
	DefaultCellWidthPx = 8
	currentVersion     = 1
)

// ErrNotFound is returned when a config file does not exist
var ErrNotFound = errors.New("config file not found")

// Config represents the application configuration
type Config struct {
	Version  int           `toml:"version"`
	Carousel Carousel      `toml:"carousel"`
	Log      LogSettings   `toml:"log"`
	Items    []domain.Item `toml:"items"`
}

// Carousel holds the engine and presentation settings
type Carousel struct {
	GapPx             int                `toml:"gap_px"`
	StepSize          int                `toml:"step_size"`
	NavigationEnabled bool               `toml:"navigation_enabled"`
	DividerEnabled    bool               `toml:"divider_enabled"`
	DividerColor      string             `toml:"divider_color"`
	NavPosition       domain.NavPosition `toml:"nav_position"`
	CellWidthPx       int                `toml:"cell_width_px"`
	Tiers             []Tier             `toml:"tiers"`
}

// Tier is a breakpoint tier as written in the file
type Tier struct {
	Name     string  `toml:"name"`
	MinWidth float64 `toml:"min_width"`
	MaxWidth float64 `toml:"max_width,omitempty"`
	// Visible of 0 falls back to the next smaller tier
	Visible int `toml:"visible,omitempty"`
}

// LogSettings represents logging configuration
type LogSettings struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Service handles configuration management
type Service interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// service is the concrete implementation
type service struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns $XDG_CONFIG_HOME/carousel/config.toml
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "carousel", FileName)
}

// NewService creates a config service for the default path
func NewService() Service {
	return &service{filePath: DefaultPath()}
}

// NewServiceWithBus creates a config service for path that publishes on bus
func NewServiceWithBus(bus eventbus.EventBus, path string) Service {
	if path == "" {
		path = DefaultPath()
	}
	return &service{bus: bus, filePath: path}
}

// Path returns the file the service loads from and saves to
func (s *service) Path() string {
	return s.filePath
}

// Load loads the configuration from file. A missing file yields the defaults.
func (s *service) Load() (*Config, error) {
	cfg, err := s.LoadFromPath(s.filePath)
	if errors.Is(err, ErrNotFound) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:      s.filePath,
			ItemCount: len(cfg.Items),
		})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (s *service) Save(config *Config) error {
	if err := s.SaveToPath(config, s.filePath); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Publish(eventbus.ConfigSavedEvent{Path: s.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path.
// Values missing from the file keep their defaults.
func (s *service) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (s *service) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Marshal(config)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Parse decodes TOML over the defaults
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	// lists from the file replace the defaults instead of extending them
	cfg.Carousel.Tiers = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Carousel.Tiers == nil {
		cfg.Carousel.Tiers = tiersFrom(breakpoint.DefaultTiers())
	}
	if cfg.Items == nil {
		cfg.Items = []domain.Item{}
	}
	return cfg, nil
}

// Marshal encodes cfg as TOML
func Marshal(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: currentVersion,
		Carousel: Carousel{
			GapPx:             16,
			StepSize:          1,
			NavigationEnabled: true,
			DividerEnabled:    false,
			DividerColor:      DefaultDividerColor,
			NavPosition:       domain.NavInside,
			CellWidthPx:       DefaultCellWidthPx,
			Tiers:             tiersFrom(breakpoint.DefaultTiers()),
		},
		Log: LogSettings{
			Level: "info",
			File:  filepath.Join(xdg.StateHome, "carousel", "carousel.log"),
		},
		Items: []domain.Item{},
	}
}

// Normalize applies the input conventions in place and returns a description
// of every value it had to correct.
func (c *Config) Normalize() []string {
	var fixes []string
	cc := &c.Carousel

	if cc.GapPx < 0 {
		fixes = append(fixes, fmt.Sprintf("gap_px %d < 0, using 0", cc.GapPx))
		cc.GapPx = 0
	}
	if cc.StepSize < 1 {
		fixes = append(fixes, fmt.Sprintf("step_size %d < 1, using 1", cc.StepSize))
		cc.StepSize = 1
	}
	if cc.CellWidthPx < 1 {
		fixes = append(fixes, fmt.Sprintf("cell_width_px %d < 1, using %d", cc.CellWidthPx, DefaultCellWidthPx))
		cc.CellWidthPx = DefaultCellWidthPx
	}
	if !cc.NavPosition.Valid() {
		fixes = append(fixes, fmt.Sprintf("nav_position %q unknown, using %q", cc.NavPosition, domain.NavInside))
		cc.NavPosition = domain.NavInside
	}
	if !ValidColor(cc.DividerColor) {
		fixes = append(fixes, fmt.Sprintf("divider_color %q invalid, using %q", cc.DividerColor, DefaultDividerColor))
		cc.DividerColor = DefaultDividerColor
	}
	if len(cc.Tiers) == 0 {
		fixes = append(fixes, "no tiers configured, using defaults")
		cc.Tiers = tiersFrom(breakpoint.DefaultTiers())
	}
	for i := range cc.Tiers {
		t := &cc.Tiers[i]
		if t.Name == "" {
			t.Name = "tier-" + strconv.Itoa(i)
			fixes = append(fixes, fmt.Sprintf("tier %d has no name, using %q", i, t.Name))
		}
		if t.Visible < 0 {
			fixes = append(fixes, fmt.Sprintf("tier %q visible %d < 0, falling back", t.Name, t.Visible))
			t.Visible = 0
		}
	}
	seen := make(map[string]bool, len(cc.Tiers))
	for i := range cc.Tiers {
		t := &cc.Tiers[i]
		if seen[t.Name] {
			name := t.Name
			for n := 2; seen[t.Name]; n++ {
				t.Name = name + "-" + strconv.Itoa(n)
			}
			fixes = append(fixes, fmt.Sprintf("tier %d duplicates name %q, using %q", i, name, t.Name))
		}
		seen[t.Name] = true
	}
	if c.Items == nil {
		c.Items = []domain.Item{}
	}
	return fixes
}

// BreakpointTiers converts the file tiers for the resolver
func (c *Carousel) BreakpointTiers() []breakpoint.Tier {
	out := make([]breakpoint.Tier, 0, len(c.Tiers))
	for _, t := range c.Tiers {
		out = append(out, breakpoint.Tier{
			Name:     t.Name,
			MinWidth: t.MinWidth,
			MaxWidth: t.MaxWidth,
			Visible:  t.Visible,
		})
	}
	return out
}

// ValidColor accepts hex colours (#rgb, #rrggbb) and ANSI colour numbers 0-255
func ValidColor(s string) bool {
	if s == "" {
		return false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n >= 0 && n <= 255
	}
	_, err := colorful.Hex(s)
	return err == nil
}

func tiersFrom(tiers []breakpoint.Tier) []Tier {
	out := make([]Tier, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, Tier{Name: t.Name, MinWidth: t.MinWidth, MaxWidth: t.MaxWidth, Visible: t.Visible})
	}
	return out
}
