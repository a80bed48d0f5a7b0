package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventIndexChanged      EventType = "IndexChanged"
	EventLayoutChanged     EventType = "LayoutChanged"
	EventBreakpointChanged EventType = "BreakpointChanged"
	EventConfigApplied     EventType = "ConfigApplied"
	EventConfigLoaded      EventType = "ConfigLoaded"
	EventConfigSaved       EventType = "ConfigSaved"
	EventConfigChanged     EventType = "ConfigChanged"
	EventError             EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// IndexChangedEvent is emitted when the clamped index changes value
type IndexChangedEvent struct {
	OldIndex int
	NewIndex int
}

func (e IndexChangedEvent) Type() EventType { return EventIndexChanged }

// LayoutChangedEvent is emitted when item geometry is recomputed to a new value
type LayoutChangedEvent struct {
	ContainerWidthPx float64
	ItemWidthPx      float64
	VisibleCount     int
}

func (e LayoutChangedEvent) Type() EventType { return EventLayoutChanged }

// BreakpointChangedEvent is emitted when a different tier becomes active
type BreakpointChangedEvent struct {
	From string
	To   string
}

func (e BreakpointChangedEvent) Type() EventType { return EventBreakpointChanged }

// ConfigAppliedEvent is emitted when an engine adopts a new configuration
type ConfigAppliedEvent struct {
	ItemCount int
	GapPx     int
	StepSize  int
}

func (e ConfigAppliedEvent) Type() EventType { return EventConfigApplied }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path      string
	ItemCount int
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ConfigChangedEvent is emitted when the config file changes on disk
type ConfigChangedEvent struct {
	Path string
}

func (e ConfigChangedEvent) Type() EventType { return EventConfigChanged }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
