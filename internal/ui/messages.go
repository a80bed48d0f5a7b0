package ui

import (
	"carousel/internal/config"
	"carousel/internal/engine"
	"carousel/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// resizedMsg carries a container width observed off the update loop
type resizedMsg engine.ResizedMsg

// configChangedMsg signals that the config file changed on disk
type configChangedMsg struct {
	path string
}

// configReloadedMsg contains the result of reloading the config file
type configReloadedMsg struct {
	cfg *config.Config
	err error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
