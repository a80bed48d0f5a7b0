package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"carousel/internal/config"
	"carousel/internal/engine"
	"carousel/internal/eventbus"
	"carousel/internal/ui/views"
)

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	cfgSvc config.Service
	logger *zap.Logger

	engine *engine.Engine
	pane   *Pane

	// UI-specific state
	width       int
	height      int
	keys        KeyMap
	help        help.Model
	showHelp    bool
	inPagerMode bool // tracks if we're currently in pager mode
	status      string
	statusErr   bool

	renderer     *views.Renderer
	helpRenderer *HelpRenderer
	watcher      *config.Watcher

	ctx    context.Context
	cancel context.CancelFunc

	// Program reference for terminal management
	program *tea.Program
	pager   *PagerOps
}

// Option configures a Model
type Option func(*Model)

// WithBus publishes engine events on bus
func WithBus(bus eventbus.EventBus) Option {
	return func(m *Model) {
		m.bus = bus
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithConfigService enables reloading the configuration from disk
func WithConfigService(svc config.Service) Option {
	return func(m *Model) {
		m.cfgSvc = svc
	}
}

// WithWatcher reloads the configuration whenever w reports a change
func WithWatcher(w *config.Watcher) Option {
	return func(m *Model) {
		m.watcher = w
	}
}

// NewModel creates a new UI model and mounts the carousel on its pane
func NewModel(cfg *config.Config, opts ...Option) (*Model, error) {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		config: cfg,
		logger: zap.NewNop(),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.Named("ui")

	for _, fix := range cfg.Normalize() {
		m.logger.Warn("config corrected", zap.String("fix", fix))
	}

	m.helpRenderer = NewHelpRenderer(m.keys)
	m.renderer = views.NewRenderer(cfg.Carousel.DividerColor)
	m.pane = NewPane(cfg.Carousel.CellWidthPx)

	engineOpts := []engine.Option{
		engine.WithLogger(m.logger),
		engine.WithIndexChange(m.indexChanged),
	}
	if m.bus != nil {
		engineOpts = append(engineOpts, engine.WithBus(m.bus))
	}
	m.engine = engine.New(EngineConfig(cfg), engineOpts...)
	if err := m.engine.Mount(m.pane); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to mount carousel: %w", err)
	}
	return m, nil
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

// Engine returns the carousel engine
func (m *Model) Engine() *engine.Engine {
	return m.engine
}

// Close unmounts the carousel and stops background commands
func (m *Model) Close() {
	m.cancel()
	m.engine.Unmount()
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForResize(), m.waitForConfigChange())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizePane()

	case resizedMsg:
		if m.engine.ApplyResize(engine.ResizedMsg(msg)) {
			m.logger.Debug("container resized", zap.Float64("widthPx", msg.WidthPx))
		}
		return m, m.waitForResize()

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}
		return m, m.handleKey(msg)

	case configChangedMsg:
		m.logger.Info("config file changed", zap.String("path", msg.path))
		return m, tea.Batch(m.reloadConfig(msg.path), m.waitForConfigChange())

	case configReloadedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Config reload failed: %v", msg.err))
			m.logger.Warn("config reload failed", zap.Error(msg.err))
			return m, nil
		}
		m.applyConfig(msg.cfg)

	case pagerMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Pager failed: %v", msg.err))
		}

	case pauseRenderingMsg:
		m.inPagerMode = true

	case resumeRenderingMsg:
		m.inPagerMode = false

	case EventMsg:
		m.handleEvent(msg.Event)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case m.showHelp && msg.String() == "esc":
		m.toggleHelp()
	case key.Matches(msg, m.keys.Help):
		m.toggleHelp()
	case key.Matches(msg, m.keys.Previous):
		m.engine.Previous()
	case key.Matches(msg, m.keys.Next):
		m.engine.Next()
	case key.Matches(msg, m.keys.First):
		m.engine.First()
	case key.Matches(msg, m.keys.Last):
		m.engine.Last()
	case key.Matches(msg, m.keys.Reload):
		if m.cfgSvc != nil {
			return m.reloadConfig(m.cfgSvc.Path())
		}
	case key.Matches(msg, m.keys.Frames):
		return m.showFrames()
	}
	return nil
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	state := viewState(m.config, m.engine.ViewModel(), m.width, m.height, m.pane.Cells())
	state.StatusMessage = m.status
	state.StatusIsError = m.statusErr
	state.HelpView = m.help.View(m.keys)
	state.ShowHelp = m.showHelp
	state.HelpContent = m.helpRenderer.RenderHelpContent()
	return m.renderer.Render(state)
}

func (m *Model) toggleHelp() {
	m.showHelp = !m.showHelp
	m.help.ShowAll = m.showHelp
}

// resizePane pushes the terminal size to the engine and the observed pane
func (m *Model) resizePane() {
	cell := m.config.Carousel.CellWidthPx
	m.engine.SetViewportWidth(float64(m.width * cell))
	// the pane notifies the observer; the width arrives as a resizedMsg
	m.pane.Resize(m.width, ReservedCells(m.config), cell)
}

// applyConfig adopts a reloaded configuration without resetting navigation
func (m *Model) applyConfig(cfg *config.Config) {
	for _, fix := range cfg.Normalize() {
		m.logger.Warn("config corrected", zap.String("fix", fix))
	}
	m.config = cfg
	m.engine.SetConfig(EngineConfig(cfg))
	m.renderer.SetDividerColor(cfg.Carousel.DividerColor)
	m.resizePane()
	m.setStatus(fmt.Sprintf("Config reloaded: %d items", len(cfg.Items)))
}

func (m *Model) indexChanged(clamped int) {
	m.status = ""
	m.logger.Debug("index changed", zap.Int("index", clamped))
}

// handleEvent turns forwarded bus events into status messages. Reloads report
// through configReloadedMsg, so only saves and errors arrive here.
func (m *Model) handleEvent(ev eventbus.DomainEvent) {
	switch e := ev.(type) {
	case eventbus.ConfigSavedEvent:
		m.setStatus(fmt.Sprintf("Saved %s", e.Path))
	case eventbus.ErrorEvent:
		m.setError(e.Message)
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

// waitForResize returns a command that delivers the next container width
func (m *Model) waitForResize() tea.Cmd {
	eng, ctx := m.engine, m.ctx
	return func() tea.Msg {
		msg, err := eng.WaitResize(ctx)
		if err != nil {
			return nil
		}
		return resizedMsg(msg)
	}
}

// waitForConfigChange returns a command that delivers the next config file change
func (m *Model) waitForConfigChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	w, ctx := m.watcher, m.ctx
	return func() tea.Msg {
		select {
		case path := <-w.Changes():
			return configChangedMsg{path: path}
		case <-ctx.Done():
			return nil
		}
	}
}

// reloadConfig returns a command that reads the config file at path
func (m *Model) reloadConfig(path string) tea.Cmd {
	svc := m.cfgSvc
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, err := svc.LoadFromPath(path)
		return configReloadedMsg{cfg: cfg, err: err}
	}
}

// showFrames returns a command that pages every window position through ov
func (m *Model) showFrames() tea.Cmd {
	content, err := Frames(m.config, m.width, m.logger)
	if err != nil {
		m.setError(err.Error())
		return nil
	}
	if m.program == nil {
		m.setError("Pager unavailable")
		return nil
	}
	program, pager := m.program, m.pager
	return func() tea.Msg {
		// Send pause message to stop rendering
		program.Send(pauseRenderingMsg{})

		err := pager.ShowInPager(content)

		// Send resume message to restart rendering
		program.Send(resumeRenderingMsg{})

		return pagerMsg{err: err}
	}
}
