package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"carousel/internal/config"
	"carousel/internal/engine"
	"carousel/internal/eventbus"
	"carousel/internal/logging"
	"carousel/internal/observer"
	"carousel/internal/ui"
)

var (
	version = "0.3.0"

	configFlag   string
	logLevelFlag string
	logFileFlag  string

	widthFlag   int
	noPagerFlag bool
	initFlag    bool

	rootCmd = &cobra.Command{
		Use:           "carousel",
		Short:         "carousel - browse a catalog of items through a responsive sliding window",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context())
		},
	}

	framesCmd = &cobra.Command{
		Use:   "frames",
		Short: "Render the track at every window position",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadHeadless()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			cols := widthFlag
			if cols <= 0 {
				cols = terminalWidth()
			}
			out, err := ui.Frames(cfg, cols, logger)
			if err != nil {
				return err
			}
			if noPagerFlag || !term.IsTerminal(int(os.Stdout.Fd())) {
				fmt.Print(out)
				return nil
			}
			return ui.Page(strings.NewReader(out))
		},
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Print the layout each time the terminal is resized",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadHeadless()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchLayout(ctx, cfg, logger)
		},
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the config file path and its effective contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := config.NewServiceWithBus(nil, configPath())
			if initFlag {
				if _, err := os.Stat(svc.Path()); err == nil {
					return fmt.Errorf("config already exists at %s", svc.Path())
				}
				if err := svc.Save(config.DefaultConfig()); err != nil {
					return err
				}
				fmt.Printf("Wrote default config to %s\n", svc.Path())
				return nil
			}

			cfg, err := svc.Load()
			if err != nil {
				return err
			}
			for _, fix := range cfg.Normalize() {
				fmt.Fprintf(os.Stderr, "warning: %s\n", fix)
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Printf("# %s\n%s", svc.Path(), data)
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of carousel",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("carousel version %s\n", version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to the config file (default: XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Log file path (overrides the config)")

	framesCmd.Flags().IntVarP(&widthFlag, "width", "w", 0, "Terminal width in cells (default: current terminal)")
	framesCmd.Flags().BoolVar(&noPagerFlag, "no-pager", false, "Write to stdout instead of the pager")
	configCmd.Flags().BoolVar(&initFlag, "init", false, "Write the default config if none exists")

	rootCmd.AddCommand(framesCmd, watchCmd, configCmd, versionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func configPath() string {
	if configFlag != "" {
		return configFlag
	}
	return config.DefaultPath()
}

// newLogger builds the logger from the config's log settings and the flags
func newLogger(cfg *config.Config, console bool) *zap.Logger {
	opts := logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}
	if logLevelFlag != "" {
		opts.Level = logLevelFlag
	}
	if logFileFlag != "" {
		opts.File = logFileFlag
	}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Could not create log directory: %v\n", err)
			opts.File = ""
		}
	}
	if console {
		opts.Console = os.Stderr
	}
	return logging.New(opts)
}

// loadHeadless loads the config for commands that write to stdout
func loadHeadless() (*config.Config, *zap.Logger, error) {
	cfg, err := config.NewServiceWithBus(nil, configPath()).Load()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg, logLevelFlag != "")
	for _, fix := range cfg.Normalize() {
		logger.Warn("config corrected", zap.String("fix", fix))
	}
	return cfg, logger, nil
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 120
}

func runTUI(ctx context.Context) error {
	path := configPath()

	// the log settings live in the config, so read it once before the bus exists
	bootCfg, err := config.NewServiceWithBus(nil, path).Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(bootCfg, false)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := eventbus.New(logger)
	defer bus.Close()

	cfgSvc := config.NewServiceWithBus(bus, path)
	cfg, err := cfgSvc.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := []ui.Option{
		ui.WithBus(bus),
		ui.WithLogger(logger),
		ui.WithConfigService(cfgSvc),
	}

	watcher, err := config.NewWatcher(path, bus, logger)
	if err != nil {
		// the directory may not exist yet; the carousel still runs without live reload
		logger.Warn("config watcher unavailable", zap.Error(err))
	} else {
		defer func() { _ = watcher.Close() }()
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("config watcher stopped", zap.Error(err))
			}
		}()
		opts = append(opts, ui.WithWatcher(watcher))
	}

	model, err := ui.NewModel(cfg, opts...)
	if err != nil {
		return err
	}
	defer model.Close()

	logger.Info("starting UI", zap.String("config", path), zap.Int("items", len(cfg.Items)))
	p := tea.NewProgram(model, tea.WithAltScreen())
	model.SetProgram(p)

	forward := func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	}
	for _, t := range []eventbus.EventType{eventbus.EventConfigSaved, eventbus.EventError} {
		unsubscribe := bus.Subscribe(t, forward)
		defer unsubscribe()
	}

	if _, err := p.Run(); err != nil {
		logger.Error("program failed", zap.Error(err))
		return fmt.Errorf("error running program: %w", err)
	}
	logger.Info("UI exited normally")
	return nil
}

// watchLayout mounts an engine on the terminal itself and prints one line per
// observed container width until ctx is done.
func watchLayout(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	cell := float64(cfg.Carousel.CellWidthPx)
	host := observer.NewTerminalHost(cell)
	host.ReservedCells = ui.ReservedCells(cfg)

	eng := engine.New(ui.EngineConfig(cfg), engine.WithLogger(logger))
	if err := eng.Mount(host); err != nil {
		return err
	}
	defer eng.Unmount()
	logger.Debug("watching terminal", zap.String("mechanism", string(eng.Mechanism())))

	report := func() {
		eng.SetViewportWidth(float64(terminalWidth()) * cell)
		vm := eng.ViewModel()
		fmt.Printf("container %.0fpx  %s  %d visible  item %.1fpx  windows %d\n",
			eng.Viewport().ContainerWidthPx, vm.Breakpoint, vm.VisibleCount, vm.ItemWidthPx, vm.MaxIndex+1)
	}
	report()

	for {
		msg, err := eng.WaitResize(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if eng.ApplyResize(msg) {
			report()
		}
	}
}
