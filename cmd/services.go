package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/xvierd/pomo-cli/internal/adapters/notification"
	"github.com/xvierd/pomo-cli/internal/adapters/storage"
	"github.com/xvierd/pomo-cli/internal/config"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
	"github.com/xvierd/pomo-cli/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config     *config.Config
	logger     *log.Logger
	logCloser  io.Closer
	store      ports.StateStore
	pomodoro   *services.PomodoroService
	tasks      *services.TaskService
	stats      *services.StatsService
	state      *services.StateService
	notifier   *notification.Notifier
	ambient    *notification.Ambient
	dispatcher *services.EffectDispatcher
	autosaver  *services.Autosaver
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// initializeServices sets up all the required services and adapters and
// loads the persisted snapshot.
func initializeServices(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		// An unreadable config file falls back to defaults.
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
		if dir, err := config.ExpandHome(cfg.Storage.DataDir); err == nil {
			cfg.Storage.DataDir = dir
		}
	}
	app = appDeps{config: cfg}

	app.logger, app.logCloser, err = config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}

	app.store, err = storage.Open(storage.Backend(cfg.Storage.Backend), cfg.Storage.DataDir, dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.pomodoro = services.NewPomodoroService(
		cfg.Settings(),
		services.WithStore(app.store),
		services.WithLogger(app.logger),
	)
	if err := app.pomodoro.Load(ctx); err != nil {
		return err
	}

	app.tasks = services.NewTaskService(app.pomodoro)
	app.stats = services.NewStatsService(app.pomodoro, app.logger)

	app.notifier = notification.New(&cfg.Notifications)
	app.ambient = notification.NewAmbient(app.logger)
	app.dispatcher = services.NewEffectDispatcher(app.notifier, notification.NewChime(), app.ambient, app.logger)
	app.state = services.NewStateService(app.pomodoro, app.tasks, app.stats, app.dispatcher)

	app.autosaver = services.NewAutosaver(app.pomodoro, cfg.Autosave.Debounce, app.logger)
	app.pomodoro.SetOnChange(app.autosaver.Notify)

	app.logger.Debug("services initialized", "backend", cfg.Storage.Backend, "data_dir", cfg.Storage.DataDir)
	return nil
}

// cleanupServices writes any pending change and closes all resources.
func cleanupServices() error {
	if app.autosaver != nil {
		app.autosaver.Stop()
	}
	if app.ambient != nil {
		_ = app.ambient.Stop()
	}
	var err error
	if app.store != nil {
		err = app.store.Close()
		app.store = nil
	}
	if app.logCloser != nil {
		_ = app.logCloser.Close()
		app.logCloser = nil
	}
	return err
}

// cleanupServicesQuietly releases resources after a failed command, when
// PersistentPostRunE did not run.
func cleanupServicesQuietly() {
	_ = cleanupServices()
}

// dispatch executes the side effects of a transition.
func dispatch(effects []domain.Effect) {
	if app.dispatcher != nil {
		app.dispatcher.Dispatch(effects)
	}
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
