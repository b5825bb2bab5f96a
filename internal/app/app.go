package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sdujack2012/remic/internal/binding"
	"github.com/sdujack2012/remic/internal/config"
	"github.com/sdujack2012/remic/internal/prefs"
	"github.com/sdujack2012/remic/internal/source"
	"github.com/sdujack2012/remic/internal/state"
	"github.com/sdujack2012/remic/internal/telemetry"
	"github.com/sdujack2012/remic/internal/todo"
	"github.com/sdujack2012/remic/internal/tree"
	"github.com/sdujack2012/remic/internal/ui"
)

const serviceName = "remic"

// Options configure the remic application.
type Options struct {
	ConfigPath string
	TodosPath  string // overrides the configured todos_file
	PrefsPath  string // empty uses default ~/.config/remic/prefs.toml
}

// Run boots the remic TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.TodosPath != "" {
		cfg.TodosFile = opts.TodosPath
		cfg.TodosURL = ""
	}

	logger, closeLog, err := OpenLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: serviceName,
		Endpoint:    cfg.OTelEndpoint,
		Enabled:     cfg.OTelEnabled,
	})
	if err != nil {
		logger.Warn("tracing disabled", "err", err)
	}
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()

	fetcher, err := NewFetcher(cfg)
	if err != nil {
		return fmt.Errorf("init to-do source: %w", err)
	}

	store := state.New(todo.Initial(), state.WithName("todos"), state.WithLogger(logger))
	provider := binding.NewProvider(store,
		binding.WithInterval(cfg.RerenderInterval),
		binding.WithLogger(logger),
	)
	defer provider.Close()

	logger.Info("starting",
		"store", store.ID(),
		"rerender_interval", cfg.RerenderInterval,
		"refresh_interval", cfg.RefreshInterval,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Background refresher; the first load runs while the UI shows the
	// initial loading state.
	StartRefresher(ctx, store, fetcher, cfg.RefreshInterval, logger)

	userPrefs := prefs.Load(opts.PrefsPath, cfg.Theme)
	return ui.Run(ui.Options{
		Context:      ctx,
		Provider:     provider,
		Fetcher:      fetcher,
		ThemeName:    userPrefs.Theme,
		HideFinished: userPrefs.HideFinished,
		PrefsPath:    opts.PrefsPath,
		Logger:       logger,
	})
}

// NewFetcher picks the to-do source: the URL when one is configured,
// otherwise the file.
func NewFetcher(cfg config.Config) (todo.Fetcher, error) {
	if cfg.TodosURL != "" {
		return source.NewHTTP(cfg.TodosURL)
	}
	return source.NewFile(cfg.TodosFile, cfg.FetchDelay)
}

// NewStore builds a store over doc for one-shot commands.
func NewStore(doc tree.Value, logger *slog.Logger) *state.Store[tree.Value] {
	return state.New(doc, state.WithName("cli"), state.WithLogger(logger))
}
