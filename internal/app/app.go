package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/catalogapi"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/ui"
)

// Options configure the shelf application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/shelf/prefs.toml
	Seed       catalog.Filters
	Plain      bool      // skip the TUI even on a terminal
	Out        io.Writer // plain mode output; nil uses stdout
}

// Run boots the catalog browser until the user exits or the context is
// cancelled. In plain mode it prints the first settled result and returns
// the fetch error, if any.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	plain := opts.Plain || !isTerminal(out)

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	src, err := newSource(cfg)
	if err != nil {
		return err
	}
	logger.Info("shelf starting",
		zap.String("source", cfg.Source),
		zap.Bool("plain", plain),
		zap.Duration("fetch_timeout", cfg.FetchTimeout),
	)

	store := state.New(src,
		state.WithLogger(logger.Named("store")),
		state.WithFetchTimeout(cfg.FetchTimeout),
	)
	defer store.Close()

	store.Initialize()
	if !applySeed(store, opts.Seed) {
		store.Refresh()
	}

	if plain {
		return printPlain(ctx, out, store)
	}

	retryCtx, cancelRetry := context.WithCancel(ctx)
	done := StartRetrier(retryCtx, store, cfg.RetryBase, logger.Named("retry"))
	defer func() {
		cancelRetry()
		<-done
	}()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("preferences unreadable, using defaults", zap.Error(err))
	}

	return ui.Run(ctx, ui.Options{
		Store:     store,
		Logger:    logger.Named("ui"),
		Debounce:  cfg.Debounce,
		PageSize:  cfg.PageSize,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.LogFile,
	})
}

// newSource picks the DataSource named by the config.
func newSource(cfg config.Config) (state.DataSource, error) {
	switch cfg.Source {
	case config.SourceHTTP:
		client, err := catalogapi.NewClient(cfg.APIBind)
		if err != nil {
			return nil, fmt.Errorf("init catalog client: %w", err)
		}
		return client, nil
	default:
		data := catalog.Builtin()
		if cfg.Memory.Dataset != "" {
			loaded, err := catalog.LoadDataset(cfg.Memory.Dataset)
			if err != nil {
				return nil, err
			}
			data = loaded
		}
		return catalog.NewMemory(data, cfg.Memory.Latency, cfg.Memory.Jitter), nil
	}
}

// applySeed replays the non-default fields of seed as store operations.
// It reports whether any operation was issued.
func applySeed(store *state.ListStore, seed catalog.Filters) bool {
	issued := false
	for _, field := range []catalog.Field{catalog.FieldSearch, catalog.FieldCategory, catalog.FieldStatus, catalog.FieldPlatform} {
		if v := seed.Get(field); v != "" {
			store.UpdateFilter(field, v)
			issued = true
		}
	}
	if seed.Toggle != catalog.ToggleActive {
		store.ToggleSwitch()
		issued = true
	}
	return issued
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
