package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nachokhan/peke-panel/internal/api"
	"github.com/nachokhan/peke-panel/internal/auth"
	"github.com/nachokhan/peke-panel/internal/config"
	"github.com/nachokhan/peke-panel/internal/logging"
	"github.com/nachokhan/peke-panel/internal/logtail"
	"github.com/nachokhan/peke-panel/internal/prefs"
	"github.com/nachokhan/peke-panel/internal/state"
	"github.com/nachokhan/peke-panel/internal/ui"
)

// Options configure the peke application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/peke/prefs.toml
	PollEvery  int    // seconds; zero uses the configured value
	LogLevel   string // overrides log_level when set
}

// Run boots the peke TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.LogLevel = level
	}

	closeLog, err := logging.Init(logging.Config{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() {
		_ = closeLog()
	}()

	tokens, err := auth.LoadTokenStore(cfg.TokenPath)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	watcher := auth.NewWatcher()
	session := auth.NewSession(tokens, watcher)

	client, err := api.NewClient(cfg.APIURL, session)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	store := &state.Store{}
	unsubscribe := watcher.Subscribe(store.Reset)
	defer unsubscribe()

	interval := cfg.PollInterval()
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	poller := NewPoller(client, store, session, interval)
	poller.Start(ctx)

	logging.Info("peke starting", "api", cfg.APIURL, "poll", interval, "logged_in", session.LoggedIn())

	return ui.Run(ui.Options{
		Context: ctx,
		Client:  client,
		Session: session,
		Watcher: watcher,
		Store:   store,
		Poller:  poller,
		Prefs:   prefs.NewStore(opts.PrefsPath),
		Config:  &cfg,
	})
}

// Logout removes the persisted token. It reports whether one was present.
func Logout(opts Options) (bool, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return false, fmt.Errorf("load config: %w", err)
	}
	tokens, err := auth.LoadTokenStore(cfg.TokenPath)
	if err != nil {
		return false, fmt.Errorf("load token: %w", err)
	}
	had, err := tokens.Clear()
	if err != nil {
		return false, fmt.Errorf("clear token: %w", err)
	}
	return had, nil
}

// LogTail returns the last n lines of peke's log file at or above level.
func LogTail(opts Options, n int, level string) ([]string, string, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	lines, err := logtail.Tail(cfg.LogFile, n)
	if err != nil {
		return nil, cfg.LogFile, err
	}
	return logtail.Filter(lines, level), cfg.LogFile, nil
}
