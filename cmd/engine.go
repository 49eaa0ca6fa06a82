package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/sadopc/tally/internal/activity"
	"github.com/sadopc/tally/internal/config"
	"github.com/sadopc/tally/internal/logging"
	"github.com/sadopc/tally/internal/metrics"
	"github.com/sadopc/tally/internal/source"
	"github.com/sadopc/tally/internal/store"
	"github.com/sadopc/tally/internal/syncer"
)

// engine holds everything a command needs to sync and read activity.
type engine struct {
	cfg           *config.Config
	logger        zerolog.Logger
	store         *store.Store
	clock         quartz.Clock
	orchestrators []*syncer.Orchestrator

	closeLog func() error
}

type engineOptions struct {
	// LogFile sends logs to a file instead of stderr. The TUI owns the
	// terminal, so it logs to a file.
	LogFile bool
	Metrics metrics.Recorder
}

func openEngine(ctx context.Context, opts engineOptions) (*engine, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logOpts := logging.Options{Level: cfg.LogLevel, Console: os.Stderr}
	if opts.LogFile {
		logOpts.File = config.LogPath()
	}
	logger, closeLog, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}

	s, err := store.New(cfg.DatabasePath())
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	e := &engine{
		cfg:      cfg,
		logger:   logger,
		store:    s,
		clock:    quartz.NewReal(),
		closeLog: closeLog,
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}

	adapters, err := buildAdapters(ctx, cfg, source.Options{
		Logger:   logger,
		Metrics:  opts.Metrics,
		Location: cfg.Location(),
	})
	if err != nil {
		e.Close()
		return nil, err
	}
	for _, a := range adapters {
		e.orchestrators = append(e.orchestrators, syncer.New(s, a, syncer.Options{
			Logger:  logger,
			Metrics: opts.Metrics,
			Clock:   e.clock,
		}))
	}
	if cfg.GitHub.User != "" && !cfg.GitHubEnabled() {
		logger.Warn().Str("env", config.EnvGitHubToken).
			Msg("github.user is set but no token; github stays disabled")
	}
	if len(e.orchestrators) == 0 {
		logger.Warn().Str("config", config.DefaultConfigPath()).
			Msg("no sources configured; set github.user and token, or youtube.handle and api_key")
	}
	return e, nil
}

// buildAdapters creates an adapter for every source the config enables.
func buildAdapters(ctx context.Context, cfg *config.Config, opts source.Options) ([]source.Adapter, error) {
	var out []source.Adapter
	if cfg.GitHubEnabled() {
		gh, err := source.NewGitHub(source.GitHubConfig{
			User:          cfg.GitHub.User,
			Token:         cfg.GitHubToken(),
			APIURL:        cfg.GitHub.APIURL,
			DetailWorkers: cfg.GitHub.DetailWorkers,
		}, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, gh)
	}
	if cfg.YouTubeEnabled() {
		yt, err := source.NewYouTube(ctx, source.YouTubeConfig{
			Handle:   cfg.YouTube.Handle,
			APIKey:   cfg.YouTubeAPIKey(),
			Endpoint: cfg.YouTube.Endpoint,
		}, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, yt)
	}
	return out, nil
}

func (e *engine) today() activity.Date {
	return syncer.Today(e.clock, e.cfg.Location())
}

func (e *engine) Close() error {
	return errors.Join(e.store.Close(), e.closeLog())
}

// selectOrchestrators narrows orchs to src, or returns all of them when src
// is empty.
func selectOrchestrators(orchs []*syncer.Orchestrator, src string) ([]*syncer.Orchestrator, error) {
	if src == "" {
		return orchs, nil
	}
	for _, o := range orchs {
		if string(o.Source()) == src {
			return []*syncer.Orchestrator{o}, nil
		}
	}
	return nil, fmt.Errorf("source %q is not configured", src)
}

// parseWindow resolves --from/--to against the trailing default window
// ending today.
func parseWindow(from, to string, today activity.Date, days int) (activity.Range, error) {
	r := activity.Trailing(today, days)
	if to != "" {
		d, err := activity.ParseDate(to)
		if err != nil {
			return r, fmt.Errorf("invalid --to value: %w", err)
		}
		r = activity.Trailing(d, days)
	}
	if from != "" {
		d, err := activity.ParseDate(from)
		if err != nil {
			return r, fmt.Errorf("invalid --from value: %w", err)
		}
		r.Start = d
	}
	return r, r.Validate()
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
