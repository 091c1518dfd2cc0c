// Package assistant is the service facade: it ties capture, analysis and
// the store together and exposes them as HTML screens, a JSON API and MCP
// tools.
package assistant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hazyhaar/uxrefactor/brand"
	"github.com/hazyhaar/uxrefactor/capture"
	"github.com/hazyhaar/uxrefactor/pipeline"
	"github.com/hazyhaar/uxrefactor/practices"
	"github.com/hazyhaar/uxrefactor/store"
)

// ErrUnknownLevel is returned for a capture level other than http,
// headless or auto.
var ErrUnknownLevel = errors.New("assistant: unknown capture level")

// Assistant runs analyses and keeps their history.
type Assistant struct {
	cfg      Config
	store    *store.Store
	capturer capture.Capturer
	browser  *capture.Browser
	logger   *slog.Logger
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithCapturer replaces the capturer selected by the configured level.
func WithCapturer(c capture.Capturer) Option { return func(a *Assistant) { a.capturer = c } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(a *Assistant) { a.logger = l } }

// New applies the store schema to db and builds the capturer for cfg.Level.
// Chrome is only launched by the first live capture.
func New(db *sql.DB, cfg Config, opts ...Option) (*Assistant, error) {
	cfg.defaults()
	a := &Assistant{cfg: cfg, logger: slog.Default()}
	for _, o := range opts {
		o(a)
	}

	ctx := context.Background()
	st, err := store.Init(ctx, db)
	if err != nil {
		return nil, err
	}
	a.store = st
	// an empty store gets the built-in profile, so it is listed from the start
	if _, err := st.GetDefault(ctx); err != nil {
		return nil, err
	}

	if a.capturer == nil {
		if err := a.buildCapturer(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Assistant) buildCapturer() error {
	level, err := capture.ParseLevel(a.cfg.Level)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, a.cfg.Level)
	}
	fetcher := capture.NewFetcher(
		capture.WithClient(&http.Client{Timeout: a.cfg.Fetch.Timeout}),
		capture.WithRootSelector(a.cfg.RootSelector),
		capture.WithFetchLogger(a.logger),
	)
	if a.cfg.Fetch.UserAgent != "" {
		capture.WithUserAgent(a.cfg.Fetch.UserAgent)(fetcher)
	}
	if level != capture.LevelHTTP {
		headless := a.cfg.Browser.Headless
		a.browser = capture.NewBrowser(capture.BrowserConfig{
			RemoteURL:       a.cfg.Browser.RemoteURL,
			Headless:        &headless,
			MaxTabs:         a.cfg.Browser.MaxTabs,
			NavigateTimeout: a.cfg.NavigateTimeout,
			BlockResources:  a.cfg.Browser.BlockResources,
			RootSelector:    a.cfg.RootSelector,
			ComponentHook:   a.cfg.Browser.ComponentHook,
			Logger:          a.logger,
		})
	}
	switch level {
	case capture.LevelHTTP:
		a.capturer = fetcher
	case capture.LevelHeadless:
		a.capturer = a.browser
	default:
		a.capturer = &capture.Auto{HTTP: fetcher, Browser: a.browser, Logger: a.logger}
	}
	a.logger.Info("assistant: capture level", "level", level)
	return nil
}

// Close releases the browser, if one was started.
func (a *Assistant) Close() error {
	if a.browser != nil {
		return a.browser.Close()
	}
	return nil
}

// Store exposes the underlying store.
func (a *Assistant) Store() *store.Store { return a.store }

// Config returns the effective configuration.
func (a *Assistant) Config() Config { return a.cfg }

// Profile resolves a profile ID. An empty ID means the default profile.
func (a *Assistant) Profile(ctx context.Context, id string) (brand.Profile, error) {
	if id == "" {
		return a.store.GetDefault(ctx)
	}
	p, err := a.store.GetProfile(ctx, id)
	if err != nil {
		return brand.Profile{}, err
	}
	if p == nil {
		return brand.Profile{}, fmt.Errorf("assistant: profile %s: %w", id, store.ErrNotFound)
	}
	return *p, nil
}

// AnalyzeURL captures pageURL and analyzes it against the profile.
func (a *Assistant) AnalyzeURL(ctx context.Context, pageURL, profileID string) (*pipeline.Analysis, error) {
	if err := capture.CheckTarget(ctx, pageURL, a.cfg.AllowPrivate); err != nil {
		return nil, err
	}
	profile, err := a.Profile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	res, err := a.capturer.Capture(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return a.run(ctx, *res, profile)
}

// AnalyzeHTML analyzes markup supplied by the caller. pageURL is only a
// label and may be empty.
func (a *Assistant) AnalyzeHTML(ctx context.Context, pageURL, markup, profileID string) (*pipeline.Analysis, error) {
	profile, err := a.Profile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	res, err := capture.FromHTML(pageURL, markup, a.cfg.RootSelector)
	if err != nil {
		return nil, err
	}
	return a.run(ctx, *res, profile)
}

func (a *Assistant) run(ctx context.Context, res capture.Result, profile brand.Profile) (*pipeline.Analysis, error) {
	an := pipeline.Run(res, profile, pipeline.WithLogger(a.logger))
	if !a.cfg.KeepHistory {
		return an, nil
	}
	if an.URL != "" {
		if prev, err := a.store.LastHash(ctx, an.URL); err == nil && prev == an.SourceHash {
			a.logger.Info("assistant: source unchanged since last analysis", "url", an.URL)
		}
	}
	if err := a.store.SaveAnalysis(ctx, an); err != nil {
		return nil, err
	}
	if n, err := a.store.Prune(ctx, a.cfg.HistoryLimit); err != nil {
		a.logger.Warn("assistant: prune history", "error", err)
	} else if n > 0 {
		a.logger.Debug("assistant: pruned history", "deleted", n)
	}
	return an, nil
}

// Principles returns the catalog, filtered by category when non-empty.
// An unknown category is an error that names the closest one.
func Principles(category string) ([]practices.Principle, error) {
	if category == "" {
		return practices.All(), nil
	}
	ps := practices.ByCategory(category)
	if len(ps) == 0 {
		return nil, &UnknownCategoryError{Category: category, Suggestion: practices.SuggestCategory(category)}
	}
	return ps, nil
}

// UnknownCategoryError reports a principle category lookup that matched
// nothing.
type UnknownCategoryError struct {
	Category   string
	Suggestion string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("assistant: unknown category %q, did you mean %q?", e.Category, e.Suggestion)
}

func recommend(elementType string) []practices.Principle {
	ps := practices.Recommend(elementType)
	if ps == nil {
		return []practices.Principle{}
	}
	return ps
}
