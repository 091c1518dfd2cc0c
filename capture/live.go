package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/hazyhaar/uxrefactor/capture/internal/browser"
	"github.com/hazyhaar/uxrefactor/extract"
	"github.com/hazyhaar/uxrefactor/snapshot"
)

// BrowserConfig configures live captures.
type BrowserConfig struct {
	RemoteURL       string
	Headless        *bool
	MaxTabs         int
	NavigateTimeout time.Duration
	BlockResources  []string
	// RootSelector restricts extraction to the first matching element.
	RootSelector string
	// ComponentHook installs the component-tree hook before page scripts.
	ComponentHook bool
	Logger        *slog.Logger
}

// Browser captures pages in a shared headless Chrome.
type Browser struct {
	mgr    *browser.Manager
	cfg    BrowserConfig
	logger *slog.Logger
}

// NewBrowser returns a Browser. Chrome starts on the first capture.
func NewBrowser(cfg BrowserConfig) *Browser {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Browser{
		mgr: browser.NewManager(browser.Config{
			RemoteURL:       cfg.RemoteURL,
			Headless:        cfg.Headless,
			MaxTabs:         cfg.MaxTabs,
			NavigateTimeout: cfg.NavigateTimeout,
			BlockResources:  cfg.BlockResources,
			Logger:          cfg.Logger,
		}),
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// Close shuts the browser down.
func (b *Browser) Close() error { return b.mgr.Close() }

// Capture implements Capturer.
func (b *Browser) Capture(ctx context.Context, pageURL string) (*Result, error) {
	if err := checkURL(pageURL); err != nil {
		return nil, err
	}
	var init []string
	if b.cfg.ComponentHook {
		init = append(init, hookScript)
	}
	tab, err := b.mgr.OpenTab(ctx, pageURL, init...)
	if err != nil {
		return nil, &CaptureError{Op: "navigate", URL: pageURL, Err: err}
	}
	defer tab.Close()

	res := &Result{URL: pageURL, Level: LevelHeadless, Timestamp: time.Now().UTC()}

	if res.Title, err = tab.Eval(ctx, titleScript); err != nil {
		b.logger.Debug("capture: title", "url", pageURL, "error", err)
	}

	if res.Screenshot, err = tab.Screenshot(ctx); err != nil {
		return nil, &CaptureError{Op: "screenshot", URL: pageURL, Err: err}
	}

	raw, err := tab.Eval(ctx, snapshotScript(b.cfg.RootSelector))
	if err != nil {
		return nil, &CaptureError{Op: "snapshot", URL: pageURL, Err: err}
	}
	if err := json.Unmarshal([]byte(raw), &res.Elements); err != nil {
		return nil, &CaptureError{Op: "snapshot", URL: pageURL, Err: err}
	}

	markup, err := tab.Eval(ctx, documentScript)
	if err != nil {
		return nil, &CaptureError{Op: "extract", URL: pageURL, Err: err}
	}
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, &CaptureError{Op: "extract", URL: pageURL, Err: err}
	}
	res.Source = extract.Extract(ctx, &pageProbe{tab: tab}, extract.Root(doc, b.cfg.RootSelector))

	b.logger.Info("capture: page captured", "url", pageURL,
		"elements", len(res.Elements), "screenshot_bytes", len(res.Screenshot))
	return res, nil
}

// pageProbe reads the component tree through the installed hook.
type pageProbe struct {
	tab interface {
		Eval(ctx context.Context, js string) (string, error)
		EvalBool(ctx context.Context, js string) (bool, error)
	}
}

func (p *pageProbe) Available(ctx context.Context) bool {
	ok, err := p.tab.EvalBool(ctx, probeAvailableScript)
	return err == nil && ok
}

func (p *pageProbe) Tree(ctx context.Context) (*extract.ComponentNode, error) {
	raw, err := p.tab.Eval(ctx, probeTreeScript)
	if err != nil {
		return nil, fmt.Errorf("capture: component tree: %w", err)
	}
	var n extract.ComponentNode
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return nil, fmt.Errorf("capture: component tree: %w", err)
	}
	return &n, nil
}

func selectorTags() []string { return snapshot.Selector }
