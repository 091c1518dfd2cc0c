// Package browser manages the Chromium instance used for live captures:
// lazy launch or remote connect via Rod, a cap on concurrent pages and
// periodic recycling.
package browser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// ErrClosed is returned once the manager has been closed.
var ErrClosed = errors.New("browser: manager is closed")

// Config configures the browser manager.
type Config struct {
	// RemoteURL is the DevTools WebSocket URL of an external Chrome.
	// Empty launches a local headless Chrome.
	RemoteURL string

	// Headless toggles the launched browser's headless mode. Default: true.
	Headless *bool

	// MaxTabs caps concurrently open pages. Default: 4.
	MaxTabs int

	// RecycleAfter restarts Chrome after this many pages. Default: 200.
	RecycleAfter int

	// NavigateTimeout bounds navigation plus load. Default: 30s.
	NavigateTimeout time.Duration

	// BlockResources lists resource types to refuse: fonts, media, images,
	// stylesheets. Stylesheets and images are needed for faithful computed
	// styles and screenshots, so the default blocks fonts and media only.
	BlockResources []string

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Headless == nil {
		t := true
		c.Headless = &t
	}
	if c.MaxTabs <= 0 {
		c.MaxTabs = 4
	}
	if c.RecycleAfter <= 0 {
		c.RecycleAfter = 200
	}
	if c.NavigateTimeout <= 0 {
		c.NavigateTimeout = 30 * time.Second
	}
	if c.BlockResources == nil {
		c.BlockResources = []string{"fonts", "media"}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Manager owns one Chrome process shared by all captures.
type Manager struct {
	cfg     Config
	blocked resourceSet
	slots   chan struct{}
	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	pages   int
	open    int
	closed  bool
}

// NewManager creates a Manager. Chrome starts on the first OpenTab.
func NewManager(cfg Config) *Manager {
	cfg.defaults()
	return &Manager{
		cfg:     cfg,
		blocked: newResourceSet(cfg.BlockResources),
		slots:   make(chan struct{}, cfg.MaxTabs),
	}
}

// Config returns the effective configuration.
func (m *Manager) Config() Config { return m.cfg }

// acquire returns a connected browser, launching or recycling as needed.
// The caller holds a tab slot.
func (m *Manager) acquire() (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	if m.browser != nil && m.pages >= m.cfg.RecycleAfter && m.open == 0 {
		m.cfg.Logger.Info("browser: recycling", "pages", m.pages)
		m.cleanupLocked()
	}
	if m.browser == nil {
		b, err := m.launch()
		if err != nil {
			return nil, err
		}
		m.browser = b
		m.pages = 0
	}
	m.pages++
	m.open++
	return m.browser, nil
}

func (m *Manager) release() {
	m.mu.Lock()
	m.open--
	m.mu.Unlock()
	<-m.slots
}

// Close shuts Chrome down. Open tabs become unusable.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cleanupLocked()
	return nil
}

// launch is detached from the caller's context: the browser outlives
// the capture that started it.
func (m *Manager) launch() (*rod.Browser, error) {
	log := m.cfg.Logger
	wsURL := m.cfg.RemoteURL
	if wsURL != "" {
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().
			Headless(*m.cfg.Headless).
			Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		log.Info("browser: launched local chrome", "url", wsURL, "headless", *m.cfg.Headless)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		m.cleanupLocked()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	if err := b.IgnoreCertErrors(true); err != nil {
		log.Warn("browser: ignore cert errors failed", "error", err)
	}
	return b, nil
}

func (m *Manager) cleanupLocked() {
	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			m.cfg.Logger.Debug("browser: close", "error", err)
		}
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
}
