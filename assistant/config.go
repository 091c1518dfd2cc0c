package assistant

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/uxrefactor/shield"
)

// Config is the service configuration, usually read from YAML.
type Config struct {
	DBPath          string                      `yaml:"db_path"`
	Listen          string                      `yaml:"listen"`
	Level           string                      `yaml:"level"` // http | headless | auto
	RootSelector    string                      `yaml:"root_selector"`
	AllowPrivate    bool                        `yaml:"allow_private"` // capture loopback and LAN targets
	Browser         BrowserConfig               `yaml:"browser"`
	Fetch           FetchConfig                 `yaml:"fetch"`
	KeepHistory     bool                        `yaml:"keep_history"`
	HistoryLimit    int                         `yaml:"history_limit"`
	NavigateTimeout time.Duration               `yaml:"navigate_timeout"`
	MaxBody         int64                       `yaml:"max_body"`
	RateLimits      map[string]shield.RateLimit `yaml:"rate_limits"`
}

// BrowserConfig controls the headless Chrome used for live captures.
type BrowserConfig struct {
	Headless       bool     `yaml:"headless"`
	MaxTabs        int      `yaml:"max_tabs"`
	RemoteURL      string   `yaml:"remote_url"`
	BlockResources []string `yaml:"block_resources"`
	ComponentHook  bool     `yaml:"component_hook"`
}

// FetchConfig controls plain HTTP captures.
type FetchConfig struct {
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	c := Config{
		KeepHistory:  true,
		AllowPrivate: true,
		Browser:      BrowserConfig{Headless: true, ComponentHook: true},
	}
	c.defaults()
	return c
}

func (c *Config) defaults() {
	if c.DBPath == "" {
		c.DBPath = "uxrefactor.db"
	}
	if c.Listen == "" {
		c.Listen = ":8088"
	}
	if c.Level == "" {
		c.Level = "auto"
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 50
	}
	if c.NavigateTimeout <= 0 {
		c.NavigateTimeout = 30 * time.Second
	}
	if c.Browser.MaxTabs <= 0 {
		c.Browser.MaxTabs = 4
	}
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = 30 * time.Second
	}
	if c.MaxBody <= 0 {
		c.MaxBody = 4 << 20
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Keys absent from the
// file keep their defaults. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("assistant: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("assistant: parse config %s: %w", path, err)
	}
	cfg.defaults()
	return cfg, nil
}
