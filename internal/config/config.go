package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BaseURL       string `yaml:"base_url"`
	UserAgent     string `yaml:"user_agent"`
	Cookie        string `yaml:"cookie"`
	CookieFile    string `yaml:"cookie_file"`
	SelectorsFile string `yaml:"selectors_file"`

	// RateRequests and RateWindow replace the limit the source registers.
	// Zero keeps the source's own limit.
	RateRequests int    `yaml:"rate_requests"`
	RateWindow   string `yaml:"rate_window"`
	Timeout      string `yaml:"timeout"`
	Workers      int    `yaml:"workers"`

	Bypass bool `yaml:"bypass"`
	Debug  bool `yaml:"debug"`
}

type Options struct {
	IgnoreConfig  bool
	Debug         bool
	BaseURL       string
	UserAgent     string
	Cookie        string
	CookieFile    string
	SelectorsFile string
	Workers       int
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://www.mgeko.cc",
		Timeout: "30s",
		Workers: 2,
		Bypass:  true,
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}

// LoadMerged loads the active profile, or the defaults when there is none,
// and applies the CLI overrides on top. The second return value describes
// where the values came from.
func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		return cfg, "(ignored config)", cfg.Validate()
	}

	activePath, err := ActiveConfigPath()
	if errors.Is(err, ErrNoConfig) || activePath == "" {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		return cfg, "(default config in memory)", cfg.Validate()
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)

	return cfg, activePath, cfg.Validate()
}

func mergeConfig(c *Config, o Options) {
	if o.Debug {
		c.Debug = true
	}
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.Cookie != "" {
		c.Cookie = o.Cookie
	}
	if o.CookieFile != "" {
		c.CookieFile = o.CookieFile
	}
	if o.SelectorsFile != "" {
		c.SelectorsFile = o.SelectorsFile
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
}

func (c *Config) Validate() error {
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.RateWindowDuration(); err != nil {
		return err
	}
	if c.RateRequests < 0 {
		return fmt.Errorf("rate_requests must not be negative, got %d", c.RateRequests)
	}

	return nil
}

func (c *Config) TimeoutDuration() (time.Duration, error) {
	return parseDuration("timeout", c.Timeout)
}

func (c *Config) RateWindowDuration() (time.Duration, error) {
	return parseDuration("rate_window", c.RateWindow)
}

func parseDuration(key, raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: negative", key, raw)
	}

	return d, nil
}

func (c *Config) Print(w io.Writer) {
	fmt.Fprintf(w, " -base_url: %s\n", c.BaseURL)
	if c.UserAgent != "" {
		fmt.Fprintf(w, " -user_agent: %s\n", c.UserAgent)
	}
	if c.Cookie != "" {
		fmt.Fprintf(w, " -cookie: (set)\n")
	}
	if c.CookieFile != "" {
		fmt.Fprintf(w, " -cookie_file: %s\n", c.CookieFile)
	}
	if c.SelectorsFile != "" {
		fmt.Fprintf(w, " -selectors_file: %s\n", c.SelectorsFile)
	}
	if c.RateRequests > 0 {
		fmt.Fprintf(w, " -rate: %d per %s\n", c.RateRequests, c.RateWindow)
	}
	if c.Timeout != "" {
		fmt.Fprintf(w, " -timeout: %s\n", c.Timeout)
	}
	fmt.Fprintf(w, " -workers: %d\n", c.Workers)
	fmt.Fprintf(w, " -bypass: %t\n", c.Bypass)
	if c.Debug {
		fmt.Fprintf(w, " -debug: %t\n", c.Debug)
	}
}
