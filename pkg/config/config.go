// Package config holds the runtime configuration of the site and its tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marcusziade/maykott/pkg/content"
)

// Config holds all site configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Content ContentConfig `yaml:"content"`
	Limits  LimitsConfig  `yaml:"limits"`
	Images  ImagesConfig  `yaml:"images"`
	Contact ContactConfig `yaml:"contact"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ContentConfig points at an alternate seed directory. Empty uses the embedded seed.
type ContentConfig struct {
	Dir string `yaml:"dir"`
}

// LimitsConfig caps the featured sections of the home page
type LimitsConfig struct {
	FeaturedSubsidiaries int `yaml:"featured_subsidiaries"`
	FeaturedLeaders      int `yaml:"featured_leaders"`
}

// ImagesConfig lists the hosts content images may be served from
type ImagesConfig struct {
	AllowedHosts []string `yaml:"allowed_hosts"`
}

// ContactConfig configures the simulated contact form
type ContactConfig struct {
	SubmitDelay time.Duration `yaml:"submit_delay"`
}

// LoggingConfig configures zap
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration the site ships with
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8081",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Limits: LimitsConfig{
			FeaturedSubsidiaries: 3,
			FeaturedLeaders:      4,
		},
		Images: ImagesConfig{
			AllowedHosts: []string{
				"images.unsplash.com",
				"lh3.googleusercontent.com",
				"plus.unsplash.com",
			},
		},
		Contact: ContactConfig{
			SubmitDelay: 1500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	for name, d := range map[string]time.Duration{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"contact.submit_delay":    c.Contact.SubmitDelay,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}
	if c.Limits.FeaturedSubsidiaries < 0 || c.Limits.FeaturedLeaders < 0 {
		errs = append(errs, errors.New("limits must not be negative"))
	}
	return errors.Join(errs...)
}

// ContentRules returns the seed validation rules implied by the config
func (c *Config) ContentRules() content.Rules {
	return content.Rules{AllowedImageHosts: c.Images.AllowedHosts}
}

// OpenCatalog loads the catalog from Content.Dir, or the embedded seed when unset
func (c *Config) OpenCatalog() (*content.Catalog, error) {
	if c.Content.Dir == "" {
		return content.Default(c.ContentRules())
	}
	return content.Open(os.DirFS(c.Content.Dir), c.ContentRules())
}
