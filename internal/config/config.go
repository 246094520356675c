// Package config loads the story configuration from YAML. Secrets (SMTP
// credentials, API tokens, browser path) stay in the environment and are
// read by the entrypoints, not here.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceScraper = "scraper"
	SourceAPI     = "api"
)

// Config is the full story configuration.
type Config struct {
	Account      string   `yaml:"account"`
	Hours        int      `yaml:"hours"`
	Title        string   `yaml:"title"`
	Timezone     string   `yaml:"timezone"`
	StyleWords   []string `yaml:"style_words"`
	TopicPattern string   `yaml:"topic_pattern"`
	TopicGroup   int      `yaml:"topic_group"`

	Source    string `yaml:"source"`
	APIBase   string `yaml:"api_base"`
	Selectors string `yaml:"selectors"`

	TimelineOut string `yaml:"timeline_out"`
	StoryOut    string `yaml:"story_out"`

	Notify *NotifyConfig `yaml:"notify"`
}

// NotifyConfig configures optional email delivery of the finished story.
type NotifyConfig struct {
	To       string `yaml:"to"`
	From     string `yaml:"from"`
	Subject  string `yaml:"subject"`
	Body     string `yaml:"body"`
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
}

// Load reads, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Hours == 0 {
		c.Hours = 24
	}
	if c.Title == "" {
		c.Title = "Story"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.Source == "" {
		c.Source = SourceScraper
	}
	if c.Selectors == "" {
		c.Selectors = "config/selectors.yaml"
	}
	if c.TimelineOut == "" {
		c.TimelineOut = "timeline.json"
	}
	if c.StoryOut == "" {
		c.StoryOut = "story.html"
	}
	if c.Notify != nil {
		if c.Notify.Subject == "" {
			c.Notify.Subject = "Your story: " + c.Title
		}
		if c.Notify.SMTPPort == 0 {
			c.Notify.SMTPPort = 587
		}
	}
}

func (c *Config) validate() error {
	if c.Account == "" {
		return errors.New("account is required")
	}
	if c.Source != SourceScraper && c.Source != SourceAPI {
		return fmt.Errorf("unknown source %q", c.Source)
	}
	if c.Source == SourceAPI && c.APIBase == "" {
		return errors.New("api_base is required for the api source")
	}
	if c.Notify != nil {
		if c.Notify.To == "" {
			return errors.New("notify.to is required when notify is set")
		}
		if c.Notify.SMTPHost == "" {
			return errors.New("notify.smtp_host is required when notify is set")
		}
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

// Location resolves the configured IANA timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
