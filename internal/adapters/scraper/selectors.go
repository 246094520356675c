package scraper

import (
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Selectors holds the CSS selectors used to locate statuses on x.com pages.
// The markup drifts often enough that these live in a YAML file and
// hot-reload while the process runs.
type Selectors struct {
	Article   string // one status entry on a timeline or permalink page
	Text      string // the status body
	Timestamp string // the <time> element
	Avatar    string // the author avatar container
}

type rawSelectors struct {
	Status struct {
		Article   string `yaml:"article"`
		Text      string `yaml:"text"`
		Timestamp string `yaml:"timestamp"`
	} `yaml:"status"`
	Author struct {
		Avatar string `yaml:"avatar"`
	} `yaml:"author"`
}

// SelectorConfig is the hot-reloading holder for Selectors.
type SelectorConfig struct {
	mu       sync.RWMutex
	current  Selectors
	path     string
	lastMod  time.Time
	stopOnce sync.Once
	stop     chan struct{}
}

// LoadSelectors reads the selector YAML at path and begins watching it for
// changes.
func LoadSelectors(path string) (*SelectorConfig, error) {
	c := &SelectorConfig{path: path, stop: make(chan struct{})}
	if err := c.reload(); err != nil {
		return nil, err
	}
	go c.watch()
	return c, nil
}

// Snapshot returns a consistent copy of the current selectors.
func (c *SelectorConfig) Snapshot() Selectors {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Close stops the file watcher.
func (c *SelectorConfig) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *SelectorConfig) reload() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return err
	}
	var raw rawSelectors
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.mu.Lock()
	c.current = Selectors{
		Article:   raw.Status.Article,
		Text:      raw.Status.Text,
		Timestamp: raw.Status.Timestamp,
		Avatar:    raw.Author.Avatar,
	}
	c.mu.Unlock()
	return nil
}

func (c *SelectorConfig) watch() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			info, err := os.Stat(c.path)
			if err != nil {
				continue
			}
			if info.ModTime().After(c.lastMod) {
				_ = c.reload()
				c.lastMod = info.ModTime()
			}
		}
	}
}
