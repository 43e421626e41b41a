package scraper

import (
	"fmt"
	"os"
	"sync"
	"time"

	"xembed/pkg/log"

	"gopkg.in/yaml.v3"
)

// Selectors is one consistent set of markup hooks.
type Selectors struct {
	NameRegion     string
	VerifiedBadge  string
	Text           string
	Time           string
	TimeSeparator  string
	Photo          string
	PhotoSuffix    string
	NoteRegion     string
	NoteTextChild  int
	StatsContainer string
	StatIndex      StatIndex
}

// StatIndex maps each counter to its position among the stats children.
type StatIndex struct {
	Views     int `yaml:"views"`
	Reposts   int `yaml:"reposts"`
	Replies   int `yaml:"replies"`
	Likes     int `yaml:"likes"`
	Bookmarks int `yaml:"bookmarks"`
}

// DefaultSelectors returns the hooks the crawler markup used when this
// package was last checked against a live capture.
func DefaultSelectors() Selectors {
	return Selectors{
		NameRegion:     `[data-testid="User-Name"]`,
		VerifiedBadge:  `[data-testid="icon-verified"]`,
		Text:           `[data-testid="tweetText"]`,
		Time:           "time",
		TimeSeparator:  "·",
		Photo:          `[data-testid="tweetPhoto"]`,
		PhotoSuffix:    ".jpg",
		NoteRegion:     `[data-testid="birdwatch-pivot"]`,
		NoteTextChild:  2,
		StatsContainer: `[data-testid="app-text-transition-container"]`,
		StatIndex:      StatIndex{Views: 0, Reposts: 1, Replies: 2, Likes: 3, Bookmarks: 4},
	}
}

// rawSelectors represents the YAML structure.
type rawSelectors struct {
	User struct {
		NameRegion    string `yaml:"name_region"`
		VerifiedBadge string `yaml:"verified_badge"`
	} `yaml:"user"`
	Post struct {
		Text          string `yaml:"text"`
		Time          string `yaml:"time"`
		TimeSeparator string `yaml:"time_separator"`
		Photo         string `yaml:"photo"`
		PhotoSuffix   string `yaml:"photo_suffix"`
	} `yaml:"post"`
	CommunityNote struct {
		Region    string `yaml:"region"`
		TextChild *int   `yaml:"text_child"`
	} `yaml:"community_note"`
	Stats struct {
		Container string `yaml:"container"`
		StatIndex `yaml:",inline"`
	} `yaml:"stats"`
}

// ParseSelectors decodes YAML, keeping defaults for anything left out.
func ParseSelectors(data []byte) (Selectors, error) {
	var raw rawSelectors
	raw.Stats.StatIndex = DefaultSelectors().StatIndex
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Selectors{}, fmt.Errorf("parse selectors: %w", err)
	}

	s := DefaultSelectors()
	setIf(&s.NameRegion, raw.User.NameRegion)
	setIf(&s.VerifiedBadge, raw.User.VerifiedBadge)
	setIf(&s.Text, raw.Post.Text)
	setIf(&s.Time, raw.Post.Time)
	setIf(&s.TimeSeparator, raw.Post.TimeSeparator)
	setIf(&s.Photo, raw.Post.Photo)
	setIf(&s.PhotoSuffix, raw.Post.PhotoSuffix)
	setIf(&s.NoteRegion, raw.CommunityNote.Region)
	if raw.CommunityNote.TextChild != nil {
		s.NoteTextChild = *raw.CommunityNote.TextChild
	}
	setIf(&s.StatsContainer, raw.Stats.Container)
	s.StatIndex = raw.Stats.StatIndex

	return s, nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// SelectorConfig serves the current Selectors and reloads them when the
// backing file changes.
type SelectorConfig struct {
	mu          sync.RWMutex
	current     Selectors
	lastModTime time.Time
	filePath    string
}

// StaticSelectors wraps a fixed selector set.
func StaticSelectors(s Selectors) *SelectorConfig {
	return &SelectorConfig{current: s}
}

// LoadSelectors reads filePath and starts a background watcher that
// reloads it every interval. A zero interval disables watching.
func LoadSelectors(filePath string, interval time.Duration) (*SelectorConfig, error) {
	c := &SelectorConfig{filePath: filePath}
	if err := c.reload(); err != nil {
		return nil, err
	}

	if interval > 0 {
		go c.watch(interval)
	}

	return c, nil
}

// reload reads the configuration from the file.
func (c *SelectorConfig) reload() error {
	info, err := os.Stat(c.filePath)
	if err != nil {
		return fmt.Errorf("stat selectors: %w", err)
	}
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		return fmt.Errorf("read selectors: %w", err)
	}
	s, err := ParseSelectors(data)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.current = s
	c.lastModTime = info.ModTime()
	c.mu.Unlock()

	return nil
}

// watch polls the file's modification time.
func (c *SelectorConfig) watch(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		info, err := os.Stat(c.filePath)
		if err != nil {
			continue
		}

		c.mu.RLock()
		changed := info.ModTime().After(c.lastModTime)
		c.mu.RUnlock()

		if !changed {
			continue
		}
		if err := c.reload(); err != nil {
			log.GlobalWarn("selector reload failed", "path", c.filePath, "error", err)
			continue
		}
		log.GlobalInfo("selectors reloaded", "path", c.filePath)
	}
}

// Current returns a copy of the active selector set (thread-safe).
func (c *SelectorConfig) Current() Selectors {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}
