package config

import (
	"fmt"
	"time"

	"github.com/1broseidon/presmode/internal/layout"
)

// DisplayProfile overrides presentation settings for one display, keyed by
// its serial screen id.
type DisplayProfile struct {
	Name              string `yaml:"name,omitempty"`
	PresentationWidth int    `yaml:"presentation_width,omitempty"`
}

// Config is the process-wide configuration. All fields have defaults; the
// config file is optional.
type Config struct {
	// Padding is the margin kept between tiled windows and the visible
	// region on every edge.
	Padding layout.Padding `yaml:"padding"`

	// PresentationWidth is the target width for the presentation mode.
	PresentationWidth int `yaml:"presentation_width"`

	// SettleDelayMS is how long to wait after a mode switch before
	// querying geometry. Mode switches are asynchronous at the OS level;
	// querying too early yields stale bounds.
	SettleDelayMS int `yaml:"settle_delay_ms"`

	// DisplayplacerPath overrides binary discovery.
	DisplayplacerPath string `yaml:"displayplacer_path,omitempty"`

	// SkipApps replaces the built-in skip list when non-empty.
	SkipApps []string `yaml:"skip_apps,omitempty"`

	// Displays maps serial screen ids to per-display overrides.
	Displays map[string]DisplayProfile `yaml:"displays,omitempty"`
}

// System surfaces that own windows but must never be tiled.
var defaultSkipApps = []string{
	"Dock",
	"Window Server",
	"WindowManager",
	"Control Center",
	"Notification Center",
	"Spotlight",
	"SystemUIServer",
	"Finder",
	"universalAccessAuthWarn",
	"AXVisualSupportAgent",
	"TextInputMenuAgent",
	"Raycast",
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Padding:           layout.Padding{Top: 12, Bottom: 12, Left: 12, Right: 12},
		PresentationWidth: 1280,
		SettleDelayMS:     2000,
	}
}

// Validate checks invariants that would otherwise surface as nonsense
// geometry or hangs deep in a workflow.
func (c *Config) Validate() error {
	if c.Padding.Top < 0 || c.Padding.Bottom < 0 || c.Padding.Left < 0 || c.Padding.Right < 0 {
		return fmt.Errorf("padding values must be non-negative")
	}
	if c.PresentationWidth <= 0 {
		return fmt.Errorf("presentation_width must be positive, got %d", c.PresentationWidth)
	}
	if c.SettleDelayMS < 0 {
		return fmt.Errorf("settle_delay_ms must be non-negative, got %d", c.SettleDelayMS)
	}
	for serial, profile := range c.Displays {
		if profile.PresentationWidth < 0 {
			return fmt.Errorf("displays.%s.presentation_width must be non-negative", serial)
		}
	}
	return nil
}

// SettleDelay returns the settle delay as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

// WidthForDisplay returns the presentation width for a display, honoring a
// per-display override when present.
func (c *Config) WidthForDisplay(serial string) int {
	if profile, ok := c.Displays[serial]; ok && profile.PresentationWidth > 0 {
		return profile.PresentationWidth
	}
	return c.PresentationWidth
}

// SkipSet returns the effective skip-app set.
func (c *Config) SkipSet() map[string]struct{} {
	apps := c.SkipApps
	if len(apps) == 0 {
		apps = defaultSkipApps
	}
	set := make(map[string]struct{}, len(apps))
	for _, app := range apps {
		set[app] = struct{}{}
	}
	return set
}
