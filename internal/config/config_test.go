package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PresentationWidth != 1280 {
		t.Errorf("expected default width 1280, got %d", cfg.PresentationWidth)
	}
	if cfg.SettleDelay() != 2*time.Second {
		t.Errorf("expected default settle delay 2s, got %v", cfg.SettleDelay())
	}
	if cfg.Padding.Top != 12 || cfg.Padding.Left != 12 {
		t.Errorf("expected default padding 12, got %+v", cfg.Padding)
	}
}

func TestLoadFromPath_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
padding:
  top: 20
  bottom: 20
  left: 8
  right: 8
presentation_width: 1440
settle_delay_ms: 500
displays:
  s536870912:
    name: ProArt External
    presentation_width: 1280
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Padding.Top != 20 || cfg.Padding.Right != 8 {
		t.Errorf("padding not applied: %+v", cfg.Padding)
	}
	if cfg.PresentationWidth != 1440 {
		t.Errorf("expected width 1440, got %d", cfg.PresentationWidth)
	}
	if got := cfg.WidthForDisplay("s536870912"); got != 1280 {
		t.Errorf("expected per-display override 1280, got %d", got)
	}
	if got := cfg.WidthForDisplay("s4251086178"); got != 1440 {
		t.Errorf("expected global width for unknown display, got %d", got)
	}
}

func TestLoadFromPath_UnknownKeyRejected(t *testing.T) {
	path := writeConfig(t, "presentation_widht: 1280\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "presentation_widht") {
		t.Errorf("error should name the unknown key: %v", err)
	}
}

func TestLoadFromPath_ValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"negative padding", "padding:\n  top: -1\n"},
		{"zero width", "presentation_width: 0\n"},
		{"negative delay", "settle_delay_ms: -100\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := LoadFromPath(path); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestSkipSet(t *testing.T) {
	cfg := Default()
	set := cfg.SkipSet()
	if _, ok := set["Dock"]; !ok {
		t.Errorf("default skip set should include Dock")
	}

	cfg.SkipApps = []string{"OnlyThis"}
	set = cfg.SkipSet()
	if _, ok := set["Dock"]; ok {
		t.Errorf("explicit skip_apps must replace the default set")
	}
	if _, ok := set["OnlyThis"]; !ok {
		t.Errorf("explicit skip app missing")
	}
}
