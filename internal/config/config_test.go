package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-carousel/common"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "carousel.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAndResolve(t *testing.T) {
	path := writeConfig(t, `{
		"orientation": "vertical",
		"margin": 0.2,
		"width": 800,
		"rotation_time_ms": 90000,
		"present_mode": "uncapped"
	}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Resolve(Flags{Height: 600}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if cfg.Orientation != "vertical" || cfg.Margin != 0.2 {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("viewport = %dx%d, want 800x600", cfg.Width, cfg.Height)
	}
	if cfg.ZoomTimeMs != 250 || cfg.Items != 6 || cfg.TickRate != 120 {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	opts, err := cfg.CarouselOptions()
	if err != nil || len(opts) != 5 {
		t.Fatalf("CarouselOptions = %d options, %v", len(opts), err)
	}
}

func TestFlagsOverride(t *testing.T) {
	cfg := Config{Margin: 0.3, Orientation: "vertical", ItemDir: "photos"}
	err := cfg.Resolve(Flags{Margin: 0, MarginSet: true, Orientation: "h", Profile: true})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Margin != 0 || cfg.Orientation != "h" || !cfg.Profile {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if !filepath.IsAbs(cfg.ItemDir) {
		t.Fatalf("item dir %q not made absolute", cfg.ItemDir)
	}
}

func TestResolveRejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"orientation", Config{Orientation: "diagonal"}},
		{"margin", Config{Margin: -0.1}},
		{"present mode", Config{PresentMode: "triple"}},
		{"zoom time", Config{ZoomTimeMs: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if err := cfg.Resolve(Flags{}); !errors.Is(err, common.ErrInvalidArgument) {
				t.Fatalf("Resolve error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestMilliseconds(t *testing.T) {
	tests := []struct {
		ms   int
		want time.Duration
	}{
		{0, 0},
		{250, 250 * time.Millisecond},
		{60000, time.Minute},
		{90000, time.Minute},
	}
	for _, tt := range tests {
		got, err := Milliseconds(tt.ms)
		if err != nil || got != tt.want {
			t.Errorf("Milliseconds(%d) = %v, %v; want %v", tt.ms, got, err, tt.want)
		}
	}
	if _, err := Milliseconds(-1); err == nil {
		t.Errorf("Milliseconds(-1) succeeded")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("missing file loaded")
	}
	if _, err := Load(writeConfig(t, "{not json")); err == nil {
		t.Errorf("malformed file loaded")
	}
}
