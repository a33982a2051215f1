// Package config loads viewer settings from a JSON file and merges command line overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Carmen-Shannon/oxy-carousel/common"
	"github.com/Carmen-Shannon/oxy-carousel/engine/carousel"
)

// MaxDurationMs caps every configured duration at one minute.
const MaxDurationMs = 60000

// Config holds the carousel and viewer settings.
type Config struct {
	// Items
	ItemDir      string   `json:"item_dir"`
	Extensions   []string `json:"extensions"`
	Items        int      `json:"items"`
	MaxDimension int      `json:"max_dimension"`

	// Carousel
	Orientation    string  `json:"orientation"`
	Margin         float64 `json:"margin"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	ZoomTimeMs     int     `json:"zoom_time_ms"`
	RotationTimeMs int     `json:"rotation_time_ms"`

	// Viewer
	PresentMode      string  `json:"present_mode"`
	TickRate         float64 `json:"tick_rate"`
	FrameLimit       float64 `json:"frame_limit"`
	Profile          bool    `json:"profile"`
	SoftwareRenderer bool    `json:"software_renderer"`
}

// Flags holds CLI flag values that override config file settings. Zero values leave the file
// setting alone; Margin only applies when MarginSet is true since zero is a valid margin.
type Flags struct {
	ItemDir        string
	Items          int
	Orientation    string
	Margin         float64
	MarginSet      bool
	Width          int
	Height         int
	ZoomTimeMs     int
	RotationTimeMs int
	PresentMode    string
	Profile        bool
}

// Load reads a JSON config file. Fields not set in the file keep their zero values.
//
// Parameters:
//   - path: the config file
//
// Returns:
//   - Config: the parsed settings
//   - error: an error if the file cannot be read or parsed
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies flag overrides, fills defaults and validates the result.
//
// Parameters:
//   - flags: command line overrides
//
// Returns:
//   - error: ErrInvalidArgument for an unknown orientation, a negative margin or duration
func (c *Config) Resolve(flags Flags) error {
	if flags.ItemDir != "" {
		c.ItemDir = flags.ItemDir
	}
	if flags.Items > 0 {
		c.Items = flags.Items
	}
	if flags.Orientation != "" {
		c.Orientation = flags.Orientation
	}
	if flags.MarginSet {
		c.Margin = flags.Margin
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.ZoomTimeMs > 0 {
		c.ZoomTimeMs = flags.ZoomTimeMs
	}
	if flags.RotationTimeMs > 0 {
		c.RotationTimeMs = flags.RotationTimeMs
	}
	if flags.PresentMode != "" {
		c.PresentMode = flags.PresentMode
	}
	if flags.Profile {
		c.Profile = true
	}

	if c.ItemDir != "" {
		abs, err := filepath.Abs(c.ItemDir)
		if err == nil {
			c.ItemDir = abs
		}
	}
	if c.Items <= 0 {
		c.Items = 6
	}
	c.Orientation = common.Coalesce(c.Orientation, common.OrientationHorizontal.String())
	if c.Width <= 0 {
		c.Width = carousel.DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = carousel.DefaultHeight
	}
	if c.ZoomTimeMs == 0 {
		c.ZoomTimeMs = int(carousel.DefaultZoomTime / time.Millisecond)
	}
	if c.RotationTimeMs == 0 {
		c.RotationTimeMs = int(carousel.DefaultRotationTime / time.Millisecond)
	}
	c.PresentMode = common.Coalesce(c.PresentMode, "vsync")
	if c.TickRate <= 0 {
		c.TickRate = 120
	}

	if _, err := common.ParseOrientation(c.Orientation); err != nil {
		return err
	}
	if c.Margin < 0 {
		return common.InvalidArgument("margin must be >= 0, got %v", c.Margin)
	}
	if c.PresentMode != "vsync" && c.PresentMode != "uncapped" {
		return common.InvalidArgument("present mode must be vsync or uncapped, got %q", c.PresentMode)
	}
	if _, err := Milliseconds(c.ZoomTimeMs); err != nil {
		return err
	}
	if _, err := Milliseconds(c.RotationTimeMs); err != nil {
		return err
	}
	return nil
}

// Milliseconds converts a millisecond count to a duration, capped at MaxDurationMs.
//
// Parameters:
//   - ms: the millisecond count
//
// Returns:
//   - time.Duration: the duration
//   - error: ErrInvalidArgument for negative counts
func Milliseconds(ms int) (time.Duration, error) {
	if ms < 0 {
		return 0, common.InvalidArgument("duration must be >= 0 ms, got %d", ms)
	}
	return time.Duration(min(ms, MaxDurationMs)) * time.Millisecond, nil
}

// CarouselOptions turns a resolved config into carousel options.
//
// Returns:
//   - []carousel.CarouselBuilderOption: orientation, margin, viewport and timing
//   - error: an error if the config was not resolved to valid values
func (c Config) CarouselOptions() ([]carousel.CarouselBuilderOption, error) {
	orientation, err := common.ParseOrientation(c.Orientation)
	if err != nil {
		return nil, err
	}
	zoom, err := Milliseconds(c.ZoomTimeMs)
	if err != nil {
		return nil, err
	}
	rotation, err := Milliseconds(c.RotationTimeMs)
	if err != nil {
		return nil, err
	}
	return []carousel.CarouselBuilderOption{
		carousel.WithOrientation(orientation),
		carousel.WithMargin(c.Margin),
		carousel.WithViewport(c.Width, c.Height),
		carousel.WithZoomTime(zoom),
		carousel.WithRotationTime(rotation),
	}, nil
}
