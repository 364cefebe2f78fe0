// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"strings"

	"github.com/Faultbox/ripple/pkg/ripple"
)

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Ripple   RippleConfig   `yaml:"ripple"`
	Source   SourceConfig   `yaml:"source"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RippleConfig holds the simulation constants.
type RippleConfig struct {
	Radius       int  `yaml:"radius"`
	Energy       int  `yaml:"energy"`
	DampingShift uint `yaml:"damping_shift"`
	Refraction   int  `yaml:"refraction"`
	Workers      int  `yaml:"workers"` // 0 = one per CPU
}

// SourceConfig describes the image under the water.
type SourceConfig struct {
	Path       string  `yaml:"path"`
	TranslateY float64 `yaml:"translate_y"` // extra vertical shift after cover fit
}

// SnapshotConfig controls frame captures.
type SnapshotConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Format string `yaml:"format"` // png or bmp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	params := ripple.DefaultParams()
	return &Config{
		Window: WindowConfig{
			Title:  "Ripple",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Ripple: RippleConfig{
			Radius:       params.Radius,
			Energy:       params.Energy,
			DampingShift: params.DampingShift,
			Refraction:   params.Refraction,
		},
		Snapshot: SnapshotConfig{
			Dir:    "screenshots",
			Prefix: "ripple",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Params converts the ripple section to simulation parameters.
func (c *Config) Params() ripple.Params {
	return ripple.Params{
		Radius:       c.Ripple.Radius,
		Energy:       c.Ripple.Energy,
		DampingShift: c.Ripple.DampingShift,
		Refraction:   c.Ripple.Refraction,
		Workers:      c.Ripple.Workers,
	}
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("ripple: %w", err)
	}
	switch strings.ToLower(c.Snapshot.Format) {
	case "png", "bmp":
	default:
		return fmt.Errorf("snapshot format %q not supported (png, bmp)", c.Snapshot.Format)
	}
	return nil
}
