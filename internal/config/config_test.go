package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Window defaults
	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Ripple defaults
	if cfg.Ripple.Radius != 6 {
		t.Errorf("expected radius 6, got %d", cfg.Ripple.Radius)
	}
	if cfg.Ripple.Energy != 600 {
		t.Errorf("expected energy 600, got %d", cfg.Ripple.Energy)
	}
	if cfg.Ripple.DampingShift != 5 {
		t.Errorf("expected damping shift 5, got %d", cfg.Ripple.DampingShift)
	}
	if cfg.Ripple.Refraction != 1024 {
		t.Errorf("expected refraction 1024, got %d", cfg.Ripple.Refraction)
	}

	if cfg.Snapshot.Format != "png" {
		t.Errorf("expected snapshot format png, got %s", cfg.Snapshot.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  title: "Pond"
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

ripple:
  radius: 4
  energy: 900
  damping_shift: 6
  refraction: 512
  workers: 3

source:
  path: "assets/pond.jpg"
  translate_y: -24

snapshot:
  dir: "shots"
  format: "bmp"

logging:
  level: "debug"
  log_file: "ripple.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Title != "Pond" {
		t.Errorf("expected title Pond, got %s", cfg.Window.Title)
	}
	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}

	p := cfg.Params()
	if p.Radius != 4 || p.Energy != 900 || p.DampingShift != 6 || p.Refraction != 512 || p.Workers != 3 {
		t.Errorf("unexpected ripple params %+v", p)
	}

	if cfg.Source.Path != "assets/pond.jpg" {
		t.Errorf("expected source path assets/pond.jpg, got %s", cfg.Source.Path)
	}
	if cfg.Source.TranslateY != -24 {
		t.Errorf("expected translate_y -24, got %f", cfg.Source.TranslateY)
	}

	// Unset keys keep their defaults.
	if cfg.Snapshot.Prefix != "ripple" {
		t.Errorf("expected default snapshot prefix, got %s", cfg.Snapshot.Prefix)
	}
	if cfg.Snapshot.Dir != "shots" || cfg.Snapshot.Format != "bmp" {
		t.Errorf("unexpected snapshot config %+v", cfg.Snapshot)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "ripple.log" {
		t.Errorf("expected log file 'ripple.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero width", func(c *Config) { c.Window.Width = 0 }, true},
		{"negative height", func(c *Config) { c.Window.Height = -1 }, true},
		{"zero radius", func(c *Config) { c.Ripple.Radius = 0 }, true},
		{"zero refraction", func(c *Config) { c.Ripple.Refraction = 0 }, true},
		{"damping shift too large", func(c *Config) { c.Ripple.DampingShift = 16 }, true},
		{"bmp snapshots", func(c *Config) { c.Snapshot.Format = "BMP" }, false},
		{"jpeg snapshots", func(c *Config) { c.Snapshot.Format = "jpeg" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "image flags",
			setup: func() {
				*flagImage = "pond.png"
				*flagTranslateY = 15
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Source.Path != "pond.png" {
					t.Errorf("expected source pond.png, got %s", cfg.Source.Path)
				}
				if cfg.Source.TranslateY != 15 {
					t.Errorf("expected translate_y 15, got %f", cfg.Source.TranslateY)
				}
			},
			teardown: func() {
				*flagImage = ""
				*flagTranslateY = 0
			},
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "workers flag",
			setup: func() { *flagWorkers = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Ripple.Workers != 0 {
					t.Errorf("expected workers 0, got %d", cfg.Ripple.Workers)
				}
			},
			teardown: func() { *flagWorkers = -1 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			cfg.Ripple.Workers = 8
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width from the flag, height from the file.
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("ripple:\n  refraction: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject zero refraction")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Source.Path = "lake.jpg"
	cfg.Ripple.Energy = 1200

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Source.Path != "lake.jpg" || loaded.Ripple.Energy != 1200 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
