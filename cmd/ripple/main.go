// Package main is the entry point for the ripple viewer.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/ripple/internal/app"
	"github.com/Faultbox/ripple/internal/assets"
	"github.com/Faultbox/ripple/internal/config"
	"github.com/Faultbox/ripple/internal/engine/texture"
	"github.com/Faultbox/ripple/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Ripple ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	manager := assets.NewManager(logger.Named("assets"))
	defer manager.Close()
	for _, dir := range []string{"assets", filepath.Join(config.ConfigDir(), "images")} {
		if err := manager.AddDir(dir); err == nil {
			logger.Debug("asset dir added", zap.String("dir", dir))
		}
	}

	path := cfg.Source.Path
	if path == "" {
		path, err = pickImage()
		if err != nil {
			logger.Error("no source image", zap.Error(err))
			os.Exit(1)
		}
	}

	// Decode before opening the window so a bad file fails fast.
	if _, err := manager.Image(path); err != nil {
		logger.Error("failed to load source image", zap.String("path", path), zap.Error(err))
		os.Exit(1)
	}

	a, err := app.New(cfg, logger.Log)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(manager.Source(path)); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

// pickImage asks for a source image with a native file dialog.
func pickImage() (string, error) {
	filename, err := dialog.File().
		Filter("Images", texture.Extensions()...).
		Filter("All Files", "*").
		Title("Choose an image").
		Load()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return "", errors.New("image selection cancelled (use -image or source.path)")
		}
		return "", fmt.Errorf("file dialog: %w", err)
	}
	return filename, nil
}
