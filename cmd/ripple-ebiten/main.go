// Package main runs the ripple viewer on ebiten instead of SDL2.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/Faultbox/ripple/internal/assets"
	"github.com/Faultbox/ripple/internal/config"
	"github.com/Faultbox/ripple/internal/engine/viewport"
	"github.com/Faultbox/ripple/internal/logger"
	"github.com/Faultbox/ripple/internal/session"
	"github.com/Faultbox/ripple/internal/snapshot"
	"github.com/Faultbox/ripple/pkg/ripple"
)

// game adapts a session to ebiten.Game. The logical screen is sized in
// device pixels so the simulation runs at full resolution.
type game struct {
	session    *session.Session
	source     ripple.Source
	translateY float64

	width, height int
	opened        bool
	motion        *session.Motion
	touches       []ebiten.TouchID
	active        []int
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.width == 0 || g.height == 0 {
		return nil
	}

	vp := viewport.New(g.width, g.height, g.width, g.height)
	if !g.opened {
		if err := g.session.Open(vp, g.source, g.translateY); err != nil {
			return fmt.Errorf("opening session: %w", err)
		}
		g.opened = true
	} else if err := g.session.Resize(vp); err != nil {
		logger.Error("resize failed", zap.Error(err))
	}

	if x, y := ebiten.CursorPosition(); g.motion.Cursor(x, y) {
		g.session.Pointer(x, y)
	}
	g.touches = ebiten.AppendTouchIDs(g.touches[:0])
	g.active = g.active[:0]
	for _, id := range g.touches {
		g.active = append(g.active, int(id))
		if x, y := ebiten.TouchPosition(id); g.motion.Touch(int(id), x, y) {
			g.session.Pointer(x, y)
		}
	}
	g.motion.Retain(g.active)

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if _, err := g.session.Snapshot(); err != nil {
			logger.Warn("snapshot failed", zap.Error(err))
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	pix, w, h, fresh := g.session.Frame()
	if !fresh {
		return
	}
	// Skip frames from before a resize caught up with the screen.
	if b := screen.Bounds(); b.Dx() != w || b.Dy() != h {
		return
	}
	screen.WritePixels(pix)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	g.width = int(float64(outsideWidth) * scale)
	g.height = int(float64(outsideHeight) * scale)
	return g.width, g.height
}

func main() {
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

	if cfg.Source.Path == "" {
		logger.Error("no source image, set -image or source.path")
		os.Exit(1)
	}

	manager := assets.NewManager(logger.Named("assets"))
	defer manager.Close()
	_ = manager.AddDir("assets")
	if _, err := manager.Image(cfg.Source.Path); err != nil {
		logger.Error("failed to load source image", zap.String("path", cfg.Source.Path), zap.Error(err))
		os.Exit(1)
	}

	sim, err := ripple.New(cfg.Params(), ripple.WithLogger(logger.Named("ripple")))
	if err != nil {
		logger.Error("failed to create simulation", zap.Error(err))
		os.Exit(1)
	}
	shots, err := snapshot.NewWriter(cfg.Snapshot.Dir, cfg.Snapshot.Prefix, cfg.Snapshot.Format)
	if err != nil {
		logger.Error("failed to create snapshot writer", zap.Error(err))
		os.Exit(1)
	}
	sess := session.New(sim, shots, logger.Named("session"))
	defer sess.Close()

	g := &game{
		session:    sess,
		source:     manager.Source(cfg.Source.Path),
		translateY: cfg.Source.TranslateY,
		motion:     session.NewMotion(),
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)
	ebiten.SetVsyncEnabled(cfg.Window.VSync)
	ebiten.SetScreenClearedEveryFrame(false)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}
