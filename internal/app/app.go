// Package app implements the SDL2 ripple viewer main loop.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/ripple/internal/config"
	"github.com/Faultbox/ripple/internal/engine/input"
	"github.com/Faultbox/ripple/internal/engine/present"
	"github.com/Faultbox/ripple/internal/engine/viewport"
	"github.com/Faultbox/ripple/internal/engine/window"
	"github.com/Faultbox/ripple/internal/session"
	"github.com/Faultbox/ripple/internal/snapshot"
	"github.com/Faultbox/ripple/pkg/ripple"
)

// App is the windowed viewer.
type App struct {
	cfg       *config.Config
	log       *zap.Logger
	running   bool
	window    *window.Window
	presenter *present.Presenter
	input     *input.Input
	session   *session.Session
}

// New creates the window, GL presenter and simulation session.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	a := &App{cfg: cfg, log: log}

	// Create window (this also creates OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create presenter (AFTER window, since OpenGL context must exist)
	dw, dh := a.window.DrawableSize()
	a.presenter, err = present.New(dw, dh, log.Named("present"))
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}

	sim, err := ripple.New(cfg.Params(), ripple.WithLogger(log.Named("ripple")))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}
	shots, err := snapshot.NewWriter(cfg.Snapshot.Dir, cfg.Snapshot.Prefix, cfg.Snapshot.Format)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create snapshot writer: %w", err)
	}
	a.session = session.New(sim, shots, log.Named("session"))
	a.input = input.New(a.window.Size)

	log.Info("viewer initialized successfully")
	return a, nil
}

// viewport reads the current window and drawable sizes.
func (a *App) viewport() viewport.Viewport {
	ww, wh := a.window.Size()
	dw, dh := a.window.DrawableSize()
	return viewport.New(ww, wh, dw, dh)
}

// Run shows src under the water until the window is closed or Esc is pressed.
func (a *App) Run(src ripple.Source) error {
	if err := a.session.Open(a.viewport(), src, a.cfg.Source.TranslateY); err != nil {
		return fmt.Errorf("opening session: %w", err)
	}

	a.running = true
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.running {
		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		for _, event := range a.input.Events() {
			a.handle(event)
		}

		// 2. Step and render the surface
		pix, w, h, fresh := a.session.Frame()
		if fresh {
			if err := a.presenter.Upload(pix, w, h); err != nil {
				return fmt.Errorf("upload error: %w", err)
			}
		}

		// 3. Present
		a.presenter.Draw()
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Uint64("rendered", a.session.Frames()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handle(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		vp := a.viewport()
		if vp.Valid() {
			a.presenter.Resize(vp.DrawableW, vp.DrawableH)
		}
		if err := a.session.Resize(vp); err != nil {
			a.log.Error("resize failed", zap.Error(err))
		}

	case input.EventPointerMove:
		a.session.Pointer(event.X, event.Y)

	case input.EventKeyDown:
		switch event.Key {
		case sdl.K_ESCAPE:
			a.running = false
		case sdl.K_F12:
			if _, err := a.session.Snapshot(); err != nil {
				if errors.Is(err, ripple.ErrNotReady) {
					a.log.Warn("snapshot skipped, texture not ready")
				} else {
					a.log.Error("snapshot failed", zap.Error(err))
				}
			}
		}
	}
}

// Close cleans up viewer resources.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.session != nil {
		a.session.Close()
	}
	if a.presenter != nil {
		a.presenter.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
