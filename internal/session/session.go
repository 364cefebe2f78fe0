// Package session drives one ripple simulation for an interactive host.
// It is independent of the windowing layer so SDL and ebiten hosts share it.
package session

import (
	"bytes"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/ripple/internal/engine/viewport"
	"github.com/Faultbox/ripple/internal/snapshot"
	"github.com/Faultbox/ripple/pkg/ripple"
)

// Session routes host events into a simulation. The simulation runs at the
// drawable size, so pointer positions are scaled from window points.
type Session struct {
	sim   *ripple.Simulation
	shots *snapshot.Writer
	log   *zap.Logger

	vp     viewport.Viewport
	frames uint64
}

// New creates a session. shots may be nil to disable snapshots.
func New(sim *ripple.Simulation, shots *snapshot.Writer, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		sim:   sim,
		shots: shots,
		log:   log,
	}
}

// Open initializes the simulation for vp and starts it.
func (s *Session) Open(vp viewport.Viewport, src ripple.Source, translateY float64) error {
	if !vp.Valid() {
		return fmt.Errorf("%w: window %dx%d, drawable %dx%d",
			ripple.ErrInvalidSize, vp.WindowW, vp.WindowH, vp.DrawableW, vp.DrawableH)
	}
	if err := s.sim.Initialize(vp.DrawableW, vp.DrawableH, src, translateY); err != nil {
		return err
	}
	s.vp = vp
	s.sim.Start()
	s.log.Info("session opened",
		zap.Int("width", vp.DrawableW),
		zap.Int("height", vp.DrawableH),
		zap.Float64("scale", vp.Scale()),
	)
	return nil
}

// Pointer disturbs the surface at a window position.
func (s *Session) Pointer(x, y int) {
	px, py := s.vp.ToPixels(x, y)
	s.sim.OnPointerMove(px, py)
}

// Resize adapts to a new window. Empty sizes (minimised windows) are ignored
// and the simulation is only rebuilt when the drawable size changes.
func (s *Session) Resize(vp viewport.Viewport) error {
	if !vp.Valid() {
		s.log.Debug("ignoring empty viewport",
			zap.Int("width", vp.DrawableW),
			zap.Int("height", vp.DrawableH),
		)
		return nil
	}
	prev := s.vp
	s.vp = vp
	if vp.DrawableW == prev.DrawableW && vp.DrawableH == prev.DrawableH {
		return nil
	}
	return s.sim.OnResize(vp.DrawableW, vp.DrawableH)
}

// Viewport returns the current window to drawable mapping.
func (s *Session) Viewport() viewport.Viewport {
	return s.vp
}

// Frame advances the simulation one step. fresh is false when no new frame
// was rendered, for example while the texture is still being captured.
func (s *Session) Frame() (pix []byte, width, height int, fresh bool) {
	fresh = s.sim.Tick()
	if fresh {
		s.frames++
	}
	pix, width, height = s.sim.Frame()
	return pix, width, height, fresh
}

// Frames returns the number of frames rendered since New.
func (s *Session) Frames() uint64 {
	return s.frames
}

// Snapshot writes the current frame to disk and returns the file path.
func (s *Session) Snapshot() (string, error) {
	if s.shots == nil {
		return "", errors.New("snapshots disabled")
	}
	if !s.sim.Ready() {
		return "", ripple.ErrNotReady
	}
	pix, w, h := s.sim.Frame()
	path, err := s.shots.CaptureFromPixels(bytes.Clone(pix), w, h)
	if err != nil {
		return "", err
	}
	s.log.Info("snapshot saved", zap.String("path", path))
	return path, nil
}

// Close stops the simulation and releases its buffers.
func (s *Session) Close() {
	s.sim.Stop()
	s.log.Info("session closed", zap.Uint64("frames", s.frames))
}
