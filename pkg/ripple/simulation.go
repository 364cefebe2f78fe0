package ripple

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Source yields the source image. Load may block on I/O; it runs off the
// frame goroutine.
type Source interface {
	Load(ctx context.Context) (image.Image, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (image.Image, error)

// Load calls fn.
func (fn SourceFunc) Load(ctx context.Context) (image.Image, error) {
	return fn(ctx)
}

// StaticSource returns a Source for an already decoded image.
func StaticSource(img image.Image) Source {
	return SourceFunc(func(context.Context) (image.Image, error) {
		return img, nil
	})
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.log = l
		}
	}
}

// pipeline is everything that lives for one grid size.
type pipeline struct {
	gen           uint64
	width, height int
	field         *HeightField
	renderer      *Renderer

	done       chan struct{} // closed when the capture finished or failed
	captureErr error         // set before done is closed
}

// Simulation owns one ripple surface: the height field, the renderer and the
// source image capture.
//
// Tick, Frame and Size belong to the host's frame goroutine. OnPointerMove may
// be called from any goroutine. Initialize, OnResize and Stop are serialized
// internally.
type Simulation struct {
	params Params
	log    *zap.Logger

	state   atomic.Pointer[pipeline]
	running atomic.Bool

	mu         sync.Mutex
	gen        uint64
	srcGen     uint64 // bumped whenever the source changes
	source     Source
	translateY float64
	image      image.Image // decoded source, reused on resize
	cancel     context.CancelFunc
	inflight   []chan struct{} // done channels of captures that may still run
}

// New creates a stopped, uninitialized simulation.
func New(params Params, opts ...Option) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	s := &Simulation{
		params: params,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Params returns the simulation constants.
func (s *Simulation) Params() Params {
	return s.params
}

// Initialize builds the grids and buffers for a width×height surface and
// starts capturing the source image in the background. Any previous state is
// discarded.
func (s *Simulation) Initialize(width, height int, src Source, translateY float64) error {
	if src == nil {
		return errors.New("ripple: nil source")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.srcGen++
	s.source = src
	s.translateY = translateY
	s.image = nil
	return s.reinitLocked(width, height)
}

// OnResize rebuilds the pipeline at the new size. Wave state is discarded and
// the texture is recaptured from the already loaded source image.
func (s *Simulation) OnResize(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return ErrNotReady
	}
	return s.reinitLocked(width, height)
}

// OnPointerMove disturbs the surface at a pixel position. Positions outside
// the surface only affect the cells their brush still overlaps.
func (s *Simulation) OnPointerMove(x, y int) {
	if p := s.state.Load(); p != nil {
		p.field.Disturb(x, y, s.params.Radius, s.params.Energy)
	}
}

// Start enables Tick.
func (s *Simulation) Start() {
	s.running.Store(true)
}

// Stop halts the simulation and releases all buffers. A later Initialize
// starts over.
func (s *Simulation) Stop() {
	s.running.Store(false)

	s.mu.Lock()
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state.Store(nil)
	s.srcGen++
	s.source = nil
	s.image = nil
	pending := s.inflight
	s.inflight = nil
	s.mu.Unlock()

	// Captures need s.mu to finish, so they are awaited after unlocking.
	for _, done := range pending {
		<-done
	}
	s.log.Debug("simulation stopped")
}

// Running reports whether Start was called without a later Stop.
func (s *Simulation) Running() bool {
	return s.running.Load()
}

// Ready reports whether the current texture has been captured.
func (s *Simulation) Ready() bool {
	p := s.state.Load()
	return p != nil && p.renderer.Ready()
}

// Tick advances and renders one frame. It returns false when no new frame was
// produced: stopped, uninitialized or still capturing.
func (s *Simulation) Tick() bool {
	if !s.running.Load() {
		return false
	}
	p := s.state.Load()
	if p == nil || !p.renderer.Ready() {
		return false
	}

	p.field.Step()
	err := p.renderer.Render(p.field)
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrDimensionMismatch):
		s.log.Warn("frame buffers out of sync with grid, reinitializing",
			zap.Int("width", p.width),
			zap.Int("height", p.height),
		)
		if err := s.OnResize(p.width, p.height); err != nil {
			s.log.Error("reinitialization failed", zap.Error(err))
		}
	}
	return false
}

// Frame returns the output RGBA buffer and its size. The buffer is owned by
// the simulation and is rewritten by the next Tick.
func (s *Simulation) Frame() (pix []byte, width, height int) {
	p := s.state.Load()
	if p == nil {
		return nil, 0, 0
	}
	return p.renderer.Pixels(), p.width, p.height
}

// Size returns the active grid dimensions, or zeros when uninitialized.
func (s *Simulation) Size() (width, height int) {
	p := s.state.Load()
	if p == nil {
		return 0, 0
	}
	return p.width, p.height
}

// Field returns the active height field, or nil when uninitialized.
func (s *Simulation) Field() *HeightField {
	p := s.state.Load()
	if p == nil {
		return nil
	}
	return p.field
}

// WaitReady blocks until the current capture finishes, the context ends or
// the simulation is stopped. It follows re-initializations that happen while
// waiting.
func (s *Simulation) WaitReady(ctx context.Context) error {
	for {
		p := s.state.Load()
		if p == nil {
			return ErrStopped
		}
		select {
		case <-p.done:
			if s.state.Load() != p {
				continue
			}
			return p.captureErr
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// reinitLocked replaces the pipeline. s.mu must be held.
func (s *Simulation) reinitLocked(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	field, err := NewHeightField(width, height, s.params.DampingShift)
	if err != nil {
		return err
	}
	renderer, err := NewRenderer(width, height, s.params.Refraction, s.params.Workers)
	if err != nil {
		return err
	}

	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	p := &pipeline{
		gen:      s.gen,
		width:    width,
		height:   height,
		field:    field,
		renderer: renderer,
		done:     make(chan struct{}),
	}
	s.state.Store(p)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.trackLocked(p.done)
	go s.capture(ctx, p, s.source, s.srcGen, s.image, s.translateY)

	s.log.Debug("simulation initialized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Uint64("generation", p.gen),
	)
	return nil
}

// trackLocked records a capture's done channel and forgets finished ones.
// s.mu must be held.
func (s *Simulation) trackLocked(done chan struct{}) {
	live := s.inflight[:0]
	for _, ch := range s.inflight {
		select {
		case <-ch:
		default:
			live = append(live, ch)
		}
	}
	s.inflight = append(live, done)
}

// capture loads the source if needed, draws the cover-fit texture and
// installs it when p is still the active pipeline. srcGen identifies src so
// the decoded image is only kept while src is still the configured source.
func (s *Simulation) capture(ctx context.Context, p *pipeline, src Source, srcGen uint64, img image.Image, translateY float64) {
	defer close(p.done)

	if img == nil {
		loaded, err := src.Load(ctx)
		if err != nil {
			p.captureErr = fmt.Errorf("loading source image: %w", err)
			if ctx.Err() == nil {
				s.log.Error("source image load failed", zap.Error(err))
			}
			return
		}
		img = loaded
		s.mu.Lock()
		if s.srcGen == srcGen {
			s.image = img
		}
		s.mu.Unlock()
	}

	tex, err := Capture(img, p.width, p.height, translateY)
	if err != nil {
		p.captureErr = fmt.Errorf("capturing texture: %w", err)
		s.log.Error("texture capture failed", zap.Error(err))
		return
	}
	if ctx.Err() != nil {
		p.captureErr = ctx.Err()
		return
	}
	p.captureErr = s.install(p, tex)
}

// install hands the texture to p's renderer unless p was replaced meanwhile.
func (s *Simulation) install(p *pipeline, tex *Texture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur := s.state.Load(); cur != p || p.gen != s.gen {
		s.log.Debug("discarding stale capture", zap.Uint64("generation", p.gen))
		return context.Canceled
	}
	if err := p.renderer.SetTexture(tex); err != nil {
		s.log.Warn("captured texture does not match grid, reinitializing",
			zap.Int("texture_width", tex.Width),
			zap.Int("texture_height", tex.Height),
			zap.Int("width", p.width),
			zap.Int("height", p.height),
		)
		if rerr := s.reinitLocked(p.width, p.height); rerr != nil {
			return rerr
		}
		return err
	}
	s.log.Info("texture captured",
		zap.Int("width", p.width),
		zap.Int("height", p.height),
	)
	return nil
}
