package ripple

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// minRowsPerBand keeps tiny frames on a single goroutine.
const minRowsPerBand = 16

// Renderer refracts a captured texture through a height field into an RGBA
// output buffer.
//
// SetTexture may be called from any goroutine. Render and Pixels belong to the
// frame goroutine.
type Renderer struct {
	width, height int
	refraction    int
	workers       int

	texture atomic.Pointer[Texture]
	primed  *Texture // texture the output buffer was seeded from
	out     []byte
}

// NewRenderer allocates a renderer and its output buffer. workers <= 0 uses
// one goroutine per CPU.
func NewRenderer(width, height, refraction, workers int) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	if refraction <= 0 {
		refraction = DefaultRefraction
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Renderer{
		width:      width,
		height:     height,
		refraction: refraction,
		workers:    workers,
		out:        make([]byte, width*height*4),
	}, nil
}

// Size returns the output dimensions.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// SetTexture installs the captured source texture.
func (r *Renderer) SetTexture(t *Texture) error {
	if t == nil || t.Width != r.width || t.Height != r.height || len(t.Pix) != r.width*r.height*4 {
		return ErrDimensionMismatch
	}
	r.texture.Store(t)
	return nil
}

// Ready reports whether a texture has been installed.
func (r *Renderer) Ready() bool {
	return r.texture.Load() != nil
}

// Pixels returns the output buffer. It is overwritten by every Render.
func (r *Renderer) Pixels() []byte {
	return r.out
}

// Render writes one frame from the field's current heights.
//
// A pixel with zero height copies the texel at its own position. Otherwise
// the texel is read at (x + (x-cx)*h/K, y + (y-cy)*h/K), clamped to the
// texture edges. Only RGB is written; alpha keeps the texture's value.
func (r *Renderer) Render(f *HeightField) error {
	tex := r.texture.Load()
	if tex == nil {
		return ErrNotReady
	}
	if fw, fh := f.Size(); fw != r.width || fh != r.height {
		return ErrDimensionMismatch
	}
	if r.primed != tex {
		copy(r.out, tex.Pix)
		r.primed = tex
	}

	heights := f.Current()
	bands := min(r.workers, r.height/minRowsPerBand)
	if bands <= 1 {
		r.renderRows(tex.Pix, heights, 0, r.height)
		return nil
	}

	rowsPer := (r.height + bands - 1) / bands
	var g errgroup.Group
	for y0 := 0; y0 < r.height; y0 += rowsPer {
		y1 := min(y0+rowsPer, r.height)
		g.Go(func() error {
			r.renderRows(tex.Pix, heights, y0, y1)
			return nil
		})
	}
	return g.Wait()
}

// renderRows renders rows [y0, y1). Bands never overlap in the output.
func (r *Renderer) renderRows(tex []byte, heights []int16, y0, y1 int) {
	w, h := r.width, r.height
	halfW, halfH := w>>1, h>>1
	k := r.refraction
	out := r.out

	for y := y0; y < y1; y++ {
		mapIdx := (y + 1) * w
		pixIdx := y * w * 4
		for x := 0; x < w; x++ {
			src := pixIdx
			if hv := int(heights[mapIdx]); hv != 0 {
				nx := x + (x-halfW)*hv/k
				ny := y + (y-halfH)*hv/k
				nx = clampCoord(nx, 0, w-1)
				ny = clampCoord(ny, 0, h-1)
				src = (ny*w + nx) * 4
			}
			out[pixIdx] = tex[src]
			out[pixIdx+1] = tex[src+1]
			out[pixIdx+2] = tex[src+2]

			mapIdx++
			pixIdx += 4
		}
	}
}

// clampCoord constrains v to the inclusive [lo, hi] range.
func clampCoord(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
