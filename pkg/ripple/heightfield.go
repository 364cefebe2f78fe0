package ripple

import "sync"

// disturbance is a pending energy injection waiting for the next Step.
type disturbance struct {
	x, y   int
	radius int
	energy int
}

// HeightField is a double-buffered 2D wave field.
//
// Both grids hold width*(height+2) samples; row 0 and row height+1 are padding
// and are never written by Step. Disturb may be called from any goroutine;
// Step, and every read accessor, belong to the frame goroutine.
type HeightField struct {
	width, height int
	dampingShift  uint

	buffers [2][]int16
	cur     int // buffers[cur] is the current field

	mu      sync.Mutex
	pending []disturbance
}

// NewHeightField allocates a resting field of the given size.
func NewHeightField(width, height int, dampingShift uint) (*HeightField, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	size := width * (height + 2)
	return &HeightField{
		width:        width,
		height:       height,
		dampingShift: dampingShift,
		buffers:      [2][]int16{make([]int16, size), make([]int16, size)},
		pending:      make([]disturbance, 0, 16),
	}, nil
}

// Size returns the visible grid dimensions.
func (f *HeightField) Size() (width, height int) {
	return f.width, f.height
}

// Disturb queues an injection of energy into the square
// [x-radius, x+radius) × [y-radius, y+radius). Cells outside the grid are
// skipped. The injection lands in the current field at the start of the next
// Step.
func (f *HeightField) Disturb(x, y, radius, energy int) {
	if radius <= 0 || energy == 0 {
		return
	}
	if x+radius <= 0 || y+radius <= 0 || x-radius >= f.width || y-radius >= f.height {
		return
	}
	f.mu.Lock()
	f.pending = append(f.pending, disturbance{x: x, y: y, radius: radius, energy: energy})
	f.mu.Unlock()
}

// Pending returns the number of queued disturbances.
func (f *HeightField) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// drain applies and clears the queued disturbances.
func (f *HeightField) drain() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.pending {
		f.apply(d)
	}
	f.pending = f.pending[:0]
}

func (f *HeightField) apply(d disturbance) {
	cur := f.buffers[f.cur]
	x0, x1 := max(d.x-d.radius, 0), min(d.x+d.radius, f.width)
	y0, y1 := max(d.y-d.radius, 0), min(d.y+d.radius, f.height)
	energy := int32(d.energy)
	for y := y0; y < y1; y++ {
		row := (y + 1) * f.width
		for x := x0; x < x1; x++ {
			cur[row+x] = int16(int32(cur[row+x]) + energy)
		}
	}
}

// Step advances the field by one frame.
//
// Each visible cell becomes half the sum of its four current neighbours minus
// its previous height, then loses value>>dampingShift. The result is written
// over the previous grid and the two grids swap roles.
func (f *HeightField) Step() {
	f.drain()

	cur := f.buffers[f.cur]
	next := f.buffers[f.cur^1]
	w := f.width
	end := w * (f.height + 1)
	shift := f.dampingShift

	for i := w; i < end; i++ {
		v := (int32(cur[i-w]) + int32(cur[i+w]) + int32(cur[i-1]) + int32(cur[i+1])) >> 1
		v -= int32(next[i])
		v -= v >> shift
		next[i] = int16(v)
	}

	f.cur ^= 1
}

// Current returns the padded current grid. Visible cell (x, y) lives at
// index (y+1)*width + x.
func (f *HeightField) Current() []int16 {
	return f.buffers[f.cur]
}

// Previous returns the padded previous grid.
func (f *HeightField) Previous() []int16 {
	return f.buffers[f.cur^1]
}

// At returns the current height at a visible cell, or 0 outside the grid.
func (f *HeightField) At(x, y int) int16 {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return 0
	}
	return f.buffers[f.cur][(y+1)*f.width+x]
}

// Energy returns the sum of absolute current heights over the visible grid.
func (f *HeightField) Energy() int64 {
	var sum int64
	cur := f.buffers[f.cur]
	for _, v := range cur[f.width : f.width*(f.height+1)] {
		if v < 0 {
			sum -= int64(v)
		} else {
			sum += int64(v)
		}
	}
	return sum
}

// Load replaces both grids. Each slice must hold width*(height+2) samples.
func (f *HeightField) Load(current, previous []int16) error {
	size := f.width * (f.height + 2)
	if len(current) != size || len(previous) != size {
		return ErrDimensionMismatch
	}
	copy(f.buffers[f.cur], current)
	copy(f.buffers[f.cur^1], previous)
	return nil
}

// Reset returns the field to rest and drops queued disturbances.
func (f *HeightField) Reset() {
	f.mu.Lock()
	f.pending = f.pending[:0]
	f.mu.Unlock()
	clear(f.buffers[0])
	clear(f.buffers[1])
}
