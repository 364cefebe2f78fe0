package main

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// pointerPath is a polyline the pointer follows over a run of frames.
type pointerPath []image.Point

// parsePath parses "x0,y0:x1,y1:...". An empty spec is an empty path.
func parsePath(spec string) (pointerPath, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	var path pointerPath
	for _, part := range strings.Split(spec, ":") {
		xs, ys, ok := strings.Cut(part, ",")
		if !ok {
			return nil, fmt.Errorf("path point %q: want x,y", part)
		}
		x, err := strconv.Atoi(strings.TrimSpace(xs))
		if err != nil {
			return nil, fmt.Errorf("path point %q: %w", part, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(ys))
		if err != nil {
			return nil, fmt.Errorf("path point %q: %w", part, err)
		}
		path = append(path, image.Pt(x, y))
	}
	return path, nil
}

// At returns the pointer position for frame i of n, spreading the frames
// evenly over the polyline's segments.
func (p pointerPath) At(i, n int) (image.Point, bool) {
	switch {
	case len(p) == 0 || n <= 0:
		return image.Point{}, false
	case len(p) == 1 || n == 1:
		return p[0], true
	}
	// t runs from 0 to segs*(n-1) over the frames.
	segs := len(p) - 1
	t := i * segs
	span := n - 1
	seg := min(t/span, segs-1)
	rem := t - seg*span
	a, b := p[seg], p[seg+1]
	return image.Pt(
		a.X+(b.X-a.X)*rem/span,
		a.Y+(b.Y-a.Y)*rem/span,
	), true
}
