// Package ripple implements a pointer-reactive water ripple distortion over a
// static image.
//
// A HeightField holds two int16 grids (current and previous) and evolves them
// with an integer wave kernel plus exponential damping. A Renderer reads the
// current grid every frame and resamples a captured Texture at a displaced
// coordinate per pixel, writing an RGBA output buffer for the host to present.
// Simulation ties both together behind the host-facing lifecycle: Initialize,
// OnPointerMove, OnResize, Start, Stop and Tick.
//
// Grids carry one padding row above and below the visible rows. Columns are not
// padded: the neighbour lookup at column 0 reads the last column of the row
// above, and at column width-1 the first column of the row below. The effect is
// confined to the outermost screen columns and is kept as is.
package ripple
