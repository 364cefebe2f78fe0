package ripple

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Texture is an immutable RGBA snapshot, row-major and top-to-bottom.
type Texture struct {
	Width  int
	Height int
	Pix    []byte
}

// NewTexture wraps pix as a texture. pix must hold width*height*4 bytes and
// must not be modified afterwards.
func NewTexture(width, height int, pix []byte) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	if len(pix) != width*height*4 {
		return nil, ErrDimensionMismatch
	}
	return &Texture{Width: width, Height: height, Pix: pix}, nil
}

// Rect is the placement of a scaled source image inside a target box, in
// target pixels. X and Y may be negative when the image overflows the box.
type Rect struct {
	X, Y float64
	W, H float64
}

// CoverRect computes an object-fit: cover placement of a srcW×srcH image in a
// boxW×boxH box. The image is scaled uniformly to fill the box and centred
// along the overflowing axis; translateY is added to the vertical offset.
func CoverRect(srcW, srcH, boxW, boxH int, translateY float64) Rect {
	imgAspect := float64(srcW) / float64(srcH)
	boxAspect := float64(boxW) / float64(boxH)

	if imgAspect < boxAspect {
		renderH := float64(boxW) / imgAspect
		return Rect{
			X: 0,
			Y: (float64(boxH)-renderH)/2 + translateY,
			W: float64(boxW),
			H: renderH,
		}
	}
	renderW := float64(boxH) * imgAspect
	return Rect{
		X: (float64(boxW) - renderW) / 2,
		Y: translateY,
		W: renderW,
		H: float64(boxH),
	}
}

// Bounds rounds the placement to integer pixel bounds.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)),
		int(math.Round(r.Y+r.H)),
	)
}

// Capture draws src into a width×height box with a cover fit, shifted down by
// translateY pixels, and returns the result as a texture. Areas the image does
// not reach are opaque black.
func Capture(src image.Image, width, height int, translateY float64) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	sb := src.Bounds()
	if sb.Empty() {
		return nil, ErrInvalidSize
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.RGBA{A: 0xff}), image.Point{}, xdraw.Src)

	placement := CoverRect(sb.Dx(), sb.Dy(), width, height, translateY)
	xdraw.BiLinear.Scale(dst, placement.Bounds(), src, sb, xdraw.Over, nil)

	return NewTexture(width, height, dst.Pix)
}
