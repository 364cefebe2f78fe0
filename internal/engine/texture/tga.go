package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image types.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
	tgaHeaderSize   = 18
)

var errTGATruncated = errors.New("tga: pixel data truncated")

// DecodeTGA decodes uncompressed or RLE true-color TGA data at 24 or 32 bits
// per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("tga: header too short (%d bytes)", len(data))
	}
	idLength := int(data[0])
	if data[1] != 0 {
		return nil, errors.New("tga: color-mapped images not supported")
	}
	kind := data[2]
	if kind != tgaTrueColor && kind != tgaTrueColorRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", kind)
	}
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("tga: empty image %dx%d", width, height)
	}
	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}

	d := tgaDecoder{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		stride:      bpp / 8,
		topToBottom: data[17]&0x20 != 0,
	}
	var err error
	if kind == tgaTrueColor {
		err = d.raw()
	} else {
		err = d.rle()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	img         *image.RGBA
	src         []byte
	pos         int
	stride      int // bytes per source pixel
	topToBottom bool
}

// put stores source pixel n (in file order) at its image position.
func (d *tgaDecoder) put(n int, bgra []byte) {
	w, h := d.img.Rect.Dx(), d.img.Rect.Dy()
	x, y := n%w, n/w
	if !d.topToBottom {
		y = h - 1 - y
	}
	i := d.img.PixOffset(x, y)
	d.img.Pix[i] = bgra[2]
	d.img.Pix[i+1] = bgra[1]
	d.img.Pix[i+2] = bgra[0]
	if d.stride == 4 {
		d.img.Pix[i+3] = bgra[3]
	} else {
		d.img.Pix[i+3] = 0xff
	}
}

func (d *tgaDecoder) next() ([]byte, error) {
	if d.pos+d.stride > len(d.src) {
		return nil, errTGATruncated
	}
	px := d.src[d.pos : d.pos+d.stride]
	d.pos += d.stride
	return px, nil
}

func (d *tgaDecoder) raw() error {
	total := d.img.Rect.Dx() * d.img.Rect.Dy()
	for n := 0; n < total; n++ {
		px, err := d.next()
		if err != nil {
			return err
		}
		d.put(n, px)
	}
	return nil
}

// rle decodes run-length packets. A high header bit repeats one pixel,
// otherwise the header is followed by literal pixels.
func (d *tgaDecoder) rle() error {
	total := d.img.Rect.Dx() * d.img.Rect.Dy()
	for n := 0; n < total; {
		if d.pos >= len(d.src) {
			return errTGATruncated
		}
		header := d.src[d.pos]
		d.pos++
		count := min(int(header&0x7f)+1, total-n)

		if header&0x80 != 0 {
			px, err := d.next()
			if err != nil {
				return err
			}
			for end := n + count; n < end; n++ {
				d.put(n, px)
			}
			continue
		}
		for end := n + count; n < end; n++ {
			px, err := d.next()
			if err != nil {
				return err
			}
			d.put(n, px)
		}
	}
	return nil
}
