// Package snapshot writes rendered ripple frames to disk.
package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
)

// Writer saves frames under a directory with timestamped names.
type Writer struct {
	outputDir string
	prefix    string
	format    string
	now       func() time.Time
	seq       int
}

// NewWriter creates a snapshot writer. format is "png" or "bmp".
func NewWriter(outputDir, prefix, format string) (*Writer, error) {
	format = strings.ToLower(format)
	if format != "png" && format != "bmp" {
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}
	if prefix == "" {
		prefix = "ripple"
	}
	return &Writer{
		outputDir: outputDir,
		prefix:    prefix,
		format:    format,
		now:       time.Now,
	}, nil
}

// FromPixels wraps a tightly packed RGBA buffer as an image without copying.
func FromPixels(pix []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: %dx%d needs %d bytes, got %d",
			width, height, width*height*4, len(pix))
	}
	return &image.RGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// CaptureFromPixels saves an RGBA frame buffer and returns the file path.
// Rows are top to bottom, as the renderer produces them.
func (w *Writer) CaptureFromPixels(pix []byte, width, height int) (string, error) {
	img, err := FromPixels(pix, width, height)
	if err != nil {
		return "", err
	}
	return w.CaptureFromImage(img)
}

// CaptureFromImage saves an image and returns the file path.
func (w *Writer) CaptureFromImage(img image.Image) (string, error) {
	if w.outputDir != "" {
		if err := os.MkdirAll(w.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := w.nextFilename()
	if err := WriteFile(filename, img); err != nil {
		return "", err
	}
	return filename, nil
}

// nextFilename builds a timestamped name. A counter suffix keeps several
// captures within the same second apart.
func (w *Writer) nextFilename() string {
	timestamp := w.now().Format("2006-01-02_15-04-05")
	name := fmt.Sprintf("%s_%s.%s", w.prefix, timestamp, w.format)
	for {
		path := name
		if w.outputDir != "" {
			path = filepath.Join(w.outputDir, name)
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		w.seq++
		name = fmt.Sprintf("%s_%s_%d.%s", w.prefix, timestamp, w.seq, w.format)
	}
}

// WriteFile encodes img to path, choosing the encoder from the extension.
func WriteFile(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := Encode(file, img, filepath.Ext(path)); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Encode writes img as PNG or BMP. ext may carry a leading dot.
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encoding PNG: %w", err)
		}
	case "bmp":
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("encoding BMP: %w", err)
		}
	default:
		return fmt.Errorf("unsupported image extension %q", ext)
	}
	return nil
}
