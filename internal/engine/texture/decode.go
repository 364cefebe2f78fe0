// Package texture decodes source images for the ripple surface.
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
)

// Decode decodes an image file. TGA is selected by extension since it has no
// magic number. Everything else goes through the registered image formats.
func Decode(data []byte, name string) (image.Image, string, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, "", err
		}
		return img, "tga", nil
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", filepath.Base(name), err)
	}
	return img, format, nil
}

// Supported reports whether Decode recognises the file extension.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tga":
		return true
	}
	return false
}

// Extensions lists the extensions Supported accepts, without dots.
func Extensions() []string {
	return []string{"png", "jpg", "jpeg", "gif", "bmp", "tga"}
}
