// Package imaging renders preview thumbnails and reads capture metadata from image files.
package imaging

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/phototag/internal/shared"
	"github.com/nfnt/resize"
	"golang.org/x/image/bmp"
)

// Preview box of the image viewer.
const (
	DefaultWidth  uint = 400
	DefaultHeight uint = 200
)

// Decode reads the image at path.
func Decode(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", shared.ErrNotAnImage, filepath.Base(path), err)
	}
	return img, format, nil
}

// Thumbnail scales src to fit within width×height, keeping its aspect ratio, and writes it to dst.
//
// The encoding follows the extension of dst: .png and .bmp are kept, anything else becomes JPEG.
// Images already inside the box are written unscaled.
func Thumbnail(src, dst string, width, height uint) error {
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}

	img, _, err := Decode(src)
	if err != nil {
		return err
	}
	thumb := resize.Thumbnail(width, height, img, resize.Lanczos3)

	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create thumbnail directory: %w", err)
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail: %w", err)
	}
	defer out.Close()

	switch strings.ToLower(filepath.Ext(dst)) {
	case ".png":
		err = png.Encode(out, thumb)
	case ".bmp":
		err = bmp.Encode(out, thumb)
	default:
		err = jpeg.Encode(out, thumb, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return out.Close()
}

// ThumbnailPath returns the default thumbnail location for an image: dir/<stem>.thumb<ext>.
//
// The extension is kept verbatim so that names differing only in extension stay apart.
func ThumbnailPath(dir, name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if ext == "" {
		ext = ".jpg"
	}
	return filepath.Join(dir, stem+".thumb"+ext)
}
