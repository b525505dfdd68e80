package imaging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Metadata is the EXIF subset shown next to an image.
type Metadata struct {
	TakenAt     time.Time
	CameraMake  string
	CameraModel string
	Orientation int
}

// HasTakenAt reports whether a capture time was recorded.
func (m Metadata) HasTakenAt() bool { return !m.TakenAt.IsZero() }

// Camera returns "make model" with the duplicated make prefix some vendors write removed.
func (m Metadata) Camera() string {
	model := strings.TrimSpace(strings.TrimPrefix(m.CameraModel, m.CameraMake))
	return strings.TrimSpace(m.CameraMake + " " + model)
}

// ReadMetadata extracts EXIF metadata from the image at path.
//
// Files without EXIF (PNG, BMP, stripped JPEGs) yield an empty Metadata and ok=false, not an error.
func ReadMetadata(path string) (meta Metadata, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, false, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return Metadata{Orientation: 1}, false, nil
	}

	meta = Metadata{Orientation: 1}
	if t, err := x.DateTime(); err == nil {
		meta.TakenAt = t
	}
	meta.CameraMake = tagString(x, exif.Make)
	meta.CameraModel = tagString(x, exif.Model)
	if o, err := x.Get(exif.Orientation); err == nil {
		if v, err := o.Int(0); err == nil {
			meta.Orientation = v
		}
	}
	return meta, true, nil
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
