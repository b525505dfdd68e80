package models

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/desertthunder/phototag/internal/shared"
)

// ImageRecord is one image file on disk together with its tag state and every name it has had.
type ImageRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Tags        TagSet   `json:"tags"`
	Path        string   `json:"path"`
	NameHistory []string `json:"name_history"`
}

// NewImageRecord creates a record for the file at path with no tags and a history holding its current name.
func NewImageRecord(path string) *ImageRecord {
	name := filepath.Base(path)
	return &ImageRecord{
		ID:          shared.GenerateID(),
		Name:        name,
		Tags:        TagSet{},
		Path:        path,
		NameHistory: []string{name},
	}
}

// Equal reports whether both records describe the same (name, path) pair.
func (r *ImageRecord) Equal(other *ImageRecord) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Name == other.Name && r.Path == other.Path
}

// Dir returns the directory holding the image.
func (r *ImageRecord) Dir() string { return filepath.Dir(r.Path) }

// Ext returns the extension of the current name, from the last "." (empty when there is none).
func (r *ImageRecord) Ext() string { return SplitExt(r.Name).Ext }

// Base returns the current name without its extension.
func (r *ImageRecord) Base() string { return SplitExt(r.Name).Stem }

// HasName reports whether name appears in the record's history.
func (r *ImageRecord) HasName(name string) bool {
	return slices.Contains(r.NameHistory, name)
}

// Remember appends name to the history unless it is already there.
func (r *ImageRecord) Remember(name string) {
	if !r.HasName(name) {
		r.NameHistory = append(r.NameHistory, name)
	}
}

// Validate checks the record invariants.
func (r *ImageRecord) Validate() error {
	if r.Name == "" || r.Path == "" {
		return fmt.Errorf("%w: image record requires name and path", shared.ErrInvalidInput)
	}
	if filepath.Base(r.Path) != r.Name {
		return fmt.Errorf("%w: path %q does not end in name %q", shared.ErrInvalidInput, r.Path, r.Name)
	}
	if len(r.NameHistory) == 0 {
		return fmt.Errorf("%w: image record %q has no name history", shared.ErrInvalidInput, r.Name)
	}
	return nil
}

func (r *ImageRecord) String() string { return r.Name }

// NameParts is a filename split at its last ".".
type NameParts struct {
	Stem string
	Ext  string
}

// SplitExt splits name into stem and extension; the extension keeps its leading ".".
func SplitExt(name string) NameParts {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return NameParts{Stem: name}
	}
	return NameParts{Stem: name[:i], Ext: name[i:]}
}

// ParseTagNames returns the tags encoded in a filename: the stem is split on " @" and the leading
// base token is dropped.
func ParseTagNames(name string) (base string, tags TagSet) {
	parts := strings.Split(SplitExt(name).Stem, TagDelimiter)
	tags = TagSet{}
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		tags.Add(Tag{Name: p})
	}
	return parts[0], tags
}

// BuildName joins a base, encoded tags and an extension into a filename.
func BuildName(base string, tags TagSet, ext string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, t := range tags {
		b.WriteString(t.Encoded())
	}
	b.WriteString(ext)
	return b.String()
}
