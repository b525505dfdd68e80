package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/phototag/internal/shared"
)

// TagDelimiter separates the base name from each encoded tag.
const TagDelimiter = " @"

// Tag is a short label applied to images.
type Tag struct {
	Name string `json:"name"`
}

// NewTag creates a Tag with surrounding whitespace trimmed.
func NewTag(name string) Tag {
	return Tag{Name: strings.TrimSpace(name)}
}

// NewTags creates tags from names, in order.
func NewTags(names ...string) TagSet {
	set := make(TagSet, 0, len(names))
	for _, n := range names {
		set = append(set, NewTag(n))
	}
	return set
}

// Equal reports whether two tags have the same name ignoring case.
func (t Tag) Equal(other Tag) bool {
	return strings.EqualFold(t.Name, other.Name)
}

// Encoded returns the substring that represents t inside a filename.
func (t Tag) Encoded() string { return TagDelimiter + t.Name }

// Marker returns "@" + name, the substring checked before encoding t into a name.
func (t Tag) Marker() string { return "@" + t.Name }

func (t Tag) String() string { return t.Name }

// Validate rejects names that cannot round-trip through a filename.
func (t Tag) Validate() error {
	switch {
	case t.Name == "":
		return fmt.Errorf("%w: tag name is empty", shared.ErrInvalidInput)
	case strings.Contains(t.Name, TagDelimiter), strings.HasPrefix(t.Name, "@"):
		return fmt.Errorf("%w: tag %q contains the tag delimiter", shared.ErrInvalidInput, t.Name)
	case strings.ContainsAny(t.Name, `/\`):
		return fmt.Errorf("%w: tag %q contains a path separator", shared.ErrInvalidInput, t.Name)
	}
	return nil
}

// TagSet is an insertion-ordered list of tags without case-insensitive duplicates.
type TagSet []Tag

// Index returns the position of the first tag equal to t, or -1.
func (s TagSet) Index(t Tag) int {
	for i, existing := range s {
		if existing.Equal(t) {
			return i
		}
	}
	return -1
}

// Contains reports whether an equal tag is present.
func (s TagSet) Contains(t Tag) bool { return s.Index(t) >= 0 }

// Add appends t unless an equal tag is present. It reports whether the set changed.
func (s *TagSet) Add(t Tag) bool {
	if s.Contains(t) {
		return false
	}
	*s = append(*s, t)
	return true
}

// Remove deletes the first tag equal to t. It reports whether the set changed.
func (s *TagSet) Remove(t Tag) bool {
	i := s.Index(t)
	if i < 0 {
		return false
	}
	*s = append((*s)[:i:i], (*s)[i+1:]...)
	return true
}

// Equal reports whether both sets hold the same tags, in any order.
func (s TagSet) Equal(other TagSet) bool {
	if len(s) != len(other) {
		return false
	}
	for _, t := range s {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}

// Difference returns the tags of s that are not in other, in s order.
func (s TagSet) Difference(other TagSet) TagSet {
	var out TagSet
	for _, t := range s {
		if !other.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns an independent copy.
func (s TagSet) Clone() TagSet {
	if s == nil {
		return TagSet{}
	}
	return append(TagSet{}, s...)
}

// Names returns the tag names in order.
func (s TagSet) Names() []string {
	names := make([]string, len(s))
	for i, t := range s {
		names[i] = t.Name
	}
	return names
}

func (s TagSet) String() string { return strings.Join(s.Names(), ", ") }
