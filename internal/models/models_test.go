package models

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/phototag/internal/shared"
)

func TestTag(t *testing.T) {
	t.Run("Equal ignores case", func(t *testing.T) {
		if !NewTag("Orange").Equal(NewTag("orange")) {
			t.Error("expected Orange == orange")
		}
		if NewTag("cat").Equal(NewTag("dog")) {
			t.Error("expected cat != dog")
		}
	})

	t.Run("Encoding", func(t *testing.T) {
		tag := NewTag("  red ")
		if tag.Name != "red" {
			t.Errorf("expected trimmed name, got %q", tag.Name)
		}
		if tag.Encoded() != " @red" {
			t.Errorf("unexpected encoded form %q", tag.Encoded())
		}
		if tag.Marker() != "@red" {
			t.Errorf("unexpected marker %q", tag.Marker())
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			tag     Tag
			wantErr bool
		}{
			{name: "simple", tag: NewTag("red")},
			{name: "with space", tag: NewTag("dark red")},
			{name: "empty", tag: NewTag("   "), wantErr: true},
			{name: "delimiter", tag: NewTag("a @b"), wantErr: true},
			{name: "leading at", tag: NewTag("@b"), wantErr: true},
			{name: "slash", tag: NewTag("a/b"), wantErr: true},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.tag.Validate()
				if tt.wantErr && !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				if !tt.wantErr && err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			})
		}
	})
}

func TestTagSet(t *testing.T) {
	t.Run("Add dedups case-insensitively", func(t *testing.T) {
		set := TagSet{}
		if !set.Add(NewTag("blue")) {
			t.Error("first add should change the set")
		}
		if set.Add(NewTag("BLUE")) {
			t.Error("duplicate add should not change the set")
		}
		if len(set) != 1 || set[0].Name != "blue" {
			t.Errorf("expected [blue], got %v", set)
		}
	})

	t.Run("Remove first match", func(t *testing.T) {
		set := NewTags("cat", "dog", "bird")
		if !set.Remove(NewTag("DOG")) {
			t.Error("expected removal")
		}
		if set.Remove(NewTag("fish")) {
			t.Error("removing absent tag should be a no-op")
		}
		if got := set.String(); got != "cat, bird" {
			t.Errorf("expected cat, bird got %s", got)
		}
	})

	t.Run("Remove does not alias", func(t *testing.T) {
		original := NewTags("a", "b", "c")
		clone := original.Clone()
		clone.Remove(NewTag("a"))
		if original.String() != "a, b, c" {
			t.Errorf("original modified: %v", original)
		}
	})

	t.Run("Equal and Difference", func(t *testing.T) {
		a := NewTags("red", "blue")
		b := NewTags("Blue", "RED")
		if !a.Equal(b) {
			t.Error("expected sets to be equal regardless of order and case")
		}
		if a.Equal(NewTags("red")) {
			t.Error("expected different sizes to differ")
		}
		diff := NewTags("red", "blue", "green").Difference(NewTags("blue"))
		if diff.String() != "red, green" {
			t.Errorf("unexpected difference %v", diff)
		}
	})
}

func TestImageRecord(t *testing.T) {
	t.Run("NewImageRecord", func(t *testing.T) {
		path := filepath.Join("/photos", "cat @red.jpg")
		r := NewImageRecord(path)

		if r.Name != "cat @red.jpg" {
			t.Errorf("unexpected name %q", r.Name)
		}
		if r.ID == "" {
			t.Error("expected generated ID")
		}
		if len(r.Tags) != 0 {
			t.Errorf("expected no tags, got %v", r.Tags)
		}
		if len(r.NameHistory) != 1 || r.NameHistory[0] != r.Name {
			t.Errorf("expected history [%s], got %v", r.Name, r.NameHistory)
		}
		if r.Ext() != ".jpg" || r.Base() != "cat @red" {
			t.Errorf("unexpected split: base=%q ext=%q", r.Base(), r.Ext())
		}
		if r.Dir() != "/photos" {
			t.Errorf("unexpected dir %q", r.Dir())
		}
		if err := r.Validate(); err != nil {
			t.Errorf("expected valid record: %v", err)
		}
	})

	t.Run("Equal uses name and path", func(t *testing.T) {
		a := NewImageRecord("/photos/cat.jpg")
		b := NewImageRecord("/photos/cat.jpg")
		c := NewImageRecord("/other/cat.jpg")

		if !a.Equal(b) {
			t.Error("expected records with same name and path to be equal")
		}
		if a.Equal(c) {
			t.Error("expected records with different paths to differ")
		}
	})

	t.Run("Remember", func(t *testing.T) {
		r := NewImageRecord("/photos/cat.jpg")
		r.Remember("cat @red.jpg")
		r.Remember("cat.jpg")
		r.Remember("cat @red.jpg")

		if len(r.NameHistory) != 2 {
			t.Errorf("expected 2 history entries, got %v", r.NameHistory)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		r := NewImageRecord("/photos/cat.jpg")
		r.Name = "dog.jpg"
		if err := r.Validate(); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected mismatch error, got %v", err)
		}
	})
}

func TestFilenameEncoding(t *testing.T) {
	t.Run("SplitExt", func(t *testing.T) {
		tc := []struct {
			in, stem, ext string
		}{
			{"cat.jpg", "cat", ".jpg"},
			{"cat @red.tar.png", "cat @red.tar", ".png"},
			{"README", "README", ""},
		}
		for _, tt := range tc {
			got := SplitExt(tt.in)
			if got.Stem != tt.stem || got.Ext != tt.ext {
				t.Errorf("SplitExt(%q) = %+v", tt.in, got)
			}
		}
	})

	t.Run("ParseTagNames", func(t *testing.T) {
		base, tags := ParseTagNames("cat @red @blue.jpg")
		if base != "cat" {
			t.Errorf("expected base cat, got %q", base)
		}
		if tags.String() != "red, blue" {
			t.Errorf("expected red, blue got %v", tags)
		}

		base, tags = ParseTagNames("plain.png")
		if base != "plain" || len(tags) != 0 {
			t.Errorf("expected no tags, got %q %v", base, tags)
		}
	})

	t.Run("BuildName", func(t *testing.T) {
		got := BuildName("cat", NewTags("red", "blue"), ".jpg")
		if got != "cat @red @blue.jpg" {
			t.Errorf("unexpected name %q", got)
		}
	})
}
