package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/phototag/internal/models"
)

var (
	_ list.Item = imageItem{}
	_ list.Item = historyItem{}
	_ list.Item = tagItem{}
)

// imageItem wraps [models.ImageRecord] to implement [list.Item].
type imageItem struct {
	record *models.ImageRecord
}

func (i imageItem) FilterValue() string { return i.record.Name }
func (i imageItem) Title() string       { return i.record.Name }
func (i imageItem) Description() string {
	desc := i.record.Dir()
	if len(i.record.Tags) > 0 {
		desc = fmt.Sprintf("%s • %s", desc, i.record.Tags)
	}
	if n := len(i.record.NameHistory) - 1; n > 0 {
		desc = fmt.Sprintf("%s • %d renames", desc, n)
	}
	return desc
}

// historyItem is one past name of the selected image.
type historyItem struct {
	name    string
	current bool
}

func (i historyItem) FilterValue() string { return i.name }
func (i historyItem) Title() string       { return i.name }
func (i historyItem) Description() string {
	if i.current {
		return "current name"
	}
	tags := historyTags(i.name)
	if tags == "" {
		return "no tags"
	}
	return tags
}

// tagItem wraps [models.Tag] to implement [list.Item].
type tagItem struct {
	tag   models.Tag
	count int
}

func (i tagItem) FilterValue() string { return i.tag.Name }
func (i tagItem) Title() string       { return i.tag.Name }
func (i tagItem) Description() string {
	if i.count == 1 {
		return "1 image"
	}
	return fmt.Sprintf("%d images", i.count)
}

func historyTags(name string) string {
	_, tags := models.ParseTagNames(name)
	return strings.Join(tags.Names(), ", ")
}
