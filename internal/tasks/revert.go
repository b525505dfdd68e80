package tasks

import (
	"fmt"

	"github.com/desertthunder/phototag/internal/models"
	"github.com/desertthunder/phototag/internal/shared"
)

// ParseTags returns the tags encoded in a filename.
func ParseTags(name string) models.TagSet {
	_, tags := models.ParseTagNames(name)
	return tags
}

// RevertTo drives record back to the tag state encoded in historicalName.
//
// Every target tag is applied, then every current tag missing from the target is deleted. When the
// tag set then matches but the tags sit in a different order, a last rename restores historicalName
// exactly.
func (e *RenameEngine) RevertTo(record *models.ImageRecord, historicalName string) (Result, error) {
	if historicalName == "" {
		return Result{}, fmt.Errorf("%w: historical name is empty", shared.ErrInvalidArgument)
	}

	targetBase, target := models.ParseTagNames(historicalName)
	toDelete := record.Tags.Difference(target)

	e.logger.Debug("reverting image", "name", record.Name, "target", historicalName,
		"add", target.String(), "delete", toDelete.String())

	applied, err := e.Apply(record, target)
	if err != nil {
		return applied, err
	}
	deleted, err := e.Delete(record, toDelete)
	result := applied.merge(deleted)
	if err != nil {
		return result, err
	}

	if record.Name == historicalName || !record.Tags.Equal(target) {
		return result, nil
	}
	base, _ := models.ParseTagNames(record.Name)
	if base != targetBase || record.Ext() != models.SplitExt(historicalName).Ext {
		return result, nil
	}

	record.Tags = target.Clone()
	reordered, err := e.rename(record, historicalName)
	return result.merge(reordered), err
}
