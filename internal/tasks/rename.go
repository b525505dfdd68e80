package tasks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/phototag/internal/models"
	"github.com/desertthunder/phototag/internal/shared"
)

// Observer receives a notification after every successful rename.
type Observer interface {
	OnRename(event models.RenameEvent) error
}

// ObserverFunc adapts a function to [Observer].
type ObserverFunc func(event models.RenameEvent) error

func (f ObserverFunc) OnRename(event models.RenameEvent) error { return f(event) }

// Reporter surfaces observer failures to the user.
type Reporter func(err error)

// Result describes the outcome of a tag operation.
//
// Renamed is false with a nil error when the tags produced no filename change.
type Result struct {
	Renamed bool
	OldName string
	NewName string
}

func (r Result) merge(next Result) Result {
	if !next.Renamed {
		return r
	}
	if !r.Renamed {
		return next
	}
	return Result{Renamed: true, OldName: r.OldName, NewName: next.NewName}
}

// RenameError reports a filesystem rename that did not happen.
type RenameError struct {
	From string
	To   string
	Err  error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("%v: %s >>> %s: %v", shared.ErrRenameFailed, e.From, e.To, e.Err)
}

func (e *RenameError) Unwrap() []error { return []error{shared.ErrRenameFailed, e.Err} }

// RenameOpts configures a [RenameEngine].
type RenameOpts struct {
	Logger    *log.Logger
	Observers []Observer
	Reporter  Reporter
}

// RenameEngine applies and removes filename-encoded tags, renaming the image on disk.
//
// Operations run synchronously. Observers are notified in registration order, on the caller's
// goroutine, only after the file has been renamed and the record updated.
type RenameEngine struct {
	logger    *log.Logger
	observers []Observer
	report    Reporter
	now       func() time.Time
}

// NewRenameEngine creates an engine. A nil Reporter logs observer failures.
func NewRenameEngine(opts RenameOpts) *RenameEngine {
	e := &RenameEngine{
		logger:    opts.Logger,
		observers: opts.Observers,
		report:    opts.Reporter,
		now:       time.Now,
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.report == nil {
		e.report = func(err error) { e.logger.Error("rename observer failed", "error", err) }
	}
	return e
}

// SetReporter replaces the observer failure reporter.
func (e *RenameEngine) SetReporter(r Reporter) {
	if r != nil {
		e.report = r
	}
}

// Apply adds tags to record.
//
// A tag not yet in the record's set always joins it. Its " @name" marker is appended before the
// extension unless "@name" already appears in the current name. The file is renamed only when
// the name changed.
func (e *RenameEngine) Apply(record *models.ImageRecord, tags models.TagSet) (Result, error) {
	if err := validateTags(tags); err != nil {
		return Result{}, err
	}

	parts := models.SplitExt(record.Name)
	stem := parts.Stem
	for _, tag := range tags {
		if !record.Tags.Add(tag) {
			continue
		}
		if !strings.Contains(record.Name, tag.Marker()) {
			stem += tag.Encoded()
		}
	}
	return e.rename(record, stem+parts.Ext)
}

// Delete removes tags from record.
//
// Removing a tag from the set and stripping every " @name" from the name are independent; either
// one is enough to require a rename, and both collapse into at most one rename.
func (e *RenameEngine) Delete(record *models.ImageRecord, tags models.TagSet) (Result, error) {
	if err := validateTags(tags); err != nil {
		return Result{}, err
	}

	parts := models.SplitExt(record.Name)
	stem := parts.Stem
	for _, tag := range tags {
		record.Tags.Remove(tag)
		stem = strings.ReplaceAll(stem, tag.Encoded(), "")
	}
	return e.rename(record, stem+parts.Ext)
}

// Retag applies selected then deletes every known tag that is not selected.
func (e *RenameEngine) Retag(record *models.ImageRecord, selected, known models.TagSet) (Result, error) {
	applied, err := e.Apply(record, selected)
	if err != nil {
		return applied, err
	}
	deleted, err := e.Delete(record, known.Difference(selected))
	return applied.merge(deleted), err
}

// rename moves record to newName in the same directory.
func (e *RenameEngine) rename(record *models.ImageRecord, newName string) (Result, error) {
	oldName, oldPath := record.Name, record.Path
	if newName == oldName {
		return Result{OldName: oldName, NewName: oldName}, nil
	}

	newPath := filepath.Join(filepath.Dir(oldPath), newName)
	if err := checkTarget(oldPath, newPath); err != nil {
		e.logger.Warn("rename refused", "from", oldName, "to", newName, "error", err)
		return Result{OldName: oldName, NewName: oldName}, &RenameError{From: oldName, To: newName, Err: err}
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		e.logger.Error("rename failed", "from", oldName, "to", newName, "error", err)
		return Result{OldName: oldName, NewName: oldName}, &RenameError{From: oldName, To: newName, Err: err}
	}

	record.Name = newName
	record.Path = newPath
	record.Remember(oldName)
	e.logger.Info("renamed image", "from", oldName, "to", newName)

	e.notify(models.RenameEvent{OldName: oldName, OldPath: oldPath, Record: record, At: e.now()})
	return Result{Renamed: true, OldName: oldName, NewName: newName}, nil
}

func (e *RenameEngine) notify(event models.RenameEvent) {
	for _, o := range e.observers {
		if err := o.OnRename(event); err != nil {
			e.report(err)
		}
	}
}

// checkTarget refuses to overwrite an existing file. A target that is the source itself (a
// case-only rename on a case-insensitive filesystem) is allowed.
func checkTarget(oldPath, newPath string) error {
	target, err := os.Lstat(newPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	if source, err := os.Lstat(oldPath); err == nil && os.SameFile(source, target) {
		return nil
	}
	return fmt.Errorf("%w: %s", shared.ErrNameCollision, filepath.Base(newPath))
}

func validateTags(tags models.TagSet) error {
	for _, t := range tags {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}
