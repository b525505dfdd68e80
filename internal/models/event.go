package models

import "time"

// RenameEvent describes one successful rename of an image file.
type RenameEvent struct {
	OldName string
	OldPath string
	Record  *ImageRecord // record after the rename
	At      time.Time
}

// NewName returns the name the file was renamed to.
func (e RenameEvent) NewName() string { return e.Record.Name }
