package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/phototag/internal/models"
	"github.com/desertthunder/phototag/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgScanProgress MsgKind = iota
	MsgScanComplete
	MsgLocationOpened
)

type scanResult struct {
	records []*models.ImageRecord
	err     error
}

type openResult struct {
	path string
	err  error
}

// scanProgressMsg is the constructor for [MsgScanProgress]
func scanProgressMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgScanProgress, data: update}
}

// scanCompleteMsg is the constructor for [MsgScanComplete]
func scanCompleteMsg(records []*models.ImageRecord, err error) Msg {
	return Msg{kind: MsgScanComplete, data: scanResult{records: records, err: err}}
}

// locationOpenedMsg is the constructor for [MsgLocationOpened]
func locationOpenedMsg(path string, err error) Msg {
	return Msg{kind: MsgLocationOpened, data: openResult{path: path, err: err}}
}
