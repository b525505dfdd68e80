package tasks

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/phototag/internal/models"
)

// RenameTimeFormat is the timestamp layout of rename log lines.
const RenameTimeFormat = "2006/01/02 15:04:05"

// RenameLog is an [Observer] that appends "old >>> new" lines to a log file.
type RenameLog struct {
	logger *log.Logger
	closer io.Closer
	path   string
}

// NewRenameLog writes rename lines to w.
func NewRenameLog(w io.Writer) *RenameLog {
	return &RenameLog{
		logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      RenameTimeFormat,
		}),
	}
}

// OpenRenameLog opens path for appending, creating it and its directory when missing.
func OpenRenameLog(path string) (*RenameLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open rename log: %w", err)
	}

	l := NewRenameLog(f)
	l.closer = f
	l.path = path
	return l, nil
}

// Path returns the file backing the log, if any.
func (l *RenameLog) Path() string { return l.path }

// OnRename writes one line for event.
func (l *RenameLog) OnRename(event models.RenameEvent) error {
	l.logger.Printf("%s >>> %s", event.OldName, event.NewName())
	return nil
}

func (l *RenameLog) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Tail returns the last n lines of the log at path. A missing log has no lines; n <= 0 returns all.
func Tail(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open rename log: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rename log: %w", err)
	}

	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
