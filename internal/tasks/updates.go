package tasks

import (
	"fmt"

	"github.com/desertthunder/phototag/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Walk Phase = iota
	Historicize
	Thumbnail
)

func (p Phase) String() string {
	switch p {
	case Walk:
		return "walk"
	case Historicize:
		return "historicize"
	case Thumbnail:
		return "thumbnail"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func walkUpdate(found int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Walk,
		Step:    found,
		Message: fmt.Sprintf("Found %s", path),
	}
}

func historicizeUpdate(step, total int, record *models.ImageRecord) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Historicize,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, record.Name),
		Data:    record,
	}
}

func thumbnailUpdate(step, total int, name string, err error) ProgressUpdate {
	if err != nil {
		return ProgressUpdate{
			Phase:   Thumbnail,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
		}
	}
	return ProgressUpdate{
		Phase:   Thumbnail,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, name),
	}
}
