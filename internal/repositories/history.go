package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/jazzx/internal/models"
)

// HistoryRecorder persists a completed run and its per-citation outcomes.
//
// Satisfies the pipeline's recorder interface. Resolutions are bound to the
// run's generated ID before insertion, so callers may leave RunID empty.
type HistoryRecorder struct {
	runs        *RunRepository
	resolutions *ResolutionRepository
}

// NewHistoryRecorder creates a HistoryRecorder backed by the given database.
func NewHistoryRecorder(db *sql.DB) *HistoryRecorder {
	return &HistoryRecorder{
		runs:        NewRunRepository(db),
		resolutions: NewResolutionRepository(db),
	}
}

// Record inserts the run, then each resolution keyed to the run's new ID.
//
// A failed resolution insert aborts with the run already committed; history
// is advisory, so partial detail beats none.
func (h *HistoryRecorder) Record(run *models.Run, resolutions []*models.RunResolution) error {
	if err := h.runs.Create(run); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	for _, res := range resolutions {
		res.RunID = run.ID()
		if err := h.resolutions.Create(res); err != nil {
			return fmt.Errorf("failed to record resolution for %q: %w", res.Artist, err)
		}
	}

	return nil
}

// Runs returns the underlying run repository for history queries.
func (h *HistoryRecorder) Runs() *RunRepository { return h.runs }

// Resolutions returns the underlying resolution repository.
func (h *HistoryRecorder) Resolutions() *ResolutionRepository { return h.resolutions }
