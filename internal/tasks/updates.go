package tasks

import (
	"fmt"

	"github.com/desertthunder/jazzx/internal/models"
	"github.com/desertthunder/jazzx/internal/services"
)

// ProgressUpdate represents a progress event during a pipeline run.
//
// Used to send real-time updates to the CLI layer for display.
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
	HarvestIndex Phase = iota
	CreatePlaylist
	ExtractCitations
	ResolveCitation
	AppendTracks
	RecordRun
)

func (p Phase) String() string {
	switch p {
	case HarvestIndex:
		return "harvest_index"
	case CreatePlaylist:
		return "create_playlist"
	case ExtractCitations:
		return "extract_citations"
	case ResolveCitation:
		return "resolve_citation"
	case AppendTracks:
		return "append_tracks"
	case RecordRun:
		return "record_run"
	default:
		return ""
	}
}

func harvestingUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   HarvestIndex,
		Step:    1,
		Total:   1,
		Message: "Harvesting top standards from the index...",
	}
}

func harvestedUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   HarvestIndex,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d standards", count),
	}
}

func createPlaylistUpdate(pl *services.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func extractUpdate(step, total int, standard models.Standard) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractCitations,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, standard.Title),
		Data:    standard,
	}
}

func extractedUpdate(step, total, count int, standard models.Standard) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractCitations,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Found %d recommended recordings for %q", count, standard.Title),
	}
}

func resolveUpdate(step, total int, title string, c models.Citation) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveCitation,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Searching for %q by %s", title, c.Artist),
		Data:    c,
	}
}

func resolvedUpdate(step, total int, outcome string, res *models.Resolution) ProgressUpdate {
	msg := "No suitable match found"
	switch outcome {
	case models.OutcomeAuto:
		msg = "Strong match accepted automatically"
	case models.OutcomeAccepted:
		msg = "Match accepted"
	case models.OutcomeSkipped:
		msg = "Skipped remaining matches"
	}
	return ProgressUpdate{
		Phase:   ResolveCitation,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    res,
	}
}

func appendUpdate(count, added int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AppendTracks,
		Step:    added,
		Total:   added,
		Message: fmt.Sprintf("Appended %d tracks (%d total)", count, added),
	}
}
