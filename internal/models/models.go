package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models in the jazzx service.
// Implementations include Run and RunResolution.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Standard represents one jazz composition entry from the index list.
//
// Identity is Title, unique within a single harvest response. Consumed once
// by the citation extractor.
type Standard struct {
	Title string
	URL   string // Absolute URL of the detail page
}

// Citation represents one extracted (artist, recording-info) mention for a Standard.
//
// Artist is the case-insensitive dedup key within the scope of one Standard.
type Citation struct {
	Artist      string
	Info        string // Year or free-text tail; may be empty
	DisplayText string
}

// Candidate represents one catalog search result. Read-only; not owned by jazzx.
type Candidate struct {
	TrackID     string
	TrackName   string
	AlbumName   string
	ArtistNames []string
}

// Resolution is the accepted catalog track for a citation.
//
// Auto reports whether the match was accepted automatically (tier 1) rather
// than through the interactive decision flow. Absence of a Resolution means
// "no match", which is a legitimate terminal outcome and not an error.
type Resolution struct {
	TrackID string
	Auto    bool
}

// Resolution outcome labels persisted with run history.
const (
	OutcomeAuto     = "auto"
	OutcomeAccepted = "accepted"
	OutcomeNoMatch  = "no_match"
	OutcomeSkipped  = "skipped"
)

// Run records the summary of one completed pipeline run.
type Run struct {
	id         string
	Sequence   int
	PlaylistID string
	WebURL     string
	Standards  int // Standards processed
	Citations  int // Citations extracted across all standards
	AutoCount  int // Tier-1 automatic acceptances
	UserCount  int // Interactive acceptances
	NoMatches  int // Citations with no resolution (includes skips)
	Added      int // Track IDs appended to the playlist
	FailedOps  int // Failed batch-append calls
	StartedAt  time.Time
	FinishedAt time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

// NewRun creates a Run with timestamps initialized to now.
func NewRun(playlistID, webURL string) *Run {
	now := time.Now()
	return &Run{
		PlaylistID: playlistID,
		WebURL:     webURL,
		StartedAt:  now,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (r *Run) ID() string           { return r.id }
func (r *Run) SetID(id string)      { r.id = id }
func (r *Run) CreatedAt() time.Time { return r.createdAt }
func (r *Run) UpdatedAt() time.Time { return r.updatedAt }

func (r *Run) SetCreatedAt(t time.Time) { r.createdAt = t }
func (r *Run) SetUpdatedAt(t time.Time) { r.updatedAt = t }

func (r *Run) Validate() error {
	if r.id == "" {
		return fmt.Errorf("run id is required")
	}
	if r.PlaylistID == "" {
		return fmt.Errorf("run playlist id is required")
	}
	return nil
}

// RunResolution records the outcome of one citation inside a run.
type RunResolution struct {
	id            string
	RunID         string
	StandardTitle string
	Artist        string
	Info          string
	TrackID       string // Empty unless Outcome is auto or accepted
	Outcome       string // One of the Outcome* constants
	createdAt     time.Time
	updatedAt     time.Time
}

// NewRunResolution creates a RunResolution bound to the given run.
func NewRunResolution(runID, standardTitle string, c Citation, trackID, outcome string) *RunResolution {
	now := time.Now()
	return &RunResolution{
		RunID:         runID,
		StandardTitle: standardTitle,
		Artist:        c.Artist,
		Info:          c.Info,
		TrackID:       trackID,
		Outcome:       outcome,
		createdAt:     now,
		updatedAt:     now,
	}
}

func (r *RunResolution) ID() string           { return r.id }
func (r *RunResolution) SetID(id string)      { r.id = id }
func (r *RunResolution) CreatedAt() time.Time { return r.createdAt }
func (r *RunResolution) UpdatedAt() time.Time { return r.updatedAt }

func (r *RunResolution) SetCreatedAt(t time.Time) { r.createdAt = t }
func (r *RunResolution) SetUpdatedAt(t time.Time) { r.updatedAt = t }

func (r *RunResolution) Validate() error {
	if r.id == "" {
		return fmt.Errorf("resolution id is required")
	}
	if r.RunID == "" {
		return fmt.Errorf("resolution run id is required")
	}
	switch r.Outcome {
	case OutcomeAuto, OutcomeAccepted, OutcomeNoMatch, OutcomeSkipped:
	default:
		return fmt.Errorf("invalid resolution outcome: %q", r.Outcome)
	}
	if (r.Outcome == OutcomeAuto || r.Outcome == OutcomeAccepted) && r.TrackID == "" {
		return fmt.Errorf("accepted resolution requires a track id")
	}
	return nil
}
