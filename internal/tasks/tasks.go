package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jazzx/internal/models"
	"github.com/desertthunder/jazzx/internal/services"
	"github.com/desertthunder/jazzx/internal/shared"
)

// Harvester supplies standards and their citations from the source site.
type Harvester interface {
	Harvest(ctx context.Context) []models.Standard
	ExtractCitations(ctx context.Context, pageURL string) []models.Citation
}

// RunRecorder persists a completed run summary and its per-citation outcomes.
type RunRecorder interface {
	Record(run *models.Run, resolutions []*models.RunResolution) error
}

// RunOpts configures a single pipeline run.
type RunOpts struct {
	PlaylistName        string
	PlaylistDescription string
	Public              bool
}

// RunSummary is the aggregate result of one pipeline run.
type RunSummary struct {
	Playlist      *services.Playlist
	Standards     int
	Citations     int
	AutoCount     int
	UserCount     int
	NoMatches     int
	Added         int
	FailedBatches int
	StartedAt     time.Time
	FinishedAt    time.Time
}

// PipelineEngine drives the full harvest → resolve → assemble pipeline.
type PipelineEngine struct {
	harvester Harvester
	catalog   services.Catalog
	resolver  *Resolver
	recorder  RunRecorder
	logger    *log.Logger
}

// NewPipelineEngine wires the pipeline's collaborators together. The recorder
// may be nil, in which case no run history is kept.
func NewPipelineEngine(h Harvester, catalog services.Catalog, resolver *Resolver, recorder RunRecorder, logger *log.Logger) *PipelineEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PipelineEngine{
		harvester: h,
		catalog:   catalog,
		resolver:  resolver,
		recorder:  recorder,
		logger:    logger,
	}
}

// sendProgress delivers an update without blocking when the consumer lags.
func (e *PipelineEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run executes a complete pipeline pass and returns its summary.
//
// Playlist creation is the only fatal step: without a destination the rest of
// the run is pointless. Everything downstream degrades softly, so a partial
// playlist plus a summary is the worst case after that point.
func (e *PipelineEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*RunSummary, error) {
	summary := &RunSummary{StartedAt: time.Now()}

	e.sendProgress(progress, harvestingUpdate())
	standards := e.harvester.Harvest(ctx)
	if len(standards) == 0 {
		return nil, fmt.Errorf("no standards found: nothing to do")
	}
	summary.Standards = len(standards)
	e.sendProgress(progress, harvestedUpdate(len(standards)))

	playlist, err := e.catalog.CreatePlaylist(ctx, opts.PlaylistName, opts.PlaylistDescription, opts.Public)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}
	summary.Playlist = playlist
	e.sendProgress(progress, createPlaylistUpdate(playlist))

	assembler := NewAssembler(e.catalog, playlist.ID, e.logger)
	var resolutions []*models.RunResolution

	for i, standard := range standards {
		e.sendProgress(progress, extractUpdate(i+1, len(standards), standard))

		citations := e.harvester.ExtractCitations(ctx, standard.URL)
		summary.Citations += len(citations)
		e.sendProgress(progress, extractedUpdate(i+1, len(standards), len(citations), standard))

		for j, citation := range citations {
			e.sendProgress(progress, resolveUpdate(j+1, len(citations), standard.Title, citation))

			resolution, outcome := e.resolver.Resolve(ctx, standard.Title, citation)
			e.sendProgress(progress, resolvedUpdate(j+1, len(citations), outcome, resolution))

			trackID := ""
			switch outcome {
			case models.OutcomeAuto:
				summary.AutoCount++
			case models.OutcomeAccepted:
				summary.UserCount++
			default:
				summary.NoMatches++
			}

			if resolution != nil {
				trackID = resolution.TrackID
				assembler.Offer(resolution.TrackID)
				if n := assembler.FlushIfFull(ctx); n > 0 {
					e.sendProgress(progress, appendUpdate(n, assembler.Added()))
				}
			}

			resolutions = append(resolutions,
				models.NewRunResolution("", standard.Title, citation, trackID, outcome))
		}
	}

	if n := assembler.FlushRemainder(ctx); n > 0 {
		e.sendProgress(progress, appendUpdate(n, assembler.Added()))
	}

	summary.Added = assembler.Added()
	summary.FailedBatches = assembler.FailedBatches()
	summary.FinishedAt = time.Now()

	e.record(progress, summary, resolutions)

	return summary, nil
}

// record persists the run best-effort; failures are logged, never returned.
func (e *PipelineEngine) record(progress chan<- ProgressUpdate, summary *RunSummary, resolutions []*models.RunResolution) {
	if e.recorder == nil {
		return
	}

	run := models.NewRun(summary.Playlist.ID, summary.Playlist.WebURL)
	run.Standards = summary.Standards
	run.Citations = summary.Citations
	run.AutoCount = summary.AutoCount
	run.UserCount = summary.UserCount
	run.NoMatches = summary.NoMatches
	run.Added = summary.Added
	run.FailedOps = summary.FailedBatches
	run.StartedAt = summary.StartedAt
	run.FinishedAt = summary.FinishedAt

	if err := e.recorder.Record(run, resolutions); err != nil {
		e.logger.Warn("failed to record run history", "error", err)
		return
	}

	e.sendProgress(progress, ProgressUpdate{
		Phase:   RecordRun,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Run #%d recorded", run.Sequence),
	})
}
