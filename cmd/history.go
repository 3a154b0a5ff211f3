package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/jazzx/internal/models"
	"github.com/desertthunder/jazzx/internal/repositories"
	"github.com/desertthunder/jazzx/internal/shared"
	"github.com/urfave/cli/v3"
)

// runSummaryJSON is the JSON shape for history output.
type runSummaryJSON struct {
	ID         string    `json:"id"`
	Sequence   int       `json:"sequence"`
	PlaylistID string    `json:"playlist_id"`
	WebURL     string    `json:"web_url,omitempty"`
	Standards  int       `json:"standards"`
	Citations  int       `json:"citations"`
	AutoCount  int       `json:"auto_count"`
	UserCount  int       `json:"user_count"`
	NoMatches  int       `json:"no_matches"`
	Added      int       `json:"added"`
	FailedOps  int       `json:"failed_ops"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// HistoryList lists recorded runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	db, err := r.historyDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := repositories.NewRunRepository(db).List(map[string]any{"limit": limit})
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if useJSON {
		out := make([]runSummaryJSON, 0, len(runs))
		for _, run := range runs {
			out = append(out, runSummaryJSON{
				ID:         run.ID(),
				Sequence:   run.Sequence,
				PlaylistID: run.PlaylistID,
				WebURL:     run.WebURL,
				Standards:  run.Standards,
				Citations:  run.Citations,
				AutoCount:  run.AutoCount,
				UserCount:  run.UserCount,
				NoMatches:  run.NoMatches,
				Added:      run.Added,
				FailedOps:  run.FailedOps,
				StartedAt:  run.StartedAt,
				FinishedAt: run.FinishedAt,
			})
		}
		return r.writeJSON(out, pretty)
	}

	if len(runs) == 0 {
		r.writePlain("No recorded runs yet\n")
		return nil
	}

	r.writePlain("Found %d runs:\n\n", len(runs))
	for _, run := range runs {
		r.writePlain("Run #%d (%s)\n", run.Sequence, run.ID())
		r.writePlain("   Playlist: %s\n", run.PlaylistID)
		if run.WebURL != "" {
			r.writePlain("   URL: %s\n", run.WebURL)
		}
		r.writePlain("   Standards: %d, recordings: %d\n", run.Standards, run.Citations)
		r.writePlain("   Matched: %d auto, %d accepted, %d unmatched\n", run.AutoCount, run.UserCount, run.NoMatches)
		r.writePlain("   Tracks added: %d", run.Added)
		if run.FailedOps > 0 {
			r.writePlain(" (%d failed batches)", run.FailedOps)
		}
		r.writePlain("\n")
		r.writePlain("   Started: %s\n\n", run.StartedAt.Format(time.RFC822))
	}

	return nil
}

// HistoryShow lists per-recording outcomes for one run.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	runID := cmd.StringArg("id")
	outcome := cmd.String("outcome")

	if runID == "" {
		return fmt.Errorf("%w: run id is required", shared.ErrMissingArgument)
	}

	db, err := r.historyDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := repositories.NewRunRepository(db).Get(runID)
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}

	criteria := map[string]any{"run_id": run.ID()}
	if outcome != "" {
		criteria["outcome"] = outcome
	}

	resolutions, err := repositories.NewResolutionRepository(db).List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list resolutions: %w", err)
	}

	r.writePlainHeader(fmt.Sprintf("Run #%d — %s", run.Sequence, run.StartedAt.Format(time.RFC822)))

	if len(resolutions) == 0 {
		r.writePlain("No recorded outcomes\n")
		return nil
	}

	for _, res := range resolutions {
		marker := "✗"
		switch res.Outcome {
		case models.OutcomeAuto, models.OutcomeAccepted:
			marker = "✓"
		case models.OutcomeSkipped:
			marker = "−"
		}

		r.writePlain("%s [%s] %s — %s", marker, res.Outcome, res.StandardTitle, res.Artist)
		if res.Info != "" {
			r.writePlain(" (%s)", res.Info)
		}
		if res.TrackID != "" {
			r.writePlain(" → %s", res.TrackID)
		}
		r.writePlain("\n")
	}

	return nil
}

// historyDB opens the configured history database for read commands.
func (r *Runner) historyDB() (*sql.DB, error) {
	if r.config.Database.Path == "" {
		return nil, fmt.Errorf("%w: no database configured; set database.path in config.toml", shared.ErrMissingConfig)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	return db, nil
}
