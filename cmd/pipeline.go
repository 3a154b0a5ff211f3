package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/jazzx/internal/models"
	"github.com/desertthunder/jazzx/internal/repositories"
	"github.com/desertthunder/jazzx/internal/shared"
	"github.com/desertthunder/jazzx/internal/tasks"
	"github.com/desertthunder/jazzx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Harvest lists the top standards from the compositions index.
func (r *Runner) Harvest(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	r.logger.Info("harvesting standards index", "base_url", r.config.Source.BaseURL)

	standards := r.scraper().Harvest(ctx)
	if len(standards) == 0 {
		return fmt.Errorf("no standards found: check source configuration and connectivity")
	}

	if limit > 0 && limit < len(standards) {
		standards = standards[:limit]
	}

	if useJSON {
		return r.writeJSON(standards, pretty)
	}

	r.writePlain("Found %d standards:\n\n", len(standards))
	for i, standard := range standards {
		r.writePlain("%d. %s\n", i+1, standard.Title)
		r.writePlain("   %s\n", standard.URL)
	}

	return nil
}

// Citations extracts recommended recordings from one detail page.
func (r *Runner) Citations(ctx context.Context, cmd *cli.Command) error {
	pageURL := cmd.StringArg("url")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if pageURL == "" {
		return fmt.Errorf("%w: detail page url is required", shared.ErrMissingArgument)
	}

	r.logger.Info("extracting citations", "url", pageURL)

	citations := r.scraper().ExtractCitations(ctx, pageURL)
	if len(citations) == 0 {
		r.writePlain("No recommended recordings found\n")
		return nil
	}

	if useJSON {
		return r.writeJSON(citations, pretty)
	}

	r.writePlain("Found %d recommended recordings:\n\n", len(citations))
	for i, c := range citations {
		r.writePlain("%d. %s\n", i+1, c.DisplayText)
	}

	return nil
}

// Resolve resolves a single cited recording against the Spotify catalog.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	title := cmd.String("title")
	artist := cmd.String("artist")
	info := cmd.String("info")
	batch := cmd.Bool("batch")

	catalog, err := r.catalog(ctx)
	if err != nil {
		return err
	}

	citation := models.Citation{Artist: artist, Info: info, DisplayText: artist}
	if info != "" {
		citation.DisplayText = artist + " - " + info
	}

	resolver := tasks.NewResolver(catalog, r.decider(batch, false), r.logger)

	resolution, outcome := resolver.Resolve(ctx, title, citation)

	switch outcome {
	case models.OutcomeAuto:
		r.writePlain("✓ Strong match: %s\n", resolution.TrackID)
	case models.OutcomeAccepted:
		r.writePlain("✓ Accepted match: %s\n", resolution.TrackID)
	case models.OutcomeSkipped:
		r.writePlain("− Skipped\n")
	default:
		r.writePlain("✗ No suitable match found\n")
	}

	return nil
}

// Run executes the full pipeline: harvest, create playlist, resolve, append.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	batch := cmd.Bool("batch")
	acceptWeak := cmd.Bool("accept-weak")
	noHistory := cmd.Bool("no-history")

	name := cmd.String("name")
	if name == "" {
		name = r.config.Playlist.Name
	}
	description := cmd.String("description")
	if description == "" {
		description = r.config.Playlist.Description
	}
	public := cmd.Bool("public") || r.config.Playlist.Public

	catalog, err := r.catalog(ctx)
	if err != nil {
		return err
	}

	recorder, cleanup := r.recorder(noHistory)
	defer cleanup()

	resolver := tasks.NewResolver(catalog, r.decider(batch, acceptWeak), r.logger)
	engine := tasks.NewPipelineEngine(r.scraper(), catalog, resolver, recorder, r.logger)

	r.writePlain("Starting playlist build...\n")
	r.writePlain("Source: %s\n", r.config.Source.BaseURL)
	r.writePlain("Playlist: %s\n\n", name)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		r.progressWriter(progressCh)
		close(drained)
	}()

	summary, err := engine.Run(ctx, progressCh, tasks.RunOpts{
		PlaylistName:        name,
		PlaylistDescription: description,
		Public:              public,
	})

	// Wait for the writer to drain buffered updates before the summary,
	// so the tail progress lines are neither lost nor interleaved.
	close(progressCh)
	<-drained

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Playlist Build Complete!")
	r.writePlain("Playlist: %s\n", summary.Playlist.Name)
	if summary.Playlist.WebURL != "" {
		r.writePlain("URL: %s\n", summary.Playlist.WebURL)
	}
	r.writePlain("Standards processed: %d\n", summary.Standards)
	r.writePlain("Recordings considered: %d\n", summary.Citations)
	r.writePlain("Automatic matches: %d\n", summary.AutoCount)
	r.writePlain("Accepted matches: %d\n", summary.UserCount)
	r.writePlain("No match: %d\n", summary.NoMatches)
	r.writePlain("Tracks added: %d\n", summary.Added)

	if summary.FailedBatches > 0 {
		r.writePlain("\n⚠ %d append batches failed; the playlist is missing those tracks\n", summary.FailedBatches)
	}

	return nil
}

// decider picks the interactive prompt or the batch policy.
func (r *Runner) decider(batch, acceptWeak bool) tasks.Decider {
	if batch {
		return tasks.AutoDecider{AcceptWeak: acceptWeak}
	}
	return ui.PromptDecider{}
}

// recorder opens the history database when configured. A nil recorder (with a
// no-op cleanup) disables history; failures degrade to that rather than
// blocking the run.
func (r *Runner) recorder(noHistory bool) (tasks.RunRecorder, func()) {
	noop := func() {}

	if noHistory || r.config.Database.Path == "" {
		return nil, noop
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		r.logger.Warn("history database unavailable, continuing without history", "error", err)
		return nil, noop
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		r.logger.Warn("failed to migrate history database, continuing without history", "error", err)
		db.Close()
		return nil, noop
	}

	return repositories.NewHistoryRecorder(db), func() { db.Close() }
}
