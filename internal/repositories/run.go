package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/jazzx/internal/models"
	"github.com/desertthunder/jazzx/internal/shared"
)

// RunRepository implements models.Repository[*models.Run] for run history.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run into the database with generated ID and sequence
func (r *RunRepository) Create(run *models.Run) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.SetID(shared.GenerateID())
	run.Sequence = sequence

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (id, sequence, playlist_id, web_url, standards, citations, auto_count, user_count, no_matches, added, failed_ops, started_at, finished_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID(),
		run.Sequence,
		run.PlaylistID,
		run.WebURL,
		run.Standards,
		run.Citations,
		run.AutoCount,
		run.UserCount,
		run.NoMatches,
		run.Added,
		run.FailedOps,
		run.StartedAt,
		run.FinishedAt,
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID
func (r *RunRepository) Get(id string) (*models.Run, error) {
	query := `
		SELECT id, sequence, playlist_id, web_url, standards, citations, auto_count, user_count, no_matches, added, failed_ops, started_at, finished_at, created_at, updated_at
		FROM runs
		WHERE id = ?
	`

	return scanRun(r.db.QueryRow(query, id).Scan)
}

// Update modifies an existing run's counters
func (r *RunRepository) Update(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE runs
		SET standards = ?, citations = ?, auto_count = ?, user_count = ?, no_matches = ?, added = ?, failed_ops = ?, finished_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		run.Standards,
		run.Citations,
		run.AutoCount,
		run.UserCount,
		run.NoMatches,
		run.Added,
		run.FailedOps,
		run.FinishedAt,
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", run.ID())
	}

	return nil
}

// Delete removes a run and its resolutions
func (r *RunRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM run_resolutions WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete run resolutions: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", id)
	}

	return tx.Commit()
}

// List retrieves runs matching the given criteria, newest first
func (r *RunRepository) List(criteria map[string]any) ([]*models.Run, error) {
	query := `
		SELECT id, sequence, playlist_id, web_url, standards, citations, auto_count, user_count, no_matches, added, failed_ops, started_at, finished_at, created_at, updated_at
		FROM runs
		WHERE 1 = 1
	`

	args := []any{}

	if playlistID, ok := criteria["playlist_id"].(string); ok && playlistID != "" {
		query += " AND playlist_id = ?"
		args = append(args, playlistID)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// scanRun reads one runs row through the given Scan function.
func scanRun(scan func(dest ...any) error) (*models.Run, error) {
	var (
		id         string
		sequence   int
		playlistID string
		webURL     sql.NullString
		standards  int
		citations  int
		autoCount  int
		userCount  int
		noMatches  int
		added      int
		failedOps  int
		startedAt  time.Time
		finishedAt sql.NullTime
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := scan(&id, &sequence, &playlistID, &webURL, &standards, &citations, &autoCount, &userCount, &noMatches, &added, &failedOps, &startedAt, &finishedAt, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run := &models.Run{
		Sequence:   sequence,
		PlaylistID: playlistID,
		WebURL:     webURL.String,
		Standards:  standards,
		Citations:  citations,
		AutoCount:  autoCount,
		UserCount:  userCount,
		NoMatches:  noMatches,
		Added:      added,
		FailedOps:  failedOps,
		StartedAt:  startedAt,
	}
	run.SetID(id)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}

	return run, nil
}
