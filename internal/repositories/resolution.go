package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/jazzx/internal/models"
	"github.com/desertthunder/jazzx/internal/shared"
)

// ResolutionRepository implements models.Repository[*models.RunResolution]
// for per-citation outcomes.
type ResolutionRepository struct {
	db *sql.DB
}

// NewResolutionRepository creates a new ResolutionRepository with the given database connection
func NewResolutionRepository(db *sql.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// Create inserts a new resolution outcome with a generated ID
func (r *ResolutionRepository) Create(res *models.RunResolution) error {
	res.SetID(shared.GenerateID())

	if err := res.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO run_resolutions (id, run_id, standard_title, artist, info, track_id, outcome, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		res.ID(),
		res.RunID,
		res.StandardTitle,
		res.Artist,
		res.Info,
		res.TrackID,
		res.Outcome,
		res.CreatedAt(),
		res.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert resolution: %w", err)
	}

	return nil
}

// Get retrieves a resolution by ID
func (r *ResolutionRepository) Get(id string) (*models.RunResolution, error) {
	query := `
		SELECT id, run_id, standard_title, artist, info, track_id, outcome, created_at, updated_at
		FROM run_resolutions
		WHERE id = ?
	`

	return scanResolution(r.db.QueryRow(query, id).Scan)
}

// Update modifies an existing resolution
func (r *ResolutionRepository) Update(res *models.RunResolution) error {
	if err := res.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	res.SetUpdatedAt(now)

	query := `
		UPDATE run_resolutions
		SET track_id = ?, outcome = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, res.TrackID, res.Outcome, now, res.ID())
	if err != nil {
		return fmt.Errorf("failed to update resolution: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("resolution not found: %s", res.ID())
	}

	return nil
}

// Delete removes a resolution by ID
func (r *ResolutionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM run_resolutions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resolution: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("resolution not found: %s", id)
	}

	return nil
}

// List retrieves resolutions matching the given criteria in insertion order
func (r *ResolutionRepository) List(criteria map[string]any) ([]*models.RunResolution, error) {
	query := `
		SELECT id, run_id, standard_title, artist, info, track_id, outcome, created_at, updated_at
		FROM run_resolutions
		WHERE 1 = 1
	`

	args := []any{}

	if runID, ok := criteria["run_id"].(string); ok && runID != "" {
		query += " AND run_id = ?"
		args = append(args, runID)
	}

	if outcome, ok := criteria["outcome"].(string); ok && outcome != "" {
		query += " AND outcome = ?"
		args = append(args, outcome)
	}

	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query resolutions: %w", err)
	}
	defer rows.Close()

	var resolutions []*models.RunResolution
	for rows.Next() {
		res, err := scanResolution(rows.Scan)
		if err != nil {
			return nil, err
		}
		resolutions = append(resolutions, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return resolutions, nil
}

// scanResolution reads one run_resolutions row through the given Scan function.
func scanResolution(scan func(dest ...any) error) (*models.RunResolution, error) {
	var (
		id            string
		runID         string
		standardTitle string
		artist        string
		info          sql.NullString
		trackID       sql.NullString
		outcome       string
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := scan(&id, &runID, &standardTitle, &artist, &info, &trackID, &outcome, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("resolution not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan resolution: %w", err)
	}

	res := models.NewRunResolution(runID, standardTitle, models.Citation{Artist: artist, Info: info.String}, trackID.String, outcome)
	res.SetID(id)
	res.SetCreatedAt(createdAt)
	res.SetUpdatedAt(updatedAt)

	return res, nil
}
