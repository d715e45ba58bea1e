// Package postgres provides the Postgres-backed store for workout rows and
// daily summaries.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/padmanaresh1986/fitness-app/internal/domain"
)

// Repository persists per-image workout rows and per-day summary rows.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ProcessedFilenames returns the filenames already stored for a folder. The
// pipeline reads this once per run, before the first image, and never again.
func (r *Repository) ProcessedFilenames(ctx context.Context, folderName string) (map[string]struct{}, error) {
	const query = `SELECT filename FROM workouts WHERE folder_name=$1`

	rows, err := r.pool.Query(ctx, query, folderName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, err
		}
		seen[filename] = struct{}{}
	}
	return seen, rows.Err()
}

// InsertWorkouts stores one row per normalized image inside a single
// transaction. Replays of a filename within the same folder are ignored, which
// backs the incremental-skip guarantee across runs.
func (r *Repository) InsertWorkouts(ctx context.Context, workouts []domain.WorkoutRow) error {
	if len(workouts) == 0 {
		return nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const stmt = `INSERT INTO workouts
        (id, folder_name, filename, user_id, steps, calories_kcal, distance_km, active_time_minutes, workout_type, total_points, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        ON CONFLICT (folder_name, filename) DO NOTHING`

	for _, w := range workouts {
		_, err = tx.Exec(ctx, stmt,
			w.ID,
			w.FolderName,
			w.Filename,
			w.UserID,
			w.Steps,
			w.CaloriesKcal,
			w.DistanceKm,
			w.ActiveTimeMinutes,
			nullIfEmpty(string(w.WorkoutType)),
			w.TotalPoints,
			w.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	err = tx.Commit(ctx)
	return err
}

// ReplaceDailySummaries swaps a folder's summary rows for the given set in one
// transaction, so a re-run of a day never leaves stale rows behind.
func (r *Repository) ReplaceDailySummaries(ctx context.Context, folderName string, summaries []domain.DailySummaryRow) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM daily_summaries WHERE folder_name=$1`, folderName); err != nil {
		return err
	}

	const stmt = `INSERT INTO daily_summaries
        (folder_name, user_id, total_steps, total_calories_kcal, total_distance_km, total_active_time_minutes, workout_types, total_points, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	now := time.Now().UTC()
	for _, s := range summaries {
		_, err = tx.Exec(ctx, stmt,
			folderName,
			s.UserID,
			s.TotalSteps,
			s.TotalCaloriesKcal,
			s.TotalDistanceKm,
			s.TotalActiveTimeMinutes,
			s.WorkoutTypes,
			s.TotalPoints,
			now,
		)
		if err != nil {
			return err
		}
	}

	err = tx.Commit(ctx)
	return err
}

// SummariesForFolder returns one folder's summary rows ordered by user.
func (r *Repository) SummariesForFolder(ctx context.Context, folderName string) ([]domain.DailySummaryRow, error) {
	const query = `SELECT user_id, total_steps, total_calories_kcal, total_distance_km, total_active_time_minutes, workout_types, total_points
        FROM daily_summaries WHERE folder_name=$1 ORDER BY user_id`

	return r.querySummaries(ctx, query, folderName)
}

// AllDailySummaries returns every stored summary row across all folders; the
// leaderboard build consumes this.
func (r *Repository) AllDailySummaries(ctx context.Context) ([]domain.DailySummaryRow, error) {
	const query = `SELECT user_id, total_steps, total_calories_kcal, total_distance_km, total_active_time_minutes, workout_types, total_points
        FROM daily_summaries ORDER BY folder_name, user_id`

	return r.querySummaries(ctx, query)
}

func (r *Repository) querySummaries(ctx context.Context, query string, args ...interface{}) ([]domain.DailySummaryRow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.DailySummaryRow
	for rows.Next() {
		var s domain.DailySummaryRow
		if err := rows.Scan(&s.UserID, &s.TotalSteps, &s.TotalCaloriesKcal, &s.TotalDistanceKm, &s.TotalActiveTimeMinutes, &s.WorkoutTypes, &s.TotalPoints); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// WorkoutsForFolder returns every stored row for a folder in insertion order,
// for the workbook export.
func (r *Repository) WorkoutsForFolder(ctx context.Context, folderName string) ([]domain.WorkoutRow, error) {
	const query = `SELECT id, folder_name, filename, user_id, steps, calories_kcal, distance_km, active_time_minutes, workout_type, total_points, created_at
        FROM workouts WHERE folder_name=$1 ORDER BY created_at, filename`

	rows, err := r.pool.Query(ctx, query, folderName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkouts(rows, 0)
}

// ListWorkouts returns a keyset-paginated page of a folder's rows, newest
// first.
func (r *Repository) ListWorkouts(ctx context.Context, folderName string, cursor *domain.Cursor, limit int) ([]domain.WorkoutRow, *domain.Cursor, error) {
	args := []interface{}{folderName, limit}
	query := `SELECT id, folder_name, filename, user_id, steps, calories_kcal, distance_km, active_time_minutes, workout_type, total_points, created_at
        FROM workouts WHERE folder_name=$1`

	if cursor != nil {
		query += ` AND (created_at, id) < ($3, $4)`
		args = append(args, cursor.CreatedAt, cursor.ID)
	}

	query += ` ORDER BY created_at DESC, id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	results, err := scanWorkouts(rows, limit)
	if err != nil {
		return nil, nil, err
	}

	var nextCursor *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		nextCursor = &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return results, nextCursor, nil
}

func scanWorkouts(rows pgx.Rows, capacity int) ([]domain.WorkoutRow, error) {
	results := make([]domain.WorkoutRow, 0, capacity)
	for rows.Next() {
		var w domain.WorkoutRow
		var workoutType *string
		if err := rows.Scan(&w.ID, &w.FolderName, &w.Filename, &w.UserID, &w.Steps, &w.CaloriesKcal, &w.DistanceKm, &w.ActiveTimeMinutes, &workoutType, &w.TotalPoints, &w.CreatedAt); err != nil {
			return nil, err
		}
		if workoutType != nil {
			w.WorkoutType = domain.WorkoutType(*workoutType)
		}
		results = append(results, w)
	}
	return results, rows.Err()
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
