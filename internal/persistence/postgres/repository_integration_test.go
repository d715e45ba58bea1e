//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/padmanaresh1986/fitness-app/internal/domain"
)

func TestRepositoryPersistsWorkoutsAndSummaries(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("fitness"),
		postgrescontainer.WithUsername("platform"),
		postgrescontainer.WithPassword("platform"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	repo := NewRepository(pool)

	base := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	calories := 310.5
	workouts := []domain.WorkoutRow{
		{
			ID:           uuid.NewString(),
			FolderName:   "2026-01-15",
			Filename:     "alice@example.com_morning.jpg",
			UserID:       "alice@example.com",
			Steps:        7672,
			CaloriesKcal: &calories,
			WorkoutType:  domain.WorkoutCardio,
			TotalPoints:  200,
			CreatedAt:    base,
		},
		{
			ID:         uuid.NewString(),
			FolderName: "2026-01-15",
			Filename:   "bob@example.com_run.png",
			UserID:     "bob@example.com",
			Steps:      12000,
			CreatedAt:  base.Add(time.Second),
		},
		{
			ID:          uuid.NewString(),
			FolderName:  "2026-01-15",
			Filename:    "alice@example.com_evening.jpg",
			UserID:      "alice@example.com",
			Steps:       3000,
			WorkoutType: domain.WorkoutYoga,
			TotalPoints: 200,
			CreatedAt:   base.Add(2 * time.Second),
		},
	}

	require.NoError(t, repo.InsertWorkouts(ctx, workouts))

	// Re-inserting the same filenames must be a no-op, not an error.
	require.NoError(t, repo.InsertWorkouts(ctx, workouts))

	seen, err := repo.ProcessedFilenames(ctx, "2026-01-15")
	require.NoError(t, err)
	require.Len(t, seen, 3)
	require.Contains(t, seen, "bob@example.com_run.png")

	stored, err := repo.WorkoutsForFolder(ctx, "2026-01-15")
	require.NoError(t, err)
	require.Len(t, stored, 3)
	require.Equal(t, "alice@example.com_morning.jpg", stored[0].Filename)
	require.Equal(t, domain.WorkoutCardio, stored[0].WorkoutType)
	require.NotNil(t, stored[0].CaloriesKcal)
	require.InDelta(t, 310.5, *stored[0].CaloriesKcal, 0.001)
	require.Equal(t, domain.WorkoutNone, stored[1].WorkoutType)
	require.Nil(t, stored[1].CaloriesKcal)

	// Keyset pagination walks newest-first.
	page, cursor, err := repo.ListWorkouts(ctx, "2026-01-15", nil, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, cursor)
	require.Equal(t, "alice@example.com_evening.jpg", page[0].Filename)
	require.Equal(t, "bob@example.com_run.png", page[1].Filename)

	rest, cursor, err := repo.ListWorkouts(ctx, "2026-01-15", cursor, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Nil(t, cursor)
	require.Equal(t, "alice@example.com_morning.jpg", rest[0].Filename)

	summaries := []domain.DailySummaryRow{
		{UserID: "bob@example.com", TotalSteps: 12000, TotalPoints: 150, WorkoutTypes: ""},
		{UserID: "alice@example.com", TotalSteps: 7672, TotalCaloriesKcal: 310.5, TotalPoints: 435, WorkoutTypes: "cardio, yoga"},
	}
	require.NoError(t, repo.ReplaceDailySummaries(ctx, "2026-01-15", summaries))

	got, err := repo.SummariesForFolder(ctx, "2026-01-15")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "alice@example.com", got[0].UserID)
	require.Equal(t, "cardio, yoga", got[0].WorkoutTypes)
	require.Equal(t, 435, got[0].TotalPoints)

	// Replacing swaps the whole day; stale users must not survive.
	require.NoError(t, repo.ReplaceDailySummaries(ctx, "2026-01-15", summaries[1:]))
	got, err = repo.SummariesForFolder(ctx, "2026-01-15")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "alice@example.com", got[0].UserID)

	require.NoError(t, repo.ReplaceDailySummaries(ctx, "2026-01-16", []domain.DailySummaryRow{
		{UserID: "carol@example.com", TotalSteps: 9000, TotalPoints: 80},
	}))

	all, err := repo.AllDailySummaries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "alice@example.com", all[0].UserID)
	require.Equal(t, "carol@example.com", all[1].UserID)
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	files := []string{
		"../../../db/postgres/migrations/0001_init.up.sql",
	}

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	for _, rel := range files {
		path := resolvePath(t, rel)
		contents, readErr := os.ReadFile(path)
		require.NoError(t, readErr)

		_, execErr := pool.Exec(ctx, string(contents))
		require.NoError(t, execErr)
	}
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(500 * time.Millisecond)
	}
}
