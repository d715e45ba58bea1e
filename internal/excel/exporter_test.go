package excel

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/padmanaresh1986/fitness-app/internal/domain"
)

func TestDailyWorkbookName(t *testing.T) {
	now := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	require.Equal(t, "fitness_data_20260115_093000.xlsx", DailyWorkbookName(now))
}

func TestWriteDailyWorkbook(t *testing.T) {
	calories := 310.5
	distance := 5.2
	created := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

	workouts := []domain.WorkoutRow{
		{
			ID:           "w-1",
			FolderName:   "2026-01-15",
			Filename:     "alice@example.com_morning.jpg",
			UserID:       "alice@example.com",
			Steps:        7672,
			CaloriesKcal: &calories,
			DistanceKm:   &distance,
			WorkoutType:  domain.WorkoutCardio,
			TotalPoints:  200,
			CreatedAt:    created,
		},
		{
			ID:         "w-2",
			FolderName: "2026-01-15",
			Filename:   "bob@example.com_walk.png",
			UserID:     "bob@example.com",
			Steps:      12000,
			CreatedAt:  created,
		},
	}
	summaries := []domain.DailySummaryRow{
		{
			UserID:            "alice@example.com",
			TotalSteps:        7672,
			TotalCaloriesKcal: 310.5,
			TotalDistanceKm:   5.2,
			WorkoutTypes:      "cardio",
			TotalPoints:       235,
		},
	}

	exporter := NewExporter(t.TempDir())
	path, name, err := exporter.WriteDailyWorkbook("2026-01-15", workouts, summaries, created)
	require.NoError(t, err)
	require.Equal(t, "fitness_data_20260115_093000.xlsx", name)
	require.Equal(t, filepath.Join("2026-01-15", name), filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Daily Data", "Daily Summary"}, f.GetSheetList())

	dataRows, err := f.GetRows("Daily Data")
	require.NoError(t, err)
	require.Len(t, dataRows, 3)
	require.Equal(t, []string{
		"folder_name", "filename", "email", "steps", "calories_kcal",
		"distance_km", "active_time_minutes", "workout_type", "total_points", "created_at",
	}, dataRows[0])
	require.Equal(t, "alice@example.com", dataRows[1][2])
	require.Equal(t, "7672", dataRows[1][3])
	require.Equal(t, "310.5", dataRows[1][4])
	require.Equal(t, "cardio", dataRows[1][7])
	require.Equal(t, "2026-01-15 09:30:00", dataRows[1][9])

	// Missing metrics and workout type come out as blank cells.
	require.Equal(t, "", dataRows[2][4])
	require.Equal(t, "", dataRows[2][7])

	summaryRows, err := f.GetRows("Daily Summary")
	require.NoError(t, err)
	require.Len(t, summaryRows, 2)
	require.Equal(t, []string{
		"email", "total_steps", "total_calories_kcal", "total_distance_km",
		"total_active_time_minutes", "total_points", "workout_types",
	}, summaryRows[0])
	require.Equal(t, "235", summaryRows[1][5])
}

func TestWriteLeaderboardWorkbook(t *testing.T) {
	entries := []domain.LeaderboardRow{
		{Rank: 1, UserID: "alice@example.com", TotalSteps: 19672, TotalPoints: 735, WorkoutTypes: "cardio, yoga"},
		{Rank: 2, UserID: "bob@example.com", TotalSteps: 12000, TotalPoints: 150},
	}

	exporter := NewExporter(t.TempDir())
	path, err := exporter.WriteLeaderboardWorkbook("", entries)
	require.NoError(t, err)
	require.Equal(t, LeaderboardFileName, filepath.Base(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Leaderboard"}, f.GetSheetList())

	rows, err := f.GetRows("Leaderboard")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{
		"rank", "email", "total_steps", "total_calories_kcal", "total_distance_km",
		"total_active_time_minutes", "total_points", "workout_types",
	}, rows[0])
	require.Equal(t, "1", rows[1][0])
	require.Equal(t, "alice@example.com", rows[1][1])
	require.Equal(t, "cardio, yoga", rows[1][7])
	require.Equal(t, "2", rows[2][0])
}
