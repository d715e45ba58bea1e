// Package excel renders workout and leaderboard workbooks.
package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/padmanaresh1986/fitness-app/internal/domain"
)

const (
	dailyDataSheet    = "Daily Data"
	dailySummarySheet = "Daily Summary"
	leaderboardSheet  = "Leaderboard"

	// LeaderboardFileName is the fixed name of the leaderboard workbook.
	LeaderboardFileName = "leader_board.xlsx"

	timestampLayout = "20060102_150405"
	createdAtLayout = "2006-01-02 15:04:05"
)

var (
	dailyDataHeader = []interface{}{
		"folder_name", "filename", "email", "steps", "calories_kcal",
		"distance_km", "active_time_minutes", "workout_type", "total_points", "created_at",
	}
	dailySummaryHeader = []interface{}{
		"email", "total_steps", "total_calories_kcal", "total_distance_km",
		"total_active_time_minutes", "total_points", "workout_types",
	}
	leaderboardHeader = []interface{}{
		"rank", "email", "total_steps", "total_calories_kcal", "total_distance_km",
		"total_active_time_minutes", "total_points", "workout_types",
	}
)

// DailyWorkbookName returns the timestamped workbook name for a run.
func DailyWorkbookName(now time.Time) string {
	return fmt.Sprintf("fitness_data_%s.xlsx", now.Format(timestampLayout))
}

// BuildDailyWorkbook renders the two-sheet daily workbook: raw per-image rows
// on "Daily Data" and per-user rollups on "Daily Summary". The caller owns the
// returned file and must Close it.
func BuildDailyWorkbook(workouts []domain.WorkoutRow, summaries []domain.DailySummaryRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", dailyDataSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(dailySummarySheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetRow(dailyDataSheet, "A1", &dailyDataHeader); err != nil {
		f.Close()
		return nil, err
	}
	for i, w := range workouts {
		row := []interface{}{
			w.FolderName,
			w.Filename,
			w.UserID,
			w.Steps,
			floatCell(w.CaloriesKcal),
			floatCell(w.DistanceKm),
			floatCell(w.ActiveTimeMinutes),
			string(w.WorkoutType),
			w.TotalPoints,
			w.CreatedAt.UTC().Format(createdAtLayout),
		}
		if err := f.SetSheetRow(dailyDataSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.SetSheetRow(dailySummarySheet, "A1", &dailySummaryHeader); err != nil {
		f.Close()
		return nil, err
	}
	for i, s := range summaries {
		row := []interface{}{
			s.UserID,
			s.TotalSteps,
			s.TotalCaloriesKcal,
			s.TotalDistanceKm,
			s.TotalActiveTimeMinutes,
			s.TotalPoints,
			s.WorkoutTypes,
		}
		if err := f.SetSheetRow(dailySummarySheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// BuildLeaderboardWorkbook renders the cross-day leaderboard as a single
// sheet. The caller owns the returned file and must Close it.
func BuildLeaderboardWorkbook(entries []domain.LeaderboardRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", leaderboardSheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetRow(leaderboardSheet, "A1", &leaderboardHeader); err != nil {
		f.Close()
		return nil, err
	}
	for i, e := range entries {
		row := []interface{}{
			e.Rank,
			e.UserID,
			e.TotalSteps,
			e.TotalCaloriesKcal,
			e.TotalDistanceKm,
			e.TotalActiveTimeMinutes,
			e.TotalPoints,
			e.WorkoutTypes,
		}
		if err := f.SetSheetRow(leaderboardSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// Exporter writes workbooks under a base data directory, one subdirectory per
// processed folder.
type Exporter struct {
	baseDir string
}

// NewExporter constructs an Exporter rooted at baseDir.
func NewExporter(baseDir string) *Exporter {
	return &Exporter{baseDir: baseDir}
}

// WriteDailyWorkbook renders and saves the daily workbook for a folder.
// It returns the saved path and the bare file name.
func (e *Exporter) WriteDailyWorkbook(folderName string, workouts []domain.WorkoutRow, summaries []domain.DailySummaryRow, now time.Time) (string, string, error) {
	f, err := BuildDailyWorkbook(workouts, summaries)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	name := DailyWorkbookName(now)
	path, err := e.save(f, folderName, name)
	if err != nil {
		return "", "", err
	}
	return path, name, nil
}

// WriteLeaderboardWorkbook renders and saves the leaderboard workbook. An
// empty folderName places the file directly under the base directory.
func (e *Exporter) WriteLeaderboardWorkbook(folderName string, entries []domain.LeaderboardRow) (string, error) {
	f, err := BuildLeaderboardWorkbook(entries)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return e.save(f, folderName, LeaderboardFileName)
}

func (e *Exporter) save(f *excelize.File, folderName, fileName string) (string, error) {
	dir := filepath.Join(e.baseDir, folderName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fileName)
	if err := f.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}

func floatCell(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
