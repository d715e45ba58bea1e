// Package domain holds the scoring, aggregation and leaderboard rules for the
// fitness challenge.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkoutType is the closed set of workout categories that earn a bonus.
// The zero value means no recognizable workout.
type WorkoutType string

const (
	WorkoutSport            WorkoutType = "sport"
	WorkoutStrengthTraining WorkoutType = "strength_training"
	WorkoutCardio           WorkoutType = "cardio"
	WorkoutYoga             WorkoutType = "yoga"
	WorkoutNone             WorkoutType = ""
)

// Free-text variants the extraction model is known to emit.
var workoutAliases = map[string]WorkoutType{
	"strength":          WorkoutStrengthTraining,
	"strength-training": WorkoutStrengthTraining,
	"strength training": WorkoutStrengthTraining,
}

// NormalizeWorkoutType folds a free-text category into the closed set.
// Anything unrecognized, including the empty string, becomes WorkoutNone.
func NormalizeWorkoutType(raw string) WorkoutType {
	v := strings.ToLower(strings.TrimSpace(raw))
	if mapped, ok := workoutAliases[v]; ok {
		return mapped
	}
	switch t := WorkoutType(v); t {
	case WorkoutSport, WorkoutStrengthTraining, WorkoutCardio, WorkoutYoga:
		return t
	}
	return WorkoutNone
}

// HealthMetricRecord holds the metrics extracted from one screenshot.
// TotalPoints carries the workout bonus only; step-bucket points are applied
// once per user-day during aggregation.
type HealthMetricRecord struct {
	Steps             int
	CaloriesKcal      *float64
	DistanceKm        *float64
	ActiveTimeMinutes *float64
	WorkoutType       WorkoutType
	TotalPoints       int
}

// TaggedRecord pairs a record with the participant it belongs to.
type TaggedRecord struct {
	UserID string
	Record HealthMetricRecord
}

// WorkoutRow is the canonical per-image record stored in PostgreSQL.
type WorkoutRow struct {
	ID                string
	FolderName        string
	Filename          string
	UserID            string
	Steps             int
	CaloriesKcal      *float64
	DistanceKm        *float64
	ActiveTimeMinutes *float64
	WorkoutType       WorkoutType
	TotalPoints       int
	CreatedAt         time.Time
}

// NewWorkoutRow builds the persistable row for a normalized record.
func NewWorkoutRow(folderName, filename string, rec HealthMetricRecord, now time.Time) WorkoutRow {
	return WorkoutRow{
		ID:                uuid.NewString(),
		FolderName:        folderName,
		Filename:          filename,
		UserID:            UserIDFromFilename(filename),
		Steps:             rec.Steps,
		CaloriesKcal:      rec.CaloriesKcal,
		DistanceKm:        rec.DistanceKm,
		ActiveTimeMinutes: rec.ActiveTimeMinutes,
		WorkoutType:       rec.WorkoutType,
		TotalPoints:       rec.TotalPoints,
		CreatedAt:         now.UTC(),
	}
}

// Tagged converts a stored row back into aggregation input, so a day can be
// re-summarized from everything on record rather than a single run's batch.
func (w WorkoutRow) Tagged() TaggedRecord {
	return TaggedRecord{
		UserID: w.UserID,
		Record: HealthMetricRecord{
			Steps:             w.Steps,
			CaloriesKcal:      w.CaloriesKcal,
			DistanceKm:        w.DistanceKm,
			ActiveTimeMinutes: w.ActiveTimeMinutes,
			WorkoutType:       w.WorkoutType,
			TotalPoints:       w.TotalPoints,
		},
	}
}

// DailySummaryRow is one participant's merged totals for a single challenge day.
// TotalSteps is the maximum across the day's images, not a sum.
type DailySummaryRow struct {
	UserID                 string
	TotalSteps             int
	TotalCaloriesKcal      float64
	TotalDistanceKm        float64
	TotalActiveTimeMinutes float64
	WorkoutTypes           string
	TotalPoints            int
}

// LeaderboardRow is one participant's all-time standing.
type LeaderboardRow struct {
	Rank                   int
	UserID                 string
	TotalSteps             int
	TotalCaloriesKcal      float64
	TotalDistanceKm        float64
	TotalActiveTimeMinutes float64
	TotalPoints            int
	WorkoutTypes           string
}

// UserIDFromFilename derives the participant identity from an image filename.
// The token before the first underscore identifies the participant; filenames
// without an underscore are used whole.
func UserIDFromFilename(name string) string {
	if id, _, found := strings.Cut(name, "_"); found {
		return id
	}
	return name
}

// Cursor models the pagination token for workout listings.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}
