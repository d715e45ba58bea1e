// Package events publishes finalized daily rollups to Kafka.
package events

import "time"

// DailySummaryRecorded announces one user's finalized rollup for a folder
// after a pipeline run has persisted it.
type DailySummaryRecorded struct {
	EventID                string    `json:"event_id"`
	FolderName             string    `json:"folder_name"`
	UserID                 string    `json:"user_id"`
	TotalSteps             int       `json:"total_steps"`
	TotalCaloriesKcal      float64   `json:"total_calories_kcal"`
	TotalDistanceKm        float64   `json:"total_distance_km"`
	TotalActiveTimeMinutes float64   `json:"total_active_time_minutes"`
	WorkoutTypes           string    `json:"workout_types"`
	TotalPoints            int       `json:"total_points"`
	OccurredAt             time.Time `json:"occurred_at"`
}
