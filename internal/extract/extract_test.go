package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/padmanaresh1986/fitness-app/internal/domain"
)

func TestExtractAndNormalizeCleanObject(t *testing.T) {
	raw := `{"steps": 7672, "calories_kcal": 412.3, "distance_km": 5.54, "active_time_minutes": 75.56, "workout_type": "cardio"}`

	rec, err := ExtractAndNormalize(raw)
	require.NoError(t, err)
	require.Equal(t, 7672, rec.Steps)
	require.NotNil(t, rec.CaloriesKcal)
	require.InDelta(t, 412.3, *rec.CaloriesKcal, 1e-9)
	require.NotNil(t, rec.DistanceKm)
	require.InDelta(t, 5.54, *rec.DistanceKm, 1e-9)
	require.NotNil(t, rec.ActiveTimeMinutes)
	require.InDelta(t, 75.56, *rec.ActiveTimeMinutes, 1e-9)
	require.Equal(t, domain.WorkoutCardio, rec.WorkoutType)
	// Per-image points carry the workout bonus only, never the step bucket.
	require.Equal(t, 200, rec.TotalPoints)
}

func TestExtractAndNormalizeProseWrappedObject(t *testing.T) {
	raw := "Sure, here are the extracted metrics:\n```\n" +
		`{"steps": 3000, "calories_kcal": null, "distance_km": null, "active_time_minutes": null, "workout_type": "yoga"}` +
		"\n```\nLet me know if you need anything else."

	rec, err := ExtractAndNormalize(raw)
	require.NoError(t, err)
	require.Equal(t, 3000, rec.Steps)
	require.Nil(t, rec.CaloriesKcal)
	require.Equal(t, domain.WorkoutYoga, rec.WorkoutType)
	require.Equal(t, 200, rec.TotalPoints)
}

func TestExtractAndNormalizeNoObject(t *testing.T) {
	for _, raw := range []string{
		"I could not find any health data in the text.",
		"} inverted braces {",
		"",
	} {
		_, err := ExtractAndNormalize(raw)
		var extErr *ExtractionError
		require.ErrorAs(t, err, &extErr, "raw=%q", raw)
	}
}

func TestExtractAndNormalizeInvalidJSONSnippet(t *testing.T) {
	raw := "{steps: definitely not json" + strings.Repeat("x", 400) + "}"

	_, err := ExtractAndNormalize(raw)
	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	require.Len(t, extErr.Snippet, 200)
	require.Contains(t, extErr.Reason, "invalid JSON")
}

func TestExtractAndNormalizeImplausibleSteps(t *testing.T) {
	rec, err := ExtractAndNormalize(`{"steps": 63412, "workout_type": "cardio"}`)
	require.NoError(t, err)
	// Misread step counts are discarded, not clamped.
	require.Equal(t, 0, rec.Steps)
	require.Equal(t, 200, rec.TotalPoints)

	rec, err = ExtractAndNormalize(`{"steps": 40000}`)
	require.NoError(t, err)
	require.Equal(t, 40000, rec.Steps)
}

func TestExtractAndNormalizeFieldCoercion(t *testing.T) {
	raw := `{"steps": "7672", "calories_kcal": "310.5", "distance_km": true, "active_time_minutes": -12, "workout_type": 42}`

	rec, err := ExtractAndNormalize(raw)
	require.NoError(t, err)
	require.Equal(t, 7672, rec.Steps)
	require.NotNil(t, rec.CaloriesKcal)
	require.InDelta(t, 310.5, *rec.CaloriesKcal, 1e-9)
	require.Nil(t, rec.DistanceKm)
	require.Nil(t, rec.ActiveTimeMinutes)
	require.Equal(t, domain.WorkoutNone, rec.WorkoutType)
	require.Equal(t, 0, rec.TotalPoints)
}

func TestExtractAndNormalizeMissingFields(t *testing.T) {
	rec, err := ExtractAndNormalize(`{}`)
	require.NoError(t, err)
	require.Equal(t, 0, rec.Steps)
	require.Nil(t, rec.CaloriesKcal)
	require.Nil(t, rec.DistanceKm)
	require.Nil(t, rec.ActiveTimeMinutes)
	require.Equal(t, domain.WorkoutNone, rec.WorkoutType)
	require.Equal(t, 0, rec.TotalPoints)
}

func TestExtractAndNormalizeAliasedWorkout(t *testing.T) {
	rec, err := ExtractAndNormalize(`{"steps": 500, "workout_type": "Strength Training"}`)
	require.NoError(t, err)
	require.Equal(t, domain.WorkoutStrengthTraining, rec.WorkoutType)
	require.Equal(t, 300, rec.TotalPoints)
}

func TestExtractionErrorMessage(t *testing.T) {
	_, err := ExtractAndNormalize("nothing here")
	require.Error(t, err)
	require.True(t, errors.As(err, new(*ExtractionError)))
	require.Contains(t, err.Error(), "no JSON object")
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Steps 7,672\nDistance 5.54 km")
	require.Contains(t, prompt, "Return ONLY valid JSON")
	require.Contains(t, prompt, "Steps 7,672")
	require.Contains(t, prompt, `"strength_training"`)
}
