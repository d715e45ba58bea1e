// Package extract turns raw extraction-model output into validated health
// metric records.
package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/padmanaresh1986/fitness-app/internal/domain"
)

const (
	// maxSnippetLen bounds the diagnostic snippet carried by ExtractionError.
	maxSnippetLen = 200
	// maxPlausibleSteps guards against OCR/LLM misreads; anything above it is
	// discarded, not clamped.
	maxPlausibleSteps = 40000
)

// ExtractionError reports model output with no usable JSON object in it.
// It aborts the whole batch; field-level problems never raise it.
type ExtractionError struct {
	Reason  string
	Snippet string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract health metrics: %s: %q", e.Reason, e.Snippet)
}

func newExtractionError(reason, raw string) *ExtractionError {
	return &ExtractionError{Reason: reason, Snippet: truncate(raw, maxSnippetLen)}
}

// ExtractAndNormalize locates the JSON object embedded in raw model output
// (some models wrap it in prose or fences) and coerces it into a record.
// Missing, mistyped or unparseable fields degrade to zero/nil; only an
// unlocatable or invalid JSON span returns an error. Per-image TotalPoints is
// the workout bonus alone.
func ExtractAndNormalize(raw string) (domain.HealthMetricRecord, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || start > end {
		return domain.HealthMetricRecord{}, newExtractionError("no JSON object in model output", raw)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &fields); err != nil {
		return domain.HealthMetricRecord{}, newExtractionError(fmt.Sprintf("invalid JSON: %v", err), raw)
	}

	steps := toInt(fields["steps"])
	if steps < 0 || steps > maxPlausibleSteps {
		steps = 0
	}
	workout := normalizeWorkout(fields["workout_type"])

	return domain.HealthMetricRecord{
		Steps:             steps,
		CaloriesKcal:      toFloat(fields["calories_kcal"]),
		DistanceKm:        toFloat(fields["distance_km"]),
		ActiveTimeMinutes: toFloat(fields["active_time_minutes"]),
		WorkoutType:       workout,
		TotalPoints:       domain.WorkoutBonus(workout),
	}, nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return 0
}

func toFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return nil
		}
		return &n
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil && f >= 0 {
			return &f
		}
	}
	return nil
}

func normalizeWorkout(v any) domain.WorkoutType {
	s, ok := v.(string)
	if !ok {
		return domain.WorkoutNone
	}
	return domain.NormalizeWorkoutType(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
