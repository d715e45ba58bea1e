package extract

import "fmt"

// The model must answer with a bare JSON object. The category rules mirror how
// challenge points are awarded, so changing them changes scoring behavior.
const promptTemplate = `Return ONLY valid JSON. No text, no markdown, no explanations.

From the text below, extract the following fields:
- steps (number, 0 if not available)
- calories_kcal (number, 0 if not available)
- distance_km (number, 0 if not available)
- active_time_minutes (number, 0 if not available)
- workout_type ("cardio", "sport", "strength_training", "yoga", or empty string if not available)

Workout_type rules:
- "cardio": run, treadmill, cycling, swimming, rowing, elliptical
- "sport": games like cricket, football, basketball, tennis, table tennis, etc.
- "strength_training": gym, weights, resistance, bodyweight exercises, dance, HIIT
- "yoga": yoga, stretching, meditation
- null: if no workout described
- IMPORTANT if you are not clear about the workout type, then make it null.
- IMPORTANT if there is no walking or steps mentioned, make steps 0.
- IMPORTANT if there is no Workout_type and only Steps mentioned then workout_type should be null.

Text:
%s

JSON ONLY. Example of correct format:

{
  "steps": 7672,
  "calories_kcal": null,
  "distance_km": 5.54,
  "active_time_minutes": 75.56,
  "workout_type": "cardio"
}`

// BuildPrompt renders the extraction instructions for one screenshot's OCR text.
func BuildPrompt(ocrText string) string {
	return fmt.Sprintf(promptTemplate, ocrText)
}
