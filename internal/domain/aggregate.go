package domain

import (
	"sort"
	"strings"
)

// AggregateDay merges one day's records into a summary row per participant.
// Grouping is order-independent: steps take the day's maximum, the remaining
// metrics and per-image points are summed, and the step bucket for the maximum
// is added exactly once. Rows come back sorted by UserID.
func AggregateDay(records []TaggedRecord) []DailySummaryRow {
	groups := make(map[string]*DailySummaryRow)
	seenTypes := make(map[string]map[string]struct{})

	for _, tr := range records {
		row, ok := groups[tr.UserID]
		if !ok {
			row = &DailySummaryRow{UserID: tr.UserID}
			groups[tr.UserID] = row
			seenTypes[tr.UserID] = make(map[string]struct{})
		}

		rec := tr.Record
		if rec.Steps > row.TotalSteps {
			row.TotalSteps = rec.Steps
		}
		if rec.CaloriesKcal != nil {
			row.TotalCaloriesKcal += *rec.CaloriesKcal
		}
		if rec.DistanceKm != nil {
			row.TotalDistanceKm += *rec.DistanceKm
		}
		if rec.ActiveTimeMinutes != nil {
			row.TotalActiveTimeMinutes += *rec.ActiveTimeMinutes
		}
		row.TotalPoints += rec.TotalPoints
		if rec.WorkoutType != WorkoutNone {
			seenTypes[tr.UserID][string(rec.WorkoutType)] = struct{}{}
		}
	}

	rows := make([]DailySummaryRow, 0, len(groups))
	for userID, row := range groups {
		row.WorkoutTypes = joinSorted(seenTypes[userID])
		row.TotalPoints += StepBucketPoints(row.TotalSteps)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })
	return rows
}

func joinSorted(set map[string]struct{}) string {
	if len(set) == 0 {
		return ""
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
