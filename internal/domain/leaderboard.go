package domain

import (
	"errors"
	"sort"
	"strings"
)

// ErrNoSummaries is returned when a leaderboard build has nothing to rank.
var ErrNoSummaries = errors.New("no daily summaries to rank")

// BuildLeaderboard merges every stored daily summary into one ranked table.
// Numeric fields are summed per participant, workout-type strings are re-split
// and deduplicated, and rows are ordered by TotalPoints descending with UserID
// ascending as the tie-break. Ranks are sequential starting at 1. The build is
// a full recompute each time, so merging the same input twice is idempotent.
func BuildLeaderboard(summaries []DailySummaryRow) ([]LeaderboardRow, error) {
	if len(summaries) == 0 {
		return nil, ErrNoSummaries
	}

	groups := make(map[string]*LeaderboardRow)
	seenTypes := make(map[string]map[string]struct{})

	for _, s := range summaries {
		row, ok := groups[s.UserID]
		if !ok {
			row = &LeaderboardRow{UserID: s.UserID}
			groups[s.UserID] = row
			seenTypes[s.UserID] = make(map[string]struct{})
		}

		row.TotalSteps += s.TotalSteps
		row.TotalCaloriesKcal += s.TotalCaloriesKcal
		row.TotalDistanceKm += s.TotalDistanceKm
		row.TotalActiveTimeMinutes += s.TotalActiveTimeMinutes
		row.TotalPoints += s.TotalPoints
		for _, t := range SplitWorkoutTypes(s.WorkoutTypes) {
			seenTypes[s.UserID][t] = struct{}{}
		}
	}

	rows := make([]LeaderboardRow, 0, len(groups))
	for userID, row := range groups {
		row.WorkoutTypes = joinSorted(seenTypes[userID])
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		return rows[i].UserID < rows[j].UserID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

// SplitWorkoutTypes undoes the display join. Tokens are trimmed so a string
// that already went through a merge does not sprout whitespace variants on the
// next one.
func SplitWorkoutTypes(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
