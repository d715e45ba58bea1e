package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestAggregateDayAwardsStepBucketOnce(t *testing.T) {
	records := []TaggedRecord{
		{UserID: "alice@example.com", Record: HealthMetricRecord{
			Steps:       3000,
			WorkoutType: WorkoutCardio,
			TotalPoints: WorkoutBonus(WorkoutCardio),
		}},
		{UserID: "alice@example.com", Record: HealthMetricRecord{
			Steps:       9000,
			WorkoutType: WorkoutNone,
			TotalPoints: 0,
		}},
	}

	rows := AggregateDay(records)
	require.Len(t, rows, 1)

	row := rows[0]
	require.Equal(t, "alice@example.com", row.UserID)
	require.Equal(t, 9000, row.TotalSteps)
	// 200 cardio bonus + 0 + one bucket for the day's max (9000 -> 80).
	require.Equal(t, 280, row.TotalPoints)
	require.Equal(t, "cardio", row.WorkoutTypes)
}

func TestAggregateDayIsOrderIndependent(t *testing.T) {
	records := []TaggedRecord{
		{UserID: "bob", Record: HealthMetricRecord{Steps: 12000, WorkoutType: WorkoutYoga, TotalPoints: 200, DistanceKm: fptr(4.2)}},
		{UserID: "alice", Record: HealthMetricRecord{Steps: 4000, WorkoutType: WorkoutSport, TotalPoints: 300}},
		{UserID: "bob", Record: HealthMetricRecord{Steps: 2000, WorkoutType: WorkoutCardio, TotalPoints: 200, DistanceKm: fptr(1.8)}},
	}
	reversed := []TaggedRecord{records[2], records[1], records[0]}

	require.Equal(t, AggregateDay(records), AggregateDay(reversed))
}

func TestAggregateDaySumsMetricsAndSortsUsers(t *testing.T) {
	records := []TaggedRecord{
		{UserID: "carol", Record: HealthMetricRecord{
			Steps:             7000,
			CaloriesKcal:      fptr(310.5),
			ActiveTimeMinutes: fptr(45),
			WorkoutType:       WorkoutYoga,
			TotalPoints:       200,
		}},
		{UserID: "alice", Record: HealthMetricRecord{
			Steps:        1000,
			CaloriesKcal: fptr(90),
		}},
		{UserID: "carol", Record: HealthMetricRecord{
			Steps:             5000,
			CaloriesKcal:      fptr(200),
			ActiveTimeMinutes: fptr(30),
			WorkoutType:       WorkoutYoga,
			TotalPoints:       200,
		}},
	}

	rows := AggregateDay(records)
	require.Len(t, rows, 2)
	require.Equal(t, "alice", rows[0].UserID)
	require.Equal(t, "carol", rows[1].UserID)

	carol := rows[1]
	require.Equal(t, 7000, carol.TotalSteps)
	require.InDelta(t, 510.5, carol.TotalCaloriesKcal, 1e-9)
	require.InDelta(t, 75, carol.TotalActiveTimeMinutes, 1e-9)
	// Duplicate yoga entries collapse to one token.
	require.Equal(t, "yoga", carol.WorkoutTypes)
	// 200 + 200 bonuses + bucket(7000) = 35.
	require.Equal(t, 435, carol.TotalPoints)

	alice := rows[0]
	require.Equal(t, "", alice.WorkoutTypes)
	require.Equal(t, 25, alice.TotalPoints)
}

func TestAggregateDayEmptyInput(t *testing.T) {
	require.Empty(t, AggregateDay(nil))
}
