package domain

// StepBucketPoints maps a daily step count onto its bucket value. Bucket upper
// bounds are inclusive. Counts above 40000 never reach this function; the
// normalizer zeroes them as misreads.
func StepBucketPoints(steps int) int {
	switch {
	case steps <= 5000:
		return 25
	case steps <= 8000:
		return 35
	case steps <= 10000:
		return 80
	case steps <= 15000:
		return 150
	case steps <= 20000:
		return 300
	default:
		return 500
	}
}

// WorkoutBonus returns the fixed bonus for a workout category.
func WorkoutBonus(t WorkoutType) int {
	switch t {
	case WorkoutSport, WorkoutStrengthTraining:
		return 300
	case WorkoutCardio, WorkoutYoga:
		return 200
	default:
		return 0
	}
}

// ComputePoints scores a step count together with a workout category.
// Per-image records store WorkoutBonus alone; the step bucket is awarded once
// per user-day by AggregateDay so that multiple screenshots of the same day
// cannot double-count it.
func ComputePoints(steps int, t WorkoutType) int {
	return StepBucketPoints(steps) + WorkoutBonus(t)
}
