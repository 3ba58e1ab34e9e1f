package scoring

import "math"

// Metrics is the canonical per-week health aggregate. Hosts normalize
// whatever shape their health platform produces into this one record before
// calling the engine.
type Metrics struct {
	Steps          float64
	SleepHours     float64
	ActiveCalories float64
	WorkoutMinutes float64
	StandHours     float64
	DistanceMiles  float64
}

// Per-week input caps. Values above these are clamped, not rejected; a
// sync backfill that double-counts days must not poison standings.
const (
	MaxSteps          = 1_400_000
	MaxSleepHours     = 168
	MaxActiveCalories = 70_000
	MaxWorkoutMinutes = 10_080
	MaxStandHours     = 112
	MaxDistanceMiles  = 1_050
)

// Sanitize clamps every dimension into its valid range. Non-finite values
// and negatives become 0.
func (m Metrics) Sanitize() Metrics {
	return Metrics{
		Steps:          clamp(m.Steps, MaxSteps),
		SleepHours:     clamp(m.SleepHours, MaxSleepHours),
		ActiveCalories: clamp(m.ActiveCalories, MaxActiveCalories),
		WorkoutMinutes: clamp(m.WorkoutMinutes, MaxWorkoutMinutes),
		StandHours:     clamp(m.StandHours, MaxStandHours),
		DistanceMiles:  clamp(m.DistanceMiles, MaxDistanceMiles),
	}
}

func clamp(v, max float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
