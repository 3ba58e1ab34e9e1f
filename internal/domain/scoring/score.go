package scoring

import "math"

// Score converts a week of metrics into points under the given config.
// Inputs are sanitized first; the result is rounded to two decimals so the
// persisted total is stable across recomputation.
func Score(m Metrics, cfg Config) float64 {
	m = m.Sanitize()

	points := (m.Steps/1000)*cfg.PointsPer1000Steps +
		m.SleepHours*cfg.PointsPerSleepHour +
		(m.ActiveCalories/100)*cfg.PointsPer100ActiveCal +
		m.WorkoutMinutes*cfg.PointsPerWorkoutMinute +
		m.StandHours*cfg.PointsPerStandHour +
		m.DistanceMiles*cfg.PointsPerMile

	return math.Round(points*100) / 100
}
