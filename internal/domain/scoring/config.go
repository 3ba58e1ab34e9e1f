package scoring

import (
	"fmt"

	sonic "github.com/bytedance/sonic"
)

// Config holds the per-dimension point weights. A league carries two copies:
// an editable one while the league is forming and a frozen snapshot taken
// when the season starts.
type Config struct {
	PointsPer1000Steps     float64 `json:"points_per_1000_steps"`
	PointsPerSleepHour     float64 `json:"points_per_sleep_hour"`
	PointsPer100ActiveCal  float64 `json:"points_per_100_active_cal"`
	PointsPerWorkoutMinute float64 `json:"points_per_workout_minute"`
	PointsPerStandHour     float64 `json:"points_per_stand_hour"`
	PointsPerMile          float64 `json:"points_per_mile"`
}

func DefaultConfig() Config {
	return Config{
		PointsPer1000Steps:     1,
		PointsPerSleepHour:     2,
		PointsPer100ActiveCal:  5,
		PointsPerWorkoutMinute: 0.2,
		PointsPerStandHour:     5,
		PointsPerMile:          3,
	}
}

// ParseConfig reads a JSON-shaped config map. Unknown keys are ignored and
// missing keys fall back to defaults. The legacy points_per_workout key is
// read as points_per_workout_minute when the modern key is absent; MarshalJSON
// emits only the modern key.
func ParseConfig(raw []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(raw) == 0 {
		return cfg, nil
	}

	values := map[string]float64{}
	if err := sonic.Unmarshal(raw, &values); err != nil {
		return Config{}, fmt.Errorf("parse scoring config: %w", err)
	}

	if v, ok := values["points_per_1000_steps"]; ok {
		cfg.PointsPer1000Steps = v
	}
	if v, ok := values["points_per_sleep_hour"]; ok {
		cfg.PointsPerSleepHour = v
	}
	if v, ok := values["points_per_100_active_cal"]; ok {
		cfg.PointsPer100ActiveCal = v
	}
	if v, ok := values["points_per_workout_minute"]; ok {
		cfg.PointsPerWorkoutMinute = v
	} else if v, ok := values["points_per_workout"]; ok {
		cfg.PointsPerWorkoutMinute = v
	}
	if v, ok := values["points_per_stand_hour"]; ok {
		cfg.PointsPerStandHour = v
	}
	if v, ok := values["points_per_mile"]; ok {
		cfg.PointsPerMile = v
	}

	return cfg, nil
}

func (c Config) MarshalBytes() ([]byte, error) {
	out, err := sonic.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal scoring config: %w", err)
	}
	return out, nil
}
