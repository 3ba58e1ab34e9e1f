package league

import (
	"fmt"
	"time"

	"github.com/strideleague/strideleague/internal/domain/scoring"
)

// League is one weekly head-to-head competition. Members submit aggregated
// health metrics per week; the engine pairs, scores, and advances it.
type League struct {
	ID              string
	Name            string
	JoinCode        string
	CreatorUserID   string
	SeasonLength    int
	CurrentWeek     int
	StartDate       *time.Time
	Active          bool
	PlayoffsStarted bool
	ChampionID      *string
	MaxPlayers      int

	// EditableConfig can change while the league is forming. FrozenConfig is
	// snapshotted from it the moment StartDate is set and is the only config
	// consulted afterwards.
	EditableConfig scoring.Config
	FrozenConfig   *scoring.Config

	LastWeekFinalizedAt *time.Time
	CreatedAt           time.Time
}

var (
	allowedSeasonLengths = map[int]struct{}{6: {}, 8: {}, 10: {}, 12: {}}
	allowedMaxPlayers    = map[int]struct{}{4: {}, 6: {}, 8: {}, 10: {}, 12: {}, 14: {}}
)

func (l League) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if _, ok := allowedSeasonLengths[l.SeasonLength]; !ok {
		return fmt.Errorf("season length must be one of 6, 8, 10, 12: got %d", l.SeasonLength)
	}
	if _, ok := allowedMaxPlayers[l.MaxPlayers]; !ok {
		return fmt.Errorf("max players must be one of 4, 6, 8, 10, 12, 14: got %d", l.MaxPlayers)
	}
	if l.CurrentWeek < 1 {
		return fmt.Errorf("current week must be positive: got %d", l.CurrentWeek)
	}
	return nil
}

// Started reports whether the season has begun. Once true the frozen config
// governs all scoring.
func (l League) Started() bool {
	return l.StartDate != nil
}

// EffectiveConfig is the frozen snapshot once set, otherwise the editable
// config.
func (l League) EffectiveConfig() scoring.Config {
	if l.FrozenConfig != nil {
		return *l.FrozenConfig
	}
	return l.EditableConfig
}

// WeekBoundary is the instant week w ends: start_date + w*7d. Week
// boundaries are pure date arithmetic; no day-of-week wall clock logic.
func (l League) WeekBoundary(week int) (time.Time, bool) {
	if l.StartDate == nil || week < 1 {
		return time.Time{}, false
	}
	return l.StartDate.AddDate(0, 0, week*7), true
}
