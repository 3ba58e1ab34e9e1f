package weeklyscore

import (
	"time"

	"github.com/strideleague/strideleague/internal/domain/scoring"
)

// WeeklyScore is one user's aggregated metrics for one league week, plus the
// points derived from the league's effective config at write time. The
// persisted total is canonical; finalization reads it verbatim.
type WeeklyScore struct {
	ID         string
	LeagueID   string
	UserID     string
	WeekNumber int

	Metrics     scoring.Metrics
	TotalPoints float64

	LastSyncedAt time.Time
}
