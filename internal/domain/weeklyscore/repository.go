package weeklyscore

import "context"

// Repository describes weekly score persistence needs from the engine.
type Repository interface {
	// Upsert inserts or replaces the row keyed by (league, user, week).
	Upsert(ctx context.Context, ws WeeklyScore) error
	Get(ctx context.Context, leagueID, userID string, week int) (WeeklyScore, bool, error)
	ListByLeagueWeek(ctx context.Context, leagueID string, week int) ([]WeeklyScore, error)
}
