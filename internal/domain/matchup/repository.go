package matchup

import (
	"context"
	"time"
)

// Repository describes matchup persistence needs from the engine.
type Repository interface {
	// InsertIgnoreDuplicate inserts a matchup unless the unordered
	// (league, week, pair) already exists; the bool reports whether a row
	// was created. Self-pairings are rejected outright.
	InsertIgnoreDuplicate(ctx context.Context, m Matchup) (bool, error)

	GetByID(ctx context.Context, matchupID string) (Matchup, bool, error)
	ListByLeagueWeek(ctx context.Context, leagueID string, week int) ([]Matchup, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Matchup, error)

	// WeeksWithMatchups returns the set of week numbers that already have at
	// least one matchup; the generator skips those.
	WeeksWithMatchups(ctx context.Context, leagueID string) (map[int]struct{}, error)

	// MarkPointsAdded takes the points_added latch, guarded on it being
	// false, and freezes the per-player snapshots in the same step.
	MarkPointsAdded(ctx context.Context, matchupID string, p1Snapshot, p2Snapshot float64) (bool, error)

	// Finalize writes the terminal outcome.
	Finalize(ctx context.Context, matchupID string, p1Score, p2Score float64, winnerID *string, tie bool, at time.Time) error
}
