package member

import "context"

// Repository describes member persistence needs from the engine.
type Repository interface {
	// Create inserts a member; a second membership for the same
	// (league, user) pair fails with a conflict.
	Create(ctx context.Context, m Member) error
	GetByID(ctx context.Context, memberID string) (Member, bool, error)
	GetByLeagueAndUser(ctx context.Context, leagueID, userID string) (Member, bool, error)
	// ListByLeague returns members ordered by joined_at, which is the
	// ordering the schedule rotation depends on.
	ListByLeague(ctx context.Context, leagueID string) ([]Member, error)

	// ApplyRecordDelta increments the record counters and total points.
	ApplyRecordDelta(ctx context.Context, memberID string, delta RecordDelta) error

	// SetPlayoffSeed assigns a seed and freezes the tiebreaker snapshot.
	SetPlayoffSeed(ctx context.Context, memberID string, seed int, tiebreakerPoints float64) error

	MarkEliminated(ctx context.Context, memberID string) error
	Delete(ctx context.Context, memberID string) error
}
