package playoff

import "context"

// Repository describes playoff persistence needs from the engine.
type Repository interface {
	// InsertIgnoreDuplicate inserts unless (league, round, match) exists;
	// the bool reports whether a row was created. Uniqueness on the finals
	// slot is what keeps concurrent semifinal completions from doubling the
	// final.
	InsertIgnoreDuplicate(ctx context.Context, p Playoff) (bool, error)

	GetByID(ctx context.Context, playoffID string) (Playoff, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Playoff, error)
	GetByRoundMatch(ctx context.Context, leagueID string, round, match int) (Playoff, bool, error)

	// SetScores records the submitted scores for a pending match.
	SetScores(ctx context.Context, playoffID string, p1Score, p2Score float64) error

	// Finalize writes the winner, guarded on the match not yet being
	// finalized.
	Finalize(ctx context.Context, playoffID string, winnerID string) (bool, error)
}
