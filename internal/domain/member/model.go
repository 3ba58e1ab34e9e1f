package member

import "time"

// Member is one user's standing inside a league. Record counters and total
// points are mutated only by engine-driven transitions; user-origin writes
// to these fields are rejected by the authorization layer outside the core.
type Member struct {
	ID       string
	LeagueID string
	UserID   string

	Wins        int
	Losses      int
	Ties        int
	TotalPoints float64

	// PlayoffSeed is 1..4 once playoffs are generated, 0 before.
	PlayoffSeed int
	// TiebreakerPoints is the total_points snapshot frozen at playoff
	// generation; nil until then.
	TiebreakerPoints *float64

	Eliminated bool
	IsAdmin    bool
	JoinedAt   time.Time
}

// RecordDelta is a single matchup outcome folded into a member's record.
type RecordDelta struct {
	Wins   int
	Losses int
	Ties   int
	Points float64
}
