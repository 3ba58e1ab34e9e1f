package matchup

import "time"

// Matchup is one head-to-head pairing for one week. The pair is stored in
// normalized order so (league, week, {p1,p2}) is unique as an unordered set.
type Matchup struct {
	ID         string
	LeagueID   string
	WeekNumber int

	Player1ID string
	Player2ID string

	Player1Score float64
	Player2Score float64
	WinnerID     *string
	Tie          bool

	Finalized   bool
	FinalizedAt *time.Time

	// PointsAdded latches false→true exactly once, before standings are
	// mutated. The snapshots record what was added and never change after
	// the latch.
	PointsAdded     bool
	Player1Snapshot float64
	Player2Snapshot float64
}

// NormalizePair orders two player IDs so the unordered pair has a single
// canonical representation.
func NormalizePair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
