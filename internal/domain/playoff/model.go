package playoff

// Rounds and match numbers of the 4-qualifier bracket. Round 1 holds two
// semifinals, round 2 the single final.
const (
	RoundSemifinal = 1
	RoundFinal     = 2

	MatchSemifinal1 = 1
	MatchSemifinal2 = 2
	MatchFinal      = 1
)

// Playoff is one bracket match. Week number is season length + round, so
// playoff scores live in the same weekly_scores stream as the regular
// season.
type Playoff struct {
	ID          string
	LeagueID    string
	Round       int
	MatchNumber int
	WeekNumber  int

	Player1ID string
	Player2ID string

	Player1Score float64
	Player2Score float64
	WinnerID     *string
	Finalized    bool
}
