package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/strideleague/strideleague/internal/domain/scoring"
)

func TestRecordWeeklyScore_ComputesPointsUnderFrozenConfig(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leagueID := f.startedLeague(t, 8, "alice", "bob", "cara", "dave")

	ws, err := f.eng.Scores.RecordWeeklyScore(ctx, leagueID, "alice", 1, scoring.Metrics{
		Steps:          56_000,
		SleepHours:     49,
		ActiveCalories: 3_500,
		WorkoutMinutes: 150,
		StandHours:     12,
		DistanceMiles:  9,
	})
	require.NoError(t, err)
	require.Equal(t, 56.0+98+175+30+60+27, ws.TotalPoints)
}

func TestRecordWeeklyScore_UpsertLastWriteWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leagueID := f.startedLeague(t, 8, "alice", "bob", "cara", "dave")

	f.syncScore(t, leagueID, "alice", 2, 10)
	f.syncScore(t, leagueID, "alice", 2, 4)

	ws, found, err := f.store.WeeklyScores().Get(ctx, leagueID, "alice", 2)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 4.0, ws.TotalPoints)
}

func TestRecordWeeklyScore_SanitizesHostileInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leagueID := f.startedLeague(t, 8, "alice", "bob", "cara", "dave")

	ws, err := f.eng.Scores.RecordWeeklyScore(ctx, leagueID, "alice", 1, scoring.Metrics{
		Steps:      -500,
		SleepHours: 5_000,
	})
	require.NoError(t, err)
	require.Equal(t, 0.0, ws.Metrics.Steps)
	require.Equal(t, float64(scoring.MaxSleepHours), ws.Metrics.SleepHours)
	require.Equal(t, 336.0, ws.TotalPoints)
}

func TestRecordWeeklyScore_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "alice")
	f.addUser(t, "outsider")

	l, err := f.eng.Leagues.CreateLeague(ctx, CreateLeagueInput{
		Name:          "guarded",
		SeasonLength:  8,
		MaxPlayers:    4,
		CreatorUserID: "alice",
	})
	require.NoError(t, err)

	// Before the season starts there is no week to score.
	_, err = f.eng.Scores.RecordWeeklyScore(ctx, l.ID, "alice", 1, scoring.Metrics{Steps: 1000})
	require.ErrorIs(t, err, ErrPrecondition)

	leagueID := f.startedLeague(t, 8, "w", "x", "y", "z")

	_, err = f.eng.Scores.RecordWeeklyScore(ctx, leagueID, "outsider", 1, scoring.Metrics{Steps: 1000})
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = f.eng.Scores.RecordWeeklyScore(ctx, leagueID, "w", 0, scoring.Metrics{Steps: 1000})
	require.ErrorIs(t, err, ErrInvalidInput)

	// Weeks run through the final: season length 8 plus two playoff rounds.
	_, err = f.eng.Scores.RecordWeeklyScore(ctx, leagueID, "w", 10, scoring.Metrics{Steps: 1000})
	require.NoError(t, err)
	_, err = f.eng.Scores.RecordWeeklyScore(ctx, leagueID, "w", 11, scoring.Metrics{Steps: 1000})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestStandings_RanksLikeSeeding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leagueID := f.startedLeague(t, 8, "alice", "bob", "cara", "dave")

	f.syncScore(t, leagueID, "alice", 1, 10)
	f.syncScore(t, leagueID, "dave", 1, 8)
	f.syncScore(t, leagueID, "bob", 1, 5)
	f.syncScore(t, leagueID, "cara", 1, 3)
	f.afterWeek(t, leagueID, 1)
	require.NoError(t, f.eng.Weeks.FinalizeWeek(ctx, leagueID, 1))
	f.eng.Standings.Invalidate(ctx, leagueID)

	table, err := f.eng.Standings.Standings(ctx, leagueID)
	require.NoError(t, err)
	require.Len(t, table, 4)
	require.Equal(t, "alice", table[0].UserID)
	require.Equal(t, 1, table[0].Rank)
	require.Equal(t, 1, table[0].Wins)
	require.Equal(t, "bob", table[1].UserID)
	require.Equal(t, "dave", table[2].UserID)
	require.Equal(t, "cara", table[3].UserID)
}

func TestStandings_CachedUntilInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leagueID := f.startedLeague(t, 8, "alice", "bob", "cara", "dave")

	before, err := f.eng.Standings.Standings(ctx, leagueID)
	require.NoError(t, err)

	f.syncScore(t, leagueID, "alice", 1, 10)
	f.afterWeek(t, leagueID, 1)
	require.NoError(t, f.eng.Weeks.FinalizeWeek(ctx, leagueID, 1))

	cached, err := f.eng.Standings.Standings(ctx, leagueID)
	require.NoError(t, err)
	require.Equal(t, before, cached)

	f.eng.Standings.Invalidate(ctx, leagueID)
	fresh, err := f.eng.Standings.Standings(ctx, leagueID)
	require.NoError(t, err)
	require.NotEqual(t, before, fresh)

	_, err = f.eng.Standings.Standings(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
