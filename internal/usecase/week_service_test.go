package usecase

import (
	"context"
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/require"
	"github.com/strideleague/strideleague/internal/domain/member"
)

func (f *fixture) memberOf(t *testing.T, leagueID, userID string) member.Member {
	t.Helper()
	m, found, err := f.store.Members().GetByLeagueAndUser(context.Background(), leagueID, userID)
	require.NoError(t, err)
	require.True(t, found)
	return m
}

func TestFinalizeWeek_SettlesAndAdvances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leagueID := f.startedLeague(t, 8, "alice", "bob", "cara", "dave")

	// Week 1 pairs the roster as (alice,dave) and (bob,cara).
	f.syncScore(t, leagueID, "alice", 1, 10)
	f.syncScore(t, leagueID, "dave", 1, 8)
	f.syncScore(t, leagueID, "bob", 1, 5)
	f.syncScore(t, leagueID, "cara", 1, 5)

	f.afterWeek(t, leagueID, 1)
	require.NoError(t, f.eng.Weeks.FinalizeWeek(ctx, leagueID, 1))

	alice := f.memberOf(t, leagueID, "alice")
	require.Equal(t, 1, alice.Wins)
	require.Equal(t, 10.0, alice.TotalPoints)
	dave := f.memberOf(t, leagueID, "dave")
	require.Equal(t, 1, dave.Losses)
	require.Equal(t, 8.0, dave.TotalPoints)
	bob := f.memberOf(t, leagueID, "bob")
	require.Equal(t, 1, bob.Ties)
	cara := f.memberOf(t, leagueID, "cara")
	require.Equal(t, 1, cara.Ties)

	l, _, err := f.store.Leagues().GetByID(ctx, leagueID)
	require.NoError(t, err)
	require.Equal(t, 2, l.CurrentWeek)
	require.NotNil(t, l.LastWeekFinalizedAt)

	ms, err := f.store.Matchups().ListByLeagueWeek(ctx, leagueID, 1)
	require.NoError(t, err)
	for _, m := range ms {
		require.True(t, m.Finalized)
		require.True(t, m.PointsAdded)
	}
}

func TestFinalizeWeek_MissingScoreCountsZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leagueID := f.startedLeague(t, 8, "alice", "bob", "cara", "dave")

	f.syncScore(t, leagueID, "alice", 1, 12)
	// dave never syncs.

	f.afterWeek(t, leagueID, 1)
	require.NoError(t, f.eng.Weeks.FinalizeWeek(ctx, leagueID, 1))

	alice := f.memberOf(t, leagueID, "alice")
	require.Equal(t, 1, alice.Wins)
	dave := f.memberOf(t, leagueID, "dave")
	require.Equal(t, 1, dave.Losses)
	require.Equal(t, 0.0, dave.TotalPoints)
}

func TestFinalizeWeek_BeforeBoundaryFails(t *testing.T) {
	f := newFixture(t)
	leagueID := f.startedLeague(t, 8, "alice", "bob", "cara", "dave")

	err := f.eng.Weeks.FinalizeWeek(context.Background(), leagueID, 1)
	require.ErrorIs(t, err, ErrPrecondition)
}

func TestFinalizeWeek_OutOfRangeWeekIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leagueID := f.startedLeague(t, 6, "alice", "bob", "cara", "dave")

	// Weeks outside 1..season_length settle nothing and report success.
	require.NoError(t, f.eng.Weeks.FinalizeWeek(ctx, leagueID, 7))
	require.NoError(t, f.eng.Weeks.FinalizeWeek(ctx, leagueID, 0))

	l, _, err := f.store.Leagues().GetByID(ctx, leagueID)
	require.NoError(t, err)
	require.Equal(t, 1, l.CurrentWeek)
}

func TestFinalizeWeek_AfterPlayoffsStartIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leagueID := f.startedLeague(t, 6, "alice", "bob", "cara", "dave")

	ok, err := f.store.Leagues().MarkPlayoffsStarted(ctx, leagueID)
	require.NoError(t, err)
	require.True(t, ok)

	f.afterWeek(t, leagueID, 1)
	require.NoError(t, f.eng.Weeks.FinalizeWeek(ctx, leagueID, 1))

	l, _, err := f.store.Leagues().GetByID(ctx, leagueID)
	require.NoError(t, err)
	require.Equal(t, 1, l.CurrentWeek)
	ms, err := f.store.Matchups().ListByLeagueWeek(ctx, leagueID, 1)
	require.NoError(t, err)
	for _, m := range ms {
		require.False(t, m.Finalized)
	}
}

func TestFinalizeWeek_UnstartedLeagueIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "alice")

	l, err := f.eng.Leagues.CreateLeague(ctx, CreateLeagueInput{
		Name:          "forming",
		SeasonLength:  6,
		MaxPlayers:    4,
		CreatorUserID: "alice",
	})
	require.NoError(t, err)

	require.NoError(t, f.eng.Weeks.FinalizeWeek(ctx, l.ID, 1))

	got, _, err := f.store.Leagues().GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.CurrentWeek)
}

func TestFinalizeWeek_RepeatIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leagueID := f.startedLeague(t, 8, "alice", "bob", "cara", "dave")

	f.syncScore(t, leagueID, "alice", 1, 10)
	f.afterWeek(t, leagueID, 1)
	require.NoError(t, f.eng.Weeks.FinalizeWeek(ctx, leagueID, 1))
	require.NoError(t, f.eng.Weeks.FinalizeWeek(ctx, leagueID, 1))

	alice := f.memberOf(t, leagueID, "alice")
	require.Equal(t, 1, alice.Wins)
	require.Equal(t, 10.0, alice.TotalPoints)

	l, _, err := f.store.Leagues().GetByID(ctx, leagueID)
	require.NoError(t, err)
	require.Equal(t, 2, l.CurrentWeek)
}

func TestFinalizeWeek_ConcurrentCallsCountOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leagueID := f.startedLeague(t, 8, "alice", "bob", "cara", "dave")

	f.syncScore(t, leagueID, "alice", 1, 10)
	f.syncScore(t, leagueID, "dave", 1, 8)
	f.afterWeek(t, leagueID, 1)

	errs := make(chan error, 8)
	var wg conc.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Go(func() {
			errs <- f.eng.Weeks.FinalizeWeek(ctx, leagueID, 1)
		})
	}
	wg.Wait()
	close(errs)
	// Losing callers see a clean no-op, never an error.
	for err := range errs {
		require.NoError(t, err)
	}

	alice := f.memberOf(t, leagueID, "alice")
	require.Equal(t, 1, alice.Wins)
	require.Equal(t, 10.0, alice.TotalPoints)
	dave := f.memberOf(t, leagueID, "dave")
	require.Equal(t, 1, dave.Losses)

	l, _, err := f.store.Leagues().GetByID(ctx, leagueID)
	require.NoError(t, err)
	require.Equal(t, 2, l.CurrentWeek)
}

func TestFinalizeWeek_LateSyncDoesNotReopenResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leagueID := f.startedLeague(t, 8, "alice", "bob", "cara", "dave")

	f.syncScore(t, leagueID, "alice", 1, 10)
	f.syncScore(t, leagueID, "dave", 1, 8)
	f.afterWeek(t, leagueID, 1)
	require.NoError(t, f.eng.Weeks.FinalizeWeek(ctx, leagueID, 1))

	// Dave's phone backfills a huge week 1 after the fact. The sync is
	// stored but the settled matchup and standings never move.
	f.syncScore(t, leagueID, "dave", 1, 500)

	dave := f.memberOf(t, leagueID, "dave")
	require.Equal(t, 1, dave.Losses)
	require.Equal(t, 8.0, dave.TotalPoints)

	require.NoError(t, f.eng.Weeks.FinalizeWeek(ctx, leagueID, 1))
	dave = f.memberOf(t, leagueID, "dave")
	require.Equal(t, 8.0, dave.TotalPoints)

	ms, err := f.store.Matchups().ListByLeagueWeek(ctx, leagueID, 1)
	require.NoError(t, err)
	for _, m := range ms {
		if m.Player1ID == dave.ID || m.Player2ID == dave.ID {
			require.True(t, m.Finalized)
			snapshot := m.Player1Snapshot
			if m.Player2ID == dave.ID {
				snapshot = m.Player2Snapshot
			}
			require.Equal(t, 8.0, snapshot)
		}
	}

	ws, found, err := f.store.WeeklyScores().Get(ctx, leagueID, "dave", 1)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 500.0, ws.TotalPoints)
}

func TestFinalizeWeek_WrongWeekIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leagueID := f.startedLeague(t, 8, "alice", "bob", "cara", "dave")

	f.afterWeek(t, leagueID, 1)
	require.NoError(t, f.eng.Weeks.FinalizeWeek(ctx, leagueID, 1))

	// Week 1 is behind the pointer now and week 3 is ahead of it; both are
	// no-ops even though their numbers are in range.
	require.NoError(t, f.eng.Weeks.FinalizeWeek(ctx, leagueID, 1))
	require.NoError(t, f.eng.Weeks.FinalizeWeek(ctx, leagueID, 3))

	l, _, err := f.store.Leagues().GetByID(ctx, leagueID)
	require.NoError(t, err)
	require.Equal(t, 2, l.CurrentWeek)
}
