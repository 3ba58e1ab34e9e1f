package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/strideleague/strideleague/internal/domain/scoring"
	"github.com/strideleague/strideleague/internal/domain/user"
	"github.com/strideleague/strideleague/internal/infrastructure/repository/memory"
	"github.com/strideleague/strideleague/internal/platform/cache"
	"github.com/strideleague/strideleague/internal/platform/logging"
)

func TestCreateLeague_CreatorBecomesAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "alice")

	l, err := f.eng.Leagues.CreateLeague(ctx, CreateLeagueInput{
		Name:          "morning crew",
		SeasonLength:  8,
		MaxPlayers:    4,
		CreatorUserID: "alice",
	})
	require.NoError(t, err)
	require.NotEmpty(t, l.ID)
	require.Len(t, l.JoinCode, 6)
	require.Nil(t, l.StartDate)
	require.Equal(t, 1, l.CurrentWeek)

	members, err := f.store.Members().ListByLeague(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, "alice", members[0].UserID)
	require.True(t, members[0].IsAdmin)
}

func TestCreateLeague_RejectsBadEnumerations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "alice")

	for _, tc := range []struct {
		name   string
		season int
		max    int
	}{
		{"odd season length", 7, 4},
		{"season too long", 14, 4},
		{"odd max players", 4, 5},
		{"too few players", 6, 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.eng.Leagues.CreateLeague(ctx, CreateLeagueInput{
				Name:          "bad",
				SeasonLength:  tc.season,
				MaxPlayers:    tc.max,
				CreatorUserID: "alice",
			})
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

// stuckCodeGenerator deals the same join code for a fixed number of draws
// before falling back to fresh ones.
type stuckCodeGenerator struct {
	seqGenerator
	stuck int
}

func (g *stuckCodeGenerator) NewJoinCode() (string, error) {
	if g.stuck > 0 {
		g.stuck--
		return "SAME42", nil
	}
	return g.seqGenerator.NewJoinCode()
}

func TestCreateLeague_RedrawsCollidingJoinCode(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	eng := NewEngine(EngineConfig{
		Store:  st,
		IDs:    &stuckCodeGenerator{stuck: 3},
		Cache:  cache.NewStore(time.Minute),
		Logger: logging.NewNop(),
	})
	err := st.Users().Create(ctx, user.User{ID: "alice", DisplayName: "Alice", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	input := CreateLeagueInput{
		Name:          "first",
		SeasonLength:  6,
		MaxPlayers:    4,
		CreatorUserID: "alice",
	}
	first, err := eng.Leagues.CreateLeague(ctx, input)
	require.NoError(t, err)
	require.Equal(t, "SAME42", first.JoinCode)

	// The next create draws SAME42 twice, hits the existing league both
	// times, and lands on a fresh code without surfacing an error.
	input.Name = "second"
	second, err := eng.Leagues.CreateLeague(ctx, input)
	require.NoError(t, err)
	require.NotEqual(t, first.JoinCode, second.JoinCode)

	_, found, err := st.Leagues().GetByID(ctx, second.ID)
	require.NoError(t, err)
	require.True(t, found)
}

func TestCreateLeague_ExhaustedJoinCodesConflict(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	eng := NewEngine(EngineConfig{
		Store:  st,
		IDs:    &stuckCodeGenerator{stuck: 100},
		Cache:  cache.NewStore(time.Minute),
		Logger: logging.NewNop(),
	})
	err := st.Users().Create(ctx, user.User{ID: "alice", DisplayName: "Alice", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	input := CreateLeagueInput{
		Name:          "first",
		SeasonLength:  6,
		MaxPlayers:    4,
		CreatorUserID: "alice",
	}
	_, err = eng.Leagues.CreateLeague(ctx, input)
	require.NoError(t, err)

	input.Name = "second"
	_, err = eng.Leagues.CreateLeague(ctx, input)
	require.ErrorIs(t, err, ErrConflict)

	// The code still belongs to the first league; the failed create left
	// nothing behind.
	l, found, err := st.Leagues().GetByJoinCode(ctx, "SAME42")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "first", l.Name)
}

func TestJoinLeague_LastSeatStartsSeason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leagueID := f.startedLeague(t, 8, "alice", "bob", "cara", "dave")

	l, found, err := f.store.Leagues().GetByID(ctx, leagueID)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, l.Started())
	require.NotNil(t, l.FrozenConfig)
	require.Equal(t, time.Monday, l.StartDate.Weekday())
	require.True(t, l.StartDate.After(testEpoch))

	// The full season schedule exists up front.
	for week := 1; week <= l.SeasonLength; week++ {
		ms, err := f.store.Matchups().ListByLeagueWeek(ctx, leagueID, week)
		require.NoError(t, err)
		require.Len(t, ms, 2, "week %d", week)
	}
}

func TestJoinLeague_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, u := range []string{"alice", "bob", "late"} {
		f.addUser(t, u)
	}

	l, err := f.eng.Leagues.CreateLeague(ctx, CreateLeagueInput{
		Name:          "duo",
		SeasonLength:  6,
		MaxPlayers:    4,
		CreatorUserID: "alice",
	})
	require.NoError(t, err)

	_, err = f.eng.Leagues.JoinLeagueByCode(ctx, l.JoinCode, "bob")
	require.NoError(t, err)

	_, err = f.eng.Leagues.JoinLeagueByCode(ctx, l.JoinCode, "bob")
	require.ErrorIs(t, err, ErrConflict)

	_, err = f.eng.Leagues.JoinLeagueByCode(ctx, "NOPE42", "late")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.eng.Leagues.StartLeague(ctx, l.ID, "alice"))

	_, err = f.eng.Leagues.JoinLeagueByCode(ctx, l.JoinCode, "late")
	require.ErrorIs(t, err, ErrPrecondition)
}

func TestJoinLeague_CodeIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "alice")
	f.addUser(t, "bob")

	l, err := f.eng.Leagues.CreateLeague(ctx, CreateLeagueInput{
		Name:          "case",
		SeasonLength:  6,
		MaxPlayers:    4,
		CreatorUserID: "alice",
	})
	require.NoError(t, err)

	_, err = f.eng.Leagues.JoinLeagueByCode(ctx, "  "+lower(l.JoinCode)+" ", "bob")
	require.NoError(t, err)
}

func lower(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + ('a' - 'A')
		}
	}
	return string(out)
}

func TestStartLeague_RequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "alice")
	f.addUser(t, "bob")

	l, err := f.eng.Leagues.CreateLeague(ctx, CreateLeagueInput{
		Name:          "perm",
		SeasonLength:  6,
		MaxPlayers:    4,
		CreatorUserID: "alice",
	})
	require.NoError(t, err)
	_, err = f.eng.Leagues.JoinLeagueByCode(ctx, l.JoinCode, "bob")
	require.NoError(t, err)

	err = f.eng.Leagues.StartLeague(ctx, l.ID, "bob")
	require.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, f.eng.Leagues.StartLeague(ctx, l.ID, "alice"))

	err = f.eng.Leagues.StartLeague(ctx, l.ID, "alice")
	require.ErrorIs(t, err, ErrPrecondition)
}

func TestUpdateScoringConfig_FrozenAfterStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(t, "alice")
	f.addUser(t, "bob")

	l, err := f.eng.Leagues.CreateLeague(ctx, CreateLeagueInput{
		Name:          "freeze",
		SeasonLength:  6,
		MaxPlayers:    4,
		CreatorUserID: "alice",
	})
	require.NoError(t, err)

	boosted := scoring.DefaultConfig()
	boosted.PointsPerMile = 10
	require.NoError(t, f.eng.Leagues.UpdateScoringConfig(ctx, l.ID, "alice", boosted))

	_, err = f.eng.Leagues.JoinLeagueByCode(ctx, l.JoinCode, "bob")
	require.NoError(t, err)
	require.NoError(t, f.eng.Leagues.StartLeague(ctx, l.ID, "alice"))

	err = f.eng.Leagues.UpdateScoringConfig(ctx, l.ID, "alice", scoring.DefaultConfig())
	require.ErrorIs(t, err, ErrPrecondition)

	// The pre-start edit is what got frozen.
	got, _, err := f.store.Leagues().GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FrozenConfig)
	require.Equal(t, 10.0, got.FrozenConfig.PointsPerMile)
	require.Equal(t, 10.0, got.EffectiveConfig().PointsPerMile)
}

func TestRemoveMember_OnlyBeforeStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, u := range []string{"alice", "bob", "cara"} {
		f.addUser(t, u)
	}

	l, err := f.eng.Leagues.CreateLeague(ctx, CreateLeagueInput{
		Name:          "kick",
		SeasonLength:  6,
		MaxPlayers:    4,
		CreatorUserID: "alice",
	})
	require.NoError(t, err)
	_, err = f.eng.Leagues.JoinLeagueByCode(ctx, l.JoinCode, "bob")
	require.NoError(t, err)
	_, err = f.eng.Leagues.JoinLeagueByCode(ctx, l.JoinCode, "cara")
	require.NoError(t, err)

	err = f.eng.Leagues.RemoveMember(ctx, l.ID, "cara", "bob")
	require.ErrorIs(t, err, ErrPermissionDenied)

	err = f.eng.Leagues.RemoveMember(ctx, l.ID, "alice", "alice")
	require.ErrorIs(t, err, ErrPrecondition)

	require.NoError(t, f.eng.Leagues.RemoveMember(ctx, l.ID, "cara", "alice"))

	members, err := f.store.Members().ListByLeague(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	require.NoError(t, f.eng.Leagues.StartLeague(ctx, l.ID, "alice"))
	err = f.eng.Leagues.RemoveMember(ctx, l.ID, "bob", "alice")
	require.ErrorIs(t, err, ErrPrecondition)
}

func TestDeleteLeague_CreatorOnlyAndCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leagueID := f.startedLeague(t, 6, "alice", "bob", "cara", "dave")

	err := f.eng.Leagues.DeleteLeague(ctx, leagueID, "bob")
	require.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, f.eng.Leagues.DeleteLeague(ctx, leagueID, "alice"))

	_, found, err := f.store.Leagues().GetByID(ctx, leagueID)
	require.NoError(t, err)
	require.False(t, found)
	members, err := f.store.Members().ListByLeague(ctx, leagueID)
	require.NoError(t, err)
	require.Empty(t, members)

	err = f.eng.Leagues.DeleteLeague(ctx, leagueID, "alice")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestNextMonday(t *testing.T) {
	monday := time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC)

	for _, tc := range []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2026, time.January, 7, 12, 0, 0, 0, time.UTC), monday},
		{time.Date(2026, time.January, 11, 23, 59, 0, 0, time.UTC), monday},
		// A Monday rolls to the next one, never to itself.
		{monday, monday.AddDate(0, 0, 7)},
	} {
		require.Equal(t, tc.want, nextMonday(tc.in), "input %s", tc.in)
	}
}
