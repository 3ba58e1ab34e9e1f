package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/strideleague/strideleague/internal/domain/scoring"
	"github.com/strideleague/strideleague/internal/domain/user"
	"github.com/strideleague/strideleague/internal/infrastructure/repository/memory"
	"github.com/strideleague/strideleague/internal/platform/cache"
	"github.com/strideleague/strideleague/internal/platform/logging"
)

// seqGenerator hands out deterministic IDs and join codes so tests can
// assert on ordering without touching crypto/rand.
type seqGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *seqGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%032d", g.n), nil
}

func (g *seqGenerator) NewJoinCode() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("JC%04d", g.n), nil
}

// clock is an adjustable time source shared by every service in a fixture.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	store *memory.Store
	eng   *Engine
	clock *clock
}

// testEpoch is a Wednesday; the next Monday is 2026-01-12.
var testEpoch = time.Date(2026, time.January, 7, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := memory.NewStore()
	c := &clock{t: testEpoch}
	eng := NewEngine(EngineConfig{
		Store:  st,
		IDs:    &seqGenerator{},
		Cache:  cache.NewStore(time.Minute),
		Logger: logging.NewNop(),
	})
	eng.Leagues.now = c.Now
	eng.Weeks.now = c.Now
	eng.Playoffs.now = c.Now
	eng.Scores.now = c.Now

	return &fixture{store: st, eng: eng, clock: c}
}

func (f *fixture) addUser(t *testing.T, id string) {
	t.Helper()
	err := f.store.Users().Create(context.Background(), user.User{
		ID:          id,
		DisplayName: "User " + id,
		CreatedAt:   f.clock.Now(),
	})
	require.NoError(t, err)
}

// startedLeague creates a league with the given users, joins them all, which
// auto-starts it, and returns the league ID. Users are created on the fly.
func (f *fixture) startedLeague(t *testing.T, seasonLength int, users ...string) string {
	t.Helper()
	ctx := context.Background()

	require.GreaterOrEqual(t, len(users), 4)
	for _, u := range users {
		f.addUser(t, u)
	}

	l, err := f.eng.Leagues.CreateLeague(ctx, CreateLeagueInput{
		Name:          "test league",
		SeasonLength:  seasonLength,
		MaxPlayers:    len(users),
		CreatorUserID: users[0],
	})
	require.NoError(t, err)

	for _, u := range users[1:] {
		f.clock.Advance(time.Second)
		_, err := f.eng.Leagues.JoinLeagueByCode(ctx, l.JoinCode, u)
		require.NoError(t, err)
	}
	return l.ID
}

// syncScore records metrics whose point total under the default config is
// exactly the given value, using workout minutes at 0.2 points each.
func (f *fixture) syncScore(t *testing.T, leagueID, userID string, week int, points float64) {
	t.Helper()
	_, err := f.eng.Scores.RecordWeeklyScore(context.Background(), leagueID, userID, week, scoring.Metrics{
		WorkoutMinutes: points * 5,
	})
	require.NoError(t, err)
}

// afterWeek moves the clock past the boundary of the given week.
func (f *fixture) afterWeek(t *testing.T, leagueID string, week int) {
	t.Helper()
	l, found, err := f.store.Leagues().GetByID(context.Background(), leagueID)
	require.NoError(t, err)
	require.True(t, found)
	boundary, ok := l.WeekBoundary(week)
	require.True(t, ok)
	f.clock.Set(boundary.Add(time.Hour))
}
