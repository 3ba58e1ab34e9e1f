package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/strideleague/strideleague/internal/domain/league"
	"github.com/strideleague/strideleague/internal/domain/matchup"
	"github.com/strideleague/strideleague/internal/domain/member"
	"github.com/strideleague/strideleague/internal/domain/scoring"
	"github.com/strideleague/strideleague/internal/domain/store"
)

func testLeague(id string) league.League {
	return league.League{
		ID:             id,
		Name:           "Test League " + id,
		JoinCode:       "CODE" + id,
		CreatorUserID:  "creator",
		SeasonLength:   8,
		CurrentWeek:    1,
		Active:         true,
		MaxPlayers:     8,
		EditableConfig: scoring.DefaultConfig(),
		CreatedAt:      time.Now().UTC(),
	}
}

func mustCreateLeague(t *testing.T, s *Store, l league.League) {
	t.Helper()
	created, err := s.Leagues().Create(context.Background(), l)
	if err != nil || !created {
		t.Fatalf("create league %s: created=%v err=%v", l.ID, created, err)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	mustCreateLeague(t, s, testLeague("l1"))

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.Members().Create(ctx, member.Member{ID: "m1", LeagueID: "l1", UserID: "u1"}); err != nil {
			return err
		}
		ok, err := tx.Leagues().AdvanceWeek(ctx, "l1", 1, time.Now().UTC())
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("advance guard should hold")
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if _, found, _ := s.Members().GetByID(ctx, "m1"); found {
		t.Fatal("member insert should have rolled back")
	}
	l, _, _ := s.Leagues().GetByID(ctx, "l1")
	if l.CurrentWeek != 1 {
		t.Fatalf("week advance should have rolled back, got week %d", l.CurrentWeek)
	}
}

func TestWithTx_CommitKeepsMutations(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	mustCreateLeague(t, s, testLeague("l1"))

	err := s.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.AdvisoryLock(ctx, store.ScopeFinalizeWeek, "l1:1"); err != nil {
			return err
		}
		_, err := tx.Leagues().AdvanceWeek(ctx, "l1", 1, time.Now().UTC())
		return err
	})
	if err != nil {
		t.Fatalf("tx failed: %v", err)
	}

	l, _, _ := s.Leagues().GetByID(ctx, "l1")
	if l.CurrentWeek != 2 {
		t.Fatalf("expected week 2 after commit, got %d", l.CurrentWeek)
	}
}

func TestAdvisoryLock_OutsideTxFails(t *testing.T) {
	s := NewStore()
	if err := s.AdvisoryLock(context.Background(), store.ScopeMatchups, "l1"); err == nil {
		t.Fatal("expected advisory lock outside transaction to fail")
	}
}

func TestMemberCreate_DuplicateUserConflicts(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if err := s.Members().Create(ctx, member.Member{ID: "m1", LeagueID: "l1", UserID: "u1"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := s.Members().Create(ctx, member.Member{ID: "m2", LeagueID: "l1", UserID: "u1"})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestMatchupInsert_UnorderedPairUnique(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	created, err := s.Matchups().InsertIgnoreDuplicate(ctx, matchup.Matchup{
		ID: "x1", LeagueID: "l1", WeekNumber: 1, Player1ID: "b", Player2ID: "a",
	})
	if err != nil || !created {
		t.Fatalf("first insert: created=%v err=%v", created, err)
	}

	// Same pair in the other order is the same unordered pair.
	created, err = s.Matchups().InsertIgnoreDuplicate(ctx, matchup.Matchup{
		ID: "x2", LeagueID: "l1", WeekNumber: 1, Player1ID: "a", Player2ID: "b",
	})
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if created {
		t.Fatal("expected duplicate pair to be ignored")
	}

	if _, err := s.Matchups().InsertIgnoreDuplicate(ctx, matchup.Matchup{
		ID: "x3", LeagueID: "l1", WeekNumber: 1, Player1ID: "a", Player2ID: "a",
	}); err == nil {
		t.Fatal("expected self pairing to be rejected")
	}
}

func TestMatchupLatch_TakenOnce(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.Matchups().InsertIgnoreDuplicate(ctx, matchup.Matchup{
		ID: "x1", LeagueID: "l1", WeekNumber: 1, Player1ID: "a", Player2ID: "b",
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	ok, err := s.Matchups().MarkPointsAdded(ctx, "x1", 10, 20)
	if err != nil || !ok {
		t.Fatalf("first latch: ok=%v err=%v", ok, err)
	}
	ok, err = s.Matchups().MarkPointsAdded(ctx, "x1", 99, 99)
	if err != nil {
		t.Fatalf("second latch: %v", err)
	}
	if ok {
		t.Fatal("latch must be taken at most once")
	}

	m, _, _ := s.Matchups().GetByID(ctx, "x1")
	if m.Player1Snapshot != 10 || m.Player2Snapshot != 20 {
		t.Fatalf("snapshots must freeze at first latch, got %v/%v", m.Player1Snapshot, m.Player2Snapshot)
	}
}

func TestLeagueDelete_Cascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	mustCreateLeague(t, s, testLeague("l1"))
	for i, uid := range []string{"u1", "u2"} {
		if err := s.Members().Create(ctx, member.Member{ID: fmt.Sprintf("m%d", i), LeagueID: "l1", UserID: uid}); err != nil {
			t.Fatalf("create member: %v", err)
		}
	}
	if _, err := s.Matchups().InsertIgnoreDuplicate(ctx, matchup.Matchup{
		ID: "x1", LeagueID: "l1", WeekNumber: 1, Player1ID: "m0", Player2ID: "m1",
	}); err != nil {
		t.Fatalf("insert matchup: %v", err)
	}

	if err := s.Leagues().Delete(ctx, "l1"); err != nil {
		t.Fatalf("delete league: %v", err)
	}
	members, _ := s.Members().ListByLeague(ctx, "l1")
	if len(members) != 0 {
		t.Fatalf("expected members cascade, got %d", len(members))
	}
	matchups, _ := s.Matchups().ListByLeague(ctx, "l1")
	if len(matchups) != 0 {
		t.Fatalf("expected matchups cascade, got %d", len(matchups))
	}
}

func TestLeagueCreate_JoinCodeCollisionInsertsNothing(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	mustCreateLeague(t, s, testLeague("l1"))

	// Same code (any casing) on a different league: no insert, no error, so
	// a redrawing caller inside a transaction keeps going.
	clash := testLeague("l2")
	clash.JoinCode = "codel1"
	created, err := s.Leagues().Create(ctx, clash)
	if err != nil {
		t.Fatalf("colliding create: %v", err)
	}
	if created {
		t.Fatal("expected join-code collision to insert nothing")
	}
	if _, found, _ := s.Leagues().GetByID(ctx, "l2"); found {
		t.Fatal("collided league must not exist")
	}

	clash.JoinCode = "FRESH2"
	created, err = s.Leagues().Create(ctx, clash)
	if err != nil || !created {
		t.Fatalf("redraw create: created=%v err=%v", created, err)
	}
}

func TestLeagueLookup_JoinCodeCaseInsensitive(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	l := testLeague("l1")
	l.JoinCode = "AB23CD"
	mustCreateLeague(t, s, l)

	got, found, err := s.Leagues().GetByJoinCode(ctx, "ab23cd")
	if err != nil || !found {
		t.Fatalf("lookup failed: found=%v err=%v", found, err)
	}
	if got.ID != "l1" {
		t.Fatalf("unexpected league %s", got.ID)
	}
}
