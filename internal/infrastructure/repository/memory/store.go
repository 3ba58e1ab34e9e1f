package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/strideleague/strideleague/internal/domain/league"
	"github.com/strideleague/strideleague/internal/domain/matchup"
	"github.com/strideleague/strideleague/internal/domain/member"
	"github.com/strideleague/strideleague/internal/domain/playoff"
	"github.com/strideleague/strideleague/internal/domain/store"
	"github.com/strideleague/strideleague/internal/domain/user"
	"github.com/strideleague/strideleague/internal/domain/weeklyscore"
)

// state is the whole persisted world. weeklyScores is keyed by
// (league, user, week); everything else by primary key.
type state struct {
	leagues      map[string]league.League
	members      map[string]member.Member
	matchups     map[string]matchup.Matchup
	weeklyScores map[string]weeklyscore.WeeklyScore
	playoffs     map[string]playoff.Playoff
	users        map[string]user.User
}

func newState() *state {
	return &state{
		leagues:      make(map[string]league.League),
		members:      make(map[string]member.Member),
		matchups:     make(map[string]matchup.Matchup),
		weeklyScores: make(map[string]weeklyscore.WeeklyScore),
		playoffs:     make(map[string]playoff.Playoff),
		users:        make(map[string]user.User),
	}
}

// Store is an in-memory store port for tests and single-process development.
// Transactions are serialized by one mutex; a deep snapshot taken at
// transaction start is restored on error, which gives the same
// all-or-nothing semantics the engine gets from the SQL store.
type Store struct {
	mu   sync.RWMutex
	st   *state
	inTx bool

	// locks is non-nil only on transactional views; entries exist for the
	// duration of the transaction. With transactions fully serialized the
	// set is bookkeeping, kept so misuse (locking outside a transaction)
	// still fails loudly.
	locks map[string]struct{}
}

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) Leagues() league.Repository           { return &leagueRepository{s} }
func (s *Store) Members() member.Repository           { return &memberRepository{s} }
func (s *Store) Matchups() matchup.Repository         { return &matchupRepository{s} }
func (s *Store) WeeklyScores() weeklyscore.Repository { return &weeklyScoreRepository{s} }
func (s *Store) Playoffs() playoff.Repository         { return &playoffRepository{s} }
func (s *Store) Users() user.Repository               { return &userRepository{s} }

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := s.st.clone()
	view := &Store{st: s.st, inTx: true, locks: make(map[string]struct{})}

	if err := fn(ctx, view); err != nil {
		*s.st = *snapshot
		return err
	}
	return nil
}

func (s *Store) AdvisoryLock(_ context.Context, scope store.Scope, key string) error {
	if !s.inTx {
		return fmt.Errorf("advisory lock outside transaction: %s:%s", scope, key)
	}
	s.locks[string(scope)+":"+key] = struct{}{}
	return nil
}

// read and write bracket repository operations; transactional views already
// hold the store mutex for the whole transaction.
func (s *Store) read() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) write() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func weeklyScoreKey(leagueID, userID string, week int) string {
	return fmt.Sprintf("%s::%s::%d", leagueID, userID, week)
}
