package store

import (
	"context"

	"github.com/strideleague/strideleague/internal/domain/league"
	"github.com/strideleague/strideleague/internal/domain/matchup"
	"github.com/strideleague/strideleague/internal/domain/member"
	"github.com/strideleague/strideleague/internal/domain/playoff"
	"github.com/strideleague/strideleague/internal/domain/user"
	"github.com/strideleague/strideleague/internal/domain/weeklyscore"
)

// Scope names an advisory-lock family. Locks are keyed by (scope, key) and
// are held for the enclosing transaction; they release on commit or
// rollback.
type Scope string

const (
	// ScopeFinalizeWeek serializes week finalization per (league, week).
	ScopeFinalizeWeek Scope = "finalize-week"
	// ScopePlayoffs serializes playoff generation per league.
	ScopePlayoffs Scope = "playoffs"
	// ScopePlayoffMatch serializes finalization per playoff match.
	ScopePlayoffMatch Scope = "playoff-match"
	// ScopeMatchups serializes schedule generation per league.
	ScopeMatchups Scope = "matchups"
)

// Store is the engine's only shared resource: typed repositories plus the
// transaction and advisory-lock primitives every engine operation builds on.
// The engine holds no process state of its own; correctness rests entirely
// on these guarantees.
type Store interface {
	Leagues() league.Repository
	Members() member.Repository
	Matchups() matchup.Repository
	WeeklyScores() weeklyscore.Repository
	Playoffs() playoff.Repository
	Users() user.Repository

	// WithTx runs fn inside a serializable (or equivalent) transaction. The
	// Store passed to fn addresses the transaction; on error every mutation
	// and advisory lock reverts. Calling WithTx on a transactional store
	// joins the outer transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error

	// AdvisoryLock takes the named exclusive lock for the current
	// transaction. Valid only inside WithTx.
	AdvisoryLock(ctx context.Context, scope Scope, key string) error
}
