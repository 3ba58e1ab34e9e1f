package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/strideleague/strideleague/internal/domain/league"
	"github.com/strideleague/strideleague/internal/domain/matchup"
	"github.com/strideleague/strideleague/internal/domain/member"
	"github.com/strideleague/strideleague/internal/domain/playoff"
	"github.com/strideleague/strideleague/internal/domain/store"
	"github.com/strideleague/strideleague/internal/domain/user"
	"github.com/strideleague/strideleague/internal/domain/weeklyscore"
)

// querier is the subset of sqlx satisfied by both *sqlx.DB and *sqlx.Tx, so
// every repository runs unchanged inside and outside a transaction.
type querier interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// Store is the PostgreSQL store port. Transactions run serializable;
// serialization failures surface as transient errors for the caller to
// retry.
type Store struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) q() querier {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *Store) Leagues() league.Repository           { return &leagueRepository{s} }
func (s *Store) Members() member.Repository           { return &memberRepository{s} }
func (s *Store) Matchups() matchup.Repository         { return &matchupRepository{s} }
func (s *Store) WeeklyScores() weeklyscore.Repository { return &weeklyScoreRepository{s} }
func (s *Store) Playoffs() playoff.Repository         { return &playoffRepository{s} }
func (s *Store) Users() user.Repository               { return &userRepository{s} }

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return mapError(err)
	}

	view := &Store{db: s.db, tx: tx}
	if err := fn(ctx, view); err != nil {
		// The callback error wins; rollback failure only decorates it.
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError(err)
	}
	return nil
}

// AdvisoryLock takes a transaction-scoped exclusive lock keyed by the hashed
// (scope, key) pair. It releases automatically on commit or rollback.
func (s *Store) AdvisoryLock(ctx context.Context, scope store.Scope, key string) error {
	if s.tx == nil {
		return fmt.Errorf("advisory lock outside transaction: %s:%s", scope, key)
	}

	_, err := s.tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		string(scope)+":"+key,
	)
	return mapError(err)
}
