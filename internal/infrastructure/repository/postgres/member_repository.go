package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/strideleague/strideleague/internal/domain/member"
)

type memberRepository struct {
	s *Store
}

const memberColumns = `id, league_id, user_id, wins, losses, ties, total_points,
	playoff_seed, tiebreaker_points, eliminated, is_admin, joined_at`

const insertMemberQuery = `
	INSERT INTO league_members (
		id, league_id, user_id, wins, losses, ties, total_points,
		playoff_seed, tiebreaker_points, eliminated, is_admin, joined_at
	) VALUES (
		:id, :league_id, :user_id, :wins, :losses, :ties, :total_points,
		:playoff_seed, :tiebreaker_points, :eliminated, :is_admin, :joined_at
	)`

func (r *memberRepository) Create(ctx context.Context, m member.Member) error {
	_, err := r.s.q().NamedExecContext(ctx, insertMemberQuery, memberToRow(m))
	return mapError(err)
}

func (r *memberRepository) GetByID(ctx context.Context, memberID string) (member.Member, bool, error) {
	var row memberRow
	err := r.s.q().GetContext(ctx, &row,
		`SELECT `+memberColumns+` FROM league_members WHERE id = $1`, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return member.Member{}, false, nil
	}
	if err != nil {
		return member.Member{}, false, mapError(err)
	}
	return row.toDomain(), true, nil
}

func (r *memberRepository) GetByLeagueAndUser(ctx context.Context, leagueID, userID string) (member.Member, bool, error) {
	var row memberRow
	err := r.s.q().GetContext(ctx, &row,
		`SELECT `+memberColumns+` FROM league_members
		 WHERE league_id = $1 AND user_id = $2`, leagueID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return member.Member{}, false, nil
	}
	if err != nil {
		return member.Member{}, false, mapError(err)
	}
	return row.toDomain(), true, nil
}

func (r *memberRepository) ListByLeague(ctx context.Context, leagueID string) ([]member.Member, error) {
	var rows []memberRow
	err := r.s.q().SelectContext(ctx, &rows,
		`SELECT `+memberColumns+` FROM league_members
		 WHERE league_id = $1 ORDER BY joined_at, id`, leagueID)
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]member.Member, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *memberRepository) ApplyRecordDelta(ctx context.Context, memberID string, delta member.RecordDelta) error {
	res, err := r.s.q().ExecContext(ctx,
		`UPDATE league_members
		 SET wins = wins + $2, losses = losses + $3, ties = ties + $4,
		     total_points = total_points + $5
		 WHERE id = $1`,
		memberID, delta.Wins, delta.Losses, delta.Ties, delta.Points)
	if err != nil {
		return mapError(err)
	}
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return mapError(sql.ErrNoRows)
	}
	return nil
}

func (r *memberRepository) SetPlayoffSeed(ctx context.Context, memberID string, seed int, tiebreakerPoints float64) error {
	res, err := r.s.q().ExecContext(ctx,
		`UPDATE league_members SET playoff_seed = $2, tiebreaker_points = $3
		 WHERE id = $1`,
		memberID, seed, tiebreakerPoints)
	if err != nil {
		return mapError(err)
	}
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return mapError(sql.ErrNoRows)
	}
	return nil
}

func (r *memberRepository) MarkEliminated(ctx context.Context, memberID string) error {
	res, err := r.s.q().ExecContext(ctx,
		`UPDATE league_members SET eliminated = TRUE WHERE id = $1`, memberID)
	if err != nil {
		return mapError(err)
	}
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return mapError(sql.ErrNoRows)
	}
	return nil
}

func (r *memberRepository) Delete(ctx context.Context, memberID string) error {
	res, err := r.s.q().ExecContext(ctx,
		`DELETE FROM league_members WHERE id = $1`, memberID)
	if err != nil {
		return mapError(err)
	}
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return mapError(sql.ErrNoRows)
	}
	return nil
}
