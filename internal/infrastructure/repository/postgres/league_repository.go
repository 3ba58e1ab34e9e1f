package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/strideleague/strideleague/internal/domain/league"
	"github.com/strideleague/strideleague/internal/domain/scoring"
)

type leagueRepository struct {
	s *Store
}

const leagueColumns = `id, name, join_code, creator_user_id, season_length, current_week,
	start_date, active, playoffs_started, champion_id, max_players,
	editable_config, frozen_config, last_week_finalized_at, created_at`

const insertLeagueQuery = `
	INSERT INTO leagues (
		id, name, join_code, creator_user_id, season_length, current_week,
		start_date, active, playoffs_started, champion_id, max_players,
		editable_config, frozen_config, last_week_finalized_at, created_at
	) VALUES (
		:id, :name, :join_code, :creator_user_id, :season_length, :current_week,
		:start_date, :active, :playoffs_started, :champion_id, :max_players,
		:editable_config, :frozen_config, :last_week_finalized_at, :created_at
	)
	ON CONFLICT DO NOTHING`

// Create swallows unique violations instead of raising them: a 23505 would
// abort the surrounding transaction and make the caller's redraw loop
// impossible, so the insert reports the collision through the bool.
func (r *leagueRepository) Create(ctx context.Context, l league.League) (bool, error) {
	row, err := leagueToRow(l)
	if err != nil {
		return false, err
	}
	res, err := r.s.q().NamedExecContext(ctx, insertLeagueQuery, row)
	if err != nil {
		return false, mapError(err)
	}
	return affected(res)
}

func (r *leagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	var row leagueRow
	err := r.s.q().GetContext(ctx, &row,
		`SELECT `+leagueColumns+` FROM leagues WHERE id = $1`, leagueID)
	if errors.Is(err, sql.ErrNoRows) {
		return league.League{}, false, nil
	}
	if err != nil {
		return league.League{}, false, mapError(err)
	}
	l, err := row.toDomain()
	if err != nil {
		return league.League{}, false, err
	}
	return l, true, nil
}

func (r *leagueRepository) GetByJoinCode(ctx context.Context, code string) (league.League, bool, error) {
	var row leagueRow
	err := r.s.q().GetContext(ctx, &row,
		`SELECT `+leagueColumns+` FROM leagues WHERE upper(join_code) = upper($1)`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return league.League{}, false, nil
	}
	if err != nil {
		return league.League{}, false, mapError(err)
	}
	l, err := row.toDomain()
	if err != nil {
		return league.League{}, false, err
	}
	return l, true, nil
}

func (r *leagueRepository) ListStartedActive(ctx context.Context) ([]league.League, error) {
	var rows []leagueRow
	err := r.s.q().SelectContext(ctx, &rows,
		`SELECT `+leagueColumns+` FROM leagues
		 WHERE active AND start_date IS NOT NULL
		 ORDER BY created_at, id`)
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		l, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *leagueRepository) UpdateEditableConfig(ctx context.Context, leagueID string, cfg scoring.Config) error {
	raw, err := cfg.MarshalBytes()
	if err != nil {
		return err
	}
	res, err := r.s.q().ExecContext(ctx,
		`UPDATE leagues SET editable_config = $2 WHERE id = $1`, leagueID, raw)
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

func (r *leagueRepository) StartSeason(ctx context.Context, leagueID string, startDate time.Time, frozen scoring.Config) (bool, error) {
	raw, err := frozen.MarshalBytes()
	if err != nil {
		return false, err
	}
	res, err := r.s.q().ExecContext(ctx,
		`UPDATE leagues SET start_date = $2, frozen_config = $3
		 WHERE id = $1 AND start_date IS NULL`,
		leagueID, startDate, raw)
	if err != nil {
		return false, mapError(err)
	}
	return affected(res)
}

func (r *leagueRepository) AdvanceWeek(ctx context.Context, leagueID string, fromWeek int, at time.Time) (bool, error) {
	res, err := r.s.q().ExecContext(ctx,
		`UPDATE leagues SET current_week = $2 + 1, last_week_finalized_at = $3
		 WHERE id = $1 AND current_week = $2`,
		leagueID, fromWeek, at)
	if err != nil {
		return false, mapError(err)
	}
	return affected(res)
}

func (r *leagueRepository) MarkPlayoffsStarted(ctx context.Context, leagueID string) (bool, error) {
	res, err := r.s.q().ExecContext(ctx,
		`UPDATE leagues SET playoffs_started = TRUE
		 WHERE id = $1 AND NOT playoffs_started`, leagueID)
	if err != nil {
		return false, mapError(err)
	}
	return affected(res)
}

func (r *leagueRepository) SetChampion(ctx context.Context, leagueID, memberID string) error {
	res, err := r.s.q().ExecContext(ctx,
		`UPDATE leagues SET champion_id = $2, active = FALSE WHERE id = $1`,
		leagueID, memberID)
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

func (r *leagueRepository) Delete(ctx context.Context, leagueID string) error {
	// Members, matchups, scores, and playoffs go with the league through
	// ON DELETE CASCADE.
	res, err := r.s.q().ExecContext(ctx, `DELETE FROM leagues WHERE id = $1`, leagueID)
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
