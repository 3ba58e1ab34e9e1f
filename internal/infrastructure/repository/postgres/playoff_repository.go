package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/strideleague/strideleague/internal/domain/playoff"
)

type playoffRepository struct {
	s *Store
}

const playoffColumns = `id, league_id, round, match_number, week_number,
	player1_id, player2_id, player1_score, player2_score, winner_id, finalized`

const insertPlayoffQuery = `
	INSERT INTO playoffs (
		id, league_id, round, match_number, week_number,
		player1_id, player2_id, player1_score, player2_score, winner_id, finalized
	) VALUES (
		:id, :league_id, :round, :match_number, :week_number,
		:player1_id, :player2_id, :player1_score, :player2_score, :winner_id, :finalized
	)
	ON CONFLICT (league_id, round, match_number) DO NOTHING`

func (r *playoffRepository) InsertIgnoreDuplicate(ctx context.Context, p playoff.Playoff) (bool, error) {
	res, err := r.s.q().NamedExecContext(ctx, insertPlayoffQuery, playoffToRow(p))
	if err != nil {
		return false, mapError(err)
	}
	return affected(res)
}

func (r *playoffRepository) GetByID(ctx context.Context, playoffID string) (playoff.Playoff, bool, error) {
	var row playoffRow
	err := r.s.q().GetContext(ctx, &row,
		`SELECT `+playoffColumns+` FROM playoffs WHERE id = $1`, playoffID)
	if errors.Is(err, sql.ErrNoRows) {
		return playoff.Playoff{}, false, nil
	}
	if err != nil {
		return playoff.Playoff{}, false, mapError(err)
	}
	return row.toDomain(), true, nil
}

func (r *playoffRepository) ListByLeague(ctx context.Context, leagueID string) ([]playoff.Playoff, error) {
	var rows []playoffRow
	err := r.s.q().SelectContext(ctx, &rows,
		`SELECT `+playoffColumns+` FROM playoffs
		 WHERE league_id = $1
		 ORDER BY round, match_number`, leagueID)
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]playoff.Playoff, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

func (r *playoffRepository) GetByRoundMatch(ctx context.Context, leagueID string, round, match int) (playoff.Playoff, bool, error) {
	var row playoffRow
	err := r.s.q().GetContext(ctx, &row,
		`SELECT `+playoffColumns+` FROM playoffs
		 WHERE league_id = $1 AND round = $2 AND match_number = $3`,
		leagueID, round, match)
	if errors.Is(err, sql.ErrNoRows) {
		return playoff.Playoff{}, false, nil
	}
	if err != nil {
		return playoff.Playoff{}, false, mapError(err)
	}
	return row.toDomain(), true, nil
}

func (r *playoffRepository) SetScores(ctx context.Context, playoffID string, p1Score, p2Score float64) error {
	res, err := r.s.q().ExecContext(ctx,
		`UPDATE playoffs SET player1_score = $2, player2_score = $3
		 WHERE id = $1`,
		playoffID, p1Score, p2Score)
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

func (r *playoffRepository) Finalize(ctx context.Context, playoffID string, winnerID string) (bool, error) {
	res, err := r.s.q().ExecContext(ctx,
		`UPDATE playoffs SET winner_id = $2, finalized = TRUE
		 WHERE id = $1 AND NOT finalized`,
		playoffID, winnerID)
	if err != nil {
		return false, mapError(err)
	}
	return affected(res)
}
