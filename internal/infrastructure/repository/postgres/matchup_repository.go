package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/strideleague/strideleague/internal/domain/matchup"
)

type matchupRepository struct {
	s *Store
}

const matchupColumns = `id, league_id, week_number, player1_id, player2_id,
	player1_score, player2_score, winner_id, tie, finalized, finalized_at,
	points_added, player1_snapshot, player2_snapshot`

const insertMatchupQuery = `
	INSERT INTO matchups (
		id, league_id, week_number, player1_id, player2_id,
		player1_score, player2_score, winner_id, tie, finalized, finalized_at,
		points_added, player1_snapshot, player2_snapshot
	) VALUES (
		:id, :league_id, :week_number, :player1_id, :player2_id,
		:player1_score, :player2_score, :winner_id, :tie, :finalized, :finalized_at,
		:points_added, :player1_snapshot, :player2_snapshot
	)
	ON CONFLICT (league_id, week_number, player1_id, player2_id) DO NOTHING`

func (r *matchupRepository) InsertIgnoreDuplicate(ctx context.Context, m matchup.Matchup) (bool, error) {
	if m.Player1ID == m.Player2ID {
		return false, fmt.Errorf("matchup players must differ: %s", m.Player1ID)
	}
	m.Player1ID, m.Player2ID = matchup.NormalizePair(m.Player1ID, m.Player2ID)

	res, err := r.s.q().NamedExecContext(ctx, insertMatchupQuery, matchupToRow(m))
	if err != nil {
		return false, mapError(err)
	}
	return affected(res)
}

func (r *matchupRepository) GetByID(ctx context.Context, matchupID string) (matchup.Matchup, bool, error) {
	var row matchupRow
	err := r.s.q().GetContext(ctx, &row,
		`SELECT `+matchupColumns+` FROM matchups WHERE id = $1`, matchupID)
	if errors.Is(err, sql.ErrNoRows) {
		return matchup.Matchup{}, false, nil
	}
	if err != nil {
		return matchup.Matchup{}, false, mapError(err)
	}
	return row.toDomain(), true, nil
}

func (r *matchupRepository) ListByLeagueWeek(ctx context.Context, leagueID string, week int) ([]matchup.Matchup, error) {
	var rows []matchupRow
	err := r.s.q().SelectContext(ctx, &rows,
		`SELECT `+matchupColumns+` FROM matchups
		 WHERE league_id = $1 AND week_number = $2
		 ORDER BY player1_id, player2_id`, leagueID, week)
	if err != nil {
		return nil, mapError(err)
	}
	return matchupRowsToDomain(rows), nil
}

func (r *matchupRepository) ListByLeague(ctx context.Context, leagueID string) ([]matchup.Matchup, error) {
	var rows []matchupRow
	err := r.s.q().SelectContext(ctx, &rows,
		`SELECT `+matchupColumns+` FROM matchups
		 WHERE league_id = $1
		 ORDER BY week_number, player1_id, player2_id`, leagueID)
	if err != nil {
		return nil, mapError(err)
	}
	return matchupRowsToDomain(rows), nil
}

func (r *matchupRepository) WeeksWithMatchups(ctx context.Context, leagueID string) (map[int]struct{}, error) {
	var weeks []int
	err := r.s.q().SelectContext(ctx, &weeks,
		`SELECT DISTINCT week_number FROM matchups WHERE league_id = $1`, leagueID)
	if err != nil {
		return nil, mapError(err)
	}
	out := make(map[int]struct{}, len(weeks))
	for _, w := range weeks {
		out[w] = struct{}{}
	}
	return out, nil
}

func (r *matchupRepository) MarkPointsAdded(ctx context.Context, matchupID string, p1Snapshot, p2Snapshot float64) (bool, error) {
	res, err := r.s.q().ExecContext(ctx,
		`UPDATE matchups
		 SET points_added = TRUE, player1_snapshot = $2, player2_snapshot = $3
		 WHERE id = $1 AND NOT points_added`,
		matchupID, p1Snapshot, p2Snapshot)
	if err != nil {
		return false, mapError(err)
	}
	return affected(res)
}

func (r *matchupRepository) Finalize(ctx context.Context, matchupID string, p1Score, p2Score float64, winnerID *string, tie bool, at time.Time) error {
	res, err := r.s.q().ExecContext(ctx,
		`UPDATE matchups
		 SET player1_score = $2, player2_score = $3, winner_id = $4, tie = $5,
		     finalized = TRUE, finalized_at = $6
		 WHERE id = $1`,
		matchupID, p1Score, p2Score, winnerID, tie, at)
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

func matchupRowsToDomain(rows []matchupRow) []matchup.Matchup {
	out := make([]matchup.Matchup, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out
}
