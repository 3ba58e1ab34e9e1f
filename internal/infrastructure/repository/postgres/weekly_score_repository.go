package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/strideleague/strideleague/internal/domain/weeklyscore"
)

type weeklyScoreRepository struct {
	s *Store
}

const weeklyScoreColumns = `id, league_id, user_id, week_number, steps, sleep_hours,
	active_calories, workout_minutes, stand_hours, distance_miles, total_points, last_synced_at`

const upsertWeeklyScoreQuery = `
	INSERT INTO weekly_scores (
		id, league_id, user_id, week_number, steps, sleep_hours,
		active_calories, workout_minutes, stand_hours, distance_miles,
		total_points, last_synced_at
	) VALUES (
		:id, :league_id, :user_id, :week_number, :steps, :sleep_hours,
		:active_calories, :workout_minutes, :stand_hours, :distance_miles,
		:total_points, :last_synced_at
	)
	ON CONFLICT (league_id, user_id, week_number) DO UPDATE SET
		steps = EXCLUDED.steps,
		sleep_hours = EXCLUDED.sleep_hours,
		active_calories = EXCLUDED.active_calories,
		workout_minutes = EXCLUDED.workout_minutes,
		stand_hours = EXCLUDED.stand_hours,
		distance_miles = EXCLUDED.distance_miles,
		total_points = EXCLUDED.total_points,
		last_synced_at = EXCLUDED.last_synced_at`

func (r *weeklyScoreRepository) Upsert(ctx context.Context, ws weeklyscore.WeeklyScore) error {
	_, err := r.s.q().NamedExecContext(ctx, upsertWeeklyScoreQuery, weeklyScoreToRow(ws))
	return mapError(err)
}

func (r *weeklyScoreRepository) Get(ctx context.Context, leagueID, userID string, week int) (weeklyscore.WeeklyScore, bool, error) {
	var row weeklyScoreRow
	err := r.s.q().GetContext(ctx, &row,
		`SELECT `+weeklyScoreColumns+` FROM weekly_scores
		 WHERE league_id = $1 AND user_id = $2 AND week_number = $3`,
		leagueID, userID, week)
	if errors.Is(err, sql.ErrNoRows) {
		return weeklyscore.WeeklyScore{}, false, nil
	}
	if err != nil {
		return weeklyscore.WeeklyScore{}, false, mapError(err)
	}
	return row.toDomain(), true, nil
}

func (r *weeklyScoreRepository) ListByLeagueWeek(ctx context.Context, leagueID string, week int) ([]weeklyscore.WeeklyScore, error) {
	var rows []weeklyScoreRow
	err := r.s.q().SelectContext(ctx, &rows,
		`SELECT `+weeklyScoreColumns+` FROM weekly_scores
		 WHERE league_id = $1 AND week_number = $2
		 ORDER BY user_id`, leagueID, week)
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]weeklyscore.WeeklyScore, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}
