package memory

import (
	"context"
	"sort"

	"github.com/strideleague/strideleague/internal/domain/weeklyscore"
)

type weeklyScoreRepository struct {
	s *Store
}

func (r *weeklyScoreRepository) Upsert(_ context.Context, ws weeklyscore.WeeklyScore) error {
	defer r.s.write()()

	key := weeklyScoreKey(ws.LeagueID, ws.UserID, ws.WeekNumber)
	if existing, ok := r.s.st.weeklyScores[key]; ok {
		ws.ID = existing.ID
	}
	r.s.st.weeklyScores[key] = ws
	return nil
}

func (r *weeklyScoreRepository) Get(_ context.Context, leagueID, userID string, week int) (weeklyscore.WeeklyScore, bool, error) {
	defer r.s.read()()

	ws, ok := r.s.st.weeklyScores[weeklyScoreKey(leagueID, userID, week)]
	if !ok {
		return weeklyscore.WeeklyScore{}, false, nil
	}
	return ws, true, nil
}

func (r *weeklyScoreRepository) ListByLeagueWeek(_ context.Context, leagueID string, week int) ([]weeklyscore.WeeklyScore, error) {
	defer r.s.read()()

	out := make([]weeklyscore.WeeklyScore, 0)
	for _, ws := range r.s.st.weeklyScores {
		if ws.LeagueID == leagueID && ws.WeekNumber == week {
			out = append(out, ws)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}
