package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/strideleague/strideleague/internal/domain/playoff"
	"github.com/strideleague/strideleague/internal/domain/store"
)

type playoffRepository struct {
	s *Store
}

func (r *playoffRepository) InsertIgnoreDuplicate(_ context.Context, p playoff.Playoff) (bool, error) {
	defer r.s.write()()

	for _, existing := range r.s.st.playoffs {
		if existing.LeagueID == p.LeagueID &&
			existing.Round == p.Round &&
			existing.MatchNumber == p.MatchNumber {
			return false, nil
		}
	}

	r.s.st.playoffs[p.ID] = clonePlayoff(p)
	return true, nil
}

func (r *playoffRepository) GetByID(_ context.Context, playoffID string) (playoff.Playoff, bool, error) {
	defer r.s.read()()

	p, ok := r.s.st.playoffs[playoffID]
	if !ok {
		return playoff.Playoff{}, false, nil
	}
	return clonePlayoff(p), true, nil
}

func (r *playoffRepository) ListByLeague(_ context.Context, leagueID string) ([]playoff.Playoff, error) {
	defer r.s.read()()

	out := make([]playoff.Playoff, 0)
	for _, p := range r.s.st.playoffs {
		if p.LeagueID == leagueID {
			out = append(out, clonePlayoff(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].MatchNumber < out[j].MatchNumber
	})
	return out, nil
}

func (r *playoffRepository) GetByRoundMatch(_ context.Context, leagueID string, round, match int) (playoff.Playoff, bool, error) {
	defer r.s.read()()

	for _, p := range r.s.st.playoffs {
		if p.LeagueID == leagueID && p.Round == round && p.MatchNumber == match {
			return clonePlayoff(p), true, nil
		}
	}
	return playoff.Playoff{}, false, nil
}

func (r *playoffRepository) SetScores(_ context.Context, playoffID string, p1Score, p2Score float64) error {
	defer r.s.write()()

	p, ok := r.s.st.playoffs[playoffID]
	if !ok {
		return errors.Mark(fmt.Errorf("playoff %s", playoffID), store.ErrNotFound)
	}
	p.Player1Score = p1Score
	p.Player2Score = p2Score
	r.s.st.playoffs[playoffID] = p
	return nil
}

func (r *playoffRepository) Finalize(_ context.Context, playoffID string, winnerID string) (bool, error) {
	defer r.s.write()()

	p, ok := r.s.st.playoffs[playoffID]
	if !ok {
		return false, errors.Mark(fmt.Errorf("playoff %s", playoffID), store.ErrNotFound)
	}
	if p.Finalized {
		return false, nil
	}
	winner := winnerID
	p.WinnerID = &winner
	p.Finalized = true
	r.s.st.playoffs[playoffID] = p
	return true, nil
}
