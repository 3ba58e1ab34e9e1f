package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/strideleague/strideleague/internal/domain/league"
	"github.com/strideleague/strideleague/internal/domain/scoring"
	"github.com/strideleague/strideleague/internal/domain/store"
)

type leagueRepository struct {
	s *Store
}

func (r *leagueRepository) Create(_ context.Context, l league.League) (bool, error) {
	defer r.s.write()()

	if _, exists := r.s.st.leagues[l.ID]; exists {
		return false, nil
	}
	for _, existing := range r.s.st.leagues {
		if strings.EqualFold(existing.JoinCode, l.JoinCode) {
			return false, nil
		}
	}

	r.s.st.leagues[l.ID] = cloneLeague(l)
	return true, nil
}

func (r *leagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	defer r.s.read()()

	l, ok := r.s.st.leagues[leagueID]
	if !ok {
		return league.League{}, false, nil
	}
	return cloneLeague(l), true, nil
}

func (r *leagueRepository) GetByJoinCode(_ context.Context, code string) (league.League, bool, error) {
	defer r.s.read()()

	for _, l := range r.s.st.leagues {
		if strings.EqualFold(l.JoinCode, code) {
			return cloneLeague(l), true, nil
		}
	}
	return league.League{}, false, nil
}

func (r *leagueRepository) ListStartedActive(_ context.Context) ([]league.League, error) {
	defer r.s.read()()

	out := make([]league.League, 0)
	for _, l := range r.s.st.leagues {
		if l.Active && l.StartDate != nil {
			out = append(out, cloneLeague(l))
		}
	}
	return out, nil
}

func (r *leagueRepository) UpdateEditableConfig(_ context.Context, leagueID string, cfg scoring.Config) error {
	defer r.s.write()()

	l, ok := r.s.st.leagues[leagueID]
	if !ok {
		return errors.Mark(fmt.Errorf("league %s", leagueID), store.ErrNotFound)
	}
	l.EditableConfig = cfg
	r.s.st.leagues[leagueID] = l
	return nil
}

func (r *leagueRepository) StartSeason(_ context.Context, leagueID string, startDate time.Time, frozen scoring.Config) (bool, error) {
	defer r.s.write()()

	l, ok := r.s.st.leagues[leagueID]
	if !ok {
		return false, errors.Mark(fmt.Errorf("league %s", leagueID), store.ErrNotFound)
	}
	if l.StartDate != nil {
		return false, nil
	}
	date := startDate
	l.StartDate = &date
	l.FrozenConfig = &frozen
	r.s.st.leagues[leagueID] = l
	return true, nil
}

func (r *leagueRepository) AdvanceWeek(_ context.Context, leagueID string, fromWeek int, at time.Time) (bool, error) {
	defer r.s.write()()

	l, ok := r.s.st.leagues[leagueID]
	if !ok {
		return false, errors.Mark(fmt.Errorf("league %s", leagueID), store.ErrNotFound)
	}
	if l.CurrentWeek != fromWeek {
		return false, nil
	}
	finalizedAt := at
	l.CurrentWeek = fromWeek + 1
	l.LastWeekFinalizedAt = &finalizedAt
	r.s.st.leagues[leagueID] = l
	return true, nil
}

func (r *leagueRepository) MarkPlayoffsStarted(_ context.Context, leagueID string) (bool, error) {
	defer r.s.write()()

	l, ok := r.s.st.leagues[leagueID]
	if !ok {
		return false, errors.Mark(fmt.Errorf("league %s", leagueID), store.ErrNotFound)
	}
	if l.PlayoffsStarted {
		return false, nil
	}
	l.PlayoffsStarted = true
	r.s.st.leagues[leagueID] = l
	return true, nil
}

func (r *leagueRepository) SetChampion(_ context.Context, leagueID, memberID string) error {
	defer r.s.write()()

	l, ok := r.s.st.leagues[leagueID]
	if !ok {
		return errors.Mark(fmt.Errorf("league %s", leagueID), store.ErrNotFound)
	}
	champion := memberID
	l.ChampionID = &champion
	l.Active = false
	r.s.st.leagues[leagueID] = l
	return nil
}

func (r *leagueRepository) Delete(_ context.Context, leagueID string) error {
	defer r.s.write()()

	if _, ok := r.s.st.leagues[leagueID]; !ok {
		return errors.Mark(fmt.Errorf("league %s", leagueID), store.ErrNotFound)
	}
	delete(r.s.st.leagues, leagueID)

	for id, m := range r.s.st.members {
		if m.LeagueID == leagueID {
			delete(r.s.st.members, id)
		}
	}
	for id, m := range r.s.st.matchups {
		if m.LeagueID == leagueID {
			delete(r.s.st.matchups, id)
		}
	}
	for key, ws := range r.s.st.weeklyScores {
		if ws.LeagueID == leagueID {
			delete(r.s.st.weeklyScores, key)
		}
	}
	for id, p := range r.s.st.playoffs {
		if p.LeagueID == leagueID {
			delete(r.s.st.playoffs, id)
		}
	}
	return nil
}
