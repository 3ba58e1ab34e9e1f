package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/strideleague/strideleague/internal/domain/matchup"
	"github.com/strideleague/strideleague/internal/domain/store"
)

type matchupRepository struct {
	s *Store
}

func (r *matchupRepository) InsertIgnoreDuplicate(_ context.Context, m matchup.Matchup) (bool, error) {
	defer r.s.write()()

	if m.Player1ID == m.Player2ID {
		return false, fmt.Errorf("matchup players must differ: %s", m.Player1ID)
	}
	p1, p2 := matchup.NormalizePair(m.Player1ID, m.Player2ID)
	m.Player1ID, m.Player2ID = p1, p2

	for _, existing := range r.s.st.matchups {
		if existing.LeagueID == m.LeagueID &&
			existing.WeekNumber == m.WeekNumber &&
			existing.Player1ID == p1 && existing.Player2ID == p2 {
			return false, nil
		}
	}

	r.s.st.matchups[m.ID] = cloneMatchup(m)
	return true, nil
}

func (r *matchupRepository) GetByID(_ context.Context, matchupID string) (matchup.Matchup, bool, error) {
	defer r.s.read()()

	m, ok := r.s.st.matchups[matchupID]
	if !ok {
		return matchup.Matchup{}, false, nil
	}
	return cloneMatchup(m), true, nil
}

func (r *matchupRepository) ListByLeagueWeek(_ context.Context, leagueID string, week int) ([]matchup.Matchup, error) {
	defer r.s.read()()

	out := make([]matchup.Matchup, 0)
	for _, m := range r.s.st.matchups {
		if m.LeagueID == leagueID && m.WeekNumber == week {
			out = append(out, cloneMatchup(m))
		}
	}
	sortMatchups(out)
	return out, nil
}

func (r *matchupRepository) ListByLeague(_ context.Context, leagueID string) ([]matchup.Matchup, error) {
	defer r.s.read()()

	out := make([]matchup.Matchup, 0)
	for _, m := range r.s.st.matchups {
		if m.LeagueID == leagueID {
			out = append(out, cloneMatchup(m))
		}
	}
	sortMatchups(out)
	return out, nil
}

func (r *matchupRepository) WeeksWithMatchups(_ context.Context, leagueID string) (map[int]struct{}, error) {
	defer r.s.read()()

	weeks := make(map[int]struct{})
	for _, m := range r.s.st.matchups {
		if m.LeagueID == leagueID {
			weeks[m.WeekNumber] = struct{}{}
		}
	}
	return weeks, nil
}

func (r *matchupRepository) MarkPointsAdded(_ context.Context, matchupID string, p1Snapshot, p2Snapshot float64) (bool, error) {
	defer r.s.write()()

	m, ok := r.s.st.matchups[matchupID]
	if !ok {
		return false, errors.Mark(fmt.Errorf("matchup %s", matchupID), store.ErrNotFound)
	}
	if m.PointsAdded {
		return false, nil
	}
	m.PointsAdded = true
	m.Player1Snapshot = p1Snapshot
	m.Player2Snapshot = p2Snapshot
	r.s.st.matchups[matchupID] = m
	return true, nil
}

func (r *matchupRepository) Finalize(_ context.Context, matchupID string, p1Score, p2Score float64, winnerID *string, tie bool, at time.Time) error {
	defer r.s.write()()

	m, ok := r.s.st.matchups[matchupID]
	if !ok {
		return errors.Mark(fmt.Errorf("matchup %s", matchupID), store.ErrNotFound)
	}
	finalizedAt := at
	m.Player1Score = p1Score
	m.Player2Score = p2Score
	m.WinnerID = cloneStringPtr(winnerID)
	m.Tie = tie
	m.Finalized = true
	m.FinalizedAt = &finalizedAt
	r.s.st.matchups[matchupID] = m
	return nil
}

func sortMatchups(items []matchup.Matchup) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].WeekNumber != items[j].WeekNumber {
			return items[i].WeekNumber < items[j].WeekNumber
		}
		if items[i].Player1ID != items[j].Player1ID {
			return items[i].Player1ID < items[j].Player1ID
		}
		return items[i].Player2ID < items[j].Player2ID
	})
}
