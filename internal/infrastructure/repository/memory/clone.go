package memory

import (
	"time"

	"github.com/strideleague/strideleague/internal/domain/league"
	"github.com/strideleague/strideleague/internal/domain/matchup"
	"github.com/strideleague/strideleague/internal/domain/member"
	"github.com/strideleague/strideleague/internal/domain/playoff"
)

// Entities cross the repository boundary by value, with pointer fields
// reallocated, so callers can never alias stored state.

func cloneLeague(l league.League) league.League {
	copied := l
	copied.StartDate = cloneTimePtr(l.StartDate)
	copied.ChampionID = cloneStringPtr(l.ChampionID)
	copied.LastWeekFinalizedAt = cloneTimePtr(l.LastWeekFinalizedAt)
	if l.FrozenConfig != nil {
		frozen := *l.FrozenConfig
		copied.FrozenConfig = &frozen
	}
	return copied
}

func cloneMember(m member.Member) member.Member {
	copied := m
	copied.TiebreakerPoints = cloneFloatPtr(m.TiebreakerPoints)
	return copied
}

func cloneMatchup(m matchup.Matchup) matchup.Matchup {
	copied := m
	copied.WinnerID = cloneStringPtr(m.WinnerID)
	copied.FinalizedAt = cloneTimePtr(m.FinalizedAt)
	return copied
}

func clonePlayoff(p playoff.Playoff) playoff.Playoff {
	copied := p
	copied.WinnerID = cloneStringPtr(p.WinnerID)
	return copied
}

func (s *state) clone() *state {
	out := newState()
	for id, l := range s.leagues {
		out.leagues[id] = cloneLeague(l)
	}
	for id, m := range s.members {
		out.members[id] = cloneMember(m)
	}
	for id, m := range s.matchups {
		out.matchups[id] = cloneMatchup(m)
	}
	for key, ws := range s.weeklyScores {
		out.weeklyScores[key] = ws
	}
	for id, p := range s.playoffs {
		out.playoffs[id] = clonePlayoff(p)
	}
	for id, u := range s.users {
		out.users[id] = u
	}
	return out
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}

func cloneStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}

func cloneFloatPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}
