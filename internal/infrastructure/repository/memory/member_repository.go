package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/strideleague/strideleague/internal/domain/member"
	"github.com/strideleague/strideleague/internal/domain/store"
)

type memberRepository struct {
	s *Store
}

func (r *memberRepository) Create(_ context.Context, m member.Member) error {
	defer r.s.write()()

	if _, exists := r.s.st.members[m.ID]; exists {
		return errors.Mark(fmt.Errorf("member %s already exists", m.ID), store.ErrConflict)
	}
	for _, existing := range r.s.st.members {
		if existing.LeagueID == m.LeagueID && existing.UserID == m.UserID {
			return errors.Mark(fmt.Errorf("user %s already in league %s", m.UserID, m.LeagueID), store.ErrConflict)
		}
	}

	r.s.st.members[m.ID] = cloneMember(m)
	return nil
}

func (r *memberRepository) GetByID(_ context.Context, memberID string) (member.Member, bool, error) {
	defer r.s.read()()

	m, ok := r.s.st.members[memberID]
	if !ok {
		return member.Member{}, false, nil
	}
	return cloneMember(m), true, nil
}

func (r *memberRepository) GetByLeagueAndUser(_ context.Context, leagueID, userID string) (member.Member, bool, error) {
	defer r.s.read()()

	for _, m := range r.s.st.members {
		if m.LeagueID == leagueID && m.UserID == userID {
			return cloneMember(m), true, nil
		}
	}
	return member.Member{}, false, nil
}

func (r *memberRepository) ListByLeague(_ context.Context, leagueID string) ([]member.Member, error) {
	defer r.s.read()()

	out := make([]member.Member, 0)
	for _, m := range r.s.st.members {
		if m.LeagueID == leagueID {
			out = append(out, cloneMember(m))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memberRepository) ApplyRecordDelta(_ context.Context, memberID string, delta member.RecordDelta) error {
	defer r.s.write()()

	m, ok := r.s.st.members[memberID]
	if !ok {
		return errors.Mark(fmt.Errorf("member %s", memberID), store.ErrNotFound)
	}
	m.Wins += delta.Wins
	m.Losses += delta.Losses
	m.Ties += delta.Ties
	m.TotalPoints += delta.Points
	r.s.st.members[memberID] = m
	return nil
}

func (r *memberRepository) SetPlayoffSeed(_ context.Context, memberID string, seed int, tiebreakerPoints float64) error {
	defer r.s.write()()

	m, ok := r.s.st.members[memberID]
	if !ok {
		return errors.Mark(fmt.Errorf("member %s", memberID), store.ErrNotFound)
	}
	snapshot := tiebreakerPoints
	m.PlayoffSeed = seed
	m.TiebreakerPoints = &snapshot
	r.s.st.members[memberID] = m
	return nil
}

func (r *memberRepository) MarkEliminated(_ context.Context, memberID string) error {
	defer r.s.write()()

	m, ok := r.s.st.members[memberID]
	if !ok {
		return errors.Mark(fmt.Errorf("member %s", memberID), store.ErrNotFound)
	}
	m.Eliminated = true
	r.s.st.members[memberID] = m
	return nil
}

func (r *memberRepository) Delete(_ context.Context, memberID string) error {
	defer r.s.write()()

	if _, ok := r.s.st.members[memberID]; !ok {
		return errors.Mark(fmt.Errorf("member %s", memberID), store.ErrNotFound)
	}
	delete(r.s.st.members, memberID)
	return nil
}
