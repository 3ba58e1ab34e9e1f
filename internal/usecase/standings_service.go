package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/strideleague/strideleague/internal/domain/member"
	"github.com/strideleague/strideleague/internal/domain/store"
	"github.com/strideleague/strideleague/internal/platform/cache"
)

// Standing is one member's row in the league table.
type Standing struct {
	MemberID    string  `json:"memberId"`
	UserID      string  `json:"userId"`
	Rank        int     `json:"rank"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Ties        int     `json:"ties"`
	TotalPoints float64 `json:"totalPoints"`
	PlayoffSeed int     `json:"playoffSeed,omitempty"`
	Eliminated  bool    `json:"eliminated,omitempty"`
}

// StandingsService serves the read-heavy league table. Results are cached
// with a short TTL and loads are deduplicated, so a burst of clients after a
// finalization tick hits the store once.
type StandingsService struct {
	store store.Store
	cache *cache.Store
}

func NewStandingsService(st store.Store, c *cache.Store) *StandingsService {
	return &StandingsService{store: st, cache: c}
}

func (s *StandingsService) Standings(ctx context.Context, leagueID string) ([]Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Standings")
	defer span.End()

	if s.cache == nil {
		return s.load(ctx, leagueID)
	}

	value, err := s.cache.GetOrLoad(ctx, standingsCacheKey(leagueID), func(ctx context.Context) (any, error) {
		return s.load(ctx, leagueID)
	})
	if err != nil {
		return nil, err
	}
	standings, ok := value.([]Standing)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected cached standings type %T", ErrInvariant, value)
	}
	return standings, nil
}

// Invalidate drops the cached table after a mutation that changes records.
func (s *StandingsService) Invalidate(ctx context.Context, leagueID string) {
	if s.cache != nil {
		s.cache.Delete(ctx, standingsCacheKey(leagueID))
	}
}

func (s *StandingsService) load(ctx context.Context, leagueID string) ([]Standing, error) {
	if _, found, err := s.store.Leagues().GetByID(ctx, leagueID); err != nil {
		return nil, markStoreErr(err)
	} else if !found {
		return nil, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}

	members, err := s.store.Members().ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, markStoreErr(err)
	}

	ranked := rankMembers(members)
	out := make([]Standing, len(ranked))
	for i, m := range ranked {
		out[i] = Standing{
			MemberID:    m.ID,
			UserID:      m.UserID,
			Rank:        i + 1,
			Wins:        m.Wins,
			Losses:      m.Losses,
			Ties:        m.Ties,
			TotalPoints: m.TotalPoints,
			PlayoffSeed: m.PlayoffSeed,
			Eliminated:  m.Eliminated,
		}
	}
	return out, nil
}

// rankMembers orders the table the same way playoff seeding does, so the
// displayed top four are the bracket qualifiers.
func rankMembers(members []member.Member) []member.Member {
	ranked := append([]member.Member(nil), members...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Wins != ranked[j].Wins {
			return ranked[i].Wins > ranked[j].Wins
		}
		if ranked[i].TotalPoints != ranked[j].TotalPoints {
			return ranked[i].TotalPoints > ranked[j].TotalPoints
		}
		return ranked[i].JoinedAt.Before(ranked[j].JoinedAt)
	})
	return ranked
}

func standingsCacheKey(leagueID string) string {
	return "standings:" + leagueID
}
