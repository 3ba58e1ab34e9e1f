package usecase

import (
	"context"
	"fmt"

	"github.com/strideleague/strideleague/internal/domain/matchup"
	"github.com/strideleague/strideleague/internal/domain/member"
	"github.com/strideleague/strideleague/internal/domain/schedule"
	"github.com/strideleague/strideleague/internal/domain/store"
	idgen "github.com/strideleague/strideleague/internal/platform/id"
	"github.com/strideleague/strideleague/internal/platform/logging"
)

// ScheduleService builds the regular-season matchup schedule. Generation is
// deterministic from the join-order roster, so any number of callers produce
// the same pairings; the matchups lock plus per-week skip makes it safe to
// re-run after a partial failure.
type ScheduleService struct {
	store  store.Store
	ids    idgen.Generator
	logger *logging.Logger
}

func NewScheduleService(st store.Store, ids idgen.Generator, logger *logging.Logger) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleService{store: st, ids: ids, logger: logger}
}

// GenerateMatchups fills in the full season schedule for a started league,
// skipping weeks that already have matchups. Safe to call repeatedly.
func (s *ScheduleService) GenerateMatchups(ctx context.Context, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.GenerateMatchups")
	defer span.End()

	return s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		l, found, err := tx.Leagues().GetByID(ctx, leagueID)
		if err != nil {
			return markStoreErr(err)
		}
		if !found {
			return fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
		}
		if !l.Started() {
			return fmt.Errorf("%w: league %s has not started", ErrPrecondition, leagueID)
		}
		return s.generateForLeague(ctx, tx, leagueID)
	})
}

// generateForLeague runs inside the caller's transaction under the matchups
// lock. The league must already be started.
func (s *ScheduleService) generateForLeague(ctx context.Context, tx store.Store, leagueID string) error {
	if err := tx.AdvisoryLock(ctx, store.ScopeMatchups, leagueID); err != nil {
		return markStoreErr(err)
	}

	l, found, err := tx.Leagues().GetByID(ctx, leagueID)
	if err != nil {
		return markStoreErr(err)
	}
	if !found {
		return fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}

	members, err := tx.Members().ListByLeague(ctx, leagueID)
	if err != nil {
		return markStoreErr(err)
	}
	if len(members) < 2 {
		return fmt.Errorf("%w: need at least 2 members to schedule, have %d", ErrPrecondition, len(members))
	}

	roster := rosterIDs(members)

	existing, err := tx.Matchups().WeeksWithMatchups(ctx, leagueID)
	if err != nil {
		return markStoreErr(err)
	}

	created := 0
	for week := 1; week <= l.SeasonLength; week++ {
		if _, done := existing[week]; done {
			continue
		}
		pairs := schedule.WeekPairs(roster, week)
		if schedule.HasDuplicatePlayer(pairs) {
			return fmt.Errorf("%w: week %d pairings reuse a player", ErrInvariant, week)
		}
		for _, p := range pairs {
			id, err := s.ids.NewID()
			if err != nil {
				return fmt.Errorf("generate matchup id: %w", err)
			}
			a, b := matchup.NormalizePair(p.Player1, p.Player2)
			inserted, err := tx.Matchups().InsertIgnoreDuplicate(ctx, matchup.Matchup{
				ID:         id,
				LeagueID:   leagueID,
				WeekNumber: week,
				Player1ID:  a,
				Player2ID:  b,
			})
			if err != nil {
				return markStoreErr(err)
			}
			if inserted {
				created++
			}
		}
	}

	if created > 0 {
		s.logger.InfoContext(ctx, "season schedule generated",
			"league_id", leagueID,
			"matchups_created", created,
		)
	}
	return nil
}

// rosterIDs orders member IDs by join time, the canonical seating the
// rotation is computed from.
func rosterIDs(members []member.Member) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}
