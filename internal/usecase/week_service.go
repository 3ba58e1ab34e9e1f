package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/strideleague/strideleague/internal/domain/league"
	"github.com/strideleague/strideleague/internal/domain/matchup"
	"github.com/strideleague/strideleague/internal/domain/member"
	"github.com/strideleague/strideleague/internal/domain/store"
	"github.com/strideleague/strideleague/internal/platform/logging"
)

// WeekService finalizes regular-season weeks. Finalization is idempotent:
// every guard that fails because the work already happened reports no-op
// success, so callers and the sweeper can retry freely.
type WeekService struct {
	store  store.Store
	logger *logging.Logger
	now    func() time.Time
}

func NewWeekService(st store.Store, logger *logging.Logger) *WeekService {
	if logger == nil {
		logger = logging.Default()
	}
	return &WeekService{store: st, logger: logger, now: time.Now}
}

// FinalizeWeek settles every matchup of the league's current week and
// advances the week pointer. The points_added latch on each matchup is taken
// before any standings mutation, so a retry after a partial failure never
// double-counts.
func (s *WeekService) FinalizeWeek(ctx context.Context, leagueID string, week int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.FinalizeWeek")
	defer span.End()

	return s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.AdvisoryLock(ctx, store.ScopeFinalizeWeek, fmt.Sprintf("%s:%d", leagueID, week)); err != nil {
			return markStoreErr(err)
		}

		l, found, err := tx.Leagues().GetByID(ctx, leagueID)
		if err != nil {
			return markStoreErr(err)
		}
		if !found {
			return fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
		}
		// Guard failures report no-op success: a scheduler retrying an
		// already-completed transition must see a clean result.
		if l.PlayoffsStarted || !l.Active {
			return nil
		}
		if week < 1 || week > l.SeasonLength {
			return nil
		}
		if week != l.CurrentWeek {
			// Already finalized by an earlier call, or not yet reached.
			// Either way there is nothing left to do for this week.
			return nil
		}
		boundary, ok := l.WeekBoundary(week)
		if !ok {
			// Not started yet; there is no week to settle.
			return nil
		}
		if s.now().UTC().Before(boundary) {
			return fmt.Errorf("%w: week %d of league %s is still in progress", ErrPrecondition, week, leagueID)
		}

		matchups, err := tx.Matchups().ListByLeagueWeek(ctx, leagueID, week)
		if err != nil {
			return markStoreErr(err)
		}

		for _, m := range matchups {
			if err := s.settleMatchup(ctx, tx, l, m); err != nil {
				return err
			}
		}

		// A week with no matchups is a schedule gap; leave the pointer alone
		// so the gap is visible instead of silently skipped.
		if len(matchups) == 0 {
			s.logger.WarnContext(ctx, "no matchups to finalize",
				"league_id", leagueID,
				"week", week,
			)
			return nil
		}

		advanced, err := tx.Leagues().AdvanceWeek(ctx, leagueID, week, s.now().UTC())
		if err != nil {
			return markStoreErr(err)
		}
		if advanced {
			s.logger.InfoContext(ctx, "week finalized",
				"league_id", leagueID,
				"week", week,
				"matchups", len(matchups),
			)
		}
		return nil
	})
}

// settleMatchup latches one matchup and folds its outcome into both records.
// A lost latch race means another actor already settled it.
func (s *WeekService) settleMatchup(ctx context.Context, tx store.Store, l league.League, m matchup.Matchup) error {
	if m.PointsAdded {
		return nil
	}

	p1Score, err := s.persistedScore(ctx, tx, l.ID, m.Player1ID, m.WeekNumber)
	if err != nil {
		return err
	}
	p2Score, err := s.persistedScore(ctx, tx, l.ID, m.Player2ID, m.WeekNumber)
	if err != nil {
		return err
	}

	latched, err := tx.Matchups().MarkPointsAdded(ctx, m.ID, p1Score, p2Score)
	if err != nil {
		return markStoreErr(err)
	}
	if !latched {
		return nil
	}

	var winnerID *string
	p1Delta := member.RecordDelta{Points: p1Score}
	p2Delta := member.RecordDelta{Points: p2Score}
	tie := p1Score == p2Score
	switch {
	case tie:
		p1Delta.Ties, p2Delta.Ties = 1, 1
	case p1Score > p2Score:
		winnerID = &m.Player1ID
		p1Delta.Wins, p2Delta.Losses = 1, 1
	default:
		winnerID = &m.Player2ID
		p2Delta.Wins, p1Delta.Losses = 1, 1
	}

	if err := tx.Members().ApplyRecordDelta(ctx, m.Player1ID, p1Delta); err != nil {
		return markStoreErr(err)
	}
	if err := tx.Members().ApplyRecordDelta(ctx, m.Player2ID, p2Delta); err != nil {
		return markStoreErr(err)
	}

	if err := tx.Matchups().Finalize(ctx, m.ID, p1Score, p2Score, winnerID, tie, s.now().UTC()); err != nil {
		return markStoreErr(err)
	}
	return nil
}

// persistedScore reads the member's stored weekly total. The persisted value
// is canonical; metrics are never re-scored here. A missing row scores zero.
func (s *WeekService) persistedScore(ctx context.Context, tx store.Store, leagueID, memberID string, week int) (float64, error) {
	m, found, err := tx.Members().GetByID(ctx, memberID)
	if err != nil {
		return 0, markStoreErr(err)
	}
	if !found {
		return 0, fmt.Errorf("%w: matchup references missing member %s", ErrInvariant, memberID)
	}

	ws, found, err := tx.WeeklyScores().Get(ctx, leagueID, m.UserID, week)
	if err != nil {
		return 0, markStoreErr(err)
	}
	if !found {
		return 0, nil
	}
	return ws.TotalPoints, nil
}
