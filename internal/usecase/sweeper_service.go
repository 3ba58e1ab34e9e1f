package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/strideleague/strideleague/internal/domain/league"
	"github.com/strideleague/strideleague/internal/domain/playoff"
	"github.com/strideleague/strideleague/internal/domain/store"
	"github.com/strideleague/strideleague/internal/platform/logging"
)

// SweeperService periodically walks every started active league and applies
// whatever time-based transition is due: finalize the current week, generate
// playoffs, settle playoff matches. All downstream operations are idempotent
// and lock-guarded, so overlapping sweeps and API-triggered calls are safe.
type SweeperService struct {
	store     store.Store
	weeks     *WeekService
	playoffs  *PlayoffService
	standings *StandingsService
	events    EventPublisher
	logger    *logging.Logger
	now       func() time.Time

	pool *ants.Pool
}

func NewSweeperService(st store.Store, weeks *WeekService, playoffs *PlayoffService, standings *StandingsService, workers int, logger *logging.Logger) (*SweeperService, error) {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(false))
	if err != nil {
		return nil, err
	}
	return &SweeperService{
		store:     st,
		weeks:     weeks,
		playoffs:  playoffs,
		standings: standings,
		logger:    logger,
		now:       time.Now,
		pool:      pool,
	}, nil
}

// SetEventPublisher enables host notifications for sweep transitions.
// Must be called before Run.
func (s *SweeperService) SetEventPublisher(p EventPublisher) {
	s.events = p
}

// Run sweeps on the given interval until ctx is cancelled.
func (s *SweeperService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "sweep failed", "error", err)
			}
		}
	}
}

// SweepOnce scans all started active leagues and processes each on the
// worker pool. Per-league failures are logged and do not stop the sweep.
func (s *SweeperService) SweepOnce(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SweeperService.SweepOnce")
	defer span.End()

	leagues, err := s.store.Leagues().ListStartedActive(ctx)
	if err != nil {
		return markStoreErr(err)
	}

	var wg sync.WaitGroup
	for _, l := range leagues {
		l := l
		wg.Add(1)
		if err := s.pool.Submit(func() {
			defer wg.Done()
			if err := s.sweepLeague(ctx, l); err != nil {
				s.logger.ErrorContext(ctx, "league sweep failed",
					"league_id", l.ID,
					"error", err,
				)
			}
		}); err != nil {
			wg.Done()
			return err
		}
	}
	wg.Wait()
	return nil
}

func (s *SweeperService) sweepLeague(ctx context.Context, l league.League) error {
	now := s.now().UTC()

	if l.CurrentWeek <= l.SeasonLength {
		boundary, ok := l.WeekBoundary(l.CurrentWeek)
		if !ok || now.Before(boundary) {
			return nil
		}
		if err := s.weeks.FinalizeWeek(ctx, l.ID, l.CurrentWeek); err != nil {
			// Another sweep or an API call can legitimately beat this one.
			if errors.Is(err, ErrPrecondition) {
				return nil
			}
			return err
		}
		s.standings.Invalidate(ctx, l.ID)
		s.publish(ctx, Event{
			Type:       EventWeekFinalized,
			LeagueID:   l.ID,
			Week:       l.CurrentWeek,
			OccurredAt: now,
		})
		return nil
	}

	if !l.PlayoffsStarted {
		if err := s.playoffs.GeneratePlayoffs(ctx, l.ID); err != nil {
			if errors.Is(err, ErrPrecondition) {
				return nil
			}
			return err
		}
		s.publish(ctx, Event{
			Type:       EventPlayoffsGenerated,
			LeagueID:   l.ID,
			Week:       l.CurrentWeek,
			OccurredAt: now,
		})
		return nil
	}

	matches, err := s.store.Playoffs().ListByLeague(ctx, l.ID)
	if err != nil {
		return markStoreErr(err)
	}
	for _, p := range matches {
		if p.Finalized {
			continue
		}
		boundary, ok := l.WeekBoundary(p.WeekNumber)
		if !ok || now.Before(boundary) {
			continue
		}
		if err := s.playoffs.FinalizePlayoffMatch(ctx, p.ID); err != nil {
			if errors.Is(err, ErrPrecondition) {
				continue
			}
			return err
		}
		s.standings.Invalidate(ctx, l.ID)
		if p.Round == playoff.RoundFinal {
			s.publishChampion(ctx, l.ID, p.WeekNumber, now)
		}
	}
	return nil
}

func (s *SweeperService) publishChampion(ctx context.Context, leagueID string, week int, now time.Time) {
	if s.events == nil {
		return
	}
	l, ok, err := s.store.Leagues().GetByID(ctx, leagueID)
	if err != nil || !ok || l.ChampionID == nil {
		return
	}
	s.publish(ctx, Event{
		Type:       EventChampionCrowned,
		LeagueID:   leagueID,
		Week:       week,
		ChampionID: *l.ChampionID,
		OccurredAt: now,
	})
}

func (s *SweeperService) publish(ctx context.Context, ev Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "event publish failed",
			"event_type", ev.Type,
			"league_id", ev.LeagueID,
			"error", err,
		)
	}
}

// Close releases the worker pool.
func (s *SweeperService) Close() {
	s.pool.Release()
}
