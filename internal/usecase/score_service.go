package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/strideleague/strideleague/internal/domain/scoring"
	"github.com/strideleague/strideleague/internal/domain/store"
	"github.com/strideleague/strideleague/internal/domain/weeklyscore"
	idgen "github.com/strideleague/strideleague/internal/platform/id"
	"github.com/strideleague/strideleague/internal/platform/logging"
)

// playoffWeeks extends the recordable week range past the regular season so
// semifinal and final weeks accept score syncs.
const playoffWeeks = 2

// ScoreService ingests weekly metric syncs. Points are computed once at
// write time under the league's effective config and persisted; later reads,
// including finalization, take the stored total verbatim.
type ScoreService struct {
	store  store.Store
	ids    idgen.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewScoreService(st store.Store, ids idgen.Generator, logger *logging.Logger) *ScoreService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoreService{store: st, ids: ids, logger: logger, now: time.Now}
}

// RecordWeeklyScore upserts the caller's metrics for one week. Last write
// wins; each sync re-scores from the full metric set it carries.
func (s *ScoreService) RecordWeeklyScore(ctx context.Context, leagueID, userID string, week int, metrics scoring.Metrics) (weeklyscore.WeeklyScore, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.RecordWeeklyScore")
	defer span.End()

	if userID == "" {
		return weeklyscore.WeeklyScore{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	var saved weeklyscore.WeeklyScore
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
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
		if week < 1 || week > l.SeasonLength+playoffWeeks {
			return fmt.Errorf("%w: week %d outside 1..%d", ErrInvalidInput, week, l.SeasonLength+playoffWeeks)
		}

		if _, found, err := tx.Members().GetByLeagueAndUser(ctx, leagueID, userID); err != nil {
			return markStoreErr(err)
		} else if !found {
			return fmt.Errorf("%w: user %s is not a member of league %s", ErrPermissionDenied, userID, leagueID)
		}

		id, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate score id: %w", err)
		}
		sanitized := metrics.Sanitize()
		saved = weeklyscore.WeeklyScore{
			ID:           id,
			LeagueID:     leagueID,
			UserID:       userID,
			WeekNumber:   week,
			Metrics:      sanitized,
			TotalPoints:  scoring.Score(sanitized, l.EffectiveConfig()),
			LastSyncedAt: s.now().UTC(),
		}
		return markStoreErr(tx.WeeklyScores().Upsert(ctx, saved))
	})
	if err != nil {
		return weeklyscore.WeeklyScore{}, err
	}

	s.logger.DebugContext(ctx, "weekly score recorded",
		"league_id", leagueID,
		"week", week,
		"total_points", saved.TotalPoints,
	)
	return saved, nil
}
