package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/strideleague/strideleague/internal/domain/league"
	"github.com/strideleague/strideleague/internal/domain/member"
	"github.com/strideleague/strideleague/internal/domain/scoring"
	"github.com/strideleague/strideleague/internal/domain/store"
	idgen "github.com/strideleague/strideleague/internal/platform/id"
	"github.com/strideleague/strideleague/internal/platform/logging"
)

// LeagueService owns the league lifecycle: create, join, start, delete,
// member removal. Starting a league freezes the scoring config and builds
// the full season schedule in the same transaction.
type LeagueService struct {
	store    store.Store
	schedule *ScheduleService
	ids      idgen.Generator
	logger   *logging.Logger
	now      func() time.Time
}

const joinCodeRetries = 5

func NewLeagueService(st store.Store, schedule *ScheduleService, ids idgen.Generator, logger *logging.Logger) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueService{
		store:    st,
		schedule: schedule,
		ids:      ids,
		logger:   logger,
		now:      time.Now,
	}
}

type CreateLeagueInput struct {
	Name          string
	SeasonLength  int
	MaxPlayers    int
	CreatorUserID string
	// Config overrides the default scoring weights; nil keeps defaults. It
	// stays editable until the league starts.
	Config *scoring.Config
}

func (s *LeagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.CreateLeague")
	defer span.End()

	if input.CreatorUserID == "" {
		return league.League{}, fmt.Errorf("%w: creator user id is required", ErrInvalidInput)
	}

	cfg := scoring.DefaultConfig()
	if input.Config != nil {
		cfg = *input.Config
	}

	now := s.now().UTC()
	candidate := league.League{
		Name:           strings.TrimSpace(input.Name),
		CreatorUserID:  input.CreatorUserID,
		SeasonLength:   input.SeasonLength,
		CurrentWeek:    1,
		Active:         true,
		MaxPlayers:     input.MaxPlayers,
		EditableConfig: cfg,
		CreatedAt:      now,
	}
	if err := candidate.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	if _, found, err := s.store.Users().GetByID(ctx, input.CreatorUserID); err != nil {
		return league.League{}, markStoreErr(err)
	} else if !found {
		return league.League{}, fmt.Errorf("%w: user %s", ErrNotFound, input.CreatorUserID)
	}

	var created league.League
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		leagueID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate league id: %w", err)
		}
		candidate.ID = leagueID

		// Join-code collisions are rare; redraw instead of surfacing them.
		// The insert reports a collision as not-created rather than as a
		// store error, so the retry stays valid inside this transaction.
		inserted := false
		for attempt := 0; attempt < joinCodeRetries && !inserted; attempt++ {
			code, err := s.ids.NewJoinCode()
			if err != nil {
				return fmt.Errorf("generate join code: %w", err)
			}
			candidate.JoinCode = strings.ToUpper(code)

			inserted, err = tx.Leagues().Create(ctx, candidate)
			if err != nil {
				return markStoreErr(err)
			}
		}
		if !inserted {
			return errors.Mark(fmt.Errorf("join code space exhausted after %d attempts", joinCodeRetries), ErrConflict)
		}

		memberID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate member id: %w", err)
		}
		if err := tx.Members().Create(ctx, member.Member{
			ID:       memberID,
			LeagueID: candidate.ID,
			UserID:   input.CreatorUserID,
			IsAdmin:  true,
			JoinedAt: now,
		}); err != nil {
			return markStoreErr(err)
		}

		created = candidate
		return nil
	})
	if err != nil {
		return league.League{}, err
	}

	s.logger.InfoContext(ctx, "league created",
		"league_id", created.ID,
		"season_length", created.SeasonLength,
		"max_players", created.MaxPlayers,
	)
	return created, nil
}

// JoinLeagueByCode adds the user to the league behind the code. Filling the
// last seat starts the season immediately.
func (s *LeagueService) JoinLeagueByCode(ctx context.Context, code, userID string) (member.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.JoinLeagueByCode")
	defer span.End()

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || userID == "" {
		return member.Member{}, fmt.Errorf("%w: join code and user id are required", ErrInvalidInput)
	}

	var joined member.Member
	err := s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		l, found, err := tx.Leagues().GetByJoinCode(ctx, code)
		if err != nil {
			return markStoreErr(err)
		}
		if !found {
			return fmt.Errorf("%w: no league for code %s", ErrNotFound, code)
		}
		if l.Started() {
			return fmt.Errorf("%w: league %s has already started", ErrPrecondition, l.ID)
		}

		members, err := tx.Members().ListByLeague(ctx, l.ID)
		if err != nil {
			return markStoreErr(err)
		}
		for _, m := range members {
			if m.UserID == userID {
				return fmt.Errorf("%w: user %s already in league %s", ErrConflict, userID, l.ID)
			}
		}
		if len(members) >= l.MaxPlayers {
			return fmt.Errorf("%w: league %s is full", ErrPrecondition, l.ID)
		}

		memberID, err := s.ids.NewID()
		if err != nil {
			return fmt.Errorf("generate member id: %w", err)
		}
		joined = member.Member{
			ID:       memberID,
			LeagueID: l.ID,
			UserID:   userID,
			JoinedAt: s.now().UTC(),
		}
		if err := tx.Members().Create(ctx, joined); err != nil {
			return markStoreErr(err)
		}

		if len(members)+1 == l.MaxPlayers {
			if err := s.startSeason(ctx, tx, l); err != nil {
				return err
			}
			s.logger.InfoContext(ctx, "league auto-started on last join", "league_id", l.ID)
		}
		return nil
	})
	if err != nil {
		return member.Member{}, err
	}
	return joined, nil
}

// StartLeague begins the season: start date on the next Monday, config
// frozen, schedule generated.
func (s *LeagueService) StartLeague(ctx context.Context, leagueID, adminUserID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.StartLeague")
	defer span.End()

	return s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		l, found, err := tx.Leagues().GetByID(ctx, leagueID)
		if err != nil {
			return markStoreErr(err)
		}
		if !found {
			return fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
		}

		caller, found, err := tx.Members().GetByLeagueAndUser(ctx, leagueID, adminUserID)
		if err != nil {
			return markStoreErr(err)
		}
		if !found || !caller.IsAdmin {
			return fmt.Errorf("%w: user %s is not a league admin", ErrPermissionDenied, adminUserID)
		}

		if l.Started() {
			return fmt.Errorf("%w: league %s has already started", ErrPrecondition, leagueID)
		}
		members, err := tx.Members().ListByLeague(ctx, leagueID)
		if err != nil {
			return markStoreErr(err)
		}
		if len(members) < 2 {
			return fmt.Errorf("%w: need at least 2 members to start, have %d", ErrPrecondition, len(members))
		}

		return s.startSeason(ctx, tx, l)
	})
}

func (s *LeagueService) startSeason(ctx context.Context, tx store.Store, l league.League) error {
	startDate := nextMonday(s.now().UTC())

	started, err := tx.Leagues().StartSeason(ctx, l.ID, startDate, l.EditableConfig)
	if err != nil {
		return markStoreErr(err)
	}
	if !started {
		// Another actor started the league first; the schedule already
		// exists or is being generated under the matchups lock.
		return nil
	}

	return s.schedule.generateForLeague(ctx, tx, l.ID)
}

// UpdateScoringConfig replaces the editable config of a forming league. Once
// started the frozen snapshot governs and edits are rejected.
func (s *LeagueService) UpdateScoringConfig(ctx context.Context, leagueID, adminUserID string, cfg scoring.Config) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.UpdateScoringConfig")
	defer span.End()

	return s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		l, found, err := tx.Leagues().GetByID(ctx, leagueID)
		if err != nil {
			return markStoreErr(err)
		}
		if !found {
			return fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
		}
		caller, found, err := tx.Members().GetByLeagueAndUser(ctx, leagueID, adminUserID)
		if err != nil {
			return markStoreErr(err)
		}
		if !found || !caller.IsAdmin {
			return fmt.Errorf("%w: user %s is not a league admin", ErrPermissionDenied, adminUserID)
		}
		if l.Started() {
			return fmt.Errorf("%w: config is frozen once the league starts", ErrPrecondition)
		}
		return markStoreErr(tx.Leagues().UpdateEditableConfig(ctx, leagueID, cfg))
	})
}

func (s *LeagueService) DeleteLeague(ctx context.Context, leagueID, callerUserID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.DeleteLeague")
	defer span.End()

	return s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		l, found, err := tx.Leagues().GetByID(ctx, leagueID)
		if err != nil {
			return markStoreErr(err)
		}
		if !found {
			return fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
		}
		if l.CreatorUserID != callerUserID {
			return fmt.Errorf("%w: only the creator may delete a league", ErrPermissionDenied)
		}
		return markStoreErr(tx.Leagues().Delete(ctx, leagueID))
	})
}

// RemoveMember removes a non-admin member from a league that has not
// started.
func (s *LeagueService) RemoveMember(ctx context.Context, leagueID, targetUserID, adminUserID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.RemoveMember")
	defer span.End()

	return s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		l, found, err := tx.Leagues().GetByID(ctx, leagueID)
		if err != nil {
			return markStoreErr(err)
		}
		if !found {
			return fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
		}

		caller, found, err := tx.Members().GetByLeagueAndUser(ctx, leagueID, adminUserID)
		if err != nil {
			return markStoreErr(err)
		}
		if !found || !caller.IsAdmin {
			return fmt.Errorf("%w: user %s is not a league admin", ErrPermissionDenied, adminUserID)
		}
		if l.Started() {
			return fmt.Errorf("%w: members are fixed once the league starts", ErrPrecondition)
		}
		if targetUserID == adminUserID {
			return fmt.Errorf("%w: admins cannot remove themselves", ErrPrecondition)
		}

		target, found, err := tx.Members().GetByLeagueAndUser(ctx, leagueID, targetUserID)
		if err != nil {
			return markStoreErr(err)
		}
		if !found {
			return fmt.Errorf("%w: user %s is not a member", ErrNotFound, targetUserID)
		}
		return markStoreErr(tx.Members().Delete(ctx, target.ID))
	})
}

// nextMonday returns the first Monday strictly after t, at midnight UTC.
// Seasons always begin on the week-start weekday; the schema enforces the
// same rule.
func nextMonday(t time.Time) time.Time {
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	ahead := (int(time.Monday) - int(date.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return date.AddDate(0, 0, ahead)
}
