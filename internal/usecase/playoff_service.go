package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/strideleague/strideleague/internal/domain/league"
	"github.com/strideleague/strideleague/internal/domain/member"
	"github.com/strideleague/strideleague/internal/domain/playoff"
	"github.com/strideleague/strideleague/internal/domain/store"
	idgen "github.com/strideleague/strideleague/internal/platform/id"
	"github.com/strideleague/strideleague/internal/platform/logging"
)

const playoffQualifiers = 4

// PlayoffService runs the two-round bracket: seeding plus semifinal
// generation once the regular season ends, then per-match finalization up to
// the champion. Tiebreaker points are frozen at generation time so the
// playoff ordering cannot drift while the bracket is in flight.
type PlayoffService struct {
	store  store.Store
	ids    idgen.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewPlayoffService(st store.Store, ids idgen.Generator, logger *logging.Logger) *PlayoffService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayoffService{store: st, ids: ids, logger: logger, now: time.Now}
}

// GeneratePlayoffs seeds the top four members and creates both semifinals.
// Idempotent: once playoffs_started is set, later calls no-op.
func (s *PlayoffService) GeneratePlayoffs(ctx context.Context, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayoffService.GeneratePlayoffs")
	defer span.End()

	return s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.AdvisoryLock(ctx, store.ScopePlayoffs, leagueID); err != nil {
			return markStoreErr(err)
		}

		l, found, err := tx.Leagues().GetByID(ctx, leagueID)
		if err != nil {
			return markStoreErr(err)
		}
		if !found {
			return fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
		}
		if !l.Started() || !l.Active {
			return fmt.Errorf("%w: league %s is not running", ErrPrecondition, leagueID)
		}
		if l.PlayoffsStarted {
			return nil
		}
		if l.CurrentWeek <= l.SeasonLength {
			return fmt.Errorf("%w: regular season of league %s is not over (week %d of %d)",
				ErrPrecondition, leagueID, l.CurrentWeek, l.SeasonLength)
		}

		members, err := tx.Members().ListByLeague(ctx, leagueID)
		if err != nil {
			return markStoreErr(err)
		}
		if len(members) < playoffQualifiers {
			return fmt.Errorf("%w: playoffs need %d members, league %s has %d",
				ErrPrecondition, playoffQualifiers, leagueID, len(members))
		}

		seeded := rankMembers(members)[:playoffQualifiers]
		for i, m := range seeded {
			if err := tx.Members().SetPlayoffSeed(ctx, m.ID, i+1, m.TotalPoints); err != nil {
				return markStoreErr(err)
			}
		}

		semifinalWeek := l.SeasonLength + 1
		semis := []playoff.Playoff{
			{
				Round:       playoff.RoundSemifinal,
				MatchNumber: playoff.MatchSemifinal1,
				WeekNumber:  semifinalWeek,
				Player1ID:   seeded[0].ID,
				Player2ID:   seeded[3].ID,
			},
			{
				Round:       playoff.RoundSemifinal,
				MatchNumber: playoff.MatchSemifinal2,
				WeekNumber:  semifinalWeek,
				Player1ID:   seeded[1].ID,
				Player2ID:   seeded[2].ID,
			},
		}
		for _, p := range semis {
			id, err := s.ids.NewID()
			if err != nil {
				return fmt.Errorf("generate playoff id: %w", err)
			}
			p.ID = id
			p.LeagueID = leagueID
			if _, err := tx.Playoffs().InsertIgnoreDuplicate(ctx, p); err != nil {
				return markStoreErr(err)
			}
		}

		if _, err := tx.Leagues().MarkPlayoffsStarted(ctx, leagueID); err != nil {
			return markStoreErr(err)
		}

		s.logger.InfoContext(ctx, "playoffs generated",
			"league_id", leagueID,
			"semifinal_week", semifinalWeek,
		)
		return nil
	})
}

// FinalizePlayoffMatch settles one bracket match from the persisted weekly
// scores of its week. Finishing the second semifinal creates the final;
// finishing the final crowns the champion and closes the league.
func (s *PlayoffService) FinalizePlayoffMatch(ctx context.Context, playoffID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayoffService.FinalizePlayoffMatch")
	defer span.End()

	return s.store.WithTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.AdvisoryLock(ctx, store.ScopePlayoffMatch, playoffID); err != nil {
			return markStoreErr(err)
		}

		p, found, err := tx.Playoffs().GetByID(ctx, playoffID)
		if err != nil {
			return markStoreErr(err)
		}
		if !found {
			return fmt.Errorf("%w: playoff match %s", ErrNotFound, playoffID)
		}
		if p.Finalized {
			return nil
		}

		l, found, err := tx.Leagues().GetByID(ctx, p.LeagueID)
		if err != nil {
			return markStoreErr(err)
		}
		if !found {
			return fmt.Errorf("%w: league %s", ErrNotFound, p.LeagueID)
		}
		boundary, ok := l.WeekBoundary(p.WeekNumber)
		if !ok {
			return fmt.Errorf("%w: league %s has no boundary for week %d", ErrPrecondition, l.ID, p.WeekNumber)
		}
		if s.now().UTC().Before(boundary) {
			return fmt.Errorf("%w: playoff week %d of league %s is still in progress",
				ErrPrecondition, p.WeekNumber, l.ID)
		}

		p1, err := s.loadContender(ctx, tx, p.Player1ID)
		if err != nil {
			return err
		}
		p2, err := s.loadContender(ctx, tx, p.Player2ID)
		if err != nil {
			return err
		}

		p1Score, err := s.weekScore(ctx, tx, l.ID, p1.UserID, p.WeekNumber)
		if err != nil {
			return err
		}
		p2Score, err := s.weekScore(ctx, tx, l.ID, p2.UserID, p.WeekNumber)
		if err != nil {
			return err
		}
		if err := tx.Playoffs().SetScores(ctx, playoffID, p1Score, p2Score); err != nil {
			return markStoreErr(err)
		}

		winner, loser := resolveWinner(p1, p2, p1Score, p2Score)

		done, err := tx.Playoffs().Finalize(ctx, playoffID, winner.ID)
		if err != nil {
			return markStoreErr(err)
		}
		if !done {
			return nil
		}
		if err := tx.Members().MarkEliminated(ctx, loser.ID); err != nil {
			return markStoreErr(err)
		}

		s.logger.InfoContext(ctx, "playoff match finalized",
			"league_id", l.ID,
			"round", p.Round,
			"match", p.MatchNumber,
			"winner_member_id", winner.ID,
		)

		switch p.Round {
		case playoff.RoundSemifinal:
			return s.maybeCreateFinal(ctx, tx, l, p, winner)
		case playoff.RoundFinal:
			if err := tx.Leagues().SetChampion(ctx, l.ID, winner.ID); err != nil {
				return markStoreErr(err)
			}
			s.logger.InfoContext(ctx, "champion crowned",
				"league_id", l.ID,
				"champion_member_id", winner.ID,
			)
			return nil
		default:
			return fmt.Errorf("%w: playoff match %s has unknown round %d", ErrInvariant, playoffID, p.Round)
		}
	})
}

// maybeCreateFinal inserts the final once both semifinal winners are known.
// The unique (league, round, match) slot makes the insert race-safe when two
// semifinal finalizations complete back to back.
func (s *PlayoffService) maybeCreateFinal(ctx context.Context, tx store.Store, l league.League, settled playoff.Playoff, winner member.Member) error {
	otherMatch := playoff.MatchSemifinal1
	if settled.MatchNumber == playoff.MatchSemifinal1 {
		otherMatch = playoff.MatchSemifinal2
	}
	other, found, err := tx.Playoffs().GetByRoundMatch(ctx, l.ID, playoff.RoundSemifinal, otherMatch)
	if err != nil {
		return markStoreErr(err)
	}
	if !found {
		return fmt.Errorf("%w: league %s is missing semifinal %d", ErrInvariant, l.ID, otherMatch)
	}
	if !other.Finalized || other.WinnerID == nil {
		return nil
	}

	otherWinner, err := s.loadContender(ctx, tx, *other.WinnerID)
	if err != nil {
		return err
	}

	// Lower seed takes the player-1 slot of the final.
	home, away := winner, otherWinner
	if away.PlayoffSeed < home.PlayoffSeed {
		home, away = away, home
	}

	id, err := s.ids.NewID()
	if err != nil {
		return fmt.Errorf("generate playoff id: %w", err)
	}
	created, err := tx.Playoffs().InsertIgnoreDuplicate(ctx, playoff.Playoff{
		ID:          id,
		LeagueID:    l.ID,
		Round:       playoff.RoundFinal,
		MatchNumber: playoff.MatchFinal,
		WeekNumber:  settled.WeekNumber + 1,
		Player1ID:   home.ID,
		Player2ID:   away.ID,
	})
	if err != nil {
		return markStoreErr(err)
	}
	if created {
		s.logger.InfoContext(ctx, "final created",
			"league_id", l.ID,
			"week", settled.WeekNumber+1,
		)
	}
	return nil
}

func (s *PlayoffService) loadContender(ctx context.Context, tx store.Store, memberID string) (member.Member, error) {
	m, found, err := tx.Members().GetByID(ctx, memberID)
	if err != nil {
		return member.Member{}, markStoreErr(err)
	}
	if !found {
		return member.Member{}, fmt.Errorf("%w: playoff references missing member %s", ErrInvariant, memberID)
	}
	return m, nil
}

func (s *PlayoffService) weekScore(ctx context.Context, tx store.Store, leagueID, userID string, week int) (float64, error) {
	ws, found, err := tx.WeeklyScores().Get(ctx, leagueID, userID, week)
	if err != nil {
		return 0, markStoreErr(err)
	}
	if !found {
		return 0, nil
	}
	return ws.TotalPoints, nil
}

// resolveWinner breaks a playoff match deterministically: week score, then
// the tiebreaker points frozen at bracket generation, then the better seed.
func resolveWinner(p1, p2 member.Member, p1Score, p2Score float64) (winner, loser member.Member) {
	switch {
	case p1Score > p2Score:
		return p1, p2
	case p2Score > p1Score:
		return p2, p1
	}

	t1, t2 := frozenTiebreaker(p1), frozenTiebreaker(p2)
	switch {
	case t1 > t2:
		return p1, p2
	case t2 > t1:
		return p2, p1
	}

	if p2.PlayoffSeed < p1.PlayoffSeed {
		return p2, p1
	}
	return p1, p2
}

func frozenTiebreaker(m member.Member) float64 {
	if m.TiebreakerPoints == nil {
		return 0
	}
	return *m.TiebreakerPoints
}
