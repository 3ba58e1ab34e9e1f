package league

import (
	"context"
	"time"

	"github.com/strideleague/strideleague/internal/domain/scoring"
)

// Repository describes league persistence needs from the engine. Guarded
// methods return whether the guard held and the patch applied; a false
// result means a concurrent actor won the race and the caller must treat
// the call as a no-op.
type Repository interface {
	// Create inserts the league. A join-code collision inserts nothing and
	// returns false so the caller can redraw without poisoning the
	// surrounding transaction.
	Create(ctx context.Context, l League) (bool, error)
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetByJoinCode(ctx context.Context, code string) (League, bool, error)
	ListStartedActive(ctx context.Context) ([]League, error)

	// UpdateEditableConfig replaces the editable config; callers must have
	// verified the league has not started.
	UpdateEditableConfig(ctx context.Context, leagueID string, cfg scoring.Config) error

	// StartSeason sets the start date and freezes the config in one step,
	// guarded on start_date still being null.
	StartSeason(ctx context.Context, leagueID string, startDate time.Time, frozen scoring.Config) (bool, error)

	// AdvanceWeek moves current_week from fromWeek to fromWeek+1, guarded on
	// current_week still equalling fromWeek.
	AdvanceWeek(ctx context.Context, leagueID string, fromWeek int, at time.Time) (bool, error)

	// MarkPlayoffsStarted flips playoffs_started, guarded on it being false.
	MarkPlayoffsStarted(ctx context.Context, leagueID string) (bool, error)

	// SetChampion records the champion and deactivates the league.
	SetChampion(ctx context.Context, leagueID, memberID string) error

	// Delete removes the league and everything it owns.
	Delete(ctx context.Context, leagueID string) error
}
