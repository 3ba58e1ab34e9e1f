package usecase

import (
	"context"
	"fmt"
	"time"
)

// Event types delivered to the host after an engine transition.
const (
	EventWeekFinalized     = "week.finalized"
	EventPlayoffsGenerated = "playoffs.generated"
	EventChampionCrowned   = "league.champion"
)

// Event describes a completed engine transition. Transitions are idempotent,
// so a retried transition never produces a second event.
type Event struct {
	Type       string    `json:"type"`
	LeagueID   string    `json:"leagueId"`
	Week       int       `json:"week,omitempty"`
	ChampionID string    `json:"championId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// DedupID keys retried deliveries so the host can drop duplicates.
func (e Event) DedupID() string {
	return fmt.Sprintf("%s:%s:%d", e.Type, e.LeagueID, e.Week)
}

// EventPublisher delivers engine events to the host. Delivery is best
// effort; publish failures never roll back the transition that produced
// the event.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}
