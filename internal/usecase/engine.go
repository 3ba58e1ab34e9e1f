package usecase

import (
	"github.com/strideleague/strideleague/internal/domain/store"
	"github.com/strideleague/strideleague/internal/platform/cache"
	idgen "github.com/strideleague/strideleague/internal/platform/id"
	"github.com/strideleague/strideleague/internal/platform/logging"
)

// Engine bundles every league-engine service behind one constructor. Hosts
// embed it and expose whichever surface they need; the engine itself owns no
// transport, identity, or scheduling concerns.
type Engine struct {
	Leagues   *LeagueService
	Schedule  *ScheduleService
	Weeks     *WeekService
	Playoffs  *PlayoffService
	Scores    *ScoreService
	Standings *StandingsService
	Users     *UserService
}

type EngineConfig struct {
	Store store.Store
	IDs   idgen.Generator
	// Cache backs the standings read path; nil disables caching.
	Cache  *cache.Store
	Logger *logging.Logger
}

func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ids := cfg.IDs
	if ids == nil {
		ids = idgen.NewRandomGenerator()
	}

	schedule := NewScheduleService(cfg.Store, ids, logger)
	return &Engine{
		Leagues:   NewLeagueService(cfg.Store, schedule, ids, logger),
		Schedule:  schedule,
		Weeks:     NewWeekService(cfg.Store, logger),
		Playoffs:  NewPlayoffService(cfg.Store, ids, logger),
		Scores:    NewScoreService(cfg.Store, ids, logger),
		Standings: NewStandingsService(cfg.Store, cfg.Cache),
		Users:     NewUserService(cfg.Store, ids, logger),
	}
}

// NewSweeper builds the background sweeper over this engine's services.
func (e *Engine) NewSweeper(st store.Store, workers int, logger *logging.Logger) (*SweeperService, error) {
	return NewSweeperService(st, e.Weeks, e.Playoffs, e.Standings, workers, logger)
}
