package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/strideleague/strideleague/internal/domain/league"
	"github.com/strideleague/strideleague/internal/domain/member"
	"github.com/strideleague/strideleague/internal/domain/scoring"
	"github.com/strideleague/strideleague/internal/domain/user"
	"github.com/strideleague/strideleague/internal/domain/weeklyscore"
	"github.com/strideleague/strideleague/internal/platform/logging"
	"github.com/strideleague/strideleague/internal/usecase"
)

type Handler struct {
	engine    *usecase.Engine
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(engine *usecase.Engine, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		engine:    engine,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

type createUserRequest struct {
	ID          string `json:"id" validate:"omitempty,max=64"`
	DisplayName string `json:"displayName" validate:"required,max=100"`
}

type createLeagueRequest struct {
	Name         string            `json:"name" validate:"required,max=120"`
	SeasonLength int               `json:"seasonLength" validate:"required"`
	MaxPlayers   int               `json:"maxPlayers" validate:"required"`
	Config       *scoringConfigDTO `json:"config" validate:"omitempty"`
}

type joinLeagueRequest struct {
	JoinCode string `json:"joinCode" validate:"required,min=6,max=6"`
}

type recordScoreRequest struct {
	Week           int     `json:"week" validate:"required,gt=0"`
	Steps          float64 `json:"steps" validate:"gte=0"`
	SleepHours     float64 `json:"sleepHours" validate:"gte=0"`
	ActiveCalories float64 `json:"activeCalories" validate:"gte=0"`
	WorkoutMinutes float64 `json:"workoutMinutes" validate:"gte=0"`
	StandHours     float64 `json:"standHours" validate:"gte=0"`
	DistanceMiles  float64 `json:"distanceMiles" validate:"gte=0"`
}

type scoringConfigDTO struct {
	PointsPer1000Steps     float64 `json:"pointsPer1000Steps"`
	PointsPerSleepHour     float64 `json:"pointsPerSleepHour"`
	PointsPer100ActiveCal  float64 `json:"pointsPer100ActiveCal"`
	PointsPerWorkoutMinute float64 `json:"pointsPerWorkoutMinute"`
	PointsPerStandHour     float64 `json:"pointsPerStandHour"`
	PointsPerMile          float64 `json:"pointsPerMile"`
}

func (d scoringConfigDTO) toDomain() scoring.Config {
	return scoring.Config{
		PointsPer1000Steps:     d.PointsPer1000Steps,
		PointsPerSleepHour:     d.PointsPerSleepHour,
		PointsPer100ActiveCal:  d.PointsPer100ActiveCal,
		PointsPerWorkoutMinute: d.PointsPerWorkoutMinute,
		PointsPerStandHour:     d.PointsPerStandHour,
		PointsPerMile:          d.PointsPerMile,
	}
}

func scoringConfigToDTO(c scoring.Config) scoringConfigDTO {
	return scoringConfigDTO{
		PointsPer1000Steps:     c.PointsPer1000Steps,
		PointsPerSleepHour:     c.PointsPerSleepHour,
		PointsPer100ActiveCal:  c.PointsPer100ActiveCal,
		PointsPerWorkoutMinute: c.PointsPerWorkoutMinute,
		PointsPerStandHour:     c.PointsPerStandHour,
		PointsPerMile:          c.PointsPerMile,
	}
}

type userDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	CreatedAt   string `json:"createdAt"`
}

func userToDTO(u user.User) userDTO {
	return userDTO{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type leagueDTO struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	JoinCode        string           `json:"joinCode"`
	CreatorUserID   string           `json:"creatorUserId"`
	SeasonLength    int              `json:"seasonLength"`
	CurrentWeek     int              `json:"currentWeek"`
	StartDate       string           `json:"startDate,omitempty"`
	Active          bool             `json:"active"`
	PlayoffsStarted bool             `json:"playoffsStarted"`
	ChampionID      string           `json:"championId,omitempty"`
	MaxPlayers      int              `json:"maxPlayers"`
	Config          scoringConfigDTO `json:"config"`
	CreatedAt       string           `json:"createdAt"`
}

func leagueToDTO(l league.League) leagueDTO {
	dto := leagueDTO{
		ID:              l.ID,
		Name:            l.Name,
		JoinCode:        l.JoinCode,
		CreatorUserID:   l.CreatorUserID,
		SeasonLength:    l.SeasonLength,
		CurrentWeek:     l.CurrentWeek,
		Active:          l.Active,
		PlayoffsStarted: l.PlayoffsStarted,
		MaxPlayers:      l.MaxPlayers,
		Config:          scoringConfigToDTO(l.EffectiveConfig()),
		CreatedAt:       l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.StartDate != nil {
		dto.StartDate = l.StartDate.UTC().Format(time.RFC3339)
	}
	if l.ChampionID != nil {
		dto.ChampionID = *l.ChampionID
	}
	return dto
}

type memberDTO struct {
	ID          string  `json:"id"`
	LeagueID    string  `json:"leagueId"`
	UserID      string  `json:"userId"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Ties        int     `json:"ties"`
	TotalPoints float64 `json:"totalPoints"`
	PlayoffSeed int     `json:"playoffSeed,omitempty"`
	Eliminated  bool    `json:"eliminated,omitempty"`
	IsAdmin     bool    `json:"isAdmin"`
	JoinedAt    string  `json:"joinedAt"`
}

func memberToDTO(m member.Member) memberDTO {
	return memberDTO{
		ID:          m.ID,
		LeagueID:    m.LeagueID,
		UserID:      m.UserID,
		Wins:        m.Wins,
		Losses:      m.Losses,
		Ties:        m.Ties,
		TotalPoints: m.TotalPoints,
		PlayoffSeed: m.PlayoffSeed,
		Eliminated:  m.Eliminated,
		IsAdmin:     m.IsAdmin,
		JoinedAt:    m.JoinedAt.UTC().Format(time.RFC3339),
	}
}

type weeklyScoreDTO struct {
	ID           string  `json:"id"`
	LeagueID     string  `json:"leagueId"`
	UserID       string  `json:"userId"`
	Week         int     `json:"week"`
	TotalPoints  float64 `json:"totalPoints"`
	LastSyncedAt string  `json:"lastSyncedAt"`
}

func weeklyScoreToDTO(ws weeklyscore.WeeklyScore) weeklyScoreDTO {
	return weeklyScoreDTO{
		ID:           ws.ID,
		LeagueID:     ws.LeagueID,
		UserID:       ws.UserID,
		Week:         ws.WeekNumber,
		TotalPoints:  ws.TotalPoints,
		LastSyncedAt: ws.LastSyncedAt.UTC().Format(time.RFC3339),
	}
}
