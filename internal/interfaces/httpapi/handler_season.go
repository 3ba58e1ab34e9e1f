package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"

	"github.com/strideleague/strideleague/internal/domain/scoring"
	"github.com/strideleague/strideleague/internal/usecase"
)

func (h *Handler) RecordWeeklyScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordWeeklyScore")
	defer span.End()

	var req recordScoreRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode request: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	ws, err := h.engine.Scores.RecordWeeklyScore(ctx, r.PathValue("leagueID"), userIDFrom(ctx), req.Week, scoring.Metrics{
		Steps:          req.Steps,
		SleepHours:     req.SleepHours,
		ActiveCalories: req.ActiveCalories,
		WorkoutMinutes: req.WorkoutMinutes,
		StandHours:     req.StandHours,
		DistanceMiles:  req.DistanceMiles,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weeklyScoreToDTO(ws))
}

func (h *Handler) FinalizeWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizeWeek")
	defer span.End()

	week, err := strconv.Atoi(r.PathValue("week"))
	if err != nil || week < 1 {
		writeError(ctx, w, fmt.Errorf("%w: week must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	leagueID := r.PathValue("leagueID")
	if err := h.engine.Weeks.FinalizeWeek(ctx, leagueID, week); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.engine.Standings.Invalidate(ctx, leagueID)

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"status": "finalized", "week": week})
}

func (h *Handler) GeneratePlayoffs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GeneratePlayoffs")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	if err := h.engine.Playoffs.GeneratePlayoffs(ctx, leagueID); err != nil {
		writeError(ctx, w, err)
		return
	}
	h.engine.Standings.Invalidate(ctx, leagueID)

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "generated"})
}

func (h *Handler) FinalizePlayoffMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizePlayoffMatch")
	defer span.End()

	if err := h.engine.Playoffs.FinalizePlayoffMatch(ctx, r.PathValue("playoffID")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "finalized"})
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	standings, err := h.engine.Standings.Standings(ctx, r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standings)
}
