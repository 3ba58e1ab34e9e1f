package httpapi

import (
	"net/http"

	"github.com/strideleague/strideleague/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, corsAllowedOrigins []string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerLeagueRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("POST /v1/users", http.HandlerFunc(handler.CreateUser))

	mux.Handle("POST /v1/leagues", RequireUser(http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("POST /v1/leagues/join", RequireUser(http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("POST /v1/leagues/{leagueID}/start", RequireUser(http.HandlerFunc(handler.StartLeague)))
	mux.Handle("PUT /v1/leagues/{leagueID}/config", RequireUser(http.HandlerFunc(handler.UpdateScoringConfig)))
	mux.Handle("DELETE /v1/leagues/{leagueID}", RequireUser(http.HandlerFunc(handler.DeleteLeague)))
	mux.Handle("DELETE /v1/leagues/{leagueID}/members/{userID}", RequireUser(http.HandlerFunc(handler.RemoveMember)))

	mux.Handle("PUT /v1/leagues/{leagueID}/scores", RequireUser(http.HandlerFunc(handler.RecordWeeklyScore)))
	mux.Handle("POST /v1/leagues/{leagueID}/weeks/{week}/finalize", RequireUser(http.HandlerFunc(handler.FinalizeWeek)))
	mux.Handle("POST /v1/leagues/{leagueID}/playoffs", RequireUser(http.HandlerFunc(handler.GeneratePlayoffs)))
	mux.Handle("POST /v1/playoff-matches/{playoffID}/finalize", RequireUser(http.HandlerFunc(handler.FinalizePlayoffMatch)))

	mux.HandleFunc("GET /v1/leagues/{leagueID}/standings", handler.GetStandings)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
