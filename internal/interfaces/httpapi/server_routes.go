package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerScoringRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/scoring/rules", handler.GetScoringRules)
	mux.HandleFunc("POST /v1/scoring/preview", handler.PreviewPayload)
	mux.HandleFunc("GET /v1/matches/{matchID}/preview", handler.PreviewMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/scores", handler.ListMatchScores)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("PUT /v1/teams", handler.UpsertTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/matches/{matchID}/teams", handler.ListTeamsByMatch)
}

func registerContestRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/contests/{contestID}/distribution", handler.GetDistribution)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("POST /v1/admin/matches/{matchID}/finalize", RequireAdminToken(adminToken, http.HandlerFunc(handler.FinalizeMatch)))
	mux.Handle("PUT /v1/admin/contests/{contestID}/prize-pool", RequireAdminToken(adminToken, http.HandlerFunc(handler.SetPrizePool)))
}
