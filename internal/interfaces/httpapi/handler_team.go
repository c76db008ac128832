package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

func (h *Handler) UpsertTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertTeam")
	defer span.End()

	if h.teamService == nil {
		writeError(ctx, w, fmt.Errorf("%w: team service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req upsertTeamRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	team, err := h.teamService.Upsert(ctx, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "upsert team failed", "team_id", req.ID, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(team))
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam", pathAttrs(r, "teamID")...)
	defer span.End()

	if h.teamService == nil {
		writeError(ctx, w, fmt.Errorf("%w: team service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	team, err := h.teamService.Get(ctx, r.PathValue("teamID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(team))
}

func (h *Handler) ListTeamsByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamsByMatch", pathAttrs(r, "matchID")...)
	defer span.End()

	if h.teamService == nil {
		writeError(ctx, w, fmt.Errorf("%w: team service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	matchID := r.PathValue("matchID")
	teams, err := h.teamService.ListByMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams by match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, team := range teams {
		items = append(items, teamToDTO(team))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
