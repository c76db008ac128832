package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

func (h *Handler) GetScoringRules(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoringRules")
	defer span.End()

	if h.scoringService == nil {
		writeError(ctx, w, fmt.Errorf("%w: scoring service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	version := strings.TrimSpace(r.URL.Query().Get("version"))
	rules, err := h.scoringService.Rules(version)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ruleSetsDTO{
		Default:  h.scoringService.DefaultRuleSet(),
		Versions: h.scoringService.RuleSets(),
		Rules:    rules,
	})
}

func (h *Handler) PreviewPayload(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviewPayload")
	defer span.End()

	if h.scoringService == nil {
		writeError(ctx, w, fmt.Errorf("%w: scoring service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req previewPayloadRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	teams := make([]fantasy.Team, 0, len(req.Teams))
	for _, item := range req.Teams {
		teams = append(teams, item.toTeam())
	}

	result, err := h.scoringService.PreviewPayload(ctx, req.Payload, teams, strings.TrimSpace(req.RuleSet))
	if err != nil {
		h.logger.WarnContext(ctx, "preview payload failed", "teams", len(teams), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contestResultToDTO(result))
}

func (h *Handler) PreviewMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviewMatch", pathAttrs(r, "matchID")...)
	defer span.End()

	if h.scoringService == nil {
		writeError(ctx, w, fmt.Errorf("%w: scoring service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	matchID := r.PathValue("matchID")
	version := strings.TrimSpace(r.URL.Query().Get("version"))
	result, err := h.scoringService.Preview(ctx, matchID, version)
	if err != nil {
		h.logger.WarnContext(ctx, "preview match failed", "match_id", matchID, "rule_set", version, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contestResultToDTO(result))
}

func (h *Handler) FinalizeMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizeMatch", pathAttrs(r, "matchID")...)
	defer span.End()

	if h.scoringService == nil {
		writeError(ctx, w, fmt.Errorf("%w: scoring service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	matchID := r.PathValue("matchID")
	result, err := h.scoringService.Finalize(ctx, matchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "finalize match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "match finalized",
		"match_id", matchID,
		"run_id", result.RunID,
		"contests", len(result.Contests),
		"distributions", len(result.Distributions),
	)
	writeSuccess(ctx, w, http.StatusOK, finalizeResultDTO{
		contestResultDTO: contestResultToDTO(result.ContestResult),
		RunID:            result.RunID,
		Distributions:    result.Distributions,
	})
}

func (h *Handler) ListMatchScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchScores", pathAttrs(r, "matchID")...)
	defer span.End()

	if h.scoringService == nil {
		writeError(ctx, w, fmt.Errorf("%w: scoring service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	matchID := r.PathValue("matchID")
	scores, err := h.scoringService.ListScores(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list match scores failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchScoresToDTO(scores))
}
