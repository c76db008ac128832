package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/contest"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

func (h *Handler) SetPrizePool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetPrizePool", pathAttrs(r, "contestID")...)
	defer span.End()

	if h.contestService == nil {
		writeError(ctx, w, fmt.Errorf("%w: contest service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req prizePoolRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := r.PathValue("contestID")
	pool, err := h.contestService.SetPrizePool(ctx, contest.PrizePool{
		ContestID: contestID,
		MatchID:   req.MatchID,
		Amount:    req.Amount,
		Currency:  req.Currency,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set prize pool failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, prizePoolDTO{
		ContestID: pool.ContestID,
		MatchID:   pool.MatchID,
		Amount:    pool.Amount,
		Currency:  pool.Currency,
	})
}

func (h *Handler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDistribution", pathAttrs(r, "contestID")...)
	defer span.End()

	if h.contestService == nil {
		writeError(ctx, w, fmt.Errorf("%w: contest service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	dist, err := h.contestService.GetDistribution(ctx, r.PathValue("contestID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dist)
}
