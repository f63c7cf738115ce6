package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duelstack/ytg-api/internal/api/handler/v1/request"
	"github.com/duelstack/ytg-api/internal/api/handler/v1/response"
	"github.com/duelstack/ytg-api/internal/domain"
	"github.com/duelstack/ytg-api/internal/service"
)

type TournamentHandler struct {
	svc LedgerService
}

func NewTournamentHandler(svc LedgerService) *TournamentHandler {
	return &TournamentHandler{
		svc: svc,
	}
}

// HandleAddTournamentResult godoc
// @Summary      Record a single tournament result
// @Description  Credits point and ranking_point and writes the ledger entry atomically
// @Tags         tournaments
// @Produce      json
// @Param        request  body      request.TournamentAddRequest true "request body"
// @Success      201      {object}  domain.TournamentResult
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /tournament/add [post]
// @Security BearerAuth
func (h *TournamentHandler) HandleAddTournamentResult(ctx *gin.Context) {
	var req request.TournamentAddRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.AddTournamentResult(ctx.Request.Context(), domain.TournamentResult{
		UserID:             req.UserID,
		TournamentName:     req.TournamentName,
		Position:           req.Position,
		PointEarned:        req.PointEarned,
		RankingPointEarned: req.RankingPointEarned,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "userID", req.UserID))
			return
		}
		if errors.Is(err, service.ErrNegativeEarnedPoints) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleAddTournamentResult -> h.svc.AddTournamentResult -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, result)
}

// HandleBulkTournamentResults godoc
// @Summary      Record a batch of tournament results
// @Description  Each entry commits in its own scope; failures are reported per entry
// @Tags         tournaments
// @Produce      json
// @Param        request  body      request.TournamentBulkRequest true "request body"
// @Success      201      {object}  domain.BulkReport "all entries succeeded"
// @Success      207      {object}  domain.BulkReport "some entries failed"
// @Failure      400      {object}  response.Err
// @Router       /tournament/bulk [post]
// @Security BearerAuth
func (h *TournamentHandler) HandleBulkTournamentResults(ctx *gin.Context) {
	var req request.TournamentBulkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	entries := make([]domain.BulkResultEntry, len(req.Entries))
	for i, entry := range req.Entries {
		entries[i] = domain.BulkResultEntry{
			UserID:             entry.UserID,
			Position:           entry.Position,
			PointEarned:        entry.PointEarned,
			RankingPointEarned: entry.RankingPointEarned,
		}
	}

	report, err := h.svc.BulkTournamentResults(ctx.Request.Context(), req.TournamentName, entries)
	if err != nil {
		err = fmt.Errorf("v1.HandleBulkTournamentResults -> h.svc.BulkTournamentResults -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	status := http.StatusCreated
	if !report.AllSucceeded() {
		status = http.StatusMultiStatus
	}

	ctx.JSON(status, report)
}
