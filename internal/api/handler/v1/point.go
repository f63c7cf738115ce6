package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/duelstack/ytg-api/internal/api/handler/v1/request"
	"github.com/duelstack/ytg-api/internal/api/handler/v1/response"
	"github.com/duelstack/ytg-api/internal/domain"
	"github.com/duelstack/ytg-api/internal/service"
)

type LedgerService interface {
	AdjustPoints(ctx context.Context, userID uint, points int, description string) (domain.PointTransaction, domain.User, error)
	AddTournamentResult(ctx context.Context, result domain.TournamentResult) (domain.TournamentResult, error)
	BulkTournamentResults(ctx context.Context, tournamentName string, entries []domain.BulkResultEntry) (domain.BulkReport, error)
	GetHistory(ctx context.Context, userID uint) ([]domain.PointTransaction, error)
	Reconcile(ctx context.Context, userID uint) (pointDrift, rankingDrift int, err error)
	MonthlyRanking(ctx context.Context, year, month, page, pageSize int) (domain.RankingPage, error)
	UserRanking(ctx context.Context, userID uint) (int64, domain.User, error)
}

type PointHandler struct {
	svc  LedgerService
	uSvc UserService
}

func NewPointHandler(svc LedgerService, uSvc UserService) *PointHandler {
	return &PointHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleAdjustPoints godoc
// @Summary      Adjust a user's point balance
// @Description  Applies a signed delta and writes the matching ledger entry
// @Tags         points
// @Produce      json
// @Param        request  body      request.AdjustPointsRequest true "request body"
// @Success      201      {object}  response.AdjustPointsResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /point/adjust [post]
// @Security BearerAuth
func (h *PointHandler) HandleAdjustPoints(ctx *gin.Context) {
	var req request.AdjustPointsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	txn, user, err := h.svc.AdjustPoints(ctx.Request.Context(), req.UserID, req.Points, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "userID", req.UserID))
			return
		}
		if errors.Is(err, service.ErrZeroPoints) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleAdjustPoints -> h.svc.AdjustPoints -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.AdjustPointsResponse{
		Transaction: txn,
		Balance:     user.Point,
	})
}

// HandleGetHistory godoc
// @Summary      List the authenticated user's ledger entries, newest first
// @Tags         points
// @Produce      json
// @Param        user  query     int  false  "inspect another user's ledger (admin only)"
// @Success      200  {array}   domain.PointTransaction
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /user/points/history [get]
// @Security BearerAuth
func (h *PointHandler) HandleGetHistory(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	targetID := user.ID
	if raw := ctx.Query("user"); raw != "" && user.IsAdmin {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		targetID = uint(id)
	}

	txns, err := h.svc.GetHistory(ctx.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "user", targetID))
			return
		}

		err = fmt.Errorf("v1.HandleGetHistory -> h.svc.GetHistory -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, txns)
}

// HandleReconcile godoc
// @Summary      Recompute a user's counters from the ledger
// @Description  Maintenance operation; reports the drift that was repaired
// @Tags         points
// @Produce      json
// @Param        request  body      request.ReconcileRequest true "request body"
// @Success      200      {object}  response.ReconcileResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /point/reconcile [post]
// @Security BearerAuth
func (h *PointHandler) HandleReconcile(ctx *gin.Context) {
	var req request.ReconcileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	pointDrift, rankingDrift, err := h.svc.Reconcile(ctx.Request.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "userID", req.UserID))
			return
		}

		err = fmt.Errorf("v1.HandleReconcile -> h.svc.Reconcile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.ReconcileResponse{
		UserID:            req.UserID,
		PointDrift:        pointDrift,
		RankingPointDrift: rankingDrift,
	})
}
