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

type RewardService interface {
	ListRewards(ctx context.Context) ([]domain.Reward, error)
	CreateReward(ctx context.Context, reward domain.Reward) (domain.Reward, error)
	Redeem(ctx context.Context, userID, rewardID uint) (domain.RewardRedemption, error)
	ConfirmRedemption(ctx context.Context, redemptionID uint) (domain.RewardRedemption, domain.PointTransaction, error)
	CancelRedemption(ctx context.Context, redemptionID uint) (domain.RewardRedemption, error)
}

type RewardHandler struct {
	svc  RewardService
	uSvc UserService
}

func NewRewardHandler(svc RewardService, uSvc UserService) *RewardHandler {
	return &RewardHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListRewards godoc
// @Summary      List redeemable rewards
// @Tags         rewards
// @Produce      json
// @Success      200  {array}   domain.Reward
// @Failure      500  {object}  response.Err
// @Router       /rewards [get]
func (h *RewardHandler) HandleListRewards(ctx *gin.Context) {
	rewards, err := h.svc.ListRewards(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListRewards -> h.svc.ListRewards -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, rewards)
}

// HandleCreateReward godoc
// @Summary      Add a redeemable reward
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateRewardRequest true "request body"
// @Success      201  {object}  domain.Reward
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/rewards [post]
// @Security BearerAuth
func (h *RewardHandler) HandleCreateReward(ctx *gin.Context) {
	var req request.CreateRewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reward, err := h.svc.CreateReward(ctx.Request.Context(), domain.Reward{
		Name:        req.Name,
		Description: req.Description,
		Cost:        req.Cost,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateReward -> h.svc.CreateReward -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, reward)
}

// HandleRedeem godoc
// @Summary      Open a pending redemption for a reward
// @Description  Affordability and stock are validated at confirmation, not here
// @Tags         rewards
// @Produce      json
// @Param        request  body      request.RedeemRequest true "request body"
// @Success      201      {object}  response.RedemptionResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /user/point/redeem [post]
// @Security BearerAuth
func (h *RewardHandler) HandleRedeem(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RedeemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	redemption, err := h.svc.Redeem(ctx.Request.Context(), user.ID, req.RewardID)
	if err != nil {
		if errors.Is(err, service.ErrRewardNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("reward", "rewardID", req.RewardID))
			return
		}
		if errors.Is(err, service.ErrDuplicateRedemption) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleRedeem -> h.svc.Redeem -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.RedemptionResponse{
		Redemption: redemption,
	})
}

// HandleConfirmRedemption godoc
// @Summary      Confirm a pending redemption
// @Description  Debits points, decrements stock and writes the ledger entry atomically
// @Tags         rewards
// @Produce      json
// @Param        redemptionID  path      int true "redemption id"
// @Success      200           {object}  response.RedemptionResponse
// @Failure      400           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Router       /admin/redemption/{redemptionID}/confirm [post]
// @Security BearerAuth
func (h *RewardHandler) HandleConfirmRedemption(ctx *gin.Context) {
	redemptionID, err := strconv.ParseUint(ctx.Param("redemptionID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("redemptionID must be an integer")))
		return
	}

	redemption, txn, err := h.svc.ConfirmRedemption(ctx.Request.Context(), uint(redemptionID))
	if err != nil {
		if errors.Is(err, service.ErrRedemptionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("redemption", "redemptionID", redemptionID))
			return
		}
		if errors.Is(err, service.ErrRedemptionNotPending) ||
			errors.Is(err, service.ErrInsufficientPoints) ||
			errors.Is(err, service.ErrRewardOutOfStock) ||
			errors.Is(err, service.ErrDuplicateRedemption) {
			response.RenderErr(ctx, response.ErrStateConflict(err))
			return
		}

		err = fmt.Errorf("v1.HandleConfirmRedemption -> h.svc.ConfirmRedemption -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.RedemptionResponse{
		Redemption:  redemption,
		Transaction: &txn,
	})
}

// HandleCancelRedemption godoc
// @Summary      Cancel a pending redemption
// @Description  No balance or stock effect
// @Tags         rewards
// @Produce      json
// @Param        redemptionID  path      int true "redemption id"
// @Success      200           {object}  response.RedemptionResponse
// @Failure      400           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Router       /admin/redemption/{redemptionID}/cancel [post]
// @Security BearerAuth
func (h *RewardHandler) HandleCancelRedemption(ctx *gin.Context) {
	redemptionID, err := strconv.ParseUint(ctx.Param("redemptionID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("redemptionID must be an integer")))
		return
	}

	redemption, err := h.svc.CancelRedemption(ctx.Request.Context(), uint(redemptionID))
	if err != nil {
		if errors.Is(err, service.ErrRedemptionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("redemption", "redemptionID", redemptionID))
			return
		}
		if errors.Is(err, service.ErrRedemptionNotPending) {
			response.RenderErr(ctx, response.ErrStateConflict(err))
			return
		}

		err = fmt.Errorf("v1.HandleCancelRedemption -> h.svc.CancelRedemption -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.RedemptionResponse{
		Redemption: redemption,
	})
}
