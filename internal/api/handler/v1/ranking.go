package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/duelstack/ytg-api/internal/api/handler/v1/response"
	"github.com/duelstack/ytg-api/internal/service"
)

type RankingHandler struct {
	svc  LedgerService
	uSvc UserService
}

func NewRankingHandler(svc LedgerService, uSvc UserService) *RankingHandler {
	return &RankingHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleMonthlyRanking godoc
// @Summary      Monthly leaderboard
// @Description  Ranking points earned inside the given calendar month, descending
// @Tags         ranking
// @Produce      json
// @Param        year       query     int false "defaults to the current year"
// @Param        month      query     int false "defaults to the current month"
// @Param        page       query     int false "defaults to 1"
// @Param        page_size  query     int false "defaults to 20, capped at 100"
// @Success      200        {object}  domain.RankingPage
// @Failure      400        {object}  response.Err
// @Router       /ranking/monthly [get]
func (h *RankingHandler) HandleMonthlyRanking(ctx *gin.Context) {
	now := time.Now().UTC()

	year, err := queryInt(ctx, "year", now.Year())
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	month, err := queryInt(ctx, "month", int(now.Month()))
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	page, err := queryInt(ctx, "page", 1)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	pageSize, err := queryInt(ctx, "page_size", 0)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ranking, err := h.svc.MonthlyRanking(ctx.Request.Context(), year, month, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRankingMonth) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleMonthlyRanking -> h.svc.MonthlyRanking -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, ranking)
}

// HandleUserRanking godoc
// @Summary      The authenticated user's all-time ranking position
// @Tags         ranking
// @Produce      json
// @Success      200  {object}  response.UserRankingResponse
// @Failure      401  {object}  response.Err
// @Router       /ranking/user [get]
// @Security BearerAuth
func (h *RankingHandler) HandleUserRanking(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	position, ranked, err := h.svc.UserRanking(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleUserRanking -> h.svc.UserRanking -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.UserRankingResponse{
		UserID:       ranked.ID,
		Username:     ranked.Username,
		RankingPoint: ranked.RankingPoint,
		Position:     position,
	})
}

func queryInt(ctx *gin.Context, key string, fallback int) (int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q must be an integer", key)
	}

	return value, nil
}
