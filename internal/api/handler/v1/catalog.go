package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duelstack/ytg-api/internal/api/handler/v1/request"
	"github.com/duelstack/ytg-api/internal/api/handler/v1/response"
	"github.com/duelstack/ytg-api/internal/domain"
)

type CatalogService interface {
	ListCards(ctx context.Context) ([]domain.Card, error)
	ListBoosters(ctx context.Context) ([]domain.Booster, error)
	CreateCard(ctx context.Context, card domain.Card) (domain.Card, error)
	CreateBooster(ctx context.Context, booster domain.Booster) (domain.Booster, error)
}

type CatalogHandler struct {
	svc CatalogService
}

func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{
		svc: svc,
	}
}

// HandleListCards godoc
// @Summary      List cards
// @Tags         catalog
// @Produce      json
// @Success      200  {array}   domain.Card
// @Failure      500  {object}  response.Err
// @Router       /cards [get]
func (h *CatalogHandler) HandleListCards(ctx *gin.Context) {
	cards, err := h.svc.ListCards(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListCards -> h.svc.ListCards -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, cards)
}

// HandleListBoosters godoc
// @Summary      List boosters
// @Tags         catalog
// @Produce      json
// @Success      200  {array}   domain.Booster
// @Failure      500  {object}  response.Err
// @Router       /boosters [get]
func (h *CatalogHandler) HandleListBoosters(ctx *gin.Context) {
	boosters, err := h.svc.ListBoosters(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListBoosters -> h.svc.ListBoosters -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, boosters)
}

// HandleCreateCard godoc
// @Summary      Add a card to the catalog
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateCardRequest true "request body"
// @Success      201  {object}  domain.Card
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/cards [post]
// @Security BearerAuth
func (h *CatalogHandler) HandleCreateCard(ctx *gin.Context) {
	var req request.CreateCardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	card, err := h.svc.CreateCard(ctx.Request.Context(), domain.Card{
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CardCode:    req.CardCode,
		Version:     req.Version,
		Rarity:      req.Rarity,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateCard -> h.svc.CreateCard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, card)
}

// HandleCreateBooster godoc
// @Summary      Add a booster to the catalog
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateBoosterRequest true "request body"
// @Success      201  {object}  domain.Booster
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/boosters [post]
// @Security BearerAuth
func (h *CatalogHandler) HandleCreateBooster(ctx *gin.Context) {
	var req request.CreateBoosterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	booster, err := h.svc.CreateBooster(ctx.Request.Context(), domain.Booster{
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		BoosterCode: req.BoosterCode,
		Version:     req.Version,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateBooster -> h.svc.CreateBooster -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, booster)
}
