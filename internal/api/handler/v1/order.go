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

type OrderService interface {
	CreateOrder(ctx context.Context, userID uint, lines []domain.OrderLine) (domain.Order, error)
	GetOrders(ctx context.Context, userID uint) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID, requesterID uint, isAdmin bool) (domain.Order, error)
	CancelOrder(ctx context.Context, orderID, requesterID uint, isAdmin bool) (domain.Order, error)
}

type OrderHandler struct {
	svc  OrderService
	uSvc UserService
}

func NewOrderHandler(svc OrderService, uSvc UserService) *OrderHandler {
	return &OrderHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateOrder godoc
// @Summary      Place an order
// @Description  Checks and decrements stock per line; any failure rolls back the whole order
// @Tags         orders
// @Produce      json
// @Param        request  body      request.CreateOrderRequest true "request body"
// @Success      201      {object}  domain.Order
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Router       /orders/create [post]
// @Security BearerAuth
func (h *OrderHandler) HandleCreateOrder(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	lines := make([]domain.OrderLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = domain.OrderLine{
			Product: domain.ProductRef{
				Type: domain.ProductType(item.ProductType),
				ID:   item.ProductID,
			},
			Quantity: item.Quantity,
		}
	}

	order, err := h.svc.CreateOrder(ctx.Request.Context(), user.ID, lines)
	if err != nil {
		if errors.Is(err, service.ErrEmptyOrder) ||
			errors.Is(err, service.ErrInvalidQuantity) ||
			errors.Is(err, service.ErrInvalidProductType) ||
			errors.Is(err, service.ErrProductNotFound) ||
			errors.Is(err, service.ErrInsufficientStock) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateOrder -> h.svc.CreateOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, order)
}

// HandleGetOrders godoc
// @Summary      List the authenticated user's orders
// @Tags         orders
// @Produce      json
// @Success      200  {array}   domain.Order
// @Failure      401  {object}  response.Err
// @Router       /user/orders [get]
// @Security BearerAuth
func (h *OrderHandler) HandleGetOrders(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orders, err := h.svc.GetOrders(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetOrders -> h.svc.GetOrders -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

// HandleGetOrder godoc
// @Summary      Get one order
// @Description  Owners see their own orders; admins see any
// @Tags         orders
// @Produce      json
// @Param        orderID  path      int true "order id"
// @Success      200      {object}  domain.Order
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /user/orders/{orderID} [get]
// @Security BearerAuth
func (h *OrderHandler) HandleGetOrder(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orderID, err := strconv.ParseUint(ctx.Param("orderID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("orderID must be an integer")))
		return
	}

	order, err := h.svc.GetOrder(ctx.Request.Context(), uint(orderID), user.ID, user.IsAdmin)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "orderID", orderID))
			return
		}
		if errors.Is(err, service.ErrNotOrderOwner) {
			response.RenderErr(ctx, response.ErrPermissionDenied())
			return
		}

		err = fmt.Errorf("v1.HandleGetOrder -> h.svc.GetOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleCancelOrder godoc
// @Summary      Cancel a pending order
// @Description  Rejects non-pending orders, repeat cancels included; stock is not returned
// @Tags         orders
// @Produce      json
// @Param        orderID  path      int true "order id"
// @Success      200      {object}  domain.Order
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /user/orders/{orderID}/cancel [post]
// @Security BearerAuth
func (h *OrderHandler) HandleCancelOrder(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orderID, err := strconv.ParseUint(ctx.Param("orderID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("orderID must be an integer")))
		return
	}

	order, err := h.svc.CancelOrder(ctx.Request.Context(), uint(orderID), user.ID, user.IsAdmin)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "orderID", orderID))
			return
		}
		if errors.Is(err, service.ErrNotOrderOwner) {
			response.RenderErr(ctx, response.ErrPermissionDenied())
			return
		}
		if errors.Is(err, service.ErrOrderNotCancellable) {
			response.RenderErr(ctx, response.ErrStateConflict(err))
			return
		}

		err = fmt.Errorf("v1.HandleCancelOrder -> h.svc.CancelOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, order)
}
