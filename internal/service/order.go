package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/duelstack/ytg-api/internal/domain"
	"github.com/duelstack/ytg-api/internal/repository"
)

var (
	ErrOrderNotFound       = repository.ErrOrderNotFound
	ErrOrderNotCancellable = repository.ErrOrderNotCancellable
	ErrProductNotFound     = repository.ErrProductNotFound
	ErrInvalidProductType  = repository.ErrInvalidProductType
	ErrInsufficientStock   = repository.ErrInsufficientStock
	ErrEmptyOrder          = errors.New("order must contain at least one item")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrNotOrderOwner       = errors.New("order belongs to another user")
)

type OrderRepository interface {
	Create(ctx context.Context, userID uint, lines []domain.OrderLine) (domain.Order, error)
	FindByID(ctx context.Context, id uint) (domain.Order, error)
	FindByUser(ctx context.Context, userID uint) ([]domain.Order, error)
	Cancel(ctx context.Context, id uint) (domain.Order, error)
}

type OrderService struct {
	repo OrderRepository
}

func NewOrderService(repo OrderRepository) *OrderService {
	return &OrderService{
		repo: repo,
	}
}

// CreateOrder places an order for the given lines. Stock is checked and
// decremented per line inside one atomic scope; any line failure rolls back
// the whole order, prior lines and stock decrements included.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, lines []domain.OrderLine) (domain.Order, error) {
	if len(lines) == 0 {
		return domain.Order{}, ErrEmptyOrder
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return domain.Order{}, ErrInvalidQuantity
		}
		if line.Product.Type != domain.ProductCard && line.Product.Type != domain.ProductBooster {
			return domain.Order{}, ErrInvalidProductType
		}
	}

	order, err := s.repo.Create(ctx, userID, lines)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			return domain.Order{}, err
		case errors.Is(err, repository.ErrInsufficientStock):
			return domain.Order{}, err
		}

		return domain.Order{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return order, nil
}

func (s *OrderService) GetOrders(ctx context.Context, userID uint) ([]domain.Order, error) {
	orders, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUser -> %w", err)
	}

	return orders, nil
}

// GetOrder returns the order if the requester owns it or is an admin.
func (s *OrderService) GetOrder(ctx context.Context, orderID, requesterID uint, isAdmin bool) (domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domain.Order{}, ErrOrderNotFound
		}

		return domain.Order{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if order.UserID != requesterID && !isAdmin {
		return domain.Order{}, ErrNotOrderOwner
	}

	return order, nil
}

// CancelOrder cancels a pending order. Cancellation never restocks; a repeat
// cancel is rejected, not treated as a no-op success.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, requesterID uint, isAdmin bool) (domain.Order, error) {
	if _, err := s.GetOrder(ctx, orderID, requesterID, isAdmin); err != nil {
		return domain.Order{}, err
	}

	cancelled, err := s.repo.Cancel(ctx, orderID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return domain.Order{}, ErrOrderNotFound
		case errors.Is(err, repository.ErrOrderNotCancellable):
			return domain.Order{}, ErrOrderNotCancellable
		}

		return domain.Order{}, fmt.Errorf("s.repo.Cancel -> %w", err)
	}

	return cancelled, nil
}
