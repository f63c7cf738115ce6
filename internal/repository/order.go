package repository

import (
	"context"
	"fmt"

	"github.com/duelstack/ytg-api/internal/domain"
	"github.com/duelstack/ytg-api/internal/repository/dao"
)

var (
	ErrOrderNotFound       = dao.ErrOrderNotFound
	ErrOrderNotCancellable = dao.ErrOrderNotCancellable
	ErrProductNotFound     = dao.ErrProductNotFound
	ErrInvalidProductType  = dao.ErrInvalidProductType
	ErrInsufficientStock   = dao.ErrInsufficientStock
)

type OrderDAO interface {
	CreateOrder(ctx context.Context, userID uint, lines []dao.OrderLine) (dao.Order, error)
	FindByID(ctx context.Context, id uint) (dao.Order, error)
	FindByUser(ctx context.Context, userID uint) ([]dao.Order, error)
	CancelOrder(ctx context.Context, id uint) (dao.Order, error)
}

type OrderRepository struct {
	dao OrderDAO
}

func NewOrderRepository(dao OrderDAO) *OrderRepository {
	return &OrderRepository{
		dao: dao,
	}
}

func (r *OrderRepository) Create(ctx context.Context, userID uint, lines []domain.OrderLine) (domain.Order, error) {
	daoLines := make([]dao.OrderLine, len(lines))
	for i, line := range lines {
		daoLines[i] = dao.OrderLine{
			ProductType: string(line.Product.Type),
			ProductID:   line.Product.ID,
			Quantity:    line.Quantity,
		}
	}

	created, err := r.dao.CreateOrder(ctx, userID, daoLines)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.CreateOrder -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (domain.Order, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *OrderRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	found, err := r.dao.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUser -> %w", err)
	}

	orders := make([]domain.Order, len(found))
	for i, order := range found {
		orders[i] = r.daoToDomain(order)
	}

	return orders, nil
}

func (r *OrderRepository) Cancel(ctx context.Context, id uint) (domain.Order, error) {
	cancelled, err := r.dao.CancelOrder(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.CancelOrder -> %w", err)
	}

	return r.daoToDomain(cancelled), nil
}

func (r *OrderRepository) daoToDomain(o dao.Order) domain.Order {
	order := domain.Order{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     domain.OrderStatus(o.Status),
		TotalPrice: o.TotalPrice,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}

	for _, item := range o.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:      item.ID,
			OrderID: item.OrderID,
			Product: domain.ProductRef{
				Type: domain.ProductType(item.ProductType),
				ID:   item.ProductID,
			},
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	return order
}
