package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/duelstack/ytg-api/internal/domain"
	"github.com/duelstack/ytg-api/internal/repository"
	"github.com/duelstack/ytg-api/internal/repository/dao"
	"github.com/duelstack/ytg-api/internal/service"
	"github.com/duelstack/ytg-api/internal/testutil"
)

func newOrderService(t *testing.T) (*service.OrderService, *gorm.DB) {
	t.Helper()

	db := testutil.OpenTestDB(t)

	return service.NewOrderService(repository.NewOrderRepository(dao.NewOrderDAO(db))), db
}

func cardLine(id uint, quantity int) domain.OrderLine {
	return domain.OrderLine{
		Product:  domain.ProductRef{Type: domain.ProductCard, ID: id},
		Quantity: quantity,
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, 1, nil)
	require.ErrorIs(t, err, service.ErrEmptyOrder)

	_, err = svc.CreateOrder(ctx, 1, []domain.OrderLine{cardLine(1, 0)})
	require.ErrorIs(t, err, service.ErrInvalidQuantity)

	_, err = svc.CreateOrder(ctx, 1, []domain.OrderLine{
		{Product: domain.ProductRef{Type: "figurine", ID: 1}, Quantity: 1},
	})
	require.ErrorIs(t, err, service.ErrInvalidProductType)
}

func TestCancelOrder_Ownership(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner", 0, 0)
	other := createUser(t, db, "other", 0, 0)
	admin := createUser(t, db, "admin", 0, 0)

	card, err := dao.NewCatalogDAO(db).InsertCard(ctx, dao.Card{
		Name:     "Blue-Eyes White Dragon",
		Price:    500,
		Stock:    10,
		CardCode: "LOB-001",
		Version:  "v1",
	})
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, owner.ID, []domain.OrderLine{cardLine(card.ID, 1)})
	require.NoError(t, err)
	require.Equal(t, domain.OrderPending, order.Status)

	_, err = svc.CancelOrder(ctx, order.ID, other.ID, false)
	require.ErrorIs(t, err, service.ErrNotOrderOwner)

	// Admins may cancel anyone's pending order.
	cancelled, err := svc.CancelOrder(ctx, order.ID, admin.ID, true)
	require.NoError(t, err)
	require.Equal(t, domain.OrderCancelled, cancelled.Status)

	_, err = svc.CancelOrder(ctx, order.ID, owner.ID, false)
	require.ErrorIs(t, err, service.ErrOrderNotCancellable)
}

func TestGetOrder_Ownership(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner", 0, 0)
	other := createUser(t, db, "other", 0, 0)

	card, err := dao.NewCatalogDAO(db).InsertCard(ctx, dao.Card{
		Name:     "Dark Magician",
		Price:    400,
		Stock:    3,
		CardCode: "LOB-005",
		Version:  "v1",
	})
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, owner.ID, []domain.OrderLine{cardLine(card.ID, 2)})
	require.NoError(t, err)

	found, err := svc.GetOrder(ctx, order.ID, owner.ID, false)
	require.NoError(t, err)
	require.EqualValues(t, 800, found.TotalPrice)

	_, err = svc.GetOrder(ctx, order.ID, other.ID, false)
	require.ErrorIs(t, err, service.ErrNotOrderOwner)

	_, err = svc.GetOrder(ctx, order.ID, other.ID, true)
	require.NoError(t, err)

	_, err = svc.GetOrder(ctx, 999, owner.ID, false)
	require.ErrorIs(t, err, service.ErrOrderNotFound)
}
