package dao_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/duelstack/ytg-api/internal/repository/dao"
	"github.com/duelstack/ytg-api/internal/testutil"
)

func seedCard(t *testing.T, db *gorm.DB, name string, price int64, stock int) dao.Card {
	t.Helper()

	card, err := dao.NewCatalogDAO(db).InsertCard(context.Background(), dao.Card{
		Name:     name,
		Price:    price,
		Stock:    stock,
		CardCode: "LOB-001",
		Version:  "v1",
		Rarity:   "ultra rare",
	})
	require.NoError(t, err)

	return card
}

func seedBooster(t *testing.T, db *gorm.DB, name string, price int64, stock int) dao.Booster {
	t.Helper()

	booster, err := dao.NewCatalogDAO(db).InsertBooster(context.Background(), dao.Booster{
		Name:        name,
		Price:       price,
		Stock:       stock,
		BoosterCode: "LOB",
		Version:     "v1",
	})
	require.NoError(t, err)

	return booster
}

func cardStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()

	var card dao.Card
	require.NoError(t, db.First(&card, id).Error)

	return card.Stock
}

func TestCreateOrder_TotalMatchesItems(t *testing.T) {
	db := testutil.OpenTestDB(t)
	orders := dao.NewOrderDAO(db)
	ctx := context.Background()

	user := seedUser(t, db, "yugi", 0, 0)
	card := seedCard(t, db, "Blue-Eyes White Dragon", 500, 10)
	booster := seedBooster(t, db, "Legend of Blue Eyes", 300, 5)

	order, err := orders.CreateOrder(ctx, user.ID, []dao.OrderLine{
		{ProductType: "card", ProductID: card.ID, Quantity: 2},
		{ProductType: "booster", ProductID: booster.ID, Quantity: 1},
	})
	require.NoError(t, err)
	require.Equal(t, "pending", order.Status)
	require.Len(t, order.Items, 2)

	var sum int64
	for _, item := range order.Items {
		sum += item.Price
	}
	require.Equal(t, sum, order.TotalPrice)
	require.EqualValues(t, 1300, order.TotalPrice)

	require.Equal(t, 8, cardStock(t, db, card.ID))

	var fresh dao.Booster
	require.NoError(t, db.First(&fresh, booster.ID).Error)
	require.Equal(t, 4, fresh.Stock)
}

func TestCreateOrder_InsufficientStockRollsBack(t *testing.T) {
	db := testutil.OpenTestDB(t)
	orders := dao.NewOrderDAO(db)
	ctx := context.Background()

	user := seedUser(t, db, "yugi", 0, 0)
	card := seedCard(t, db, "Dark Magician", 400, 10)
	booster := seedBooster(t, db, "Metal Raiders", 300, 2)

	_, err := orders.CreateOrder(ctx, user.ID, []dao.OrderLine{
		{ProductType: "card", ProductID: card.ID, Quantity: 3},
		{ProductType: "booster", ProductID: booster.ID, Quantity: 5},
	})
	require.ErrorIs(t, err, dao.ErrInsufficientStock)

	var stockErr *dao.StockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, "booster", stockErr.ProductType)
	require.Equal(t, 5, stockErr.Requested)
	require.Equal(t, 2, stockErr.Available)

	// The card line committed nothing either.
	require.Equal(t, 10, cardStock(t, db, card.ID))

	var orderCount, itemCount int64
	require.NoError(t, db.Model(&dao.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&dao.OrderItem{}).Count(&itemCount).Error)
	require.Zero(t, orderCount)
	require.Zero(t, itemCount)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	db := testutil.OpenTestDB(t)
	orders := dao.NewOrderDAO(db)
	ctx := context.Background()

	user := seedUser(t, db, "yugi", 0, 0)

	_, err := orders.CreateOrder(ctx, user.ID, []dao.OrderLine{
		{ProductType: "card", ProductID: 999, Quantity: 1},
	})
	require.ErrorIs(t, err, dao.ErrProductNotFound)

	_, err = orders.CreateOrder(ctx, user.ID, []dao.OrderLine{
		{ProductType: "figurine", ProductID: 1, Quantity: 1},
	})
	require.ErrorIs(t, err, dao.ErrInvalidProductType)
}

func TestCancelOrder(t *testing.T) {
	db := testutil.OpenTestDB(t)
	orders := dao.NewOrderDAO(db)
	ctx := context.Background()

	user := seedUser(t, db, "yugi", 0, 0)
	card := seedCard(t, db, "Celtic Guardian", 200, 10)

	order, err := orders.CreateOrder(ctx, user.ID, []dao.OrderLine{
		{ProductType: "card", ProductID: card.ID, Quantity: 2},
	})
	require.NoError(t, err)

	cancelled, err := orders.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, "cancelled", cancelled.Status)

	// No restock on cancellation.
	require.Equal(t, 8, cardStock(t, db, card.ID))

	// Rejected consistently on repeat, not a no-op success.
	_, err = orders.CancelOrder(ctx, order.ID)
	require.ErrorIs(t, err, dao.ErrOrderNotCancellable)

	_, err = orders.CancelOrder(ctx, order.ID)
	require.ErrorIs(t, err, dao.ErrOrderNotCancellable)
}

func TestCancelOrder_NotFound(t *testing.T) {
	db := testutil.OpenTestDB(t)
	orders := dao.NewOrderDAO(db)

	_, err := orders.CancelOrder(context.Background(), 404)
	require.ErrorIs(t, err, dao.ErrOrderNotFound)
}
