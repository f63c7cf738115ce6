package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderNotCancellable = errors.New("only pending orders can be cancelled")
	ErrProductNotFound     = errors.New("product not found")
	ErrInvalidProductType  = errors.New("invalid product type")
	ErrInsufficientStock   = errors.New("insufficient stock")
)

// StockError names the offending order line when stock runs short.
type StockError struct {
	ProductType string
	ProductID   uint
	Requested   int
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %v %v: requested %v, available %v",
		e.ProductType, e.ProductID, e.Requested, e.Available)
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

type Order struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"index;not null"`
	Status     string `gorm:"size:50;not null;default:pending"`
	TotalPrice int64  `gorm:"not null;default:0"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// OrderItem references a product by (type, id) pair since it must point into
// either the cards or the boosters table. Price is the line total snapshotted
// at order time.
type OrderItem struct {
	ID          uint   `gorm:"primaryKey"`
	OrderID     uint   `gorm:"index;not null"`
	ProductType string `gorm:"size:50;not null"`
	ProductID   uint   `gorm:"not null"`
	Quantity    int    `gorm:"not null;default:1"`
	Price       int64  `gorm:"not null"`
}

// OrderLine is one requested line of a new order.
type OrderLine struct {
	ProductType string
	ProductID   uint
	Quantity    int
}

// productTables dispatches a product type tag onto its backing table.
var productTables = map[string]string{
	"card":    "cards",
	"booster": "boosters",
}

type OrderDAO struct {
	db *gorm.DB
}

func NewOrderDAO(db *gorm.DB) *OrderDAO {
	return &OrderDAO{
		db: db,
	}
}

type productRow struct {
	Price int64
	Stock int
}

// CreateOrder processes the lines sequentially inside one transaction: each
// product row is locked, stock-checked and decremented, and the line price is
// snapshotted. A failure on any line rolls back the order, all items and all
// earlier stock decrements.
func (d *OrderDAO) CreateOrder(ctx context.Context, userID uint, lines []OrderLine) (Order, error) {
	var order Order

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order = Order{
			UserID: userID,
			Status: "pending",
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		var total int64
		for _, line := range lines {
			table, ok := productTables[line.ProductType]
			if !ok {
				return ErrInvalidProductType
			}

			var product productRow
			result := forUpdate(tx).Table(table).
				Select("price", "stock").
				Where("id = ?", line.ProductID).
				Limit(1).
				Find(&product)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrProductNotFound
			}

			if product.Stock < line.Quantity {
				return &StockError{
					ProductType: line.ProductType,
					ProductID:   line.ProductID,
					Requested:   line.Quantity,
					Available:   product.Stock,
				}
			}

			updates := map[string]interface{}{
				"stock":      product.Stock - line.Quantity,
				"updated_at": time.Now(),
			}
			if err := tx.Table(table).Where("id = ?", line.ProductID).Updates(updates).Error; err != nil {
				return err
			}

			price := product.Price * int64(line.Quantity)
			item := OrderItem{
				OrderID:     order.ID,
				ProductType: line.ProductType,
				ProductID:   line.ProductID,
				Quantity:    line.Quantity,
				Price:       price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}

			order.Items = append(order.Items, item)
			total += price
		}

		order.TotalPrice = total

		return tx.Model(&Order{}).Where("id = ?", order.ID).Update("total_price", total).Error
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

func (d *OrderDAO) FindByID(ctx context.Context, id uint) (Order, error) {
	var order Order

	result := d.db.WithContext(ctx).Preload("Items").First(&order, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Order{}, ErrOrderNotFound
		}

		return Order{}, result.Error
	}

	return order, nil
}

func (d *OrderDAO) FindByUser(ctx context.Context, userID uint) ([]Order, error) {
	var orders []Order

	result := d.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders)
	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// CancelOrder flips a pending order to cancelled. Non-pending orders,
// including already-cancelled ones, are rejected the same way every time.
// Stock is not returned to inventory.
func (d *OrderDAO) CancelOrder(ctx context.Context, id uint) (Order, error) {
	var order Order

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}

			return err
		}

		if order.Status != "pending" {
			return ErrOrderNotCancellable
		}

		order.Status = "cancelled"

		return tx.Model(&Order{}).Where("id = ?", order.ID).Update("status", order.Status).Error
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}
