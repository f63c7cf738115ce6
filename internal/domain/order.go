package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID         uint        `json:"id"`
	UserID     uint        `json:"user_id"`
	Status     OrderStatus `json:"status"`
	TotalPrice int64       `json:"total_price"`
	Items      []OrderItem `json:"items,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Cancellable reports whether the order may still be cancelled. Only pending
// orders are; confirmed, completed and cancelled are terminal for this purpose.
func (o *Order) Cancellable() bool {
	return o.Status == OrderPending
}

// OrderItem snapshots the line price at order time, so later price changes do
// not alter historical orders.
type OrderItem struct {
	ID       uint       `json:"id"`
	OrderID  uint       `json:"order_id"`
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
	Price    int64      `json:"price"`
}

// OrderLine is a validated input line for order creation.
type OrderLine struct {
	Product  ProductRef
	Quantity int
}
