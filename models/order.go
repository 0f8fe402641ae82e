package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // placed, awaiting confirmation
	OrderStatusConfirmed  OrderStatus = "confirmed"  // confirmed by the store
	OrderStatusProcessing OrderStatus = "processing" // being prepared
	OrderStatusReady      OrderStatus = "ready"      // packed and ready for dispatch
	OrderStatusShipped    OrderStatus = "shipped"    // out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // customer received the order
	OrderStatusCompleted  OrderStatus = "completed"  // closed out
	OrderStatusCancelled  OrderStatus = "cancelled"  // cancelled before completion
)

var ErrInvalidOrderStatus = errors.New("invalid order status")

// ParseOrderStatus maps a raw string onto the status enum. Any member
// may be written regardless of the order's current status; there is no
// transition ordering.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(s)) {
	case OrderStatusPending:
		return OrderStatusPending, nil
	case OrderStatusConfirmed:
		return OrderStatusConfirmed, nil
	case OrderStatusProcessing:
		return OrderStatusProcessing, nil
	case OrderStatusReady:
		return OrderStatusReady, nil
	case OrderStatusShipped:
		return OrderStatusShipped, nil
	case OrderStatusDelivered:
		return OrderStatusDelivered, nil
	case OrderStatusCompleted:
		return OrderStatusCompleted, nil
	case OrderStatusCancelled:
		return OrderStatusCancelled, nil
	default:
		return "", ErrInvalidOrderStatus
	}
}

// Order is created once per checkout together with its items; the two
// are never persisted separately.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	OrderRef        string      `gorm:"uniqueIndex" json:"order_ref"`
	UserID          *uint       `gorm:"index" json:"user_id,omitempty"`
	GuestEmail      string      `json:"guest_email,omitempty"`
	Phone           string      `json:"phone"`
	TotalAmount     float64     `json:"total_amount"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"` // e.g. "card", "cod"
	Status          OrderStatus `gorm:"type:VARCHAR(20);default:'pending';index" json:"status"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	OrderDate       time.Time   `json:"order_date"`
}

// OrderItem carries the price the caller locked in at checkout time;
// it is never mutated after creation.
type OrderItem struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	OrderID  uint    `gorm:"index" json:"order_id"`
	PlantID  uint    `json:"plant_id"`
	Quantity int     `gorm:"check:quantity > 0" json:"quantity"`
	Price    float64 `json:"price"`
}
