package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of a placed order.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipping   OrderStatus = "shipping"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the OrderStatus is a known value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipping, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the status transition is allowed.
// Delivered and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusProcessing:
		return next == OrderStatusShipping || next == OrderStatusCancelled
	case OrderStatusShipping:
		return next == OrderStatusDelivered || next == OrderStatusCancelled
	default:
		return false
	}
}

// OrderItem is an immutable line-item snapshot captured at checkout time.
// Name and UnitPrice are copied from the catalog when the order is placed and
// never re-derived from the live product afterwards.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Name      string
	Image     string
	UnitPrice float64
	Quantity  int
}

// ShippingAddress is captured from the payment method's billing details at
// checkout time.
type ShippingAddress struct {
	Street  string
	City    string
	Country string
	Pincode string
}

// Order is created only after the payment gateway confirms the charge.
// Line items, amounts and the shipping address are a snapshot; only the
// status fields change after creation.
type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Items           []OrderItem
	ShippingAddress ShippingAddress
	Subtotal        float64
	Tax             float64
	ShippingFee     float64
	Total           float64
	TransactionID   string
	Status          OrderStatus
	PaidAt          time.Time
	DeliveredAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
