package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the 'orders' table. The unique transaction id is what
// makes persisting the same gateway charge twice a no-op.
type OrderModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Subtotal      float64   `gorm:"not null"`
	Tax           float64   `gorm:"not null;default:0"`
	ShippingFee   float64   `gorm:"not null;default:0"`
	Total         float64   `gorm:"not null"`
	TransactionID string    `gorm:"type:varchar(255);unique;not null"`
	Status        string    `gorm:"type:varchar(20);not null;default:processing"`

	ShippingStreet  string `gorm:"type:varchar(255)"`
	ShippingCity    string `gorm:"type:varchar(100)"`
	ShippingCountry string `gorm:"type:varchar(100)"`
	ShippingPincode string `gorm:"type:varchar(20)"`

	PaidAt      time.Time
	DeliveredAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table: the immutable line-item
// snapshot captured at checkout time.
type OrderItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Image     string    `gorm:"type:varchar(512)"`
	UnitPrice float64   `gorm:"not null"`
	Quantity  int       `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}

// MpesaTransactionModel mirrors the 'mpesa_transactions' table.
type MpesaTransactionModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	MerchantRequestID string    `gorm:"type:varchar(100);unique;not null"`
	CheckoutRequestID string    `gorm:"type:varchar(100);index"`
	Receipt           string    `gorm:"type:varchar(50)"`
	Amount            float64   `gorm:"not null"`
	Phone             string    `gorm:"type:varchar(20)"`
	TransactionDate   string    `gorm:"type:varchar(20)"`
	CreatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (MpesaTransactionModel) TableName() string {
	return "mpesa_transactions"
}
