package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentMethod constants
const (
	PaymentCash  = "CASH"
	PaymentUPI   = "UPI"
	PaymentCard  = "CARD"
	PaymentOther = "OTHER"
)

// Order represents a sale, holding an optional customer reference and its line items
type Order struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID    *uuid.UUID  `gorm:"type:uuid;index" json:"customer_id"`
	Customer      *Customer   `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL" json:"customer,omitempty"`
	OrderDate     time.Time   `gorm:"not null;index" json:"order_date"`
	PaymentMethod string      `gorm:"type:varchar(10);not null;default:'CASH'" json:"payment_method"` // CASH, UPI, CARD, OTHER
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TotalAmount sums the line item totals; never persisted
func (o *Order) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

// OrderItem represents a line item within an Order. The price is snapshotted
// at sale time so later catalog price changes do not rewrite history.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     Product         `gorm:"foreignKey:ProductID" json:"-"`
	Quantity    int             `gorm:"type:int;not null" json:"quantity"`
	PriceAtSale decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_at_sale"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TotalPrice is quantity x price_at_sale, derived
func (i *OrderItem) TotalPrice() decimal.Decimal {
	return i.PriceAtSale.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
