package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents an item in the catalog
type Product struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string          `gorm:"type:varchar(200);not null" json:"name"`
	Category          string          `gorm:"type:varchar(100)" json:"category"`
	SKU               string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	BuyPrice          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"buy_price"`
	SellPrice         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sell_price"`
	Stock             int             `gorm:"type:int;default:0;not null" json:"stock"`
	LowStockThreshold int             `gorm:"type:int;default:10;not null" json:"low_stock_threshold"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsLowStock is derived from the current stock level, never stored
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}
