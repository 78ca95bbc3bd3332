package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense represents a standalone cost entry; it has no relation to other entities
type Expense struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Category  string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Date      time.Time       `gorm:"type:date;not null;index" json:"date"`
	Note      string          `gorm:"type:text" json:"note"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
