package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gateway represents one external liquidity source whose pairs are
// synchronized. An admin-disabled gateway causes the whole reconciliation
// pass for it to be skipped.
type Gateway struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:128;not null" json:"name"`
	Slug          string          `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	FeePercentage decimal.Decimal `gorm:"type:numeric(8,5);not null;default:0" json:"fee_percentage"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	AdminDisabled bool            `gorm:"not null;default:false" json:"admin_disabled"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Gateway) TableName() string {
	return "gateways"
}
