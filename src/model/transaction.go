package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
	TxStatusCancelled = "cancelled"
)

// Transaction is the append-only execution record. Every scheduling attempt,
// success or failure, produces exactly one row; rows are never updated or
// deleted, so the table reconstructs order history deterministically.
type Transaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OrderID      *uint           `gorm:"index" json:"order_id,omitempty"`
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	TxHash       *string         `gorm:"size:128" json:"tx_hash,omitempty"`
	Amount       decimal.Decimal `gorm:"type:numeric(36,18);not null" json:"amount"`
	TokenFrom    string          `gorm:"size:32;not null" json:"token_from"`
	TokenTo      string          `gorm:"size:32;not null" json:"token_to"`
	Status       string          `gorm:"size:20;not null;default:pending" json:"status"`
	GasUsed      *int64          `json:"gas_used,omitempty"`
	ErrorMessage *string         `gorm:"size:1024" json:"error_message,omitempty"`
	ExecutedAt   time.Time       `gorm:"not null" json:"executed_at"`
	CreatedAt    time.Time       `json:"created_at"`

	Order *DCAOrder `gorm:"constraint:OnDelete:SET NULL" json:"order,omitempty"`
}

func (Transaction) TableName() string {
	return "transactions"
}
