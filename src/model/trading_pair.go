package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradingPair is one directed pair row scoped to a gateway. The feed reports
// undirected pairs, so reconciliation materializes two rows per feed pair
// (A→B and B→A with swapped reserves) and price lookups by direction never
// need a runtime inversion.
//
// The composite unique index is the natural key the upsert resolves against.
type TradingPair struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	TokenFromID    uint            `gorm:"not null;uniqueIndex:idx_pair_direction_gateway" json:"token_from_id"`
	TokenToID      uint            `gorm:"not null;uniqueIndex:idx_pair_direction_gateway" json:"token_to_id"`
	GatewayID      uint            `gorm:"not null;uniqueIndex:idx_pair_direction_gateway" json:"gateway_id"`
	Reserve0       decimal.Decimal `gorm:"type:numeric(40,0);not null;default:0" json:"reserve0"`
	Reserve1       decimal.Decimal `gorm:"type:numeric(40,0);not null;default:0" json:"reserve1"`
	ExternalPairID string          `gorm:"size:128" json:"external_pair_id"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	AdminDisabled  bool            `gorm:"not null;default:false" json:"admin_disabled"`
	LastSyncAt     *time.Time      `json:"last_sync_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	TokenFrom *Token   `gorm:"foreignKey:TokenFromID" json:"token_from,omitempty"`
	TokenTo   *Token   `gorm:"foreignKey:TokenToID" json:"token_to,omitempty"`
	Gateway   *Gateway `gorm:"foreignKey:GatewayID" json:"gateway,omitempty"`
}

func (TradingPair) TableName() string {
	return "trading_pairs"
}
