package model

import "time"

// Token is one tradable asset known to the catalog.
//
// AdminDisabled is a manual override: while it is set, automated
// reconciliation must not change IsActive (or any other column) on this row.
// Only operator action may clear the flag.
type Token struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Symbol        string    `gorm:"size:32;not null;uniqueIndex" json:"symbol"`
	ExternalID    string    `gorm:"size:128;not null;uniqueIndex" json:"external_id"`
	Decimals      int       `gorm:"not null;default:0" json:"decimals"`
	LogoURI       string    `gorm:"size:512" json:"logo_uri"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	AdminDisabled bool      `gorm:"not null;default:false" json:"admin_disabled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Token) TableName() string {
	return "tokens"
}
