package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FrequencyHourly  = "hourly"
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// DCAOrder is a recurring instruction to convert a fixed amount from one
// token to another at a fixed cadence. Once cancelled (is_active=false) an
// order is terminal and never picked up by the scheduler again.
type DCAOrder struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	TokenFrom     string          `gorm:"size:32;not null" json:"token_from"`
	TokenTo       string          `gorm:"size:32;not null" json:"token_to"`
	Amount        decimal.Decimal `gorm:"type:numeric(36,18);not null" json:"amount"`
	Frequency     string          `gorm:"size:20;not null" json:"frequency"`
	NextExecution time.Time       `gorm:"not null;index" json:"next_execution"`
	IsActive      bool            `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (DCAOrder) TableName() string {
	return "dca_orders"
}

// NextExecutionFrom returns the follow-up execution time one frequency unit
// after the given instant. The interval is measured from the actual run time,
// not from the previous schedule, so cadence drifts forward after delays
// instead of producing execution storms.
func NextExecutionFrom(now time.Time, frequency string) time.Time {
	switch frequency {
	case FrequencyHourly:
		return now.Add(time.Hour)
	case FrequencyDaily:
		return now.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return now.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return now.AddDate(0, 1, 0)
	default:
		// unknown frequencies fall back to daily so a bad row cannot
		// wedge itself into a tight retry loop
		return now.AddDate(0, 0, 1)
	}
}

// ValidFrequency reports whether the given cadence is one the scheduler understands.
func ValidFrequency(frequency string) bool {
	switch frequency {
	case FrequencyHourly, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}
