package migrations

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"dcaexecutor/src/model"
)

// seedDefaultGateway creates the configured gateway row if it does not exist
// yet. A missing gateway row is a fatal configuration error for every
// reconciliation pass, so the seed keeps a fresh deployment runnable.
func seedDefaultGateway(db *gorm.DB) error {
	config := GetConfig()

	var existing model.Gateway
	err := db.Where("slug = ?", config.GatewaySlug).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup gateway %q: %w", config.GatewaySlug, err)
	}

	fee, err := decimal.NewFromString(config.GatewayFee)
	if err != nil {
		return fmt.Errorf("invalid GATEWAY_FEE_PERCENT %q: %w", config.GatewayFee, err)
	}

	gateway := model.Gateway{
		Name:          config.GatewayName,
		Slug:          config.GatewaySlug,
		FeePercentage: fee,
		IsActive:      true,
	}

	return db.Create(&gateway).Error
}
