package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"dcaexecutor/src/database"
	"dcaexecutor/src/model"
)

// PairUpsert carries the feed-derived fields for one directed pair row.
type PairUpsert struct {
	TokenFromID    uint
	TokenToID      uint
	GatewayID      uint
	Reserve0       decimal.Decimal
	Reserve1       decimal.Decimal
	ExternalPairID string
}

// TradingPairRepository handles directed trading pair persistence.
type TradingPairRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTradingPairRepository creates a new repository instance using the main read/write database.
func NewTradingPairRepository() *TradingPairRepository {
	return &TradingPairRepository{db: database.MainDB, now: time.Now}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *TradingPairRepository) WithDB(db *gorm.DB) *TradingPairRepository {
	return &TradingPairRepository{db: db, now: r.nowFunc()}
}

func (r *TradingPairRepository) nowFunc() func() time.Time {
	if r.now == nil {
		return time.Now
	}
	return r.now
}

// Upsert inserts or refreshes one directed pair row resolved through the
// natural key (token_from_id, token_to_id, gateway_id).
//
// An admin-disabled row only gets its reserves, external id and sync
// timestamp refreshed; is_active stays whatever the operator left it at, and
// the call reports skipped=true. Any other row is upserted with
// is_active forced to true.
func (r *TradingPairRepository) Upsert(ctx context.Context, data PairUpsert) (*model.TradingPair, bool, error) {
	var existing model.TradingPair
	syncedAt := r.nowFunc()()

	err := r.db.WithContext(ctx).
		Where("token_from_id = ? AND token_to_id = ? AND gateway_id = ?",
			data.TokenFromID, data.TokenToID, data.GatewayID).
		First(&existing).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.WithFields(map[string]interface{}{
			"repo":    "TradingPairRepository",
			"op":      "Upsert",
			"from":    data.TokenFromID,
			"to":      data.TokenToID,
			"gateway": data.GatewayID,
		}).WithError(err).Error("Failed to look up trading pair")
		return nil, false, err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		pair := model.TradingPair{
			TokenFromID:    data.TokenFromID,
			TokenToID:      data.TokenToID,
			GatewayID:      data.GatewayID,
			Reserve0:       data.Reserve0,
			Reserve1:       data.Reserve1,
			ExternalPairID: data.ExternalPairID,
			IsActive:       true,
			LastSyncAt:     &syncedAt,
		}
		if err := r.db.WithContext(ctx).Create(&pair).Error; err != nil {
			logger.WithFields(map[string]interface{}{
				"repo":    "TradingPairRepository",
				"op":      "Upsert",
				"from":    data.TokenFromID,
				"to":      data.TokenToID,
				"gateway": data.GatewayID,
			}).WithError(err).Error("Failed to insert trading pair")
			return nil, false, err
		}
		return &pair, false, nil
	}

	updates := map[string]interface{}{
		"reserve0":         data.Reserve0,
		"reserve1":         data.Reserve1,
		"external_pair_id": data.ExternalPairID,
		"last_sync_at":     syncedAt,
	}
	skipped := existing.AdminDisabled
	if !skipped {
		updates["is_active"] = true
	}

	if err := r.db.WithContext(ctx).
		Model(&existing).
		Updates(updates).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "TradingPairRepository",
			"op":   "Upsert",
			"id":   existing.ID,
		}).WithError(err).Error("Failed to update trading pair")
		return nil, false, err
	}

	existing.Reserve0 = data.Reserve0
	existing.Reserve1 = data.Reserve1
	existing.ExternalPairID = data.ExternalPairID
	existing.LastSyncAt = &syncedAt
	if !skipped {
		existing.IsActive = true
	}

	return &existing, skipped, nil
}

// DeactivateStale flips is_active to false for every pair of the gateway that
// was not touched by the current pass. Rows under the admin_disabled override
// are never modified by this call.
func (r *TradingPairRepository) DeactivateStale(
	ctx context.Context,
	gatewayID uint,
	keepIDs []uint,
) (int64, []uint, error) {

	query := r.db.WithContext(ctx).
		Model(&model.TradingPair{}).
		Where("gateway_id = ? AND admin_disabled = ? AND is_active = ?", gatewayID, false, true)

	if len(keepIDs) > 0 {
		query = query.Where("id NOT IN ?", keepIDs)
	}

	var staleIDs []uint
	if err := query.Pluck("id", &staleIDs).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "TradingPairRepository",
			"op":      "DeactivateStale",
			"gateway": gatewayID,
		}).WithError(err).Error("Failed to collect stale pair ids")
		return 0, nil, err
	}

	if len(staleIDs) == 0 {
		return 0, nil, nil
	}

	result := r.db.WithContext(ctx).
		Model(&model.TradingPair{}).
		Where("id IN ?", staleIDs).
		Update("is_active", false)

	if result.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "TradingPairRepository",
			"op":      "DeactivateStale",
			"gateway": gatewayID,
		}).WithError(result.Error).Error("Failed to deactivate stale pairs")
		return 0, nil, result.Error
	}

	logger.WithFields(map[string]interface{}{
		"repo":    "TradingPairRepository",
		"op":      "DeactivateStale",
		"gateway": gatewayID,
		"count":   result.RowsAffected,
	}).Info("Stale trading pairs deactivated")

	return result.RowsAffected, staleIDs, nil
}

// CountActive returns the number of currently active pairs for a gateway.
func (r *TradingPairRepository) CountActive(ctx context.Context, gatewayID uint) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.TradingPair{}).
		Where("gateway_id = ? AND is_active = ?", gatewayID, true).
		Count(&count).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "TradingPairRepository",
			"op":      "CountActive",
			"gateway": gatewayID,
		}).WithError(err).Error("Failed to count active pairs")
		return 0, err
	}

	return count, nil
}

// SetAdminDisabled flips the manual override flag on a pair. Operator action only.
func (r *TradingPairRepository) SetAdminDisabled(ctx context.Context, id uint, disabled bool) error {
	logger.WithFields(map[string]interface{}{
		"repo":     "TradingPairRepository",
		"op":       "SetAdminDisabled",
		"id":       id,
		"disabled": disabled,
	}).Info("Updating trading pair admin override")

	return r.db.WithContext(ctx).
		Model(&model.TradingPair{}).
		Where("id = ?", id).
		Update("admin_disabled", disabled).Error
}
