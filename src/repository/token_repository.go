package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"dcaexecutor/src/database"
	"dcaexecutor/src/model"
)

// TokenUpsert carries the feed-derived fields for one token.
type TokenUpsert struct {
	Symbol     string
	ExternalID string
	Decimals   int
	LogoURI    string
}

// TokenRepository handles catalog token persistence.
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new repository instance using the main read/write database.
func NewTokenRepository() *TokenRepository {
	return &TokenRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *TokenRepository) WithDB(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Upsert inserts or refreshes a token looked up by its external contract id.
//
// Rows with admin_disabled=true are untouchable: no column is written and the
// call reports skipped=true. A live row gets its display fields refreshed and
// is_active forced back to true; a missing row is inserted active.
func (r *TokenRepository) Upsert(ctx context.Context, data TokenUpsert) (*model.Token, bool, error) {
	var existing model.Token

	err := r.db.WithContext(ctx).
		Where("external_id = ?", data.ExternalID).
		First(&existing).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.WithFields(map[string]interface{}{
			"repo":        "TokenRepository",
			"op":          "Upsert",
			"external_id": data.ExternalID,
		}).WithError(err).Error("Failed to look up token")
		return nil, false, err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		token := model.Token{
			Symbol:     data.Symbol,
			ExternalID: data.ExternalID,
			Decimals:   data.Decimals,
			LogoURI:    data.LogoURI,
			IsActive:   true,
		}
		if err := r.db.WithContext(ctx).Create(&token).Error; err != nil {
			logger.WithFields(map[string]interface{}{
				"repo":   "TokenRepository",
				"op":     "Upsert",
				"symbol": data.Symbol,
			}).WithError(err).Error("Failed to insert token")
			return nil, false, err
		}
		return &token, false, nil
	}

	if existing.AdminDisabled {
		logger.WithFields(map[string]interface{}{
			"repo":   "TokenRepository",
			"op":     "Upsert",
			"symbol": existing.Symbol,
		}).Info("Token is admin-disabled, leaving row untouched")
		return &existing, true, nil
	}

	updates := map[string]interface{}{
		"logo_uri":  data.LogoURI,
		"decimals":  data.Decimals,
		"is_active": true,
	}
	if err := r.db.WithContext(ctx).
		Model(&existing).
		Updates(updates).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":   "TokenRepository",
			"op":     "Upsert",
			"symbol": existing.Symbol,
		}).WithError(err).Error("Failed to update token")
		return nil, false, err
	}

	existing.LogoURI = data.LogoURI
	existing.Decimals = data.Decimals
	existing.IsActive = true

	return &existing, false, nil
}

// FindBySymbol fetches a token by its canonical symbol.
// Returns (nil, nil) if not found.
func (r *TokenRepository) FindBySymbol(ctx context.Context, symbol string) (*model.Token, error) {
	var token model.Token

	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		First(&token).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithFields(map[string]interface{}{
			"repo":   "TokenRepository",
			"op":     "FindBySymbol",
			"symbol": symbol,
		}).WithError(err).Error("Failed to fetch token by symbol")
		return nil, err
	}

	return &token, nil
}

// FindByExternalID fetches a token by its external contract id.
// Returns (nil, nil) if not found.
func (r *TokenRepository) FindByExternalID(ctx context.Context, externalID string) (*model.Token, error) {
	var token model.Token

	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&token).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithFields(map[string]interface{}{
			"repo":        "TokenRepository",
			"op":          "FindByExternalID",
			"external_id": externalID,
		}).WithError(err).Error("Failed to fetch token by external id")
		return nil, err
	}

	return &token, nil
}

// SetAdminDisabled flips the manual override flag on a token. Operator action only.
func (r *TokenRepository) SetAdminDisabled(ctx context.Context, id uint, disabled bool) error {
	logger.WithFields(map[string]interface{}{
		"repo":     "TokenRepository",
		"op":       "SetAdminDisabled",
		"id":       id,
		"disabled": disabled,
	}).Info("Updating token admin override")

	return r.db.WithContext(ctx).
		Model(&model.Token{}).
		Where("id = ?", id).
		Update("admin_disabled", disabled).Error
}
