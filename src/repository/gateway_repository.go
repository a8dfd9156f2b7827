package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"dcaexecutor/src/database"
	"dcaexecutor/src/model"
)

// GatewayRepository implements gateway persistence using GORM.
type GatewayRepository struct {
	db *gorm.DB
}

// NewGatewayRepository creates a new repository instance using the main read/write database.
func NewGatewayRepository() *GatewayRepository {
	return &GatewayRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *GatewayRepository) WithDB(db *gorm.DB) *GatewayRepository {
	return &GatewayRepository{db: db}
}

// Create inserts a new gateway into the database.
func (r *GatewayRepository) Create(ctx context.Context, gateway *model.Gateway) error {
	logger.WithFields(map[string]interface{}{
		"repo": "GatewayRepository",
		"op":   "Create",
		"slug": gateway.Slug,
	}).Debug("Creating gateway")

	err := r.db.WithContext(ctx).Create(gateway).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "GatewayRepository",
			"op":   "Create",
			"slug": gateway.Slug,
		}).WithError(err).Error("Failed to create gateway")
		return err
	}

	return nil
}

// FindBySlug fetches a gateway by its unique slug.
// Returns (nil, nil) if not found.
func (r *GatewayRepository) FindBySlug(ctx context.Context, slug string) (*model.Gateway, error) {
	var gateway model.Gateway

	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&gateway).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(map[string]interface{}{
				"repo": "GatewayRepository",
				"op":   "FindBySlug",
				"slug": slug,
			}).Info("Gateway not found by slug")
			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo": "GatewayRepository",
			"op":   "FindBySlug",
			"slug": slug,
		}).WithError(err).Error("Failed to fetch gateway by slug")
		return nil, err
	}

	return &gateway, nil
}

// SetAdminDisabled flips the manual override flag on a gateway. This is an
// operator action; automated processes never call it.
func (r *GatewayRepository) SetAdminDisabled(ctx context.Context, id uint, disabled bool) error {
	logger.WithFields(map[string]interface{}{
		"repo":     "GatewayRepository",
		"op":       "SetAdminDisabled",
		"id":       id,
		"disabled": disabled,
	}).Info("Updating gateway admin override")

	return r.db.WithContext(ctx).
		Model(&model.Gateway{}).
		Where("id = ?", id).
		Update("admin_disabled", disabled).Error
}
