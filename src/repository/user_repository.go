package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"dcaexecutor/src/database"
	"dcaexecutor/src/model"
)

// UserRepository handles user persistence.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository instance using the main read/write database.
func NewUserRepository() *UserRepository {
	return &UserRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *UserRepository) WithDB(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindOrCreateByWallet returns the user owning the wallet address, creating
// the row on first interaction. Users are never deleted by this service.
func (r *UserRepository) FindOrCreateByWallet(ctx context.Context, walletAddress string) (*model.User, error) {
	var user model.User

	err := r.db.WithContext(ctx).
		Where("wallet_address = ?", walletAddress).
		First(&user).Error

	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.WithFields(map[string]interface{}{
			"repo":   "UserRepository",
			"op":     "FindOrCreateByWallet",
			"wallet": walletAddress,
		}).WithError(err).Error("Failed to fetch user by wallet")
		return nil, err
	}

	user = model.User{WalletAddress: walletAddress}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":   "UserRepository",
			"op":     "FindOrCreateByWallet",
			"wallet": walletAddress,
		}).WithError(err).Error("Failed to create user")
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"repo":    "UserRepository",
		"op":      "FindOrCreateByWallet",
		"user_id": user.ID,
	}).Info("User created on first interaction")

	return &user, nil
}

// FindByID fetches a user by primary ID. Returns (nil, nil) if not found.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User

	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithFields(map[string]interface{}{
			"repo": "UserRepository",
			"op":   "FindByID",
			"id":   id,
		}).WithError(err).Error("Failed to fetch user by ID")
		return nil, err
	}

	return &user, nil
}
