package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"dcaexecutor/src/database"
	"dcaexecutor/src/model"
)

// TransactionRepository handles the append-only execution audit trail.
// There are deliberately no update or delete operations here.
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new repository instance using the main read/write database.
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *TransactionRepository) WithDB(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends one execution record.
func (r *TransactionRepository) Create(ctx context.Context, record *model.Transaction) error {
	logger.WithFields(map[string]interface{}{
		"repo":     "TransactionRepository",
		"op":       "Create",
		"order_id": record.OrderID,
		"status":   record.Status,
	}).Debug("Appending transaction record")

	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "TransactionRepository",
			"op":       "Create",
			"order_id": record.OrderID,
		}).WithError(err).Error("Failed to append transaction record")
		return err
	}

	return nil
}

// FindByOrderID returns the full execution history of one order, oldest first.
func (r *TransactionRepository) FindByOrderID(ctx context.Context, orderID uint) ([]model.Transaction, error) {
	var records []model.Transaction

	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&records).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "TransactionRepository",
			"op":       "FindByOrderID",
			"order_id": orderID,
		}).WithError(err).Error("Failed to fetch transaction history")
		return nil, err
	}

	return records, nil
}

// FindLatestByUserID returns the newest records for a user.
func (r *TransactionRepository) FindLatestByUserID(ctx context.Context, userID uint, limit int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}

	var records []model.Transaction

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "TransactionRepository",
			"op":      "FindLatestByUserID",
			"user_id": userID,
		}).WithError(err).Error("Failed to fetch latest transactions")
		return nil, err
	}

	return records, nil
}
