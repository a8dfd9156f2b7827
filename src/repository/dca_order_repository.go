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

// DCAOrderRepository handles recurring order persistence.
type DCAOrderRepository struct {
	db *gorm.DB
}

// NewDCAOrderRepository creates a new repository instance using the main read/write database.
func NewDCAOrderRepository() *DCAOrderRepository {
	return &DCAOrderRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *DCAOrderRepository) WithDB(db *gorm.DB) *DCAOrderRepository {
	return &DCAOrderRepository{db: db}
}

// Create inserts a new order. The order is created active with its first
// execution time already computed by the caller.
func (r *DCAOrderRepository) Create(ctx context.Context, order *model.DCAOrder) error {
	logger.WithFields(map[string]interface{}{
		"repo":       "DCAOrderRepository",
		"op":         "Create",
		"user_id":    order.UserID,
		"token_from": order.TokenFrom,
		"token_to":   order.TokenTo,
		"frequency":  order.Frequency,
	}).Debug("Creating DCA order")

	err := r.db.WithContext(ctx).Create(order).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "DCAOrderRepository",
			"op":   "Create",
		}).WithError(err).Error("Failed to create DCA order")
		return err
	}

	return nil
}

// FindByID fetches a single order by its primary ID.
// Returns (nil, nil) if the order is not found.
func (r *DCAOrderRepository) FindByID(ctx context.Context, id uint) (*model.DCAOrder, error) {
	var order model.DCAOrder

	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithFields(map[string]interface{}{
			"repo": "DCAOrderRepository",
			"op":   "FindByID",
			"id":   id,
		}).WithError(err).Error("Failed to fetch DCA order")
		return nil, err
	}

	return &order, nil
}

// FindDue returns up to limit active orders whose next execution is at or
// before now, oldest-due first so a backlog is drained fairly.
func (r *DCAOrderRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]model.DCAOrder, error) {
	if limit <= 0 {
		limit = 10
	}

	var orders []model.DCAOrder

	err := r.db.WithContext(ctx).
		Where("is_active = ? AND next_execution <= ?", true, now).
		Order("next_execution ASC").
		Limit(limit).
		Find(&orders).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":  "DCAOrderRepository",
			"op":    "FindDue",
			"limit": limit,
		}).WithError(err).Error("Failed to fetch due orders")
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"repo":        "DCAOrderRepository",
		"op":          "FindDue",
		"rows_return": len(orders),
	}).Debug("Due orders fetched")

	return orders, nil
}

// UpdateNextExecution advances the order's scheduled time after an attempt.
func (r *DCAOrderRepository) UpdateNextExecution(ctx context.Context, id uint, next time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&model.DCAOrder{}).
		Where("id = ?", id).
		Update("next_execution", next).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "DCAOrderRepository",
			"op":   "UpdateNextExecution",
			"id":   id,
		}).WithError(err).Error("Failed to update next execution")
		return err
	}

	return nil
}

// Cancel deactivates the order (terminal, never reactivated) and appends the
// cancelled transaction record in the same database transaction. The fee and
// refund figures are computed by the caller; fee policy does not live here.
func (r *DCAOrderRepository) Cancel(
	ctx context.Context,
	order *model.DCAOrder,
	fee decimal.Decimal,
	refund decimal.Decimal,
) error {

	logger.WithFields(map[string]interface{}{
		"repo":     "DCAOrderRepository",
		"op":       "Cancel",
		"order_id": order.ID,
		"fee":      fee.String(),
		"refund":   refund.String(),
	}).Info("Cancelling DCA order")

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&model.DCAOrder{}).
			Where("id = ?", order.ID).
			Update("is_active", false).Error; err != nil {
			logger.WithError(err).Error("Failed to deactivate order inside transaction")
			return err
		}

		message := "cancelled by user; fee=" + fee.String() + " refund=" + refund.String()
		record := &model.Transaction{
			OrderID:      &order.ID,
			UserID:       order.UserID,
			Amount:       refund,
			TokenFrom:    order.TokenFrom,
			TokenTo:      order.TokenTo,
			Status:       model.TxStatusCancelled,
			ErrorMessage: &message,
			ExecutedAt:   time.Now(),
		}

		if err := tx.Create(record).Error; err != nil {
			logger.WithError(err).Error("Failed to create cancellation record")
			return err
		}

		return nil
	})
}
