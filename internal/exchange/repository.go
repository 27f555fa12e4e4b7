package exchange

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/aitopia-kr/aitopia/internal/domain"
)

// OrderRepository persists exchange orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.ExchangeOrder) error

	// ListByUser returns the user's orders created at or after since, newest first.
	// A zero since returns all orders.
	ListByUser(ctx context.Context, email string, since time.Time, limit int) ([]domain.ExchangeOrder, error)

	// CompleteBefore marks processing orders created before the given time as completed.
	CompleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// GormOrderRepository is the GORM implementation of OrderRepository
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *domain.ExchangeOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) ListByUser(ctx context.Context, email string, since time.Time, limit int) ([]domain.ExchangeOrder, error) {
	var orders []domain.ExchangeOrder
	query := r.db.WithContext(ctx).Where("user_email = ?", email)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Order("created_at DESC").Order("id DESC").Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) CompleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.ExchangeOrder{}).
		Where("status = ? AND created_at < ?", domain.ExchangeStatusProcessing, before).
		Updates(map[string]interface{}{
			"status":     domain.ExchangeStatusCompleted,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
