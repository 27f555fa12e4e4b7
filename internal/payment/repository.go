package payment

import (
	"context"

	"gorm.io/gorm"

	"github.com/aitopia-kr/aitopia/internal/domain"
)

// Repository persists the payment ledger.
type Repository interface {
	Create(ctx context.Context, rec *domain.PaymentRecord) error
	// ListByUser returns the user's records, newest first. limit <= 0 means all.
	ListByUser(ctx context.Context, email string, limit int) ([]domain.PaymentRecord, error)
}

// GormRepository is the GORM implementation of Repository
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, rec *domain.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *GormRepository) ListByUser(ctx context.Context, email string, limit int) ([]domain.PaymentRecord, error) {
	var recs []domain.PaymentRecord
	query := r.db.WithContext(ctx).Where("user_email = ?", email).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&recs).Error
	return recs, err
}
