package events

import (
	"context"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aitopia-kr/aitopia/internal/domain"
)

// AuditRetention is how long audit rows are kept.
const AuditRetention = 365 * 24 * time.Hour

// AuditRepository stores audit rows.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
	ListByActor(ctx context.Context, actor string, limit int) ([]domain.AuditLog, error)
}

type GormAuditRepository struct {
	db *gorm.DB
}

func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

func (r *GormAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *GormAuditRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("opt_time < ?", before).Delete(&domain.AuditLog{})
	return result.RowsAffected, result.Error
}

func (r *GormAuditRepository) ListByActor(ctx context.Context, actor string, limit int) ([]domain.AuditLog, error) {
	var logs []domain.AuditLog
	query := r.db.WithContext(ctx).Where("actor = ?", actor).Order("opt_time DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&logs).Error
	return logs, err
}

// Recorder writes every published event as an audit row on a worker pool.
type Recorder struct {
	repo AuditRepository
	pool *ants.Pool
	wg   sync.WaitGroup
}

// NewRecorder creates a recorder with at most size concurrent writes.
// Events arriving while every worker is busy are dropped, never waited on.
func NewRecorder(repo AuditRepository, size int) (*Recorder, error) {
	if size <= 0 {
		size = 8
	}
	pool, err := ants.NewPool(size,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p interface{}) {
			zap.S().Errorf("audit writer panic: %v", p)
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create audit pool")
	}
	return &Recorder{repo: repo, pool: pool}, nil
}

// Attach subscribes the recorder to every application topic.
func (r *Recorder) Attach(bus *Bus) error {
	for _, topic := range Topics {
		if err := bus.Subscribe(topic, r.Record); err != nil {
			return err
		}
	}
	return nil
}

// Record queues ev for writing and returns immediately.
func (r *Recorder) Record(ev Event) {
	r.wg.Add(1)
	err := r.pool.Submit(func() {
		defer r.wg.Done()
		r.write(ev)
	})
	if err != nil {
		r.wg.Done()
		zap.L().Warn("audit event dropped", zap.String("topic", ev.Topic), zap.Error(err))
	}
}

func (r *Recorder) write(ev Event) {
	detail := ""
	if len(ev.Detail) > 0 {
		raw, err := jsoniter.MarshalToString(ev.Detail)
		if err != nil {
			zap.L().Warn("audit detail encode failed", zap.String("topic", ev.Topic), zap.Error(err))
		} else {
			detail = raw
		}
	}
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.repo.Create(ctx, &domain.AuditLog{
		Actor:   ev.Actor,
		Action:  ev.Topic,
		Detail:  detail,
		OptTime: at,
	}); err != nil {
		zap.L().Error("audit write failed", zap.String("topic", ev.Topic), zap.Error(err))
	}
}

// Wait blocks until queued writes finish.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

// Purge removes audit rows older than AuditRetention.
func (r *Recorder) Purge(ctx context.Context) (int64, error) {
	n, err := r.repo.DeleteBefore(ctx, time.Now().Add(-AuditRetention))
	if err != nil {
		return 0, errors.Wrap(err, "purge audit log")
	}
	return n, nil
}

// Release drains pending writes and stops the pool.
func (r *Recorder) Release() {
	r.wg.Wait()
	r.pool.Release()
}
