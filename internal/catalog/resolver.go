package catalog

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aitopia-kr/aitopia/internal/domain"
)

// ErrServiceNotFound is returned by Lookup when no active record has the key.
var ErrServiceNotFound = errors.New("service not found")

// Catalog is the resolved list of services handed to clients.
type Catalog struct {
	Services []domain.ServiceRecord
	Fallback bool
}

// Resolver produces the current catalog. A nil source means the datastore is
// not configured; Resolve then serves the fallback list without any I/O.
type Resolver struct {
	source Source
}

func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve never fails: any retrieval or normalization error yields the fallback catalog.
func (r *Resolver) Resolve(ctx context.Context) Catalog {
	if r.source == nil {
		zap.L().Debug("catalog datastore not configured, serving fallback")
		return fallbackCatalog()
	}

	services, err := r.fetch(ctx)
	if err != nil {
		zap.L().Warn("catalog retrieval failed, serving fallback", zap.Error(err))
		return fallbackCatalog()
	}
	zap.L().Debug("catalog retrieved",
		zap.Int("active", len(services)),
		zap.Int("new", countNew(services)))
	return Catalog{Services: services}
}

func (r *Resolver) fetch(ctx context.Context) ([]domain.ServiceRecord, error) {
	rows, err := r.source.Fetch(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetch catalog rows")
	}
	records, err := Normalize(rows)
	if err != nil {
		return nil, errors.Wrap(err, "normalize catalog rows")
	}
	return Apply(records), nil
}

// Lookup finds a service in the resolved catalog (live or fallback).
func (r *Resolver) Lookup(ctx context.Context, key string) (domain.ServiceRecord, error) {
	for _, s := range r.Resolve(ctx).Services {
		if s.Key == key {
			return s, nil
		}
	}
	return domain.ServiceRecord{}, ErrServiceNotFound
}

func fallbackCatalog() Catalog {
	return Catalog{Services: Fallback(), Fallback: true}
}

func countNew(services []domain.ServiceRecord) int {
	n := 0
	for _, s := range services {
		if s.IsNew {
			n++
		}
	}
	return n
}
