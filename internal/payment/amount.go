package payment

import (
	"context"

	"go.uber.org/zap"

	"github.com/aitopia-kr/aitopia/internal/catalog"
	"github.com/aitopia-kr/aitopia/internal/domain"
)

// CatalogLookup finds a service record by key.
type CatalogLookup interface {
	Lookup(ctx context.Context, key string) (domain.ServiceRecord, error)
}

// Amount is a resolved charge and where it came from.
type Amount struct {
	Value  int64
	Source string
}

// ResolveAmount picks the charge for serviceKey: a positive requested amount,
// then the catalog price, then the compiled-in price list, then DefaultPrice.
// A catalog lookup error is logged and skipped.
func ResolveAmount(ctx context.Context, lookup CatalogLookup, serviceKey string, requested int64) Amount {
	if requested > 0 {
		return Amount{Value: requested, Source: domain.AmountSourceRequest}
	}
	if lookup != nil {
		svc, err := lookup.Lookup(ctx, serviceKey)
		if err != nil {
			zap.L().Info("catalog price lookup failed, using defaults",
				zap.String("service_key", serviceKey), zap.Error(err))
		} else if svc.CostKrw > 0 {
			return Amount{Value: svc.CostKrw, Source: domain.AmountSourceCatalog}
		}
	}
	if p, ok := catalog.TablePrice(serviceKey); ok {
		return Amount{Value: p, Source: domain.AmountSourceDefaultTable}
	}
	return Amount{Value: catalog.DefaultPrice, Source: domain.AmountSourceGlobalDefault}
}
