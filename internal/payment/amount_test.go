package payment

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/aitopia-kr/aitopia/internal/catalog"
	"github.com/aitopia-kr/aitopia/internal/domain"
)

type lookupFunc func(ctx context.Context, key string) (domain.ServiceRecord, error)

func (f lookupFunc) Lookup(ctx context.Context, key string) (domain.ServiceRecord, error) {
	return f(ctx, key)
}

func failingLookup() CatalogLookup {
	return lookupFunc(func(context.Context, string) (domain.ServiceRecord, error) {
		return domain.ServiceRecord{}, errors.New("datastore down")
	})
}

func TestResolveAmount_Order(t *testing.T) {
	ctx := context.Background()
	fallbackOnly := catalog.NewResolver(nil)

	got := ResolveAmount(ctx, fallbackOnly, "nft-creator", 1000)
	assert.Equal(t, Amount{1000, domain.AmountSourceRequest}, got)

	got = ResolveAmount(ctx, fallbackOnly, "nft-creator", 0)
	assert.Equal(t, Amount{159000, domain.AmountSourceCatalog}, got)

	got = ResolveAmount(ctx, failingLookup(), "nft-creator", 0)
	assert.Equal(t, Amount{159000, domain.AmountSourceDefaultTable}, got)

	got = ResolveAmount(ctx, nil, "music", -5)
	assert.Equal(t, Amount{39000, domain.AmountSourceDefaultTable}, got)

	got = ResolveAmount(ctx, fallbackOnly, "unknown-key", 0)
	assert.Equal(t, Amount{50000, domain.AmountSourceGlobalDefault}, got)
}

func TestResolveAmount_ZeroCatalogPriceFallsThrough(t *testing.T) {
	lookup := lookupFunc(func(_ context.Context, key string) (domain.ServiceRecord, error) {
		return domain.ServiceRecord{Key: key, CostKrw: 0}, nil
	})
	got := ResolveAmount(context.Background(), lookup, "app-dev", 0)
	assert.Equal(t, Amount{129000, domain.AmountSourceDefaultTable}, got)
}

func TestResolveAmount_LiveCatalogPrice(t *testing.T) {
	lookup := lookupFunc(func(_ context.Context, key string) (domain.ServiceRecord, error) {
		return domain.ServiceRecord{Key: key, CostKrw: 77000}, nil
	})
	got := ResolveAmount(context.Background(), lookup, "nft-creator", 0)
	assert.Equal(t, Amount{77000, domain.AmountSourceCatalog}, got)
}
