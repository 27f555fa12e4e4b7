package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallback_AlreadyFinal(t *testing.T) {
	fb := Fallback()
	assert.Len(t, fb, 6)
	assert.Equal(t, "nft-creator", fb[0].Key)
	assert.True(t, fb[0].IsNew)
	assert.Equal(t, keys(fb), keys(Apply(fb)), "fallback satisfies the catalog policy as-is")

	seen := map[string]bool{}
	for _, s := range fb {
		assert.True(t, s.IsActive)
		assert.False(t, seen[s.Key], "duplicate key %s", s.Key)
		seen[s.Key] = true
		price, ok := TablePrice(s.Key)
		assert.True(t, ok)
		assert.Equal(t, price, s.CostKrw)
	}
}

func TestFallback_ReturnsCopies(t *testing.T) {
	a := Fallback()
	a[0].Name = "mutated"
	a[0].Requirements[0] = "mutated"

	b := Fallback()
	assert.NotEqual(t, "mutated", b[0].Name)
	assert.NotEqual(t, "mutated", b[0].Requirements[0])
}
