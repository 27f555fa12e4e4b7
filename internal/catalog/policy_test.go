package catalog

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aitopia-kr/aitopia/internal/domain"
)

func rec(key string, isNew, active bool, order int) domain.ServiceRecord {
	return domain.ServiceRecord{Key: key, IsNew: isNew, IsActive: active, Order: order}
}

func keys(records []domain.ServiceRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Key
	}
	return out
}

func TestApply_NewFirstThenOrder(t *testing.T) {
	out := Apply([]domain.ServiceRecord{
		rec("c", false, true, 3),
		rec("a", false, true, 1),
		rec("n2", true, true, 5),
		rec("n1", true, true, 1),
		rec("z", false, true, DefaultOrder),
	})
	assert.Equal(t, []string{"n1", "n2", "a", "c", "z"}, keys(out))
}

func TestApply_DropsInactive(t *testing.T) {
	out := Apply([]domain.ServiceRecord{
		rec("a", false, false, 1),
		rec("b", true, false, 1),
		rec("c", false, true, 2),
	})
	assert.Equal(t, []string{"c"}, keys(out))
}

func TestApply_StableOnTies(t *testing.T) {
	out := Apply([]domain.ServiceRecord{
		rec("x", false, true, 10),
		rec("y", false, true, 10),
		rec("w", false, true, 10),
	})
	assert.Equal(t, []string{"x", "y", "w"}, keys(out))
}

func TestApply_UniqueKeys(t *testing.T) {
	out := Apply([]domain.ServiceRecord{
		rec("dup", false, true, 2),
		rec("dup", true, true, 1),
		rec("", false, true, 1),
		rec("other", false, true, 3),
	})
	assert.Equal(t, []string{"dup", "other"}, keys(out))
	assert.False(t, out[0].IsNew, "first occurrence wins")
}

func TestApply_RandomInput(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		var in []domain.ServiceRecord
		for i := 0; i < 30; i++ {
			in = append(in, rec(fmt.Sprintf("k%d", i), r.Intn(2) == 0, r.Intn(4) != 0, r.Intn(5)))
		}
		out := Apply(in)

		seenOld := false
		for i, s := range out {
			assert.True(t, s.IsActive)
			if !s.IsNew {
				seenOld = true
			} else {
				assert.False(t, seenOld, "new record after old record")
			}
			if i > 0 && out[i-1].IsNew == s.IsNew {
				assert.LessOrEqual(t, out[i-1].Order, s.Order)
			}
		}
	}
}

func TestApply_DropsKeylessRecords(t *testing.T) {
	out := Apply([]domain.ServiceRecord{
		rec("", true, true, 0),
		rec("kept", false, true, 1),
		rec("", false, true, 2),
	})
	assert.Equal(t, []string{"kept"}, keys(out))
}
