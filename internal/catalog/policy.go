package catalog

import (
	"sort"

	"github.com/aitopia-kr/aitopia/internal/domain"
)

// Apply keeps active records with a unique, non-empty key and orders them:
// new records first, then ascending order. Equal records keep input order.
func Apply(records []domain.ServiceRecord) []domain.ServiceRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]domain.ServiceRecord, 0, len(records))
	for _, r := range records {
		// a keyless record cannot be priced or paid for
		if !r.IsActive || r.Key == "" {
			continue
		}
		if _, dup := seen[r.Key]; dup {
			continue
		}
		seen[r.Key] = struct{}{}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsNew != out[j].IsNew {
			return out[i].IsNew
		}
		return out[i].Order < out[j].Order
	})
	return out
}
