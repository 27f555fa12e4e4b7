package exchange

import (
	"io"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/aitopia-kr/aitopia/internal/domain"
)

// ParseSince parses a user supplied lower bound such as "2024-05-01",
// "2024/05/01 10:00" or a unix timestamp. Blank input means no bound.
func ParseSince(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := dateparse.ParseLocal(raw)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid since %q", raw)
	}
	return t, nil
}

// WriteCSV writes orders with a header row.
func WriteCSV(w io.Writer, orders []domain.ExchangeOrder) error {
	if orders == nil {
		orders = []domain.ExchangeOrder{}
	}
	if err := gocsv.Marshal(&orders, w); err != nil {
		return errors.Wrap(err, "write exchange csv")
	}
	return nil
}
