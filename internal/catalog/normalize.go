package catalog

import (
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/aitopia-kr/aitopia/internal/domain"
)

// Field defaults applied when a datastore row leaves a value empty.
const (
	DefaultMaxEarnings = 1000
	DefaultColor       = "bg-blue-500"
	DefaultLightColor  = "bg-blue-100"
	DefaultTextColor   = "text-blue-600"
	DefaultCategory    = "standard"
	DefaultOrder       = 999
)

// rawFields mirrors the datastore columns. Pointer fields distinguish a
// missing value from an explicit one.
type rawFields struct {
	Key             string      `mapstructure:"key"`
	Name            string      `mapstructure:"name"`
	Description     string      `mapstructure:"description"`
	CurrentEarnings *float64    `mapstructure:"currentEarnings"`
	MaxEarnings     *float64    `mapstructure:"maxEarnings"`
	Cost            string      `mapstructure:"cost"`
	CostKrw         *int64      `mapstructure:"costKrw"`
	Color           string      `mapstructure:"color"`
	LightColor      string      `mapstructure:"lightColor"`
	TextColor       string      `mapstructure:"textColor"`
	Requirements    interface{} `mapstructure:"requirements"`
	Features        interface{} `mapstructure:"features"`
	IsNew           *bool       `mapstructure:"isNew"`
	IsActive        *bool       `mapstructure:"isActive"`
	Category        string      `mapstructure:"category"`
	Order           *int        `mapstructure:"order"`
}

// NormalizeRow builds a ServiceRecord from one raw row, applying field defaults.
// Zero numbers count as missing, so an order of 0 becomes DefaultOrder.
func NormalizeRow(row Row) (domain.ServiceRecord, error) {
	var raw rawFields
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &raw,
	})
	if err != nil {
		return domain.ServiceRecord{}, errors.Wrap(err, "build row decoder")
	}
	if err := dec.Decode(row.Fields); err != nil {
		return domain.ServiceRecord{}, errors.Wrapf(err, "decode row %s", row.ID)
	}

	requirements, err := splitLines(raw.Requirements)
	if err != nil {
		return domain.ServiceRecord{}, errors.Wrapf(err, "row %s requirements", row.ID)
	}
	features, err := splitLines(raw.Features)
	if err != nil {
		return domain.ServiceRecord{}, errors.Wrapf(err, "row %s features", row.ID)
	}

	rec := domain.ServiceRecord{
		ID:              row.ID,
		Key:             strings.TrimSpace(raw.Key),
		Name:            raw.Name,
		Description:     raw.Description,
		CurrentEarnings: floatOr(raw.CurrentEarnings, 0),
		MaxEarnings:     floatOr(raw.MaxEarnings, DefaultMaxEarnings),
		Cost:            raw.Cost,
		Color:           stringOr(raw.Color, DefaultColor),
		LightColor:      stringOr(raw.LightColor, DefaultLightColor),
		TextColor:       stringOr(raw.TextColor, DefaultTextColor),
		Requirements:    requirements,
		Features:        features,
		IsNew:           raw.IsNew != nil && *raw.IsNew,
		IsActive:        raw.IsActive == nil || *raw.IsActive,
		Category:        stringOr(raw.Category, DefaultCategory),
		Order:           DefaultOrder,
	}
	if raw.CostKrw != nil && *raw.CostKrw > 0 {
		rec.CostKrw = *raw.CostKrw
	}
	if raw.Order != nil && *raw.Order != 0 {
		rec.Order = *raw.Order
	}
	return rec, nil
}

// Normalize maps every row. A single malformed row fails the whole batch.
func Normalize(rows []Row) ([]domain.ServiceRecord, error) {
	out := make([]domain.ServiceRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := NormalizeRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// splitLines accepts a multi-line text field or a list field and returns the
// trimmed, non-blank entries in input order.
func splitLines(v interface{}) ([]string, error) {
	var lines []string
	switch t := v.(type) {
	case nil:
		return []string{}, nil
	case string:
		lines = strings.Split(t, "\n")
	default:
		items, err := cast.ToStringSliceE(t)
		if err != nil {
			return nil, err
		}
		lines = items
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func floatOr(v *float64, def float64) float64 {
	if v == nil || *v == 0 {
		return def
	}
	return *v
}

func stringOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
