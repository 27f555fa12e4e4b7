package exchange

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/aitopia-kr/aitopia/pkg/metrics"
)

// RateMetric is the series name of USDT/KRW samples.
const RateMetric = "usdt_krw_rate"

// Rate is a quoted KRW price for one USDT.
type Rate struct {
	Rate      float64   `json:"rate"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RateSummary describes a window of rate samples.
type RateSummary struct {
	Samples int     `json:"samples"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
}

// Ticker simulates a USDT/KRW rate that wanders around a fixed base.
type Ticker struct {
	mu          sync.RWMutex
	base        float64
	fluctuation float64
	current     Rate
	random      func() float64
	history     *metrics.Store
}

// NewTicker starts at the base rate. Every Tick draws a new rate uniformly
// from base ± fluctuation/2, rounded to a whole won. history may be nil.
func NewTicker(base, fluctuation float64, history *metrics.Store) *Ticker {
	return &Ticker{
		base:        base,
		fluctuation: fluctuation,
		current:     Rate{Rate: base, UpdatedAt: time.Now()},
		random:      rand.Float64,
		history:     history,
	}
}

// Tick moves the rate and records the sample.
func (t *Ticker) Tick() Rate {
	t.mu.Lock()
	r := Rate{
		Rate:      math.Round(t.base + (t.random()-0.5)*t.fluctuation),
		UpdatedAt: time.Now(),
	}
	t.current = r
	t.mu.Unlock()

	t.history.SetGaugeAt(RateMetric, r.Rate, r.UpdatedAt)
	return r
}

func (t *Ticker) Current() Rate {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// History returns recorded samples since the given time with their summary.
func (t *Ticker) History(since, until time.Time) ([]metrics.Point, RateSummary, error) {
	pts, err := t.history.Query(RateMetric, since, until)
	if err != nil {
		return nil, RateSummary{}, err
	}
	if len(pts) == 0 {
		return []metrics.Point{}, RateSummary{}, nil
	}
	sum, err := Summarize(pts)
	return pts, sum, err
}

// Summarize computes min, max, mean and median over the sample values.
func Summarize(pts []metrics.Point) (RateSummary, error) {
	if len(pts) == 0 {
		return RateSummary{}, nil
	}
	data := make(stats.Float64Data, 0, len(pts))
	for _, p := range pts {
		data = append(data, p.Value)
	}
	var (
		s   = RateSummary{Samples: len(data)}
		err error
	)
	if s.Min, err = data.Min(); err != nil {
		return RateSummary{}, errors.Wrap(err, "rate min")
	}
	if s.Max, err = data.Max(); err != nil {
		return RateSummary{}, errors.Wrap(err, "rate max")
	}
	if s.Mean, err = data.Mean(); err != nil {
		return RateSummary{}, errors.Wrap(err, "rate mean")
	}
	if s.Median, err = data.Median(); err != nil {
		return RateSummary{}, errors.Wrap(err, "rate median")
	}
	s.Mean = math.Round(s.Mean*100) / 100
	return s, nil
}
