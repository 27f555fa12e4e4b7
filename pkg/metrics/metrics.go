// Package metrics keeps gauge samples in an embedded time series database.
package metrics

import (
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Host and process gauges sampled by the monitor jobs.
const (
	SystemCPU  = "system_cpuuse"
	SystemMem  = "system_memuse"
	ProcessCPU = "aitopia_cpuuse"
	ProcessMem = "aitopia_memuse"
)

// Gauges lists the monitor gauge names.
var Gauges = []string{SystemCPU, SystemMem, ProcessCPU, ProcessMem}

// Point is one stored sample.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Store wraps a tstorage instance. A nil or closed *Store accepts writes and
// returns no data. mu guards db against Close.
type Store struct {
	mu sync.Mutex
	db tstorage.Storage
}

// Open opens a store persisted under dir. An empty dir keeps samples in memory only.
func Open(dir string, retention time.Duration) (*Store, error) {
	opts := []tstorage.Option{
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(time.Hour),
	}
	if dir != "" {
		opts = append(opts, tstorage.WithDataPath(dir))
	}
	if retention > 0 {
		opts = append(opts, tstorage.WithRetention(retention))
	}
	db, err := tstorage.NewStorage(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "open time series storage")
	}
	return &Store{db: db}, nil
}

// SetGauge records value for name at the current time.
func (s *Store) SetGauge(name string, value float64) {
	s.SetGaugeAt(name, value, time.Now())
}

func (s *Store) SetGaugeAt(name string, value float64, at time.Time) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return
	}
	err := s.db.InsertRows([]tstorage.Row{{
		Metric:    name,
		DataPoint: tstorage.DataPoint{Timestamp: at.Unix(), Value: value},
	}})
	if err != nil {
		zap.L().Warn("metrics insert failed", zap.String("metric", name), zap.Error(err))
	}
}

// Query returns the samples of name in [from, to], oldest first.
func (s *Store) Query(name string, from, to time.Time) ([]Point, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, nil
	}
	pts, err := s.db.Select(name, nil, from.Unix(), to.Unix()+1)
	if errors.Is(err, tstorage.ErrNoDataPoints) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select %s", name)
	}
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		out = append(out, Point{Time: time.Unix(p.Timestamp, 0), Value: p.Value})
	}
	return out, nil
}

// Close flushes buffered samples to disk.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
