// Package telemetry aggregates decoded instrument data, feeds it to the wind estimator and
// publishes the estimates.
package telemetry

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/westphae/gowind/wind"
)

// Snapshot is the latest wind estimate as published.
type Snapshot struct {
	T       float64 `json:"t"`       // s, monotonic
	Bearing float64 `json:"bearing"` // °, direction the wind blows from
	Speed   float64 `json:"speed"`   // m/s
	Quality int     `json:"quality"`
}

// A Publisher forwards snapshots to an outside consumer.
type Publisher interface {
	Publish(Snapshot) error
}

// Aggregator owns the wind estimator. Fixes are processed one at a time by Feed or Run;
// Snapshot may be called from any goroutine.
type Aggregator struct {
	// Clock returns the monotonic time in seconds. Set it before the first fix.
	Clock func() float64

	est   *wind.Estimator
	info  Info
	pubs  []Publisher
	reset atomic.Bool

	mu   sync.RWMutex
	snap Snapshot
}

func NewAggregator(cfg wind.Config, pubs ...Publisher) *Aggregator {
	start := time.Now()
	return &Aggregator{
		Clock: func() float64 { return time.Since(start).Seconds() },
		est:   wind.NewEstimator(cfg),
		pubs:  pubs,
	}
}

// Reset makes the next ground velocity fix restart the wind filter.
func (a *Aggregator) Reset() {
	a.reset.Store(true)
}

func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap
}

// Feed processes one fix. It returns true when the fix produced a new wind estimate,
// which happens for every ground velocity fix.
func (a *Aggregator) Feed(f Fix) (s Snapshot, ok bool) {
	now := a.Clock()
	a.info.Apply(f, now)
	a.info.Expire()
	if !f.GroundValid {
		return a.Snapshot(), false
	}

	if a.reset.Swap(false) {
		a.est.Reset()
	}
	res := a.est.Update(a.info.Measurement(), a.info.Derived())
	if err := a.est.Err(); err != nil && !errors.Is(err, wind.ErrSensorUnavailable) && !errors.Is(err, wind.ErrInvalidInput) {
		log.Printf("Telemetry: %v\n", err)
	}

	s = Snapshot{T: now, Bearing: res.Wind.Bearing, Speed: res.Wind.Norm, Quality: res.Quality}
	a.mu.Lock()
	a.snap = s
	a.mu.Unlock()

	for _, p := range a.pubs {
		if err := p.Publish(s); err != nil {
			log.Printf("Telemetry: publish error: %v\n", err)
		}
	}
	return s, true
}

// Run feeds fixes from in until in is closed or ctx is done.
func (a *Aggregator) Run(ctx context.Context, in <-chan Fix) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-in:
			if !ok {
				return nil
			}
			a.Feed(f)
		}
	}
}
