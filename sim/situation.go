// Package sim synthesizes and replays flights for exercising the wind estimator.
package sim

import (
	"math/rand"

	"github.com/westphae/gowind/wind"
)

const G = 9.80665 // m/s²

// Situation is a flight that can be sampled at any time between BeginTime and EndTime.
type Situation interface {
	BeginTime() float64
	EndTime() float64
	// Interpolate returns the actual state, which the estimator doesn't know.
	Interpolate(t float64, x *Truth) error
	Measurement(t float64, m *wind.Measurement, n *Noise) error
	Derived(t float64, d *wind.Derived) error
}

// Truth is the actual state of the aircraft and air mass.
type Truth struct {
	T        float64
	TAS      float64 // m/s
	Heading  float64 // rad, N->E->S->W
	TurnRate float64 // rad/s
	V1, V2   float64 // air mass velocity east and north, m/s
	Rho      float64 // air density, kg/m³
	GLoad    float64
	Dynamic  float64 // dynamic pressure, Pa
	GroundE  float64 // ground velocity east, m/s
	GroundN  float64 // ground velocity north, m/s
}

// Noise describes how measurements are corrupted.
// The zero Noise gives perfect readings from every sensor.
type Noise struct {
	GPS     float64 // stdev per ground velocity component, m/s
	ASI     float64 // stdev of airspeed, m/s
	ASIBias float64 // m/s
	GPSInop bool
	ASIInop bool
	Rand    *rand.Rand // nil uses the global source
}

func (n *Noise) norm(sd float64) float64 {
	if sd == 0 {
		return 0
	}
	if n.Rand == nil {
		return sd * rand.NormFloat64()
	}
	return sd * n.Rand.NormFloat64()
}
