package telemetry

import (
	"math"

	"github.com/westphae/gowind/wind"
)

// MinFlyingSpeed is the speed above which the aircraft is taken to be flying, m/s.
const MinFlyingSpeed = 10

// Info is the aggregated view of all input sources.
type Info struct {
	Time float64 // s, monotonic

	GroundAvailable Validity
	GroundSpeed     float64 // m/s
	Track           float64 // °, true
	TurnRate        float64 // °/s, derived from successive tracks

	TASAvailable Validity
	TAS          float64 // m/s
	IASAvailable Validity
	IAS          float64 // m/s
	QAvailable   Validity
	Q            float64 // Pa

	GLoadAvailable Validity
	GLoad          float64
}

// Apply complements i with the valid fields of f, received at time now.
func (i *Info) Apply(f Fix, now float64) {
	i.Time = now
	if f.GroundValid {
		i.updateTurnRate(f.Track, now)
		i.GroundAvailable.Update(now)
		i.GroundSpeed, i.Track = f.GroundSpeed, f.Track
	}
	if f.TASValid {
		i.TASAvailable.Update(now)
		i.TAS = f.TAS
	}
	if f.IASValid {
		i.IASAvailable.Update(now)
		i.IAS = f.IAS
	}
	if f.QValid {
		i.QAvailable.Update(now)
		i.Q = f.Q
	}
	if f.GLoadValid {
		i.GLoadAvailable.Update(now)
		i.GLoad = f.GLoad
	}
}

func (i *Info) updateTurnRate(track, now float64) {
	dt := now - i.GroundAvailable.Time()
	if !i.GroundAvailable.Available() || dt <= 0 {
		i.TurnRate = 0
		return
	}
	d := math.Mod(track-i.Track+540, 360) - 180
	i.TurnRate = d / dt
}

// Expire drops values that are too old at i.Time.
func (i *Info) Expire() {
	i.GroundAvailable.Expire(i.Time, GroundExpiry)
	i.TASAvailable.Expire(i.Time, AirspeedExpiry)
	i.IASAvailable.Expire(i.Time, AirspeedExpiry)
	i.QAvailable.Expire(i.Time, AirspeedExpiry)
	i.GLoadAvailable.Expire(i.Time, GLoadExpiry)
	if !i.GroundAvailable.Available() {
		i.TurnRate = 0
	}
}

// Flying guesses whether the aircraft is airborne from whichever speed is available.
func (i *Info) Flying() bool {
	switch {
	case i.TASAvailable.Available():
		return i.TAS > MinFlyingSpeed
	case i.IASAvailable.Available():
		return i.IAS > MinFlyingSpeed
	case i.GroundAvailable.Available():
		return i.GroundSpeed > MinFlyingSpeed
	}
	return false
}

// Measurement returns the wind estimator input for the current state of i.
func (i *Info) Measurement() *wind.Measurement {
	m := &wind.Measurement{T: i.Time}
	if i.GroundAvailable.Available() {
		s, c := math.Sincos(i.Track * wind.Deg)
		m.WValid, m.W1, m.W2 = true, i.GroundSpeed*s, i.GroundSpeed*c
	}
	m.UValid, m.U = i.TASAvailable.Available(), i.TAS
	m.IValid, m.I = i.IASAvailable.Available(), i.IAS
	m.QValid, m.Q = i.QAvailable.Available(), i.Q
	m.AValid, m.A = i.GLoadAvailable.Available(), i.GLoad
	return m
}

func (i *Info) Derived() *wind.Derived {
	return &wind.Derived{Flying: i.Flying(), TurnRate: i.TurnRate}
}
