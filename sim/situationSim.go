package sim

import (
	"errors"
	"math"
	"sort"

	"github.com/westphae/gowind/wind"
)

const pi = math.Pi

var errOutside = errors.New("sim: requested time is outside of scenario")

// SituationSim defines a scenario by piecewise-linear interpolation
type SituationSim struct {
	t      []float64 // times for situation, s
	u      []float64 // true airspeed, m/s
	psi    []float64 // heading, rad [N->E->S->W]
	v1, v2 []float64 // windspeed, m/s, earth frame [E/W, N/S], direction the air moves
	rho    []float64 // air density, kg/m³
}

func (s *SituationSim) BeginTime() float64 {
	return s.t[0]
}

func (s *SituationSim) EndTime() float64 {
	return s.t[len(s.t)-1]
}

// segment returns the index of the segment holding t and the weight of its start point.
func (s *SituationSim) segment(t float64) (ix int, f float64, err error) {
	if t < s.t[0] || t > s.t[len(s.t)-1] {
		return 0, 0, errOutside
	}
	if t > s.t[0] {
		ix = sort.SearchFloat64s(s.t, t) - 1
	}
	f = (s.t[ix+1] - t) / (s.t[ix+1] - s.t[ix])
	return
}

// Interpolate the actual situation at a given time
func (s *SituationSim) Interpolate(t float64, x *Truth) error {
	ix, f, err := s.segment(t)
	if err != nil {
		return err
	}
	lerp := func(a []float64) float64 { return f*a[ix] + (1-f)*a[ix+1] }

	x.T = t
	x.TAS = lerp(s.u)
	x.Heading = lerp(s.psi)
	x.TurnRate = (s.psi[ix+1] - s.psi[ix]) / (s.t[ix+1] - s.t[ix])
	x.V1 = lerp(s.v1)
	x.V2 = lerp(s.v2)
	x.Rho = lerp(s.rho)
	x.GLoad = 1 / math.Cos(math.Atan(x.TAS*x.TurnRate/G)) // coordinated level turn
	x.Dynamic = wind.DynamicPressure(x.Rho, x.TAS)
	x.GroundE = x.TAS*math.Sin(x.Heading) + x.V1
	x.GroundN = x.TAS*math.Cos(x.Heading) + x.V2
	return nil
}

// Measurement synthesizes the sensor readings at a given time.
// The airspeed sensor reports dynamic pressure and the matching IAS and TAS.
func (s *SituationSim) Measurement(t float64, m *wind.Measurement, n *Noise) error {
	var x Truth
	if err := s.Interpolate(t, &x); err != nil {
		return err
	}
	*m = wind.Measurement{T: t, AValid: true, A: x.GLoad}

	if !n.GPSInop {
		m.WValid = true
		m.W1 = x.GroundE + n.norm(n.GPS)
		m.W2 = x.GroundN + n.norm(n.GPS)
	}
	if !n.ASIInop {
		u := x.TAS + n.ASIBias + n.norm(n.ASI)
		m.QValid, m.Q = true, wind.DynamicPressure(x.Rho, u)
		m.UValid, m.U = true, u
		m.IValid, m.I = true, math.Sqrt(2*m.Q/wind.Rho0)
	}
	return nil
}

func (s *SituationSim) Derived(t float64, d *wind.Derived) error {
	var x Truth
	if err := s.Interpolate(t, &x); err != nil {
		return err
	}
	d.Flying = x.TAS > 10
	d.TurnRate = x.TurnRate / wind.Deg
	return nil
}

// Scenarios holds the built-in situations by name.
var Scenarios = map[string]*SituationSim{
	"thermal":  sitThermalDef,
	"shear":    sitShearDef,
	"altitude": sitAltitudeDef,
}

// Glide in, circle three times in a thermal, glide out
var sitThermalDef = &SituationSim{
	t:   []float64{0, 30, 150, 180},
	u:   []float64{30, 25, 25, 30},
	psi: []float64{0, 0, 6 * pi, 6 * pi},
	v1:  []float64{-5.196, -5.196, -5.196, -5.196},
	v2:  []float64{-3, -3, -3, -3},
	rho: []float64{wind.Rho0, wind.Rho0, wind.Rho0, wind.Rho0},
}

// Keep circling while the wind veers and strengthens
var sitShearDef = &SituationSim{
	t:   []float64{0, 60, 300},
	u:   []float64{25, 25, 25},
	psi: []float64{0, 4 * pi, 20 * pi},
	v1:  []float64{2, 2, -4},
	v2:  []float64{-4, -4, -6},
	rho: []float64{wind.Rho0, wind.Rho0, wind.Rho0},
}

// Circle high up where the air is thin
var sitAltitudeDef = &SituationSim{
	t:   []float64{0, 120},
	u:   []float64{30, 30},
	psi: []float64{0, 6 * pi},
	v1:  []float64{6, 6},
	v2:  []float64{8, 8},
	rho: []float64{0.9, 0.9},
}
