package sim

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/westphae/gowind/nmea"
	"github.com/westphae/gowind/telemetry"
	"github.com/westphae/gowind/wind"
)

var tolerance = map[string]float64{"thermal": 1, "shear": 2, "altitude": 1}

func noise(seed int64) *Noise {
	return &Noise{GPS: 0.3, ASI: 0.5, Rand: rand.New(rand.NewSource(seed))}
}

func TestScenarios(t *testing.T) {
	for name, sit := range Scenarios {
		for seed := int64(1); seed <= 5; seed++ {
			var last Step
			err := Run(sit, wind.NewEstimator(wind.DefaultConfig()), 1, noise(seed), func(st *Step) { last = *st })
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if !last.XValid {
				t.Fatalf("%s: no actual state", name)
			}

			e, n := last.R.Wind.Components()
			if d := math.Hypot(e-last.X.V1, n-last.X.V2); d > tolerance[name] {
				t.Errorf("%s seed %d: wind was off by %.2f m/s at the end", name, seed, d)
			}
			if last.R.Quality != wind.MaxQuality {
				t.Errorf("%s seed %d: final quality was %d", name, seed, last.R.Quality)
			}
		}
	}
}

func TestInterpolate(t *testing.T) {
	var x Truth
	if err := sitThermalDef.Interpolate(90, &x); err != nil {
		t.Fatal(err)
	}
	if math.Abs(x.TurnRate/wind.Deg-9) > 1e-9 || math.Abs(x.Heading-3*pi) > 1e-9 {
		t.Errorf("turn rate %v°/s, heading %v rad", x.TurnRate/wind.Deg, x.Heading)
	}
	if x.GLoad <= 1 || x.GLoad > 1.2 {
		t.Errorf("G load in a 9°/s turn was %v", x.GLoad)
	}
	if math.Abs(x.GroundE-(-5.196)) > 1e-9 || math.Abs(x.GroundN-(-25-3)) > 1e-9 {
		t.Errorf("ground velocity heading south was (%v, %v)", x.GroundE, x.GroundN)
	}

	if err := sitThermalDef.Interpolate(-1, &x); err == nil {
		t.Error("interpolated before the scenario")
	}
	var m wind.Measurement
	if err := sitThermalDef.Measurement(1000, &m, &Noise{}); err == nil {
		t.Error("measured after the scenario")
	}
}

func TestMeasurementInop(t *testing.T) {
	var m wind.Measurement
	if err := sitAltitudeDef.Measurement(10, &m, &Noise{GPSInop: true}); err != nil {
		t.Fatal(err)
	}
	if m.WValid || !m.QValid || !m.UValid || !m.IValid {
		t.Errorf("GPS inop gave %+v", m)
	}
	if math.Abs(m.Q-wind.DynamicPressure(0.9, 30)) > 1e-9 || m.I >= m.U {
		t.Errorf("dynamic pressure %v, IAS %v, TAS %v in thin air", m.Q, m.I, m.U)
	}

	if err := sitAltitudeDef.Measurement(10, &m, &Noise{ASIInop: true}); err != nil {
		t.Fatal(err)
	}
	if !m.WValid || m.QValid || m.UValid || m.IValid {
		t.Errorf("ASI inop gave %+v", m)
	}
}

// Sentences rendered from a scenario, decoded and aggregated, must give the same wind
// as feeding the measurements directly.
func TestSentencesThroughTelemetry(t *testing.T) {
	d := nmea.NewDecoder()
	a := telemetry.NewAggregator(wind.DefaultConfig())
	var now float64
	a.Clock = func() float64 { return now }

	var last Step
	var snap telemetry.Snapshot
	err := Run(sitThermalDef, wind.NewEstimator(wind.DefaultConfig()), 1, noise(1), func(st *Step) {
		last = *st
		now = st.M.T
		lines := Sentences(&st.M)
		// Air data first: the GPS report triggers the estimate.
		for i := len(lines) - 1; i >= 0; i-- {
			f, err := d.Decode(lines[i])
			if err != nil {
				t.Fatalf("%s: %v", lines[i], err)
			}
			if s, ok := a.Feed(f); ok {
				snap = s
			}
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(snap.Speed-last.R.Wind.Norm) > 0.3 || math.Abs(math.Mod(snap.Bearing-last.R.Wind.Bearing+540, 360)-180) > 5 {
		t.Errorf("via NMEA %.2f m/s from %.0f°, direct %.2f m/s from %.0f°",
			snap.Speed, snap.Bearing, last.R.Wind.Norm, last.R.Wind.Bearing)
	}
	if snap.Quality != wind.MaxQuality {
		t.Errorf("quality via NMEA was %d", snap.Quality)
	}
}

func TestLogReplay(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "T", "W1", "W2", "Q", "V1", "V2")
	err := Run(sitThermalDef, wind.NewEstimator(wind.DefaultConfig()), 1, noise(2), func(st *Step) {
		l.Log(st.M.T, st.M.W1, st.M.W2, st.M.Q, st.X.V1, st.X.V2)
	})
	if err != nil {
		t.Fatal(err)
	}

	sit, err := ReadSituation(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if sit.BeginTime() != 0 || sit.EndTime() != 180 {
		t.Errorf("replay runs from %v to %v", sit.BeginTime(), sit.EndTime())
	}

	var last Step
	if err := Run(sit, wind.NewEstimator(wind.DefaultConfig()), 1, &Noise{}, func(st *Step) { last = *st }); err != nil {
		t.Fatal(err)
	}
	if !last.XValid {
		t.Fatal("replay lost the actual wind")
	}
	if last.M.UValid || last.M.IValid || !last.M.QValid || last.M.AValid {
		t.Errorf("replayed measurement was %+v", last.M)
	}
	e, n := last.R.Wind.Components()
	if d := math.Hypot(e-last.X.V1, n-last.X.V2); d > 1 {
		t.Errorf("replayed wind was off by %.2f m/s", d)
	}
}

func TestReadSituationSkipsBadRows(t *testing.T) {
	sit, err := ReadSituation(bytes.NewBufferString("T,W1,W2\n0,1,2\nx,1,2\n0,5,5\n1,3,4\n"))
	if err != nil {
		t.Fatal(err)
	}
	var m wind.Measurement
	if err := sit.Measurement(0.5, &m, &Noise{}); err != nil {
		t.Fatal(err)
	}
	if !m.WValid || m.W1 != 2 || m.W2 != 3 || m.QValid {
		t.Errorf("measurement was %+v", m)
	}
	var x Truth
	if sit.Interpolate(0.5, &x) == nil {
		t.Error("actual wind without V1, V2 columns")
	}

	if _, err := ReadSituation(bytes.NewBufferString("T,W1\n0,1\n")); err == nil {
		t.Error("single record accepted")
	}
}
