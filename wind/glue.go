package wind

import (
	"errors"
	"fmt"
	"log"
	"math"
)

// Estimator drives the wind filter from a stream of measurements and reports
// wind estimates with a quality tier.
// An Estimator is not safe for concurrent use.
type Estimator struct {
	cfg          Config
	ekf          *windEKF
	timeBlackout float64 // -Inf until the filter has been seeded
	lastT        float64
	last         Result
	err          error
}

// NewEstimator returns an Estimator in the cold state.
// cfg should pass Config.Validate; gaps longer than the filter core can predict across
// restart the filter whatever MaxGap says.
func NewEstimator(cfg Config) (e *Estimator) {
	e = &Estimator{cfg: cfg, ekf: newWindEKF(cfg)}
	e.Reset()
	return
}

// Reset forces the next Update to restart the filter from scratch.
func (e *Estimator) Reset() {
	e.timeBlackout = math.Inf(-1)
}

// Err returns the condition met by the latest Update, or nil.
func (e *Estimator) Err() error {
	return e.err
}

func (e *Estimator) cold() bool {
	return math.IsInf(e.timeBlackout, -1)
}

func (e *Estimator) inBlackout(t float64) bool {
	return t <= e.timeBlackout || t < e.timeBlackout+e.cfg.BlackoutWindow
}

func (e *Estimator) blackout(t float64) {
	e.timeBlackout = t
}

// Update feeds one measurement to the filter and returns the resulting wind estimate.
// d may be nil when no derived data is available.
func (e *Estimator) Update(m *Measurement, d *Derived) Result {
	z, gpsVel, ok := e.sample(m, d)
	if !ok {
		e.err = ErrSensorUnavailable
		return Result{}
	}

	if e.cold() {
		e.err = nil
		e.seed(m.T, z, gpsVel)
		return e.result(m.T)
	}

	dt := m.T - e.lastT
	if !(dt > 0) {
		e.err = fmt.Errorf("%w: time step %v s", ErrInvalidInput, dt)
		if e.last.Quality > 0 {
			e.last.Quality--
		}
		return e.last
	}
	if dt > math.Min(e.cfg.MaxGap, maxPredictionStep) {
		e.err = fmt.Errorf("%w: %.1f s", ErrStaleSession, dt)
		e.seed(m.T, z, gpsVel)
		return e.result(m.T)
	}

	e.err = nil
	e.lastT = m.T
	if err := e.timeUpdate(gpsVel, dt); err != nil {
		e.fail(m.T, err)
		return e.result(m.T)
	}

	// Temporary manoeuvring: don't use this point
	if e.manoeuvring(m, d) {
		e.blackout(m.T)
		return e.result(m.T)
	}

	if err := e.ekf.correction(z, gpsVel); err != nil {
		e.fail(m.T, err)
	}
	return e.result(m.T)
}

// sample extracts the dynamic pressure and ground velocity from m, if available.
func (e *Estimator) sample(m *Measurement, d *Derived) (z float64, gpsVel [2]float64, ok bool) {
	if m == nil || !m.WValid || !finite(m.T) || (d != nil && !d.Flying) {
		return
	}
	switch {
	case m.QValid:
		z = m.Q
	case m.IValid:
		z = DynamicPressure(Rho0, m.I)
	case m.UValid:
		z = DynamicPressure(Rho0, m.U)
	default:
		return
	}
	return z, [2]float64{m.W1, m.W2}, true
}

func (e *Estimator) manoeuvring(m *Measurement, d *Derived) bool {
	if d != nil && math.Abs(d.TurnRate) > e.cfg.MaxTurnRate {
		return true
	}
	return m.AValid && math.Abs(m.A-1) > e.cfg.MaxGLoadDeviation
}

// seed restarts the filter at time t and starts a blackout.
func (e *Estimator) seed(t, z float64, gpsVel [2]float64) {
	e.ekf.init()
	e.blackout(t)
	e.lastT = t
	if err := e.ekf.correction(z, gpsVel); err != nil {
		e.fail(t, err)
	}
}

func (e *Estimator) timeUpdate(gpsVel [2]float64, dt float64) error {
	if err := e.ekf.statePrediction(gpsVel, dt); err != nil {
		return err
	}
	return e.ekf.covariancePrediction(dt)
}

func (e *Estimator) fail(t float64, err error) {
	e.err = err
	if errors.Is(err, ErrDiverged) {
		e.blackout(t)
	}
	if !errors.Is(err, ErrInvalidInput) {
		log.Printf("Wind: %v\n", err)
	}
}

func (e *Estimator) result(t float64) Result {
	x := e.ekf.state()
	e.last = Result{Wind: NewSpeedVector(x[0], x[1]), Quality: e.quality(t)}
	return e.last
}

// quality rises one tier per QualityStep after the blackout window, limited by
// how well the filter knows the wind.
func (e *Estimator) quality(t float64) int {
	if e.inBlackout(t) {
		return 0
	}

	q := MaxQuality
	if e.cfg.QualityStep > 0 {
		q = 1 + int((t-e.timeBlackout-e.cfg.BlackoutWindow)/e.cfg.QualityStep)
	}

	c := 1
	switch sigma := e.ekf.windSigma(); {
	case sigma < 1:
		c = 3
	case sigma < 2:
		c = 2
	}

	return min(q, c, MaxQuality)
}
