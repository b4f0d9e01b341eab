package wind

import (
	"fmt"
	"math"
)

// windEKF is the filter core.
// State: X[0], X[1] wind east and north, m/s; X[2] scale relating dynamic pressure
// to true airspeed squared, q = X[2]*|gps_vel - wind|².
// Control input: GPS ground velocity east and north, m/s.
// Measurement: dynamic pressure, Pa.
type windEKF struct {
	F, G Mat3    // linearized system matrices
	H    Vec3    // linearized measurement matrix (one row)
	P    Mat3    // covariance of state uncertainty
	X    Vec3    // state
	Q    Vec3    // process noise variances per s
	R    float64 // measurement noise variance
	K    Vec3    // feedback gain

	u   [2]float64 // latest control input
	cfg Config
}

func newWindEKF(cfg Config) (k *windEKF) {
	k = &windEKF{cfg: cfg}
	k.init()
	return
}

// init discards everything learned and restores the prior.
func (k *windEKF) init() {
	k.X = Vec3{0, 0, DynamicPressure(Rho0, 1)}
	k.P = Diagonal3(Vec3{k.cfg.P0Wind, k.cfg.P0Wind, k.cfg.P0Scale})
	k.Q = Vec3{k.cfg.QWind, k.cfg.QWind, k.cfg.QScale}
	k.R = k.cfg.R

	k.F = Mat3{}
	k.G = Identity3()
	k.H = Vec3{}
	k.K = Vec3{}
	k.u = [2]float64{}
}

// state returns a copy of the state vector.
func (k *windEKF) state() Vec3 {
	return k.X
}

// windSigma returns the larger standard deviation of the two wind components, m/s.
func (k *windEKF) windSigma() float64 {
	return math.Sqrt(math.Max(k.P[0][0], k.P[1][1]))
}

func validStep(dt float64) bool {
	return dt > 0 && dt <= maxPredictionStep // false for NaN
}

func finite(v ...float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// statePrediction propagates X forward by dt under control input gpsVel.
func (k *windEKF) statePrediction(gpsVel [2]float64, dt float64) error {
	if !validStep(dt) {
		return fmt.Errorf("%w: time step %v s", ErrInvalidInput, dt)
	}
	if !finite(gpsVel[0], gpsVel[1]) {
		return fmt.Errorf("%w: gps velocity %v", ErrInvalidInput, gpsVel)
	}
	k.u = gpsVel
	k.rungeKutta(gpsVel, dt)
	return nil
}

// covariancePrediction propagates P forward by dt: P = Φ·P·Φᵗ + G·Q·Gᵗ·dt, Φ = I + F·dt.
// Must follow statePrediction with the same dt.
func (k *windEKF) covariancePrediction(dt float64) error {
	if !validStep(dt) {
		return fmt.Errorf("%w: time step %v s", ErrInvalidInput, dt)
	}
	k.linearizeFG(k.u)

	phi := Identity3().Add(k.F.Scale(dt))
	gqg := k.G.Mul(Diagonal3(k.Q)).Mul(k.G.Transpose()).Scale(dt)
	k.P = phi.Mul(k.P).Mul(phi.Transpose()).Add(gqg).Symmetrize()
	return k.checkCovariance()
}

// correction applies the dynamic pressure measurement z taken at ground velocity gpsVel.
func (k *windEKF) correction(z float64, gpsVel [2]float64) error {
	if !finite(z) || z < 0 {
		return fmt.Errorf("%w: dynamic pressure %v Pa", ErrInvalidInput, z)
	}
	if !finite(gpsVel[0], gpsVel[1]) {
		return fmt.Errorf("%w: gps velocity %v", ErrInvalidInput, gpsVel)
	}
	k.u = gpsVel
	k.linearizeH(gpsVel)
	return k.serialUpdate(z, k.measurementEq(gpsVel))
}

// serialUpdate performs the scalar Kalman update for measurement z with prediction y.
func (k *windEKF) serialUpdate(z, y float64) error {
	ph := k.P.MulVec(k.H)
	s := k.H.Dot(ph) + k.R
	if !(s > Small) {
		return fmt.Errorf("%w: H·P·Hᵗ+R = %v", ErrNumericalSingularity, s)
	}

	k.K = ph.Scale(1 / s)
	k.X = k.X.Add(k.K.Scale(z - y))
	hp := k.P.Transpose().MulVec(k.H)
	k.P = k.P.Sub(Outer(k.K, hp)).Symmetrize()
	return k.checkCovariance()
}

// checkCovariance restarts the filter if P has lost positivity.
// P is positive semidefinite when all its principal minors are non-negative; minors are
// compared relative to the product of the diagonal entries they span.
func (k *windEKF) checkCovariance() error {
	p := k.P
	for i := 0; i < 3; i++ {
		if d := p[i][i]; !finite(d) || d < 0 {
			k.init()
			return fmt.Errorf("%w: P[%d][%d] = %v", ErrDiverged, i, i, d)
		}
	}
	for _, ij := range [][2]int{{0, 1}, {0, 2}, {1, 2}} {
		i, j := ij[0], ij[1]
		if m := p[i][i]*p[j][j] - p[i][j]*p[j][i]; m < -Small*p[i][i]*p[j][j] {
			k.init()
			return fmt.Errorf("%w: minor (%d, %d) = %v", ErrDiverged, i, j, m)
		}
	}
	if d := p.Det(); !finite(d) || d < -Small*p[0][0]*p[1][1]*p[2][2] {
		k.init()
		return fmt.Errorf("%w: det P = %v", ErrDiverged, d)
	}
	return nil
}

func (k *windEKF) rungeKutta(u [2]float64, dt float64) {
	k1 := k.stateEq(u, k.X)
	k2 := k.stateEq(u, k.X.Add(k1.Scale(dt/2)))
	k3 := k.stateEq(u, k.X.Add(k2.Scale(dt/2)))
	k4 := k.stateEq(u, k.X.Add(k3.Scale(dt)))
	k.X = k.X.Add(k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4).Scale(dt / 6))
}

// stateEq returns the time derivative of state x.
// Wind and scale are random walks, so the deterministic part is zero.
func (k *windEKF) stateEq(u [2]float64, x Vec3) (xdot Vec3) {
	return
}

func (k *windEKF) linearizeFG(u [2]float64) {
	k.F = Mat3{}
	k.G = Identity3()
}

// measurementEq predicts the dynamic pressure for ground velocity gpsVel.
func (k *windEKF) measurementEq(gpsVel [2]float64) float64 {
	vx := gpsVel[0] - k.X[0]
	vy := gpsVel[1] - k.X[1]
	return k.X[2] * (vx*vx + vy*vy)
}

func (k *windEKF) linearizeH(gpsVel [2]float64) {
	vx := gpsVel[0] - k.X[0]
	vy := gpsVel[1] - k.X[1]
	k.H = Vec3{-2 * vx * k.X[2], -2 * vy * k.X[2], vx*vx + vy*vy}
}
