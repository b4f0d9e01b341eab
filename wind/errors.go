package wind

import "errors"

// Conditions recovered inside the Estimator. None of them reach the caller of Update;
// the latest one is available from Estimator.Err.
var (
	ErrInvalidInput         = errors.New("wind: invalid input")
	ErrNumericalSingularity = errors.New("wind: innovation covariance is singular")
	ErrSensorUnavailable    = errors.New("wind: required sensor data unavailable")
	ErrStaleSession         = errors.New("wind: gap since last sample too large, filter restarted")
	ErrDiverged             = errors.New("wind: covariance lost positivity, filter restarted")
)
