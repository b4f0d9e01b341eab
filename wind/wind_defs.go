// Package wind implements an extended Kalman filter for estimating the wind vector
// based on GPS ground velocity and airspeed (dynamic pressure) measurements
package wind

import (
	"fmt"
	"math"
)

const (
	Pi         = math.Pi
	Deg        = Pi / 180
	Small      = 1e-9
	Rho0       = 1.225         // Rho0 is the ISA sea-level air density, kg/m³
	Knot       = 1852.0 / 3600 // Knot is one knot in m/s
	MaxQuality = 3             // Top quality tier reported in a Result

	maxPredictionStep = 60.0 // Longest time update the filter core accepts, s
)

// Measurement holds the sensor readings used for updating the wind filter.
// Earth frame: 1 is east; 2 is north.
// Note: any of the airspeed sources may be missing; the best available one is used.
type Measurement struct {
	WValid, UValid, IValid, QValid, AValid bool // Do we have valid GPS velocity, TAS, IAS, dynamic pressure, G load?

	W1, W2 float64 // GPS ground velocity east and north, m/s
	U      float64 // True airspeed, m/s
	I      float64 // Indicated airspeed, m/s
	Q      float64 // Dynamic pressure, Pa
	A      float64 // G load
	T      float64 // Timestamp of the readings, s (monotonic)
}

// Derived holds quantities computed upstream from the raw measurements.
type Derived struct {
	Flying   bool    // Is the aircraft airborne?
	TurnRate float64 // Rate of change of track, °/s
}

// SpeedVector is a 2D vector in polar form.
type SpeedVector struct {
	Bearing float64 // Direction the wind blows from, ° true, [0, 360)
	Norm    float64 // Speed, m/s
}

// NewSpeedVector converts east and north wind components (the direction the air moves to)
// into a SpeedVector giving the direction the wind comes from.
func NewSpeedVector(east, north float64) SpeedVector {
	norm := math.Hypot(east, north)
	if norm == 0 {
		return SpeedVector{}
	}
	bearing := math.Atan2(-east, -north) / Deg
	for bearing < 0 {
		bearing += 360
	}
	for bearing >= 360 {
		bearing -= 360
	}
	return SpeedVector{Bearing: bearing, Norm: norm}
}

// Components returns the east and north components of the air mass motion described by v.
func (v SpeedVector) Components() (east, north float64) {
	return -v.Norm * math.Sin(v.Bearing*Deg), -v.Norm * math.Cos(v.Bearing*Deg)
}

// Result is the wind estimate produced by one Estimator update.
// Quality 0 means the estimate should not be trusted.
type Result struct {
	Wind    SpeedVector
	Quality int
}

// DynamicPressure returns ½ρv² in Pa for density rho (kg/m³) and speed v (m/s).
func DynamicPressure(rho, v float64) float64 {
	return 0.5 * rho * v * v
}

// Config holds the tunables of the wind filter and its gating.
type Config struct {
	P0Wind  float64 `yaml:"p0_wind"`  // Initial wind variance, (m/s)²
	P0Scale float64 `yaml:"p0_scale"` // Initial variance of the pressure/TAS² scale
	QWind   float64 `yaml:"q_wind"`   // Wind process noise, (m/s)² per s
	QScale  float64 `yaml:"q_scale"`  // Scale process noise per s
	R       float64 `yaml:"r"`        // Dynamic pressure measurement variance, Pa²

	MaxGap            float64 `yaml:"max_gap"`             // Gap between samples that restarts the filter, s
	BlackoutWindow    float64 `yaml:"blackout_window"`     // Time after a blackout during which quality is 0, s
	QualityStep       float64 `yaml:"quality_step"`        // Time to climb one quality tier after the blackout window, s
	MaxTurnRate       float64 `yaml:"max_turn_rate"`       // Turn rate above which samples are not used, °/s
	MaxGLoadDeviation float64 `yaml:"max_g_load_deviation"` // |G-1| above which samples are not used
}

// DefaultConfig returns the filter tuning used for typical glider speeds (15-60 m/s).
func DefaultConfig() Config {
	return Config{
		P0Wind:  2 * 2,
		P0Scale: 2e-3,
		QWind:   1e-3,
		QScale:  1e-8,
		R:       20 * 20,

		MaxGap:            10,
		BlackoutWindow:    10,
		QualityStep:       10,
		MaxTurnRate:       20,
		MaxGLoadDeviation: 0.3,
	}
}

// Validate checks that the tunables are usable: variances and gating limits positive,
// a non-empty blackout window and a MaxGap the filter core can predict across.
func (c Config) Validate() error {
	for _, v := range []struct {
		name string
		x    float64
	}{
		{"p0_wind", c.P0Wind}, {"p0_scale", c.P0Scale}, {"r", c.R},
		{"max_gap", c.MaxGap}, {"blackout_window", c.BlackoutWindow},
		{"max_turn_rate", c.MaxTurnRate}, {"max_g_load_deviation", c.MaxGLoadDeviation},
	} {
		if !(v.x > 0) {
			return fmt.Errorf("wind: %s must be positive, was %v", v.name, v.x)
		}
	}
	if !(c.QWind >= 0) || !(c.QScale >= 0) || !(c.QualityStep >= 0) {
		return fmt.Errorf("wind: q_wind, q_scale and quality_step must not be negative")
	}
	if c.MaxGap > maxPredictionStep {
		return fmt.Errorf("wind: max_gap must be at most %v s, was %v", maxPredictionStep, c.MaxGap)
	}
	return nil
}
