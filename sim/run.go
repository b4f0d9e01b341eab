package sim

import (
	"github.com/westphae/gowind/wind"
)

// Step is one sample of a simulation run.
type Step struct {
	M      wind.Measurement
	D      wind.Derived
	X      Truth
	XValid bool // the actual state is known
	R      wind.Result
}

// Run samples sit every dt seconds from its beginning to its end, feeds each sample to
// est and calls f with the outcome, if f is not nil.
func Run(sit Situation, est *wind.Estimator, dt float64, n *Noise, f func(*Step)) error {
	var st Step
	for t := sit.BeginTime(); t <= sit.EndTime()+1e-9; t += dt {
		t = min(t, sit.EndTime())
		if err := sit.Measurement(t, &st.M, n); err != nil {
			return err
		}
		if err := sit.Derived(t, &st.D); err != nil {
			return err
		}
		st.XValid = sit.Interpolate(t, &st.X) == nil
		st.R = est.Update(&st.M, &st.D)
		if f != nil {
			f(&st)
		}
	}
	return nil
}
