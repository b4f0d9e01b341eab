package sim

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/westphae/gowind/wind"
)

// SituationFromFile replays recorded measurements from a CSV file with a header line.
// Recognized columns: T (s), W1, W2 (ground velocity east/north, m/s), U (TAS, m/s),
// I (IAS, m/s), Q (dynamic pressure, Pa), A (G load) and, when known, the actual wind
// V1, V2 (m/s). Missing columns mark that sensor as unavailable.
type SituationFromFile struct {
	t    []float64
	cols map[string][]float64
}

func NewSituationFromFile(fn string) (*SituationFromFile, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSituation(f)
}

// ReadSituation reads a recorded situation from r.
func ReadSituation(r io.Reader) (sit *SituationFromFile, err error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("sim: reading header: %w", err)
	}

	sit = &SituationFromFile{cols: make(map[string][]float64)}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("csv %s, skipping this one\n", err.Error())
			continue
		}

		vals := make(map[string]float64, len(rec))
		bad := false
		for i, k := range rec {
			v, err := strconv.ParseFloat(k, 64)
			if err != nil {
				bad = true
				break
			}
			vals[header[i]] = v
		}
		tt, ok := vals["T"]
		if bad || !ok || (len(sit.t) > 0 && tt <= sit.t[len(sit.t)-1]) {
			log.Printf("csv contains bad data %v, skipping this one\n", rec)
			continue
		}

		sit.t = append(sit.t, tt)
		for _, c := range header {
			if c != "T" {
				sit.cols[c] = append(sit.cols[c], vals[c])
			}
		}
	}

	if len(sit.t) < 2 {
		return nil, errors.New("sim: need at least two records")
	}
	return sit, nil
}

func (s *SituationFromFile) BeginTime() float64 {
	return s.t[0]
}

func (s *SituationFromFile) EndTime() float64 {
	return s.t[len(s.t)-1]
}

// value interpolates column c at time t.
func (s *SituationFromFile) value(c string, t float64) (v float64, ok bool, err error) {
	if t < s.t[0] || t > s.t[len(s.t)-1] {
		return 0, false, errors.New("sim: requested time is outside of recorded data")
	}
	a, ok := s.cols[c]
	if !ok {
		return 0, false, nil
	}
	ix := 0
	if t > s.t[0] {
		ix = sort.SearchFloat64s(s.t, t) - 1
	}
	f := (s.t[ix+1] - t) / (s.t[ix+1] - s.t[ix])
	return f*a[ix] + (1-f)*a[ix+1], true, nil
}

// Interpolate is only available when the file records the actual wind.
func (s *SituationFromFile) Interpolate(t float64, x *Truth) (err error) {
	var ok1, ok2 bool
	x.T = t
	if x.V1, ok1, err = s.value("V1", t); err != nil {
		return
	}
	if x.V2, ok2, err = s.value("V2", t); err != nil {
		return
	}
	if !ok1 || !ok2 {
		return errors.New("sim: recorded data has no actual wind")
	}
	return nil
}

func (s *SituationFromFile) Measurement(t float64, m *wind.Measurement, n *Noise) (err error) {
	*m = wind.Measurement{T: t}
	var ok1, ok2 bool
	if m.W1, ok1, err = s.value("W1", t); err != nil {
		return
	}
	m.W2, ok2, _ = s.value("W2", t)
	m.WValid = ok1 && ok2 && !n.GPSInop
	if !n.ASIInop {
		m.U, m.UValid, _ = s.value("U", t)
		m.I, m.IValid, _ = s.value("I", t)
		m.Q, m.QValid, _ = s.value("Q", t)
	}
	m.A, m.AValid, _ = s.value("A", t)
	return nil
}

// Derived estimates the turn rate from the recorded ground track one second apart.
func (s *SituationFromFile) Derived(t float64, d *wind.Derived) error {
	var m0, m1 wind.Measurement
	t0 := math.Max(t-1, s.t[0])
	if err := s.Measurement(t0, &m0, &Noise{}); err != nil {
		return err
	}
	if err := s.Measurement(t, &m1, &Noise{}); err != nil {
		return err
	}
	d.Flying = math.Hypot(m1.W1, m1.W2) > 10
	d.TurnRate = 0
	if t > t0 {
		tr := func(m wind.Measurement) float64 { return math.Atan2(m.W1, m.W2) / wind.Deg }
		d.TurnRate = (math.Mod(tr(m1)-tr(m0)+540, 360) - 180) / (t - t0)
	}
	return nil
}
