package nmea

import (
	"fmt"

	gonmea "github.com/adrianmo/go-nmea"
)

// Proprietary sentences: the leading P is the talker, the rest is the type.
const (
	TypePOV   = "OV"  // OpenVario sensor board
	TypeLXWP0 = "WP0" // LX Navigation flight data
)

// POV carries the key/value pairs of a $POV sentence, e.g. $POV,P,1018.35,Q,352.1*..
// Keys: P static pressure (hPa), Q dynamic pressure (Pa), S true airspeed (km/h),
// E total energy vario (m/s), T temperature (°C).
type POV struct {
	gonmea.BaseSentence
	Values map[string]float64
}

func parsePOV(s gonmea.BaseSentence) (gonmea.Sentence, error) {
	if len(s.Fields)%2 != 0 {
		return nil, fmt.Errorf("nmea: POV with %d fields, should be key/value pairs", len(s.Fields))
	}
	p := gonmea.NewParser(s)
	m := POV{BaseSentence: s, Values: make(map[string]float64, len(s.Fields)/2)}
	for i := 0; i < len(s.Fields); i += 2 {
		k := p.String(i, "key")
		m.Values[k] = p.Float64(i+1, k)
	}
	return m, p.Err()
}

// LXWP0 is the LX Navigation flight data sentence:
// $LXWP0,logger,tas kph,altitude m,vario x6,heading,wind course,wind speed kph
type LXWP0 struct {
	gonmea.BaseSentence
	TASValid bool
	TAS      float64 // km/h
	Altitude float64 // m
}

func parseLXWP0(s gonmea.BaseSentence) (gonmea.Sentence, error) {
	p := gonmea.NewParser(s)
	m := LXWP0{BaseSentence: s}
	if len(s.Fields) > 1 && s.Fields[1] != "" {
		m.TASValid = true
		m.TAS = p.Float64(1, "true airspeed")
	}
	if len(s.Fields) > 2 {
		m.Altitude = p.Float64(2, "altitude")
	}
	return m, p.Err()
}
