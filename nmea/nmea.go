// Package nmea decodes the text lines a flight computer receives from its GPS and air data
// instruments into telemetry fixes.
package nmea

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	gonmea "github.com/adrianmo/go-nmea"

	"github.com/westphae/gowind/telemetry"
	"github.com/westphae/gowind/wind"
)

const kph = 1 / 3.6 // m/s

var (
	ErrEmpty       = errors.New("nmea: empty line")
	ErrUnsupported = errors.New("nmea: unsupported line")
)

// Decoder turns NMEA sentences and Condor UDP lines into telemetry.Fix values.
type Decoder struct {
	parser gonmea.SentenceParser
}

func NewDecoder() *Decoder {
	return &Decoder{parser: gonmea.SentenceParser{
		CustomParsers: map[string]gonmea.ParserFunc{
			TypePOV:   parsePOV,
			TypeLXWP0: parseLXWP0,
		},
	}}
}

// Decode decodes a single line.
// A well formed sentence that carries no usable data yields an empty Fix and no error.
func (d *Decoder) Decode(line string) (f telemetry.Fix, err error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		err = ErrEmpty
	case strings.HasPrefix(line, "$"):
		f, err = d.decodeSentence(line)
	case strings.Contains(line, "="):
		f, err = decodeCondor(line)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupported, line)
	}
	return
}

func (d *Decoder) decodeSentence(line string) (f telemetry.Fix, err error) {
	s, err := d.parser.Parse(line)
	if err != nil {
		return
	}

	switch m := s.(type) {
	case gonmea.RMC:
		if m.Validity == gonmea.ValidRMC {
			f.GroundValid = true
			f.GroundSpeed = m.Speed * wind.Knot
			f.Track = m.Course
		}
	case gonmea.VTG:
		f.GroundValid = true
		f.GroundSpeed = m.GroundSpeedKPH * kph
		if f.GroundSpeed == 0 {
			f.GroundSpeed = m.GroundSpeedKnots * wind.Knot
		}
		f.Track = m.TrueTrack
	case POV:
		if v, ok := m.Values["Q"]; ok {
			f.QValid, f.Q = true, v
		}
		if v, ok := m.Values["S"]; ok {
			f.TASValid, f.TAS = true, v*kph
		}
	case LXWP0:
		if m.TASValid {
			f.TASValid, f.TAS = true, m.TAS*kph
		}
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupported, s.Prefix())
	}
	return
}

// decodeCondor decodes one key=value line of the Condor simulator UDP output,
// e.g. airspeed=23.7545757293701
func decodeCondor(line string) (f telemetry.Fix, err error) {
	k, v, _ := strings.Cut(line, "=")
	x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return f, fmt.Errorf("nmea: bad Condor value %q", line)
	}

	switch strings.TrimSpace(k) {
	case "airspeed":
		f.IASValid, f.IAS = true, x
	case "gforce":
		f.GLoadValid, f.GLoad = true, x
	case "vario", "evario", "nettovario", "altitude":
		// not used for wind
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupported, line)
	}
	return
}
