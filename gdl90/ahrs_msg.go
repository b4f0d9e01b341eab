package gdl90

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/westphae/gowind/telemetry"
	"github.com/westphae/gowind/wind"
)

// AHRSMsg contains the data from an iLevil AHRS version 1 message
type AHRSMsg struct {
	roll        int16
	pitch       int16
	heading     int16
	inclination int16
	turnCoord   int16
	gLoad       int16
	kias        int16
	pAlt        uint16
	vertSpeed   int16
}

// DecodeAHRSMsg decodes one frame, flags included.
func DecodeAHRSMsg(frame []byte) (m AHRSMsg, err error) {
	if len(frame) < 2 || frame[0] != Flag || frame[len(frame)-1] != Flag {
		return m, fmt.Errorf("%w: missing flags", ErrFrame)
	}
	body, err := unstuff(frame[1 : len(frame)-1])
	if err != nil {
		return
	}
	if len(body) != ahrsLen-2 {
		return m, fmt.Errorf("%w: message length was %d, should be %d", ErrFrame, len(body)+2, ahrsLen)
	}
	if s := string(body[0:2]); s != CompanyID {
		return m, fmt.Errorf("%w: company ID %q", ErrFrame, s)
	}
	if body[2] != PIDAHRS || body[3] != PIDAHRS1 {
		return m, fmt.Errorf("%w: package %#x version %#x", ErrFrame, body[2], body[3])
	}
	if crc := CRC(body[:24]); crc != binary.LittleEndian.Uint16(body[24:]) {
		return m, fmt.Errorf("%w: computed %#04x, received %#04x", ErrCRC, crc, binary.LittleEndian.Uint16(body[24:]))
	}

	f := func(i int) int16 { return int16(binary.BigEndian.Uint16(body[4+2*i:])) }
	m.roll, m.pitch, m.heading = f(0), f(1), f(2)
	m.inclination, m.turnCoord, m.gLoad = f(3), f(4), f(5)
	m.kias = f(6)
	m.pAlt = uint16(f(7))
	m.vertSpeed = f(8)
	return
}

func tenths(v int16, name string) (float64, error) {
	if v == IntErr {
		return 0, fmt.Errorf("%w: %s", ErrInvalid, name)
	}
	return float64(v) / 10, nil
}

func (m *AHRSMsg) Roll() (float64, error)        { return tenths(m.roll, "roll") }
func (m *AHRSMsg) Pitch() (float64, error)       { return tenths(m.pitch, "pitch") }
func (m *AHRSMsg) Heading() (float64, error)     { return tenths(m.heading, "heading") }
func (m *AHRSMsg) Inclination() (float64, error) { return tenths(m.inclination, "inclination") }
func (m *AHRSMsg) TurnCoord() (float64, error)   { return tenths(m.turnCoord, "turn coordinator") }
func (m *AHRSMsg) GLoad() (float64, error)       { return tenths(m.gLoad, "G load") }
func (m *AHRSMsg) KIAS() (float64, error)        { return tenths(m.kias, "KIAS") }

// PAlt returns the pressure altitude, ft.
func (m *AHRSMsg) PAlt() (float64, error) {
	if m.pAlt == UintErr {
		return 0, fmt.Errorf("%w: pressure altitude", ErrInvalid)
	}
	return float64(m.pAlt) - 5000, nil
}

// VertSpeed returns the vertical speed, ft/min.
func (m *AHRSMsg) VertSpeed() (float64, error) {
	if m.vertSpeed == IntErr {
		return 0, fmt.Errorf("%w: vertical speed", ErrInvalid)
	}
	return float64(m.vertSpeed), nil
}

// Fix returns the air data the wind estimator can use: indicated airspeed and G load.
func (m *AHRSMsg) Fix() (f telemetry.Fix) {
	if kias, err := m.KIAS(); err == nil {
		f.IASValid, f.IAS = true, kias*wind.Knot
	}
	if g, err := m.GLoad(); err == nil {
		f.GLoadValid, f.GLoad = true, g
	}
	return
}

// Report holds AHRS values in message units for encoding. NaN encodes as invalid.
type Report struct {
	Roll, Pitch, Heading, Inclination, TurnCoord, GLoad, KIAS float64 // °, °, °, °, °/s, g, kt
	PAlt, VertSpeed                                           float64 // ft, ft/min
}

// Marshal encodes r as a complete, stuffed GDL90 frame.
func (r Report) Marshal() []byte {
	enc := func(v, scale float64) uint16 {
		if math.IsNaN(v) {
			return IntErr
		}
		return uint16(int16(math.Round(v * scale)))
	}

	body := make([]byte, ahrsLen-2)
	copy(body, CompanyID)
	body[2], body[3] = PIDAHRS, PIDAHRS1
	for i, v := range []uint16{
		enc(r.Roll, 10), enc(r.Pitch, 10), enc(r.Heading, 10), enc(r.Inclination, 10),
		enc(r.TurnCoord, 10), enc(r.GLoad, 10), enc(r.KIAS, 10), 0, enc(r.VertSpeed, 1),
	} {
		binary.BigEndian.PutUint16(body[4+2*i:], v)
	}
	alt := uint16(UintErr)
	if !math.IsNaN(r.PAlt) {
		alt = uint16(math.Round(r.PAlt + 5000))
	}
	binary.BigEndian.PutUint16(body[18:], alt)
	body[22], body[23] = 0xff, 0xff
	binary.LittleEndian.PutUint16(body[24:], CRC(body[:24]))

	return append(append([]byte{Flag}, stuff(body)...), Flag)
}
