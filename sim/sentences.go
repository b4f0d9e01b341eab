package sim

import (
	"fmt"
	"math"

	gonmea "github.com/adrianmo/go-nmea"

	"github.com/westphae/gowind/wind"
)

func sentence(body string) string {
	return fmt.Sprintf("$%s*%s", body, gonmea.Checksum(body))
}

// Sentences renders the measurement m as the lines a GPS and an OpenVario sensor
// board would send: RMC for ground velocity, POV for dynamic pressure.
func Sentences(m *wind.Measurement) (lines []string) {
	if m.WValid {
		speed := math.Hypot(m.W1, m.W2) / wind.Knot
		course := math.Mod(math.Atan2(m.W1, m.W2)/wind.Deg+360, 360)
		sec := math.Mod(m.T, 86400)
		hh, mm, ss := int(sec/3600), int(math.Mod(sec, 3600)/60), math.Mod(sec, 60)
		lines = append(lines, sentence(fmt.Sprintf(
			"GPRMC,%02d%02d%05.2f,A,4807.038,N,01131.000,E,%.2f,%.2f,010124,,",
			hh, mm, ss, speed, course)))
	}
	if m.QValid {
		lines = append(lines, sentence(fmt.Sprintf("POV,Q,%.2f", m.Q)))
	}
	return
}
