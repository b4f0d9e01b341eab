package nmea

import (
	"bufio"
	"errors"
	"io"
	"log"
	"net"
	"strings"

	"github.com/westphae/gowind/telemetry"
)

// Scan decodes lines from r, e.g. a serial port, and sends the non-empty fixes to out.
// It returns when r fails or reaches EOF, in which case it returns nil.
func Scan(r io.Reader, out chan<- telemetry.Fix) error {
	d := NewDecoder()
	s := bufio.NewScanner(r)
	for s.Scan() {
		d.send(s.Text(), out)
	}
	return s.Err()
}

// Listen decodes the lines in every datagram read from conn and sends the non-empty
// fixes to out. It returns when reading from conn fails, e.g. after conn is closed.
func Listen(conn net.PacketConn, out chan<- telemetry.Fix) error {
	d := NewDecoder()
	buf := make([]byte, 4096)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			return err
		}
		for _, line := range strings.Split(string(buf[:n]), "\n") {
			d.send(line, out)
		}
	}
}

func (d *Decoder) send(line string, out chan<- telemetry.Fix) {
	f, err := d.Decode(line)
	switch {
	case errors.Is(err, ErrEmpty), errors.Is(err, ErrUnsupported):
	case err != nil:
		log.Printf("NMEA: %v\n", err)
	case !f.Empty():
		out <- f
	}
}
