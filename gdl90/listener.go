package gdl90

import (
	"net"

	"github.com/westphae/gowind/telemetry"
)

// Listen reads datagrams from conn and sends the air data of every AHRS report to out.
// It returns when reading from conn fails, e.g. after conn is closed.
func Listen(conn net.PacketConn, out chan<- telemetry.Fix) error {
	buf := make([]byte, 1024)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			return err
		}
		for _, fr := range Frames(buf[:n]) {
			m, err := DecodeAHRSMsg(fr)
			if err != nil {
				continue // heartbeats and traffic reports share the port
			}
			if f := m.Fix(); !f.Empty() {
				out <- f
			}
		}
	}
}
