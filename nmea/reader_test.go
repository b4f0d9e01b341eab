package nmea

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/westphae/gowind/telemetry"
)

const stream = "$GPGSA,A,3,04,05,,09,12,,,24,,,,,2.5,1.3,2.1*39\r\n" +
	"$POV,P,1018.35,Q,352.1,E,-1.52,T,23.52,S,87.3*0E\r\n" +
	"$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A\r\n" +
	"$GPRMC,123519,A,4807.03\r\n" +
	"$POV,E,2.15*14\r\n"

func TestScan(t *testing.T) {
	out := make(chan telemetry.Fix, 10)
	if err := Scan(strings.NewReader(stream), out); err != nil {
		t.Fatal(err)
	}
	close(out)

	var fs []telemetry.Fix
	for f := range out {
		fs = append(fs, f)
	}
	if len(fs) != 2 || !fs[0].QValid || !fs[1].GroundValid {
		t.Errorf("scanned %+v, should be a POV then an RMC fix", fs)
	}
}

func TestListen(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("can't listen on UDP: %v", err)
	}
	out := make(chan telemetry.Fix, 10)
	done := make(chan error, 1)
	go func() { done <- Listen(conn, out) }()

	send, err := net.Dial("udp", conn.LocalAddr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer send.Close()
	if _, err := send.Write([]byte("airspeed=23.5\ngforce=1.1\nvario=0.5\n")); err != nil {
		t.Fatal(err)
	}

	for _, want := range []telemetry.Fix{{IASValid: true, IAS: 23.5}, {GLoadValid: true, GLoad: 1.1}} {
		select {
		case f := <-out:
			if f != want {
				t.Errorf("received %+v, should be %+v", f, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("no fix received")
		}
	}

	conn.Close()
	if err := <-done; err == nil {
		t.Error("Listen returned nil after close")
	}
}
