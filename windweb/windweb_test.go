package windweb

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/westphae/gowind/telemetry"
)

func startRoom(t *testing.T) (*Room, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRoom()
	go r.Run(ctx)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return r, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// readWindData sends the first message read from c to out, or nothing if reading fails.
func readWindData(c *websocket.Conn, out chan<- WindData) {
	c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := c.ReadMessage()
	if err != nil {
		return
	}
	var d WindData
	if json.Unmarshal(msg, &d) == nil {
		out <- d
	}
}

func TestNewWindData(t *testing.T) {
	d := NewWindData(telemetry.Snapshot{T: 3, Bearing: 270, Speed: 5, Quality: 2})
	if math.Abs(d.E-5) > 1e-9 || math.Abs(d.N) > 1e-9 {
		t.Errorf("wind from the west moved the air (%v, %v), should be (5, 0)", d.E, d.N)
	}
	if d.T != 3 || d.Quality != 2 {
		t.Errorf("WindData was %+v", d)
	}
}

func TestRoomPublisher(t *testing.T) {
	r, srv := startRoom(t)
	c := dial(t, srv)

	s := telemetry.Snapshot{T: 1, Bearing: 45, Speed: 7, Quality: 3}
	// The client may not have joined yet; publish until it hears something.
	deadline := time.Now().Add(2 * time.Second)
	got := make(chan WindData, 1)
	go readWindData(c, got)
	for {
		if err := (RoomPublisher{Room: r}).Publish(s); err != nil {
			t.Fatal(err)
		}
		select {
		case d := <-got:
			if d.Bearing != 45 || d.Speed != 7 || d.Quality != 3 {
				t.Errorf("received %+v", d)
			}
			return
		case <-time.After(50 * time.Millisecond):
		}
		if time.Now().After(deadline) {
			t.Fatal("no message received")
		}
	}
}

func TestListenerForwardsToRoom(t *testing.T) {
	_, srv := startRoom(t)
	browser := dial(t, srv)

	l, err := NewListener(strings.TrimPrefix(srv.URL, "http://"))
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	got := make(chan WindData, 1)
	go readWindData(browser, got)
	deadline := time.Now().Add(2 * time.Second)
	for {
		if err := l.Publish(telemetry.Snapshot{T: 2, Bearing: 180, Speed: 4, Quality: 1}); err != nil {
			t.Fatal(err)
		}
		select {
		case d := <-got:
			if d.Bearing != 180 || d.Speed != 4 {
				t.Errorf("received %+v", d)
			}
			return
		case <-time.After(50 * time.Millisecond):
		}
		if time.Now().After(deadline) {
			t.Fatal("no message received")
		}
	}
}

func TestListenerReconnectsAfterWriteError(t *testing.T) {
	_, srv := startRoom(t)
	l, err := NewListener(strings.TrimPrefix(srv.URL, "http://"))
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	l.c.Close()
	err = l.Publish(telemetry.Snapshot{T: 1, Bearing: 90, Speed: 3, Quality: 2})
	if !errors.Is(err, net.ErrClosed) {
		t.Errorf("Publish on a broken connection returned %v, should wrap net.ErrClosed", err)
	}
	if err != nil && strings.Contains(err.Error(), "<nil>") {
		t.Errorf("error %q reports a successful reconnect", err)
	}
	if err := l.Publish(telemetry.Snapshot{T: 2, Bearing: 90, Speed: 3, Quality: 2}); err != nil {
		t.Errorf("Publish after reconnecting returned %v", err)
	}
}

func TestForwardAfterClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRoom()
	done := make(chan struct{})
	go func() { r.Run(ctx); close(done) }()
	cancel()
	<-done
	if r.Forward([]byte("{}")) {
		t.Error("Forward succeeded on a closed room")
	}
}
