package windweb

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/westphae/gowind/telemetry"
)

// Listener sends wind data to a remote windweb server.
type Listener struct {
	addr string
	c    *websocket.Conn
}

// NewListener connects to the windweb server at addr, e.g. "localhost:8000".
func NewListener(addr string) (l *Listener, err error) {
	l = &Listener{addr: addr}
	if err = l.connect(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Listener) connect() (err error) {
	u := url.URL{Scheme: "ws", Host: l.addr, Path: "/windweb"}
	l.c, _, err = websocket.DefaultDialer.Dial(u.String(), nil)
	return
}

func (l *Listener) Publish(s telemetry.Snapshot) error {
	if l.c == nil {
		if err := l.connect(); err != nil {
			return fmt.Errorf("windweb: %w", err)
		}
	}
	msg, err := json.Marshal(NewWindData(s))
	if err != nil {
		return err
	}
	if err := l.c.WriteMessage(websocket.TextMessage, msg); err != nil {
		log.Println("WindWeb: Error writing to websocket:", err)
		l.c.Close()
		// Just drop this message
		if err2 := l.connect(); err2 != nil {
			l.c = nil
			return fmt.Errorf("windweb: %w (reconnect: %v)", err, err2)
		}
		return fmt.Errorf("windweb: %w", err)
	}
	return nil
}

func (l *Listener) Close() {
	if l.c == nil {
		return
	}
	if err := l.c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")); err != nil {
		log.Println("WindWeb: Error closing websocket:", err)
	}
	l.c.Close()
}
