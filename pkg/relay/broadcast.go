package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/wearable/pkg/relay/msgs"
)

// Broadcaster pushes telemetry as JSON text frames to all connected
// websocket clients, e.g. dashboards.
type Broadcaster struct {
	lock  sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewBroadcaster creates a Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{conns: make(map[*websocket.Conn]struct{})}
}

// Handler returns the http.Handler accepting clients.
func (b *Broadcaster) Handler() http.Handler {
	return websocket.Handler(b.serve)
}

// Len returns the number of connected clients.
func (b *Broadcaster) Len() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.conns)
}

func (b *Broadcaster) serve(conn *websocket.Conn) {
	b.lock.Lock()
	b.conns[conn] = struct{}{}
	b.lock.Unlock()
	glog.Infof("dashboard attached: %s", conn.Request().RemoteAddr)
	// clients are not expected to send anything, read until closed.
	var discard string
	for websocket.Message.Receive(conn, &discard) == nil {
	}
	b.remove(conn)
}

func (b *Broadcaster) remove(conn *websocket.Conn) {
	b.lock.Lock()
	_, ok := b.conns[conn]
	delete(b.conns, conn)
	b.lock.Unlock()
	if ok {
		conn.Close()
		glog.Infof("dashboard detached: %s", conn.Request().RemoteAddr)
	}
}

// Name implements Sink.
func (b *Broadcaster) Name() string { return "websocket" }

// Send implements Sink. Clients failing to receive are dropped.
func (b *Broadcaster) Send(ctx context.Context, msg *msgs.RecordMsg) error {
	data, err := json.Marshal(&msg.Telemetry)
	if err != nil {
		return err
	}
	b.lock.Lock()
	conns := make([]*websocket.Conn, 0, len(b.conns))
	for conn := range b.conns {
		conns = append(conns, conn)
	}
	b.lock.Unlock()
	for _, conn := range conns {
		if err := websocket.Message.Send(conn, string(data)); err != nil {
			glog.Warningf("dashboard %s: %v", conn.Request().RemoteAddr, err)
			b.remove(conn)
		}
	}
	return nil
}
