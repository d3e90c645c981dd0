// Package websocket carries the link byte stream over websocket, so a
// simulated device and a central can talk over the network.
package websocket

import (
	"net/http"
	"sync"

	"github.com/golang/glog"
	"github.com/smallnest/ringbuffer"
	"golang.org/x/net/websocket"

	"github.com/robotalks/wearable/pkg/link"
	"github.com/robotalks/wearable/pkg/link/stream"
)

// Dial connects to a device served by Server.
func Dial(url, origin string) (*stream.Transport, error) {
	conn, err := websocket.Dial(url, "", origin)
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return stream.New(conn), nil
}

// Server is the device end of the link, it implements link.Transport.
// Only the most recent connection is attached, writes without any
// connection are dropped.
type Server struct {
	input *ringbuffer.RingBuffer
	conn  *websocket.Conn
	lock  sync.Mutex
}

// NewServer creates a Server.
func NewServer() *Server {
	return &Server{input: ringbuffer.New(stream.DefaultBufferSize)}
}

// Handler returns the http.Handler accepting connections.
func (s *Server) Handler() http.Handler {
	return websocket.Handler(s.serve)
}

// Connected indicates a connection is attached.
func (s *Server) Connected() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.conn != nil
}

func (s *Server) serve(conn *websocket.Conn) {
	conn.PayloadType = websocket.BinaryFrame
	s.lock.Lock()
	prev := s.conn
	s.conn = conn
	s.lock.Unlock()
	if prev != nil {
		prev.Close()
	}
	glog.Infof("link attached: %s", conn.Request().RemoteAddr)

	buf := make([]byte, 64)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if w, werr := s.input.Write(buf[:n]); werr != nil {
				glog.Warningf("link input overrun, %d bytes dropped", n-w)
			}
		}
		if err != nil {
			break
		}
	}

	s.lock.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.lock.Unlock()
	conn.Close()
	glog.Infof("link detached: %s", conn.Request().RemoteAddr)
}

// Available implements link.Transport.
func (s *Server) Available() int {
	return s.input.Length()
}

// ReadByte implements link.Transport.
func (s *Server) ReadByte() (byte, error) {
	b, err := s.input.ReadByte()
	if err == ringbuffer.ErrIsEmpty {
		return 0, link.ErrNoData
	}
	return b, err
}

// Write implements io.Writer.
func (s *Server) Write(p []byte) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.conn == nil {
		glog.V(2).Infof("no link attached, %d bytes dropped", len(p))
		return len(p), nil
	}
	return s.conn.Write(p)
}

// Flush implements link.Transport.
func (s *Server) Flush() error {
	s.input.Reset()
	return nil
}
