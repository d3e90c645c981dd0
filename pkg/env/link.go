package env

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	fx "github.com/robotalks/wearable/pkg/framework"
	"github.com/robotalks/wearable/pkg/link"
	"github.com/robotalks/wearable/pkg/link/pipe"
	"github.com/robotalks/wearable/pkg/link/serial"
	"github.com/robotalks/wearable/pkg/link/stream"
	"github.com/robotalks/wearable/pkg/link/websocket"
)

// Link is an opened transport together with what must keep running
// for the transport to receive.
type Link struct {
	link.Transport
	// Peer is the other end of an in-process pipe.
	Peer link.Transport

	runnables []fx.Runnable
	closers   []io.Closer
}

// AddToLoop implements fx.LoopAdder.
func (l *Link) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(l.runnables...)
}

// Run runs what the transport needs until ctx is done, for use
// without a loop.
func (l *Link) Run(ctx context.Context) error {
	if len(l.runnables) == 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	return fx.NewRunnerWith(ctx).Go(l.runnables...).Wait()
}

// Close implements io.Closer.
func (l *Link) Close() error {
	errs := &fx.AggregatedError{}
	for _, closer := range l.closers {
		errs.Add(closer.Close())
	}
	return errs.Aggregate()
}

func streamLink(t *stream.Transport) *Link {
	return &Link{Transport: t, runnables: []fx.Runnable{t}, closers: []io.Closer{t}}
}

// OpenLink opens the transport specified by URL.
func OpenLink(rawURL string) (*Link, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid link URL: %w", err)
	}
	switch u.Scheme {
	case "serial":
		conf, err := serial.ConfigFromURL(u)
		if err != nil {
			return nil, err
		}
		t, err := conf.Open()
		if err != nil {
			return nil, err
		}
		return streamLink(t), nil
	case "ws", "wss":
		origin := "http://" + u.Host + "/"
		if u.Scheme == "wss" {
			origin = "https://" + u.Host + "/"
		}
		t, err := websocket.Dial(u.String(), origin)
		if err != nil {
			return nil, err
		}
		return streamLink(t), nil
	case "wsl":
		return listenLink(u), nil
	case "pipe":
		a, b := pipe.New()
		return &Link{Transport: a, Peer: b}, nil
	default:
		return nil, fmt.Errorf("unknown link URL scheme: %q", u.Scheme)
	}
}

func listenLink(u *url.URL) *Link {
	srv := websocket.NewServer()
	path := u.Path
	if path == "" {
		path = "/"
	}
	mux := http.NewServeMux()
	mux.Handle(path, srv.Handler())
	hs := &http.Server{Addr: u.Host, Handler: mux}
	return &Link{
		Transport: srv,
		runnables: []fx.Runnable{NewHTTPServer(hs)},
	}
}

// HTTPServer runs an http.Server as fx.Runnable.
type HTTPServer struct {
	Server *http.Server
}

// NewHTTPServer wraps an http.Server.
func NewHTTPServer(srv *http.Server) *HTTPServer {
	return &HTTPServer{Server: srv}
}

// Name implements fx.Named.
func (s *HTTPServer) Name() string { return "http:" + s.Server.Addr }

// Run implements fx.Runnable.
func (s *HTTPServer) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, s.Server, s.Server.ListenAndServe)
}
