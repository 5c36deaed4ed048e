package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/net/netutil"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

type Server struct {
	Name    string
	Handler Handler

	// ReadBufferSize bounds the size of a single request, headers and body.
	ReadBufferSize int
	// MaxConns caps concurrently served connections. Zero means unbounded.
	MaxConns int
	// IdleTimeout and WriteTimeout are per-read and per-write deadlines.
	// Zero disables them.
	IdleTimeout  time.Duration
	WriteTimeout time.Duration
	ReusePort    bool

	Logger *slog.Logger
	Clock  func() time.Time

	initOnce sync.Once
	metrics  *serverMetrics
	conns    *xsync.MapOf[net.Conn, uuid.UUID]
	ctx      context.Context
	cancel   context.CancelFunc

	mu       sync.Mutex
	listener net.Listener
	closed   atomic.Bool
}

func NewServer(name string, handler Handler) *Server {
	return &Server{
		Name:           name,
		Handler:        handler,
		ReadBufferSize: DefaultReadBufferSize,
	}
}

func (s *Server) init() {
	s.initOnce.Do(func() {
		if s.Handler == nil {
			router := NewDefaultRouter()
			s.Handler = router.Handler()
		}
		if s.ReadBufferSize == 0 {
			s.ReadBufferSize = DefaultReadBufferSize
		}
		if s.ReadBufferSize < MinReadBufferSize {
			s.ReadBufferSize = MinReadBufferSize
		}
		if s.Logger == nil {
			s.Logger = slog.Default()
		}
		if s.metrics == nil {
			s.metrics = defaultMetrics()
		}
		s.conns = xsync.NewMapOf[net.Conn, uuid.UUID]()
		s.ctx, s.cancel = context.WithCancel(context.Background())
	})
}

func (s *Server) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// ListenAndServe binds addr and serves until Shutdown. A bind failure is
// returned immediately.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	lc := net.ListenConfig{Control: s.control}
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("http: listen on %s: %w", addr, err)
	}

	return s.Serve(listener)
}

// Serve accepts connections on listener and serves each one on its own
// goroutine. Failed accepts are logged and retried with backoff. Serve
// returns ErrServerClosed after Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	s.init()

	if s.MaxConns > 0 {
		listener = netutil.LimitListener(listener, s.MaxConns)
	}

	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		listener.Close()
		return ErrServerClosed
	}
	s.listener = listener
	s.mu.Unlock()

	s.Logger.Info("listening", "server", s.Name, "addr", listener.Addr().String())

	var delay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}

			if delay == 0 {
				delay = minAcceptDelay
			} else {
				delay = min(delay*2, maxAcceptDelay)
			}
			s.Logger.Warn("accept failed", "server", s.Name, "error", err, "retry_in", delay)
			time.Sleep(delay)
			continue
		}
		delay = 0

		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(netConn net.Conn) {
	if err := s.ServeConn(netConn); err != nil {
		s.Logger.Debug("connection closed", "server", s.Name, "remote", netConn.RemoteAddr().String(), "error", err)
	}
}

// ServeConn runs the request loop on netConn until the peer goes away, an
// I/O error occurs or a response requires closing. It closes netConn before
// returning. A nil error means the connection ended cleanly.
func (s *Server) ServeConn(netConn net.Conn) error {
	s.init()

	c := newConn(s, netConn)
	s.conns.Store(netConn, c.id)
	s.metrics.connOpened(c.ctx)

	defer func() {
		netConn.Close()
		s.conns.Delete(netConn)
		s.metrics.connClosed(c.ctx)
	}()

	if s.closed.Load() {
		return ErrServerClosed
	}

	return c.serve()
}

// ActiveConns returns the number of connections currently being served.
func (s *Server) ActiveConns() int {
	s.init()
	return s.conns.Size()
}

// Shutdown stops accepting and closes every live connection. In-flight
// requests are not drained.
func (s *Server) Shutdown(ctx context.Context) error {
	s.init()
	s.closed.Store(true)
	s.cancel()

	var err error
	s.mu.Lock()
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.mu.Unlock()

	s.conns.Range(func(conn net.Conn, id uuid.UUID) bool {
		conn.Close()
		return ctx.Err() == nil
	})

	if err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return ctx.Err()
}
