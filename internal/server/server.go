// Package server streams a universe to websocket clients and applies their
// commands.
//
// One driver goroutine, started by [Server.Run], owns the universe: it
// advances it on a ticker, broadcasts frames and applies commands received
// over a channel between frames. Connection goroutines never touch the
// universe.
//
// Endpoints:
//
//	GET /ws       frames out, commands in (JSON)
//	GET /metrics  Prometheus metrics
//	GET /healthz  liveness
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Fuatnow/planets-3d/internal/handles"
	"github.com/Fuatnow/planets-3d/internal/sim"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/Fuatnow/planets-3d/internal/viz"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 1 << 20
	sendBuffer     = 16
)

type Options struct {
	// TickRate is the number of simulation frames per second.
	TickRate float64
	// FrameRate caps frames sent to each client per second.
	FrameRate float64
	// CommandRate and CommandBurst limit commands per remote address.
	CommandRate  float64
	CommandBurst int
	// Trails includes trail samples in frames.
	Trails   bool
	MaxDelay time.Duration
	Random   RandomDefaults
	// Theme colors the bodies in frames.
	Theme viz.Theme
}

func DefaultOptions() Options {
	return Options{
		TickRate:     60,
		FrameRate:    30,
		CommandRate:  10,
		CommandBurst: 20,
		MaxDelay:     sim.DefaultMaxFrameDelay,
		Random:       RandomDefaults{Count: 10, Range: 100, Speed: 10, Mass: 100},
		Theme:        viz.CurrentTheme,
	}
}

type request struct {
	cmd   Command
	reply chan Reply
}

type client struct {
	conn   *websocket.Conn
	addr   string
	out    chan []byte
	frames *rate.Limiter
	done   chan struct{}
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

type Server struct {
	opts     Options
	universe *universe.Universe
	speed    *sim.SpeedControl
	clock    *sim.Clock
	logger   *log.Logger
	metrics  *MetricsCollector
	limiters *IPRateLimiter
	upgrader websocket.Upgrader

	requests chan request
	done     chan struct{}

	mu      sync.Mutex
	clients map[*client]struct{}
}

// New wraps u. From the first call to Run on, u belongs to the server.
func New(u *universe.Universe, opts Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.TickRate <= 0 {
		opts.TickRate = DefaultOptions().TickRate
	}
	return &Server{
		opts:     opts,
		universe: u,
		speed:    sim.NewSpeedControl(u),
		clock:    sim.NewClock(opts.MaxDelay),
		logger:   logger,
		metrics:  NewMetricsCollector(),
		limiters: NewIPRateLimiter(rate.Limit(opts.CommandRate), opts.CommandBurst),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		requests: make(chan request),
		done:     make(chan struct{}),
		clients:  make(map[*client]struct{}),
	}
}

func (s *Server) Metrics() *MetricsCollector { return s.metrics }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok\n"))
	})
	return mux
}

// Run drives the universe until ctx is cancelled, then disconnects every
// client.
func (s *Server) Run(ctx context.Context) error {
	defer s.shutdown()

	ticker := time.NewTicker(time.Duration(float64(time.Second) / s.opts.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.frame(now)
		case req := <-s.requests:
			keys, err := apply(s.universe, s.speed, s.opts.Random, req.cmd)
			s.metrics.RecordCommand(req.cmd.Op, err)
			req.reply <- reply(req.cmd, keys, err)
		}
	}
}

func reply(cmd Command, keys []handles.Key, err error) Reply {
	r := Reply{ID: cmd.ID, Op: cmd.Op, OK: err == nil, Keys: keys}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

func (s *Server) frame(now time.Time) {
	start := time.Now()
	if err := s.universe.Advance(s.clock.Tick(now)); err != nil {
		s.logger.Error("advance failed, pausing", "err", err)
		s.speed.Pause()
	}
	s.metrics.RecordAdvance(time.Since(start), s.universe.Size())

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.clients) == 0 {
		return
	}
	data, err := json.Marshal(Message{Type: MessageFrame, Frame: snapshot(s.universe, s.opts.Theme, s.opts.Trails)})
	if err != nil {
		s.logger.Error("encode frame", "err", err)
		return
	}
	for c := range s.clients {
		if c.frames != nil && !c.frames.Allow() {
			continue
		}
		// A slow client misses frames rather than stalling the driver.
		select {
		case c.out <- data:
		default:
		}
	}
}

func (s *Server) shutdown() {
	close(s.done)
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.close()
	}
}

// Submit hands cmd to the driver and waits for the reply.
func (s *Server) Submit(ctx context.Context, cmd Command) (Reply, error) {
	req := request{cmd: cmd, reply: make(chan Reply, 1)}
	select {
	case s.requests <- req:
	case <-s.done:
		return Reply{}, ErrClosed
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
	return <-req.reply, nil
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "addr", r.RemoteAddr, "err", err)
		return
	}
	c := &client{
		conn: conn,
		addr: remoteIP(r),
		out:  make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	if s.opts.FrameRate > 0 {
		c.frames = rate.NewLimiter(rate.Limit(s.opts.FrameRate), 1)
	}

	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		conn.Close()
		return
	default:
	}
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.metrics.ClientConnected()
	s.logger.Info("client connected", "addr", c.addr)

	go s.writeLoop(c)
	s.readLoop(r.Context(), c)

	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	c.close()
	s.metrics.ClientDisconnected()
	s.logger.Info("client disconnected", "addr", c.addr)
}

func (s *Server) readLoop(ctx context.Context, c *client) {
	c.conn.SetReadLimit(maxMessageSize)
	limiter := s.limiters.GetLimiter(c.addr)
	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !errors.Is(err, net.ErrClosed) {
				s.logger.Debug("read failed", "addr", c.addr, "err", err)
			}
			return
		}

		var rep Reply
		if !limiter.Allow() {
			s.metrics.RecordCommand(cmd.Op, ErrRateLimited)
			rep = reply(cmd, nil, ErrRateLimited)
		} else {
			var err error
			rep, err = s.Submit(ctx, cmd)
			if err != nil {
				return
			}
			s.logger.Debug("command", "addr", c.addr, "op", cmd.Op, "ok", rep.OK)
		}

		data, err := json.Marshal(Message{Type: MessageReply, Reply: &rep})
		if err != nil {
			s.logger.Error("encode reply", "err", err)
			continue
		}
		select {
		case c.out <- data:
		case <-c.done:
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("write failed", "addr", c.addr, "err", err)
				c.close()
				return
			}
		}
	}
}

// ListenAndServe serves on addr and drives the universe until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.Run(runCtx)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
