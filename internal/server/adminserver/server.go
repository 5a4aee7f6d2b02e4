package adminserver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/hub"
	"github.com/yndnr/screenmesh-go/internal/protocol"
	"github.com/yndnr/screenmesh-go/internal/telemetry/logger"
	"github.com/yndnr/screenmesh-go/internal/telemetry/metric"
)

// Submitter queues admin requests for the hub.
type Submitter interface {
	Submit(ctx context.Context, req hub.AdminRequest) error
}

// Config configures the admin channel.
type Config struct {
	// MessageRate is the sustained inbound frames per second per client.
	MessageRate float64
	// MessageBurst is the inbound burst per client.
	MessageBurst int
	// OutboxSize bounds frames queued for one client.
	OutboxSize int

	WriteTimeout time.Duration
	PongWait     time.Duration

	Logger  logger.Logger
	Metrics *metric.Registry
}

// DefaultConfig returns the default admin channel settings.
func DefaultConfig() Config {
	return Config{
		MessageRate:  10,
		MessageBurst: 20,
		OutboxSize:   16,
		WriteTimeout: 10 * time.Second,
		PongWait:     60 * time.Second,
	}
}

// Server is the admin WebSocket endpoint. It implements http.Handler
// and hub.Admin.
type Server struct {
	cfg      Config
	log      logger.Logger
	hub      Submitter
	upgrader websocket.Upgrader

	running atomic.Bool
	wg      sync.WaitGroup

	mu      sync.RWMutex
	clients map[string]*client
}

// New creates an admin channel feeding sub.
func New(sub Submitter, cfg Config) *Server {
	def := DefaultConfig()
	if cfg.MessageRate <= 0 {
		cfg.MessageRate = def.MessageRate
	}
	if cfg.MessageBurst <= 0 {
		cfg.MessageBurst = def.MessageBurst
	}
	if cfg.OutboxSize <= 0 {
		cfg.OutboxSize = def.OutboxSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = def.PongWait
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metric.NewRegistry()
	}

	s := &Server{
		cfg: cfg,
		log: cfg.Logger.With("component", "adminserver"),
		hub: sub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Access is restricted by the listener's network ACL; local
			// UIs are served from arbitrary origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
	s.running.Store(true)
	return s
}

// ServeHTTP upgrades the request and serves one admin client.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.running.Load() {
		http.Error(w, "admin channel closed", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}

	id := ulid.Make().String()
	ctx := logger.WithLogger(r.Context(), s.log)
	ctx = logger.WithClientID(ctx, id)

	c := newClient(id, conn, s.cfg, logger.L(ctx))
	s.add(c)

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		c.writeLoop()
	}()
	go func() {
		defer s.wg.Done()
		defer s.remove(c)
		s.readLoop(c)
	}()
}

func (s *Server) add(c *client) {
	s.mu.Lock()
	s.clients[c.id] = c
	n := len(s.clients)
	s.mu.Unlock()

	s.cfg.Metrics.AdminClients.Set(float64(n))
	c.log.Info("admin client connected", "remote", c.conn.RemoteAddr().String(), "clients", n)
}

func (s *Server) remove(c *client) {
	c.close()

	s.mu.Lock()
	delete(s.clients, c.id)
	n := len(s.clients)
	s.mu.Unlock()

	s.cfg.Metrics.AdminClients.Set(float64(n))
	c.log.Info("admin client disconnected", "clients", n)
}

func (s *Server) readLoop(c *client) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-c.closed
		cancel()
	}()

	c.conn.SetReadLimit(protocol.MaxDatagramSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("admin client read failed", "error", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
		if kind != websocket.TextMessage {
			continue
		}

		if !c.limiter.Allow() {
			s.cfg.Metrics.RecordViolation("admin")
			_ = c.send(protocol.Error(domain.ErrAdminRateLimited))
			continue
		}

		msg, err := protocol.UnmarshalJSON(data)
		if err != nil {
			s.cfg.Metrics.RecordViolation("admin")
			c.log.Warn("malformed admin message", "error", err)
			_ = c.send(protocol.Error(err))
			continue
		}

		req := hub.AdminRequest{Message: msg, Reply: c.send}
		if err := s.hub.Submit(ctx, req); err != nil {
			return
		}
	}
}

// Publish implements hub.Admin. The frame is queued for every client;
// clients whose outbox is full miss it.
func (s *Server) Publish(msg protocol.Message) error {
	data, err := protocol.MarshalJSON(msg)
	if err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if err := c.enqueue(data); err != nil {
			c.log.Warn("admin client too slow, dropping frame", "kind", msg.Kind)
		}
	}
	return nil
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown disconnects every client and waits for their goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	s.mu.RLock()
	for _, c := range s.clients {
		c.close()
	}
	s.mu.RUnlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// client is one admin connection.
type client struct {
	id      string
	conn    *websocket.Conn
	log     logger.Logger
	limiter *rate.Limiter
	outbox  chan []byte
	timeout time.Duration
	ping    time.Duration

	closeOnce sync.Once
	closed    chan struct{}
}

func newClient(id string, conn *websocket.Conn, cfg Config, log logger.Logger) *client {
	return &client{
		id:      id,
		conn:    conn,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(cfg.MessageRate), cfg.MessageBurst),
		outbox:  make(chan []byte, cfg.OutboxSize),
		timeout: cfg.WriteTimeout,
		ping:    cfg.PongWait * 9 / 10,
		closed:  make(chan struct{}),
	}
}

var errOutboxFull = errors.New("outbox full")

// send queues msg for this client only. It is the Reply of every
// request the client makes.
func (c *client) send(msg protocol.Message) error {
	data, err := protocol.MarshalJSON(msg)
	if err != nil {
		return err
	}
	return c.enqueue(data)
}

func (c *client) enqueue(data []byte) error {
	select {
	case <-c.closed:
		return domain.ErrAdminClientGone.WithDetails(c.id)
	default:
	}
	select {
	case c.outbox <- data:
		return nil
	default:
		return domain.ErrAdminClientGone.WithDetails(c.id).WithCause(errOutboxFull)
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

func (c *client) writeLoop() {
	ticker := time.NewTicker(c.ping)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data := <-c.outbox:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.closed:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(time.Second))
			return
		}
	}
}
