package hub

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/screenmesh-go/internal/cluster"
	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/protocol"
	"github.com/yndnr/screenmesh-go/internal/telemetry/logger"
	"github.com/yndnr/screenmesh-go/internal/telemetry/metric"
)

// Host is the OS input adapter driven by the hub.
type Host interface {
	cluster.CursorControl

	// Ready is signalled while captured events are pending.
	Ready() <-chan struct{}

	// Next returns the next captured event, or ok == false once the
	// current batch is drained.
	Next() (ev domain.HostEvent, ok bool)

	// Inject replays an event on the local machine.
	Inject(ev domain.HostEvent) error
}

// Network is the datagram transport between peers.
type Network interface {
	// Ready is signalled while received messages are pending.
	Ready() <-chan struct{}

	// Recv returns one received message, or ok == false when none is
	// pending. A decoding failure is returned as an error and does not
	// consume further messages.
	Recv() (env protocol.Envelope, ok bool, err error)

	// Unicast sends msg to addr.
	Unicast(msg protocol.Message, addr string) error

	// Broadcast sends msg to every route. It fails if any send fails.
	Broadcast(msg protocol.Message, routes []string) error

	// Peers returns the configured seed peers.
	Peers() []string
}

// Admin receives topology pushes for connected admin clients.
type Admin interface {
	Publish(msg protocol.Message) error
}

// AdminRequest is a message from one admin client. Reply delivers a
// response to that client only.
type AdminRequest struct {
	Message protocol.Message
	Reply   func(protocol.Message) error
}

// Self describes the local screen's identity.
type Self struct {
	// ID identifies the screen; defaults to Route.
	ID domain.ScreenID
	// Route is the address peers send to.
	Route string
	// Origin places the screen in the virtual desktop.
	Origin domain.Point
}

// Config configures a Hub.
type Config struct {
	Self Self

	// ReannounceOnDemote re-arms the connect announcement after a failed
	// focus broadcast demotes the hub to waiting.
	ReannounceOnDemote bool

	// AdminQueueSize bounds pending admin requests.
	AdminQueueSize int

	// DepartureQueueSize bounds pending departures.
	DepartureQueueSize int

	// UnicastLogInterval is the minimum spacing between unicast failure
	// log lines.
	UnicastLogInterval time.Duration

	Logger  logger.Logger
	Metrics *metric.Registry
}

// DefaultConfig returns a Config with default queue sizes.
func DefaultConfig() Config {
	return Config{
		AdminQueueSize:     64,
		DepartureQueueSize: 16,
		UnicastLogInterval: time.Second,
	}
}

// Hub is the protocol engine.
type Hub struct {
	host    Host
	net     Network
	cfg     Config
	log     logger.Logger
	metrics *metric.Registry

	// Reactor-owned.
	cluster     *cluster.Cluster
	state       State
	announce    <-chan struct{}
	fingerprint uint64
	unicastLog  *rate.Limiter

	adminMu sync.RWMutex
	admin   Admin

	requests   chan AdminRequest
	departures chan domain.ScreenID

	// Published for other goroutines.
	stateView atomic.Int32
	stats     atomic.Pointer[metric.ClusterStats]
}

// New reads the local geometry and creates a hub whose cluster holds
// only the local screen.
func New(host Host, net Network, cfg Config) (*Hub, error) {
	def := DefaultConfig()
	if cfg.AdminQueueSize <= 0 {
		cfg.AdminQueueSize = def.AdminQueueSize
	}
	if cfg.DepartureQueueSize <= 0 {
		cfg.DepartureQueueSize = def.DepartureQueueSize
	}
	if cfg.UnicastLogInterval <= 0 {
		cfg.UnicastLogInterval = def.UnicastLogInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metric.NewRegistry()
	}
	if cfg.Self.ID == "" {
		cfg.Self.ID = domain.ScreenID(cfg.Self.Route)
	}

	g, err := host.Geometry()
	if err != nil {
		return nil, domain.ErrHostGeometry.WithCause(err)
	}

	local := domain.Screen{
		ID:     cfg.Self.ID,
		Route:  cfg.Self.Route,
		Origin: cfg.Self.Origin,
		Extent: g.Size,
	}
	c, err := cluster.New(local, g.Cursor)
	if err != nil {
		return nil, fmt.Errorf("create cluster: %w", err)
	}

	h := &Hub{
		host:       host,
		net:        net,
		cfg:        cfg,
		log:        cfg.Logger.With("component", "hub"),
		metrics:    cfg.Metrics,
		cluster:    c,
		state:      StateConnecting,
		unicastLog: rate.NewLimiter(rate.Every(cfg.UnicastLogInterval), 1),
		requests:   make(chan AdminRequest, cfg.AdminQueueSize),
		departures: make(chan domain.ScreenID, cfg.DepartureQueueSize),
	}
	h.stateView.Store(int32(StateConnecting))
	h.metrics.ConnectionState.Set(float64(StateConnecting))
	h.refreshStats()
	return h, nil
}

// AttachAdmin sets the sink for topology pushes.
func (h *Hub) AttachAdmin(a Admin) {
	h.adminMu.Lock()
	h.admin = a
	h.adminMu.Unlock()
}

// State returns the current connection state. Safe for concurrent use.
func (h *Hub) State() State {
	return State(h.stateView.Load())
}

// Stats implements metric.StatsSource. Safe for concurrent use.
func (h *Hub) Stats() metric.ClusterStats {
	return *h.stats.Load()
}

// Submit queues an admin request for the reactor.
func (h *Hub) Submit(ctx context.Context, req AdminRequest) error {
	select {
	case h.requests <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Depart reports that a peer screen left the cluster. The departure is
// dropped if the queue is full.
func (h *Hub) Depart(id domain.ScreenID) {
	select {
	case h.departures <- id:
	default:
		h.log.Warn("departure queue full, dropping", "peer", id)
	}
}

// Run drives the reactor until ctx is done. It returns nil on
// cancellation and an error on host adapter failure.
func (h *Hub) Run(ctx context.Context) error {
	hostReady := h.host.Ready()
	if hostReady == nil {
		return domain.ErrHostNotReady.WithDetails("host readiness not registered")
	}
	netReady := h.net.Ready()
	if netReady == nil {
		return domain.ErrTransportClosed.WithDetails("network readiness not registered")
	}

	h.log.Info("hub started", "peers", h.net.Peers())
	// The first announce goes out before any peer message is handled.
	h.handleAnnounce()

	for {
		var err error
		select {
		case <-ctx.Done():
			h.log.Info("hub stopped", "state", h.state)
			return nil
		case <-hostReady:
			err = h.handleHost()
		case <-netReady:
			err = h.handleNet()
		case <-h.announce:
			h.handleAnnounce()
		case req := <-h.requests:
			err = h.handleAdmin(req)
		case id := <-h.departures:
			err = h.handleDeparture(id)
		}
		if err != nil {
			h.log.Error("hub failed", "error", err)
			return err
		}
	}
}

// arm schedules a re-announce on the next reactor iteration.
func (h *Hub) arm() {
	ch := make(chan struct{})
	close(ch)
	h.announce = ch
}

func (h *Hub) setState(s State) {
	if h.state == s {
		return
	}
	h.log.Info("connection state changed", "from", h.state, "to", s)
	h.state = s
	h.stateView.Store(int32(s))
	h.metrics.ConnectionState.Set(float64(s))
	h.refreshStats()
}

// demote handles a failed focus broadcast.
func (h *Hub) demote(err error) {
	h.log.Warn("broadcast failed", "error", err, "state", h.state)
	if h.state != StateConnected {
		return
	}
	h.setState(StateWaiting)
	if h.cfg.ReannounceOnDemote {
		h.arm()
	}
}

func (h *Hub) refreshStats() {
	focused, _ := h.cluster.Focused()
	h.stats.Store(&metric.ClusterStats{
		Local:       string(h.cluster.LocalID()),
		Focused:     string(focused),
		State:       h.state.String(),
		Fingerprint: h.cluster.Fingerprint(),
	})
}

// topologyChanged refreshes the published view and pushes the snapshot
// to the admin channel.
func (h *Hub) topologyChanged() {
	h.metrics.Screens.Set(float64(h.cluster.Len()))
	h.refreshStats()

	if fp := h.cluster.Fingerprint(); fp != h.fingerprint {
		h.fingerprint = fp
		focused, _ := h.cluster.Focused()
		h.log.Info("topology changed",
			"screens", h.cluster.Len(),
			"focused", focused,
			"fingerprint", fmt.Sprintf("%016x", fp))
	}

	if err := h.publish(protocol.Cluster(h.cluster.Snapshot())); err != nil {
		h.log.Debug("admin publish skipped", "error", err)
	}
}

func (h *Hub) publish(msg protocol.Message) error {
	h.adminMu.RLock()
	a := h.admin
	h.adminMu.RUnlock()
	if a == nil {
		return domain.ErrAdminUnavailable
	}
	return a.Publish(msg)
}

func (h *Hub) broadcast(msg protocol.Message, routes []string) error {
	if err := h.net.Broadcast(msg, routes); err != nil {
		h.metrics.RecordSendFailure("broadcast")
		return err
	}
	h.metrics.RecordSent("broadcast", string(msg.Kind))
	return nil
}

func (h *Hub) unicast(msg protocol.Message, addr string) {
	if err := h.net.Unicast(msg, addr); err != nil {
		h.metrics.RecordSendFailure("unicast")
		if h.unicastLog.Allow() {
			h.log.Warn("unicast failed", "kind", msg.Kind, "to", addr, "error", err)
		}
		return
	}
	h.metrics.RecordSent("unicast", string(msg.Kind))
}
