package clusterserver

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/memberlist"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/telemetry/logger"
)

// leaveTimeout bounds how long Leave waits for the leave broadcast.
const leaveTimeout = time.Second

// Discovery tracks peer liveness using the gossip protocol.
type Discovery struct {
	config     *memberlist.Config
	memberList *memberlist.Memberlist
	logger     logger.Logger

	mu       sync.RWMutex
	shutdown bool

	// Callbacks
	onJoin  func(id domain.ScreenID, gossipAddr string)
	onLeave func(id domain.ScreenID)
}

// DiscoveryConfig configures the discovery mechanism.
type DiscoveryConfig struct {
	// ScreenID is the local screen id, shared with peers as metadata.
	ScreenID domain.ScreenID

	// BindAddr is the address to bind for gossip communication.
	BindAddr string

	// BindPort is the port to bind for gossip communication.
	BindPort int

	// Seeds are gossip addresses of nodes to join.
	Seeds []string

	// OnJoin and OnLeave are registered before the pool starts, so no
	// membership event is missed.
	OnJoin  func(id domain.ScreenID, gossipAddr string)
	OnLeave func(id domain.ScreenID)

	Logger logger.Logger
}

// nodeMetadata is gossiped with every member.
type nodeMetadata struct {
	ScreenID domain.ScreenID `json:"screen_id"`
}

// NewDiscovery creates the gossip pool and joins the seeds, if any.
func NewDiscovery(cfg DiscoveryConfig) (*Discovery, error) {
	if cfg.ScreenID == "" {
		return nil, domain.ErrInvalidConfig.WithDetails("gossip requires a screen id")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	log := cfg.Logger.With("component", "discovery")

	meta, err := json.Marshal(nodeMetadata{ScreenID: cfg.ScreenID})
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	if len(meta) > memberlist.MetaMaxSize {
		return nil, domain.ErrInvalidConfig.WithDetails("screen id too long for gossip metadata")
	}

	mlConfig := memberlist.DefaultLANConfig()
	mlConfig.Name = string(cfg.ScreenID)
	mlConfig.BindAddr = cfg.BindAddr
	mlConfig.BindPort = cfg.BindPort
	mlConfig.Delegate = &metadataDelegate{meta: meta}
	mlConfig.LogOutput = &logWriter{logger: log}

	d := &Discovery{
		config:  mlConfig,
		logger:  log,
		onJoin:  cfg.OnJoin,
		onLeave: cfg.OnLeave,
	}
	mlConfig.Events = &eventDelegate{discovery: d}

	ml, err := memberlist.Create(mlConfig)
	if err != nil {
		return nil, fmt.Errorf("create memberlist: %w", err)
	}
	d.memberList = ml

	if len(cfg.Seeds) > 0 {
		n, err := ml.Join(cfg.Seeds)
		if err != nil {
			_ = ml.Shutdown()
			return nil, fmt.Errorf("join gossip seeds: %w", err)
		}
		log.Info("joined gossip pool", "screen", cfg.ScreenID, "seeds", cfg.Seeds, "joined", n)
	} else {
		log.Info("started gossip pool", "screen", cfg.ScreenID)
	}

	return d, nil
}

// Addr returns the local gossip address, suitable as a seed for others.
func (d *Discovery) Addr() string {
	n := d.LocalNode()
	if n == nil {
		return ""
	}
	return net.JoinHostPort(n.Addr.String(), strconv.Itoa(int(n.Port)))
}

// Members returns the screen ids of the live members, including self.
func (d *Discovery) Members() []domain.ScreenID {
	if d.memberList == nil {
		return nil
	}
	nodes := d.memberList.Members()
	ids := make([]domain.ScreenID, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, screenID(n))
	}
	return ids
}

// OnJoin registers a callback for member join events.
func (d *Discovery) OnJoin(fn func(id domain.ScreenID, gossipAddr string)) {
	d.mu.Lock()
	d.onJoin = fn
	d.mu.Unlock()
}

// OnLeave registers a callback for member leave events.
func (d *Discovery) OnLeave(fn func(id domain.ScreenID)) {
	d.mu.Lock()
	d.onLeave = fn
	d.mu.Unlock()
}

// LocalNode returns the local node information.
func (d *Discovery) LocalNode() *memberlist.Node {
	if d.memberList == nil {
		return nil
	}
	return d.memberList.LocalNode()
}

// Leave broadcasts a graceful leave and stops the pool.
func (d *Discovery) Leave() error {
	if d.memberList == nil {
		return nil
	}
	if err := d.memberList.Leave(leaveTimeout); err != nil {
		d.logger.Warn("failed to leave gossip pool", "error", err)
	}
	return d.Shutdown()
}

// Shutdown stops the discovery mechanism.
func (d *Discovery) Shutdown() error {
	d.mu.Lock()
	if d.shutdown || d.memberList == nil {
		d.mu.Unlock()
		return nil
	}
	d.shutdown = true
	d.mu.Unlock()

	if err := d.memberList.Shutdown(); err != nil {
		return fmt.Errorf("shutdown memberlist: %w", err)
	}
	d.logger.Info("discovery shutdown complete")
	return nil
}

// screenID reads the screen id from member metadata, falling back to the
// member name.
func screenID(n *memberlist.Node) domain.ScreenID {
	var meta nodeMetadata
	if err := json.Unmarshal(n.Meta, &meta); err == nil && meta.ScreenID != "" {
		return meta.ScreenID
	}
	return domain.ScreenID(n.Name)
}

// eventDelegate implements memberlist.EventDelegate.
type eventDelegate struct {
	discovery *Discovery
}

// NotifyJoin is called when a node joins.
func (e *eventDelegate) NotifyJoin(node *memberlist.Node) {
	d := e.discovery
	if d.isLocal(node) {
		return
	}
	id := screenID(node)
	gossipAddr := net.JoinHostPort(node.Addr.String(), strconv.Itoa(int(node.Port)))
	d.logger.Info("peer joined", "peer", id, "gossip_addr", gossipAddr)

	d.mu.RLock()
	fn := d.onJoin
	d.mu.RUnlock()
	if fn != nil {
		fn(id, gossipAddr)
	}
}

// NotifyLeave is called when a node leaves or is declared dead.
func (e *eventDelegate) NotifyLeave(node *memberlist.Node) {
	d := e.discovery
	if d.isLocal(node) {
		return
	}
	id := screenID(node)
	d.logger.Info("peer left", "peer", id, "addr", node.Addr.String())

	d.mu.RLock()
	fn := d.onLeave
	d.mu.RUnlock()
	if fn != nil {
		fn(id)
	}
}

// NotifyUpdate is called when a node's metadata changes.
func (e *eventDelegate) NotifyUpdate(node *memberlist.Node) {
	e.discovery.logger.Debug("peer updated", "peer", screenID(node))
}

func (d *Discovery) isLocal(node *memberlist.Node) bool {
	return node.Name == d.config.Name
}

// logWriter adapts the logger to io.Writer for memberlist.
type logWriter struct {
	logger logger.Logger
}

// Write implements io.Writer.
func (w *logWriter) Write(p []byte) (n int, err error) {
	w.logger.Debug(strings.TrimSpace(string(p)))
	return len(p), nil
}

// metadataDelegate provides node metadata (the screen id) to memberlist.
type metadataDelegate struct {
	meta []byte
}

// NodeMeta returns metadata about this node.
func (m *metadataDelegate) NodeMeta(limit int) []byte {
	if len(m.meta) > limit {
		return m.meta[:limit]
	}
	return m.meta
}

// NotifyMsg is called when a user message is received (not used).
func (m *metadataDelegate) NotifyMsg([]byte) {}

// GetBroadcasts is called to get broadcasts to send (not used).
func (m *metadataDelegate) GetBroadcasts(overhead, limit int) [][]byte {
	return nil
}

// LocalState returns the local state for synchronization (not used).
func (m *metadataDelegate) LocalState(join bool) []byte {
	return nil
}

// MergeRemoteState merges remote state (not used).
func (m *metadataDelegate) MergeRemoteState(buf []byte, join bool) {
}
