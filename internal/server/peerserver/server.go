package peerserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"golang.org/x/net/ipv4"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/protocol"
	"github.com/yndnr/screenmesh-go/internal/telemetry/logger"
)

// Config configures the UDP transport.
type Config struct {
	// ListenAddr is the UDP address to bind, e.g. "0.0.0.0:24800".
	ListenAddr string

	// Peers are the seed routes announced to at startup.
	Peers []string

	// InboxSize bounds decoded messages waiting for the hub.
	InboxSize int

	// SocketBuffer is the requested OS receive buffer in bytes.
	SocketBuffer int

	// Group is an IPv4 multicast "ip:port" joined for zero-configuration
	// discovery. It is announced to like a seed peer. Empty disables it.
	Group string

	// Interface names the interface joining Group; empty lets the
	// system choose.
	Interface string

	// TTL bounds the router hops of datagrams sent to Group.
	TTL int

	// Loopback delivers Group datagrams to other sockets on this host.
	Loopback bool

	Logger logger.Logger
}

// received is one inbox entry: a message or a decode failure.
type received struct {
	env protocol.Envelope
	err error
}

// Server is the UDP peer transport.
type Server struct {
	cfg Config
	log logger.Logger

	conn    *net.UDPConn
	group   *net.UDPConn
	running atomic.Bool
	wg      sync.WaitGroup

	mu    sync.Mutex
	inbox []received
	ready chan struct{}

	addrMu sync.Mutex
	addrs  map[string]*net.UDPAddr

	dropped atomic.Uint64
}

// New creates a transport. Call Start to bind the socket.
func New(cfg Config) *Server {
	if cfg.InboxSize <= 0 {
		cfg.InboxSize = 256
	}
	if cfg.SocketBuffer <= 0 {
		cfg.SocketBuffer = 1 << 20
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	return &Server{
		cfg:   cfg,
		log:   cfg.Logger.With("component", "peerserver"),
		ready: make(chan struct{}, 1),
		addrs: make(map[string]*net.UDPAddr),
	}
}

// Start binds the socket and starts the reader goroutine.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return nil
	}

	addr, err := net.ResolveUDPAddr("udp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", s.cfg.ListenAddr, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	if err := conn.SetReadBuffer(s.cfg.SocketBuffer); err != nil {
		s.log.Warn("could not set UDP buffer size", "buffer_size", s.cfg.SocketBuffer, "error", err)
	}

	s.conn = conn
	if s.cfg.Group != "" {
		group, err := s.joinGroup()
		if err != nil {
			_ = conn.Close()
			return fmt.Errorf("join multicast group %s: %w", s.cfg.Group, err)
		}
		s.group = group
	}
	s.running.Store(true)

	for _, c := range []*net.UDPConn{s.conn, s.group} {
		if c == nil {
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.readLoop(ctx, c)
		}()
	}

	s.log.Info("peer transport listening", "addr", conn.LocalAddr().String(), "group", s.cfg.Group)
	return nil
}

// joinGroup listens on the multicast group and tunes how the unicast
// socket sends to it.
func (s *Server) joinGroup() (*net.UDPConn, error) {
	gaddr, err := net.ResolveUDPAddr("udp4", s.cfg.Group)
	if err != nil {
		return nil, err
	}
	if !gaddr.IP.IsMulticast() {
		return nil, fmt.Errorf("%s is not a multicast address", gaddr.IP)
	}

	var ifi *net.Interface
	if s.cfg.Interface != "" {
		if ifi, err = net.InterfaceByName(s.cfg.Interface); err != nil {
			return nil, err
		}
	}
	group, err := net.ListenMulticastUDP("udp4", ifi, gaddr)
	if err != nil {
		return nil, err
	}
	if err := group.SetReadBuffer(s.cfg.SocketBuffer); err != nil {
		s.log.Warn("could not set multicast buffer size", "buffer_size", s.cfg.SocketBuffer, "error", err)
	}

	// Group datagrams leave through the unicast socket so replies come
	// back to the node's route.
	pc := ipv4.NewPacketConn(s.conn)
	if ifi != nil {
		if err := pc.SetMulticastInterface(ifi); err != nil {
			s.log.Warn("could not set multicast interface", "interface", ifi.Name, "error", err)
		}
	}
	if err := pc.SetMulticastTTL(s.cfg.TTL); err != nil {
		s.log.Warn("could not set multicast ttl", "ttl", s.cfg.TTL, "error", err)
	}
	if err := pc.SetMulticastLoopback(s.cfg.Loopback); err != nil {
		s.log.Warn("could not set multicast loopback", "loopback", s.cfg.Loopback, "error", err)
	}
	return group, nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.conn != nil {
		return s.conn.LocalAddr().String()
	}
	return s.cfg.ListenAddr
}

// Shutdown closes the socket and waits for the reader to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.running.Swap(false) {
		return nil
	}
	closeErr := s.conn.Close()
	if s.group != nil {
		closeErr = errors.Join(closeErr, s.group.Close())
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return closeErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) readLoop(ctx context.Context, conn *net.UDPConn) {
	buf := make([]byte, protocol.MaxDatagramSize+1)
	for {
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) || !s.running.Load() || ctx.Err() != nil {
				return
			}
			s.log.Warn("udp read failed", "error", err)
			continue
		}

		var item received
		if n > protocol.MaxDatagramSize {
			item.err = domain.ErrMessageTooLarge.WithDetails(fmt.Sprintf("datagram from %s", from))
		} else if msg, err := protocol.Unmarshal(buf[:n]); err != nil {
			item.err = fmt.Errorf("datagram from %s: %w", from, err)
		} else {
			item.env = protocol.Envelope{Message: msg, From: from.String()}
		}
		s.enqueue(item)
	}
}

func (s *Server) enqueue(item received) {
	s.mu.Lock()
	if len(s.inbox) >= s.cfg.InboxSize {
		s.mu.Unlock()
		if s.dropped.Add(1)%100 == 1 {
			s.log.Warn("inbox full, dropping datagrams", "dropped", s.dropped.Load())
		}
		return
	}
	s.inbox = append(s.inbox, item)
	s.mu.Unlock()
	s.signal()
}

func (s *Server) signal() {
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// Ready implements hub.Network.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Recv implements hub.Network. It returns at most one entry and
// re-signals readiness while more are pending.
func (s *Server) Recv() (protocol.Envelope, bool, error) {
	s.mu.Lock()
	if len(s.inbox) == 0 {
		s.mu.Unlock()
		return protocol.Envelope{}, false, nil
	}
	item := s.inbox[0]
	s.inbox[0] = received{}
	s.inbox = s.inbox[1:]
	more := len(s.inbox) > 0
	s.mu.Unlock()

	if more {
		s.signal()
	}
	if item.err != nil {
		return protocol.Envelope{}, false, item.err
	}
	return item.env, true, nil
}

// Peers implements hub.Network. The multicast group, when joined, is
// listed after the seed peers.
func (s *Server) Peers() []string {
	peers := append([]string(nil), s.cfg.Peers...)
	if s.cfg.Group != "" {
		peers = append(peers, s.cfg.Group)
	}
	return peers
}

// Unicast implements hub.Network.
func (s *Server) Unicast(msg protocol.Message, addr string) error {
	data, err := protocol.Marshal(msg)
	if err != nil {
		return err
	}
	if err := s.write(data, addr); err != nil {
		return domain.ErrSendFailed.WithCause(err)
	}
	return nil
}

// Broadcast implements hub.Network. Every route is attempted; the
// result reports every failed route.
func (s *Server) Broadcast(msg protocol.Message, routes []string) error {
	data, err := protocol.Marshal(msg)
	if err != nil {
		return err
	}
	var errs []error
	for _, r := range routes {
		if err := s.write(data, r); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r, err))
		}
	}
	if len(errs) > 0 {
		return domain.ErrBroadcastFailed.WithCause(errors.Join(errs...))
	}
	return nil
}

func (s *Server) write(data []byte, route string) error {
	if !s.running.Load() {
		return domain.ErrTransportClosed
	}
	addr, err := s.resolve(route)
	if err != nil {
		return err
	}
	_, err = s.conn.WriteToUDP(data, addr)
	return err
}

func (s *Server) resolve(route string) (*net.UDPAddr, error) {
	s.addrMu.Lock()
	defer s.addrMu.Unlock()
	if a, ok := s.addrs[route]; ok {
		return a, nil
	}
	a, err := net.ResolveUDPAddr("udp", route)
	if err != nil {
		return nil, err
	}
	s.addrs[route] = a
	return a, nil
}
