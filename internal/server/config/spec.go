package config

import "time"

// ServerConfig is the root configuration for a screenmesh node.
type ServerConfig struct {
	Node   NodeSection   `koanf:"node"`
	Net    NetSection    `koanf:"net"`
	Admin  AdminSection  `koanf:"admin"`
	Hub    HubSection    `koanf:"hub"`
	Gossip GossipSection `koanf:"gossip"`
	Host   HostSection   `koanf:"host"`
	Log    LogSection    `koanf:"log"`
}

// NodeSection identifies the local screen.
type NodeSection struct {
	// ID is the screen id. Defaults to Route.
	ID string `koanf:"id"`

	// Route is the address peers use to reach this node (host:port).
	// Defaults to net.listen_addr when that names a concrete host.
	Route string `koanf:"route"`

	// OriginX and OriginY place the local screen in the virtual desktop.
	OriginX int `koanf:"origin_x"`
	OriginY int `koanf:"origin_y"`
}

// NetSection configures the peer datagram transport.
type NetSection struct {
	// ListenAddr is the UDP bind address.
	ListenAddr string `koanf:"listen_addr"`

	// Peers are seed routes announced to at startup.
	// Format: ["192.168.1.10:24800", "192.168.1.11:24800"]
	Peers []string `koanf:"peers"`

	// InboxSize bounds received messages awaiting the hub.
	InboxSize int `koanf:"inbox_size"`

	// SocketBuffer is the kernel receive buffer size in bytes.
	SocketBuffer int `koanf:"socket_buffer"`

	// MulticastGroup is an IPv4 multicast "ip:port" joined so nodes on
	// the segment find each other without seed peers. Empty disables it.
	// Format: "239.255.80.80:24802". The port must differ from
	// net.listen_addr.
	MulticastGroup string `koanf:"multicast_group"`

	// MulticastInterface names the interface used for the group.
	MulticastInterface string `koanf:"multicast_interface"`

	// MulticastTTL bounds the router hops of group datagrams (1-255).
	MulticastTTL int `koanf:"multicast_ttl"`

	// MulticastLoopback delivers group datagrams to other nodes on this
	// host.
	MulticastLoopback bool `koanf:"multicast_loopback"`
}

// AdminSection configures the local admin listener.
type AdminSection struct {
	// Addr is the HTTP bind address serving /ws, /metrics and /healthz.
	Addr string `koanf:"addr"`

	// Path is the WebSocket endpoint path.
	Path string `koanf:"path"`

	// AllowList restricts clients by IP or CIDR.
	AllowList []string `koanf:"allow_list"`

	// RateLimit is HTTP requests per second per client IP.
	RateLimit int `koanf:"rate_limit"`

	// MessageRate and MessageBurst limit frames per WebSocket client.
	MessageRate  float64 `koanf:"message_rate"`
	MessageBurst int     `koanf:"message_burst"`

	// OutboxSize bounds frames queued for one client.
	OutboxSize int `koanf:"outbox_size"`
}

// HubSection tunes the protocol engine.
type HubSection struct {
	// ReannounceOnDemote re-sends connect after a failed focus broadcast.
	ReannounceOnDemote bool `koanf:"reannounce_on_demote"`

	AdminQueueSize     int `koanf:"admin_queue_size"`
	DepartureQueueSize int `koanf:"departure_queue_size"`

	// UnicastLogInterval throttles unicast failure logging.
	UnicastLogInterval time.Duration `koanf:"unicast_log_interval"`
}

// GossipSection configures opt-in peer liveness.
type GossipSection struct {
	Enabled bool `koanf:"enabled"`

	// BindAddr and BindPort are the memberlist bind address.
	BindAddr string `koanf:"bind_addr"`
	BindPort int    `koanf:"bind_port"`

	// Seeds are gossip addresses of nodes to join.
	Seeds []string `koanf:"seeds"`
}

// HostSection selects the OS input adapter.
type HostSection struct {
	// Driver is "virtual" or "robot".
	Driver string `koanf:"driver"`

	// PollInterval is the pointer sampling period of the robot driver.
	PollInterval time.Duration `koanf:"poll_interval"`

	// Width and Height size the virtual driver's screen.
	Width  int `koanf:"width"`
	Height int `koanf:"height"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
