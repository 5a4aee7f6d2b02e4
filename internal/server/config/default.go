package config

import "time"

// Default configuration values.
const (
	DefaultListenAddr   = "0.0.0.0:24800"
	DefaultInboxSize    = 256
	DefaultSocketBuffer = 1 << 20

	DefaultMulticastGroup = "239.255.80.80:24802"
	DefaultMulticastTTL   = 1

	DefaultAdminAddr    = "127.0.0.1:3012"
	DefaultAdminPath    = "/ws"
	DefaultAdminRate    = 20
	DefaultMessageRate  = 10
	DefaultMessageBurst = 20
	DefaultOutboxSize   = 16

	DefaultAdminQueueSize     = 64
	DefaultDepartureQueueSize = 16
	DefaultUnicastLogInterval = time.Second

	DefaultGossipBindAddr = "0.0.0.0"
	DefaultGossipBindPort = 24801

	DefaultHostDriver   = HostDriverVirtual
	DefaultPollInterval = 10 * time.Millisecond
	DefaultHostWidth    = 1920
	DefaultHostHeight   = 1080

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Host drivers.
const (
	HostDriverVirtual = "virtual"
	HostDriverRobot   = "robot"
)

// Default returns the default node configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Net: NetSection{
			ListenAddr:   DefaultListenAddr,
			InboxSize:    DefaultInboxSize,
			SocketBuffer: DefaultSocketBuffer,

			MulticastTTL:      DefaultMulticastTTL,
			MulticastLoopback: true,
		},
		Admin: AdminSection{
			Addr:         DefaultAdminAddr,
			Path:         DefaultAdminPath,
			AllowList:    []string{"127.0.0.0/8", "::1"},
			RateLimit:    DefaultAdminRate,
			MessageRate:  DefaultMessageRate,
			MessageBurst: DefaultMessageBurst,
			OutboxSize:   DefaultOutboxSize,
		},
		Hub: HubSection{
			AdminQueueSize:     DefaultAdminQueueSize,
			DepartureQueueSize: DefaultDepartureQueueSize,
			UnicastLogInterval: DefaultUnicastLogInterval,
		},
		Gossip: GossipSection{
			BindAddr: DefaultGossipBindAddr,
			BindPort: DefaultGossipBindPort,
		},
		Host: HostSection{
			Driver:       DefaultHostDriver,
			PollInterval: DefaultPollInterval,
			Width:        DefaultHostWidth,
			Height:       DefaultHostHeight,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
