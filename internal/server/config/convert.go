package config

import (
	"strings"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/hub"
	"github.com/yndnr/screenmesh-go/internal/server/adminserver"
	"github.com/yndnr/screenmesh-go/internal/server/clusterserver"
	"github.com/yndnr/screenmesh-go/internal/server/httpserver"
	"github.com/yndnr/screenmesh-go/internal/server/peerserver"
	"github.com/yndnr/screenmesh-go/internal/telemetry/logger"
	"github.com/yndnr/screenmesh-go/internal/telemetry/metric"
)

// ScreenID returns node.id, defaulting to the advertised route.
func ScreenID(cfg *ServerConfig) domain.ScreenID {
	if id := strings.TrimSpace(cfg.Node.ID); id != "" {
		return domain.ScreenID(id)
	}
	return domain.ScreenID(Route(cfg))
}

// ToHubConfig maps the node and hub sections onto hub.Config.
func ToHubConfig(cfg *ServerConfig, log logger.Logger, metrics *metric.Registry) hub.Config {
	return hub.Config{
		Self: hub.Self{
			ID:     ScreenID(cfg),
			Route:  Route(cfg),
			Origin: domain.Point{X: cfg.Node.OriginX, Y: cfg.Node.OriginY},
		},
		ReannounceOnDemote: cfg.Hub.ReannounceOnDemote,
		AdminQueueSize:     cfg.Hub.AdminQueueSize,
		DepartureQueueSize: cfg.Hub.DepartureQueueSize,
		UnicastLogInterval: cfg.Hub.UnicastLogInterval,
		Logger:             log,
		Metrics:            metrics,
	}
}

// ToPeerConfig maps the net section onto peerserver.Config.
func ToPeerConfig(cfg *ServerConfig, log logger.Logger) peerserver.Config {
	return peerserver.Config{
		ListenAddr:   cfg.Net.ListenAddr,
		Peers:        cfg.Net.Peers,
		InboxSize:    cfg.Net.InboxSize,
		SocketBuffer: cfg.Net.SocketBuffer,
		Group:        cfg.Net.MulticastGroup,
		Interface:    cfg.Net.MulticastInterface,
		TTL:          cfg.Net.MulticastTTL,
		Loopback:     cfg.Net.MulticastLoopback,
		Logger:       log,
	}
}

// ToAdminConfig maps the admin section onto adminserver.Config.
func ToAdminConfig(cfg *ServerConfig, log logger.Logger, metrics *metric.Registry) adminserver.Config {
	c := adminserver.DefaultConfig()
	c.MessageRate = cfg.Admin.MessageRate
	c.MessageBurst = cfg.Admin.MessageBurst
	c.OutboxSize = cfg.Admin.OutboxSize
	c.Logger = log
	c.Metrics = metrics
	return c
}

// ToRouterConfig maps the admin section onto the HTTP router config.
// Handlers are filled in by the caller.
func ToRouterConfig(cfg *ServerConfig, log logger.Logger) *httpserver.RouterConfig {
	rc := httpserver.DefaultRouterConfig()
	rc.WebSocketPath = cfg.Admin.Path
	rc.AllowList = cfg.Admin.AllowList
	rc.RateLimit = cfg.Admin.RateLimit
	rc.Logger = log
	return rc
}

// ToDiscoveryConfig maps the gossip section onto clusterserver's config.
func ToDiscoveryConfig(cfg *ServerConfig, log logger.Logger) clusterserver.DiscoveryConfig {
	return clusterserver.DiscoveryConfig{
		ScreenID: ScreenID(cfg),
		BindAddr: cfg.Gossip.BindAddr,
		BindPort: cfg.Gossip.BindPort,
		Seeds:    cfg.Gossip.Seeds,
		Logger:   log,
	}
}
