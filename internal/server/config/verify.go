package config

import (
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	checks := []func(*ServerConfig) error{
		verifyNode,
		verifyNet,
		verifyAdmin,
		verifyGossip,
		verifyHost,
		verifyLog,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return err
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return domain.ErrInvalidConfig.WithDetails(fmt.Sprintf(format, args...))
}

func verifyNode(cfg *ServerConfig) error {
	if Route(cfg) == "" {
		return invalid("node.route is required when net.listen_addr %q has no concrete host", cfg.Net.ListenAddr)
	}
	if _, _, err := net.SplitHostPort(Route(cfg)); err != nil {
		return invalid("node.route: %v", err)
	}
	return nil
}

func verifyNet(cfg *ServerConfig) error {
	if _, _, err := net.SplitHostPort(cfg.Net.ListenAddr); err != nil {
		return invalid("net.listen_addr: %v", err)
	}
	for _, p := range cfg.Net.Peers {
		if _, _, err := net.SplitHostPort(p); err != nil {
			return invalid("net.peers: %q: %v", p, err)
		}
	}
	if cfg.Net.InboxSize < 1 {
		return invalid("net.inbox_size must be at least 1")
	}
	if g := cfg.Net.MulticastGroup; g != "" {
		host, _, err := net.SplitHostPort(g)
		if err != nil {
			return invalid("net.multicast_group: %v", err)
		}
		ip := net.ParseIP(host)
		if ip == nil || ip.To4() == nil || !ip.IsMulticast() {
			return invalid("net.multicast_group: %q is not an IPv4 multicast address", g)
		}
		if cfg.Net.MulticastTTL < 1 || cfg.Net.MulticastTTL > 255 {
			return invalid("net.multicast_ttl must be between 1 and 255")
		}
	}
	return nil
}

func verifyAdmin(cfg *ServerConfig) error {
	if _, _, err := net.SplitHostPort(cfg.Admin.Addr); err != nil {
		return invalid("admin.addr: %v", err)
	}
	if !strings.HasPrefix(cfg.Admin.Path, "/") {
		return invalid("admin.path must start with '/'")
	}
	for _, entry := range cfg.Admin.AllowList {
		if _, err := netip.ParsePrefix(entry); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(entry); err != nil {
			return invalid("admin.allow_list: %q is neither an IP nor a CIDR", entry)
		}
	}
	if cfg.Admin.MessageRate <= 0 || cfg.Admin.MessageBurst < 1 {
		return invalid("admin.message_rate and admin.message_burst must be positive")
	}
	return nil
}

func verifyGossip(cfg *ServerConfig) error {
	if !cfg.Gossip.Enabled {
		return nil
	}
	if cfg.Gossip.BindPort < 0 || cfg.Gossip.BindPort > 65535 {
		return invalid("gossip.bind_port %d out of range", cfg.Gossip.BindPort)
	}
	return nil
}

func verifyHost(cfg *ServerConfig) error {
	switch cfg.Host.Driver {
	case HostDriverVirtual:
		if cfg.Host.Width <= 0 || cfg.Host.Height <= 0 {
			return invalid("host.width and host.height must be positive")
		}
	case HostDriverRobot:
		if cfg.Host.PollInterval <= 0 {
			return invalid("host.poll_interval must be positive")
		}
	default:
		return invalid("host.driver %q is not one of %s, %s", cfg.Host.Driver, HostDriverVirtual, HostDriverRobot)
	}
	return nil
}

func verifyLog(cfg *ServerConfig) error {
	switch strings.ToLower(cfg.Log.Format) {
	case "json", "text":
	default:
		return invalid("log.format %q is not json or text", cfg.Log.Format)
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log.level %q is unknown", cfg.Log.Level)
	}
	return nil
}
