package config

import (
	"net"
	"slices"
	"strings"
)

// Sanitize returns a normalised copy of the config, safe to log and to
// hand to components. The input is not modified.
//
// Lists are trimmed, deduplicated and copied; log settings are lowered;
// the derived node route and id are filled in.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg

	sanitized.Net.Peers = cleanList(cfg.Net.Peers)
	sanitized.Admin.AllowList = cleanList(cfg.Admin.AllowList)
	sanitized.Gossip.Seeds = cleanList(cfg.Gossip.Seeds)
	sanitized.Net.MulticastGroup = strings.TrimSpace(cfg.Net.MulticastGroup)
	sanitized.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	sanitized.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	sanitized.Host.Driver = strings.ToLower(strings.TrimSpace(cfg.Host.Driver))

	sanitized.Node.Route = Route(cfg)
	sanitized.Node.ID = string(ScreenID(cfg))

	return &sanitized
}

// Route returns the advertised route: node.route, or net.listen_addr
// when it names a concrete host. Empty when neither applies.
func Route(cfg *ServerConfig) string {
	if r := strings.TrimSpace(cfg.Node.Route); r != "" {
		return r
	}
	host, _, err := net.SplitHostPort(cfg.Net.ListenAddr)
	if err != nil || host == "" {
		return ""
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsUnspecified() {
		return ""
	}
	return cfg.Net.ListenAddr
}

func cleanList(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
