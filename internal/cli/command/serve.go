package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/hub"
	"github.com/yndnr/screenmesh-go/internal/infra/buildinfo"
	"github.com/yndnr/screenmesh-go/internal/infra/confloader"
	"github.com/yndnr/screenmesh-go/internal/infra/shutdown"
	"github.com/yndnr/screenmesh-go/internal/server/adminserver"
	"github.com/yndnr/screenmesh-go/internal/server/clusterserver"
	"github.com/yndnr/screenmesh-go/internal/server/config"
	"github.com/yndnr/screenmesh-go/internal/server/httpserver"
	"github.com/yndnr/screenmesh-go/internal/server/peerserver"
	"github.com/yndnr/screenmesh-go/internal/telemetry/logger"
	"github.com/yndnr/screenmesh-go/internal/telemetry/metric"
)

// shutdownTimeout bounds the shutdown hooks.
const shutdownTimeout = 30 * time.Second

// ServeCommand runs a node.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run a screenmesh node",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				EnvVars: []string{"SCREENMESH_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "listen",
				Usage: "UDP address for peer traffic (net.listen_addr)",
			},
			&cli.StringFlag{
				Name:  "route",
				Usage: "Address peers use to reach this node (node.route)",
			},
			&cli.StringSliceFlag{
				Name:  "peer",
				Usage: "Seed peer route, repeatable (net.peers)",
			},
			&cli.BoolFlag{
				Name:  "multicast",
				Usage: "Join the " + config.DefaultMulticastGroup + " group to find peers (net.multicast_group)",
			},
			&cli.StringFlag{
				Name:  "admin-addr",
				Usage: "HTTP address for the admin channel and metrics (admin.addr)",
			},
			&cli.BoolFlag{
				Name:  "headless",
				Usage: "Use the in-memory host instead of the real pointer and keyboard",
			},
			&cli.BoolFlag{
				Name:  "gossip",
				Usage: "Enable gossip liveness (gossip.enabled)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error (log.level)",
			},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	configFile := c.String("config")

	cfg, err := loadConfig(configFile, serveOverrides(c))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	info := buildinfo.Get()
	log.Info("starting screenmesh",
		"version", info.Version,
		"commit", info.Commit,
		"config", configFile)

	n := newNode(cfg, configFile, log)
	if err := n.start(); err != nil {
		n.shutdown.Trigger(err)
	} else {
		log.Info("node started, press Ctrl+C to stop", "admin", n.AdminAddr())
	}

	if err := n.shutdown.Wait(); err != nil {
		log.Error("node stopped with error", "error", err)
		return err
	}
	log.Info("node stopped gracefully")
	return nil
}

// serveOverrides maps explicitly set flags onto config keys.
func serveOverrides(c *cli.Context) map[string]any {
	o := map[string]any{}
	for flag, key := range map[string]string{
		"listen":     "net.listen_addr",
		"route":      "node.route",
		"admin-addr": "admin.addr",
		"log-level":  "log.level",
	} {
		if c.IsSet(flag) {
			o[key] = c.String(flag)
		}
	}
	if c.IsSet("peer") {
		o["net.peers"] = c.StringSlice("peer")
	}
	if c.Bool("multicast") {
		o["net.multicast_group"] = config.DefaultMulticastGroup
	}
	if c.IsSet("gossip") {
		o["gossip.enabled"] = c.Bool("gossip")
	}
	if c.Bool("headless") {
		o["host.driver"] = config.HostDriverVirtual
	}
	return o
}

// loadConfig loads configuration from defaults, file, environment and
// flag overrides, then normalises and validates it.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithOverrides(overrides)}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	cfg = config.Sanitize(cfg)
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initLogger creates the process logger and installs it as default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
		Screen: string(config.ScreenID(cfg)),
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// node owns the components of a running screenmesh process. Components
// register shutdown hooks as they start, so hooks run in reverse start
// order.
type node struct {
	cfg        *config.ServerConfig
	configFile string
	log        logger.Logger
	metrics    *metric.Registry
	shutdown   *shutdown.Handler

	peers  *peerserver.Server
	hub    *hub.Hub
	admin  *adminserver.Server
	http   *httpserver.Server
	gossip *clusterserver.Discovery

	// hubDone is closed when Hub.Run returns.
	hubDone chan struct{}
}

func newNode(cfg *config.ServerConfig, configFile string, log logger.Logger) *node {
	return &node{
		cfg:        cfg,
		configFile: configFile,
		log:        log,
		metrics:    metric.NewRegistry(),
		shutdown:   shutdown.NewHandler(shutdownTimeout),
		hubDone:    make(chan struct{}),
	}
}

// start brings up every component. On error the hooks registered so far
// release what was started.
func (n *node) start() error {
	ctx := n.shutdown.Context()

	host, err := openHost(ctx, n.cfg, n.log)
	if err != nil {
		return fmt.Errorf("open host: %w", err)
	}

	n.peers = peerserver.New(config.ToPeerConfig(n.cfg, n.log))
	if err := n.peers.Start(ctx); err != nil {
		return fmt.Errorf("start peer transport: %w", err)
	}
	n.shutdown.OnShutdown(func(ctx context.Context) error {
		n.log.Info("shutting down peer transport")
		return n.peers.Shutdown(ctx)
	})

	n.hub, err = hub.New(host, n.peers, config.ToHubConfig(n.cfg, n.log, n.metrics))
	if err != nil {
		return fmt.Errorf("create hub: %w", err)
	}
	n.metrics.MustRegister(metric.NewCollector(n.hub))

	if err := n.startAdmin(); err != nil {
		return err
	}

	if n.cfg.Gossip.Enabled {
		if err := n.startGossip(); err != nil {
			return err
		}
	}

	if n.configFile != "" {
		if err := n.watchConfig(); err != nil {
			n.log.Warn("config watch disabled", "file", n.configFile, "error", err)
		}
	}

	go func() {
		defer close(n.hubDone)
		n.shutdown.Trigger(n.hub.Run(ctx))
	}()
	n.shutdown.OnShutdown(func(ctx context.Context) error {
		select {
		case <-n.hubDone:
			return nil
		case <-ctx.Done():
			return fmt.Errorf("hub did not stop: %w", ctx.Err())
		}
	})
	return nil
}

func (n *node) startAdmin() error {
	n.admin = adminserver.New(n.hub, config.ToAdminConfig(n.cfg, n.log, n.metrics))
	n.hub.AttachAdmin(n.admin)

	rc := config.ToRouterConfig(n.cfg, n.log)
	rc.WebSocket = n.admin
	rc.Metrics = n.metrics.Handler()
	rc.Health = n.health

	n.http = httpserver.New(n.cfg.Admin.Addr, httpserver.NewRouter(rc))
	if err := n.http.Listen(); err != nil {
		return fmt.Errorf("listen admin %s: %w", n.cfg.Admin.Addr, err)
	}
	n.shutdown.OnShutdown(func(ctx context.Context) error {
		n.log.Info("shutting down admin listener")
		return n.http.Shutdown(ctx)
	})
	// Hijacked WebSocket connections outlive http.Server.Shutdown, so
	// admin clients are closed first.
	n.shutdown.OnShutdown(func(ctx context.Context) error {
		return n.admin.Shutdown(ctx)
	})

	go func() {
		n.log.Info("admin listener started", "addr", n.http.Addr())
		if err := n.http.Serve(); err != nil {
			n.shutdown.Trigger(fmt.Errorf("admin listener: %w", err))
		}
	}()
	return nil
}

func (n *node) startGossip() error {
	dc := config.ToDiscoveryConfig(n.cfg, n.log)
	dc.OnJoin = func(id domain.ScreenID, addr string) {
		n.log.Info("gossip member joined", "peer", id, "gossip_addr", addr)
	}
	dc.OnLeave = n.hub.Depart

	d, err := clusterserver.NewDiscovery(dc)
	if err != nil {
		return fmt.Errorf("start gossip: %w", err)
	}
	n.gossip = d
	n.shutdown.OnShutdown(func(context.Context) error {
		n.log.Info("leaving gossip")
		return n.gossip.Leave()
	})
	return nil
}

func (n *node) watchConfig() error {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(n.log))
	if err != nil {
		return err
	}
	if err := confloader.WatchLogLevel(w, n.configFile, confloader.DefaultEnvPrefix, logger.SetLevel); err != nil {
		_ = w.Stop()
		return err
	}
	w.StartAsync()
	n.shutdown.OnShutdown(func(context.Context) error {
		return w.Stop()
	})
	return nil
}

// health backs /healthz: healthy while the hub reactor runs.
func (n *node) health() (bool, map[string]any) {
	stats := n.hub.Stats()
	details := map[string]any{
		"state":   stats.State,
		"screen":  stats.Local,
		"focused": stats.Focused,
		"clients": n.admin.Clients(),
	}
	select {
	case <-n.hubDone:
		return false, details
	default:
		return true, details
	}
}

// AdminAddr returns the bound admin listener address.
func (n *node) AdminAddr() string {
	if n.http == nil {
		return n.cfg.Admin.Addr
	}
	return n.http.Addr()
}
