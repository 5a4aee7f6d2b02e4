package command

import (
	"context"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/host"
	"github.com/yndnr/screenmesh-go/internal/hub"
	"github.com/yndnr/screenmesh-go/internal/server/config"
	"github.com/yndnr/screenmesh-go/internal/telemetry/logger"
)

// openHost creates the input adapter selected by host.driver.
func openHost(ctx context.Context, cfg *config.ServerConfig, log logger.Logger) (hub.Host, error) {
	switch cfg.Host.Driver {
	case config.HostDriverRobot:
		return openRobot(ctx, cfg, log)
	default:
		size := domain.Size{Width: cfg.Host.Width, Height: cfg.Host.Height}
		log.Info("using virtual host", "size", size)
		return host.NewVirtual(size, domain.Point{X: size.Width / 2, Y: size.Height / 2}), nil
	}
}
