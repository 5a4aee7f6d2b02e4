//go:build robotgo

package command

import (
	"context"

	"github.com/yndnr/screenmesh-go/internal/host"
	"github.com/yndnr/screenmesh-go/internal/hub"
	"github.com/yndnr/screenmesh-go/internal/server/config"
	"github.com/yndnr/screenmesh-go/internal/telemetry/logger"
)

func openRobot(ctx context.Context, cfg *config.ServerConfig, log logger.Logger) (hub.Host, error) {
	r := host.NewRobot(cfg.Host.PollInterval, log)
	r.Start(ctx)
	return r, nil
}
