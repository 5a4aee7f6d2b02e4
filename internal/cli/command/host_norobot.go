//go:build !robotgo

package command

import (
	"context"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/hub"
	"github.com/yndnr/screenmesh-go/internal/server/config"
	"github.com/yndnr/screenmesh-go/internal/telemetry/logger"
)

func openRobot(context.Context, *config.ServerConfig, logger.Logger) (hub.Host, error) {
	return nil, domain.ErrInvalidConfig.WithDetails("host.driver robot needs a build with -tags robotgo")
}
