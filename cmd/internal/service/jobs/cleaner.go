package jobs

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/service"
	"qualiobra/cmd/internal/utils"
)

const ConnectionCleanInterval = 5 * time.Minute

// ConnectionCleaner closes websocket sessions whose token expired or whose
// heartbeat stopped.
type ConnectionCleaner struct {
	wsService *service.WebSocketService
	interval  time.Duration
}

func NewConnectionCleaner(wsService *service.WebSocketService) *ConnectionCleaner {
	return &ConnectionCleaner{wsService: wsService, interval: ConnectionCleanInterval}
}

func (c *ConnectionCleaner) Start(ctx context.Context) {
	runEvery(ctx, "connection cleaner", c.interval, c.cleanup)
}

func (c *ConnectionCleaner) cleanup(ctx context.Context) {
	conns, err := c.wsService.ConnRepo.FindExpired(utils.NowUTC())
	if err != nil {
		log.Errorf("Cleaner: failed to fetch expired connections: %v", err)
		return
	}

	if len(conns) == 0 {
		return
	}

	log.Infof("Cleaner: found %d expired connections, terminating...", len(conns))
	for _, conn := range conns {
		callCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		c.wsService.Expire(callCtx, conn.ConnectionID)
		cancel()
	}
}
