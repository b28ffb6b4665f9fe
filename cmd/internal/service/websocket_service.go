package service

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/events"
	"qualiobra/cmd/internal/infrastructure/aws/websocket"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

// killGrace lets the poison pill reach the client before the gateway drops it.
const killGrace = 200 * time.Millisecond

type ConnectionRepository interface {
	Save(conn *entity.Connection) error
	Delete(connID string) error
	FindByUserID(userID int64) ([]string, error)
	FindByTenantID(tenantID int64) ([]string, error)
	FindExpired(now int64) ([]*entity.Connection, error)
	UpdateHeartbeat(connID string, now int64) error
}

type WebSocketService struct {
	ConnRepo ConnectionRepository
	Gateway  websocket.GatewayClient
}

func NewWebSocketService(repo ConnectionRepository, gateway websocket.GatewayClient) *WebSocketService {
	return &WebSocketService{
		ConnRepo: repo,
		Gateway:  gateway,
	}
}

func (s *WebSocketService) RegisterConnection(auth *entity.AuthContext, connectionID string, exp int64) apierror.ErrorResponse {
	if !auth.IsTenant() {
		return apierror.TenantOnlyError
	}

	now := utils.NowUTC()
	conn := &entity.Connection{
		ConnectionID:    connectionID,
		UserID:          auth.UserID(),
		TenantID:        auth.TenantID(),
		ExpiresAt:       exp * 1000, // "exp" is stored in seconds, our app uses millis
		LastHeartbeatAt: now,        // Avoid users getting disconnected immediately
		CreatedAt:       now,
	}

	if err := s.ConnRepo.Save(conn); err != nil {
		log.Errorf("failed to save connection %s of user %d: %v", connectionID, auth.UserID(), err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *WebSocketService) RemoveConnection(connectionID string) {
	// We don't return error here because if it fails, it's not the client's fault
	_ = s.ConnRepo.Delete(connectionID)
}

func (s *WebSocketService) HandleMessage(msg *contract.IncomingSocketMessage, connID string) {
	switch msg.Type {
	case contract.EventPing:
		s.handlePing(connID)
	default:
		log.Debugf("ignoring socket message %q from %s", msg.Type, connID)
	}
}

// Dispatch pushes evt to every live connection of the user. It returns the
// number of connections that accepted the message.
func (s *WebSocketService) Dispatch(ctx context.Context, userID int64, evt events.SocketEvent) (int, error) {
	conns, err := s.ConnRepo.FindByUserID(userID)
	if err != nil {
		return 0, err
	}

	envelope := &contract.OutgoingSocketMessage{
		Type: evt.GetType(),
		Data: evt,
	}

	delivered := 0
	for _, connID := range conns {
		// One stale connection must not block the others
		err := s.Gateway.PostToConnection(ctx, connID, envelope)
		if errors.Is(err, websocket.ErrConnectionGone) {
			_ = s.ConnRepo.Delete(connID)
			continue
		}

		if err != nil {
			log.Warnf("failed to post %s to conn %s: %v", evt.GetType(), connID, err)
			continue
		}
		delivered++
	}
	return delivered, nil
}

// TerminateUserConnections sends a "poison pill" message and then disconnects.
func (s *WebSocketService) TerminateUserConnections(ctx context.Context, userID int64, ck *events.ConnectionKill) {
	conns, err := s.ConnRepo.FindByUserID(userID)
	if err != nil {
		log.Errorf("failed to fetch connections of user %d: %v", userID, err)
		return
	}
	s.terminate(ctx, conns, ck)
}

// TerminateTenantConnections closes every session of a tenant, used when the
// tenant stops being active.
func (s *WebSocketService) TerminateTenantConnections(ctx context.Context, tenantID int64, ck *events.ConnectionKill) {
	conns, err := s.ConnRepo.FindByTenantID(tenantID)
	if err != nil {
		log.Errorf("failed to fetch connections of tenant %d: %v", tenantID, err)
		return
	}
	s.terminate(ctx, conns, ck)
}

func (s *WebSocketService) terminate(ctx context.Context, conns []string, ck *events.ConnectionKill) {
	msg := &contract.OutgoingSocketMessage{
		Type: ck.GetType(),
		Data: ck,
	}

	for _, connID := range conns {
		_ = s.Gateway.PostToConnection(ctx, connID, msg)
	}

	if len(conns) == 0 {
		return
	}

	time.Sleep(killGrace)
	for _, connID := range conns {
		_ = s.Gateway.DeleteConnection(ctx, connID)
		_ = s.ConnRepo.Delete(connID)
	}
}

// Expire closes a connection whose token or heartbeat is over.
func (s *WebSocketService) Expire(ctx context.Context, connID string) {
	envelope := &contract.OutgoingSocketMessage{
		Type: contract.EventSessionExpired,
		Data: &events.SessionExpired{},
	}

	// Notify the client, so they know NOT to try reconnecting
	_ = s.Gateway.PostToConnection(ctx, connID, envelope)
	_ = s.Gateway.DeleteConnection(ctx, connID)
	_ = s.ConnRepo.Delete(connID)
}

func (s *WebSocketService) handlePing(connID string) {
	err := s.ConnRepo.UpdateHeartbeat(connID, utils.NowUTC())
	if err != nil {
		log.Errorf("failed to update heartbeat: %v", err)
		return
	}

	go func(conn string) {
		ctx, cancel := detached()
		defer cancel()

		err := s.Gateway.PostToConnection(ctx, conn, &contract.OutgoingSocketMessage{
			Type: contract.EventAck,
		})
		if err != nil {
			log.Errorf("failed to post ack to conn %s: %v", conn, err)
		}
	}(connID)
}

func killReason(code contract.KillCode, reason string) *events.ConnectionKill {
	return &events.ConnectionKill{Code: code, Reason: &reason}
}
