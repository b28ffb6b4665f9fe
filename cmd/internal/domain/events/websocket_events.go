package events

import "qualiobra/cmd/internal/contract"

// SocketEvent is a payload pushed to live websocket connections.
type SocketEvent interface {
	GetType() contract.EventType
}

type Ack struct{}

func (*Ack) GetType() contract.EventType {
	return contract.EventAck
}

type SessionExpired struct{}

func (*SessionExpired) GetType() contract.EventType {
	return contract.EventSessionExpired
}

type ConnectionKill struct {
	Code   contract.KillCode `json:"code"`
	Reason *string           `json:"reason,omitempty"`
}

func (e *ConnectionKill) GetType() contract.EventType {
	return contract.EventConnectionKill
}

type NotificationCreated struct {
	*contract.NotificationResponse
}

func (e *NotificationCreated) GetType() contract.EventType {
	return contract.EventNotificationCreated
}

type IssueUpdated struct {
	*contract.IssueResponse
}

func (e *IssueUpdated) GetType() contract.EventType {
	return contract.EventIssueUpdated
}
