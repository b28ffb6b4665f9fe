package contract

type EventType string

const (
	EventPing EventType = "ping"

	EventConnectionKill EventType = "CONNECTION_KILL"
	EventSessionExpired EventType = "SESSION_EXPIRED"
	EventAck            EventType = "ACK"

	EventNotificationCreated EventType = "NOTIFICATION_CREATED"
	EventInspectionCompleted EventType = "INSPECTION_COMPLETED"
	EventIssueUpdated        EventType = "ISSUE_UPDATED"
)

type KillCode int

const (
	KillCodeUserDeactivated KillCode = 4001
	KillCodeTenantInactive  KillCode = 4002
	KillCodeRoleChanged     KillCode = 4003
)

// IncomingSocketMessage is used for messages we receive from the users.
type IncomingSocketMessage struct {
	Type EventType `json:"type"`
}

// OutgoingSocketMessage is what we send to the Client
type OutgoingSocketMessage struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}
