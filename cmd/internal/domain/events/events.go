// Package events holds the domain events emitted after a mutation commits.
// Delivery is handled by the notification dispatcher and never affects the
// mutation that produced the event.
package events

import "qualiobra/cmd/internal/domain/entity"

// InspectionCompleted is emitted once an inspection and its issues are
// persisted.
type InspectionCompleted struct {
	TenantID     int64
	InspectionID int64
	ProjectID    int64
	ServiceID    int64
	LocationID   int64
	InspectorID  int64
	Month        string
	Result       entity.InspectionResult
	IssueIDs     []int64
}

// IssueResolved is emitted when an issue moves to RESOLVED.
type IssueResolved struct {
	TenantID     int64
	IssueID      int64
	InspectionID int64
	Title        string
	ResolvedByID int64
}

// UserDeactivated is emitted when an admin deactivates a user, so their live
// sessions can be closed.
type UserDeactivated struct {
	TenantID int64
	UserID   int64
}
