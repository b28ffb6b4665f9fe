package entity

import "gorm.io/datatypes"

type IssueStatus string

const (
	IssueOpen       IssueStatus = "OPEN"
	IssueInProgress IssueStatus = "IN_PROGRESS"
	IssueResolved   IssueStatus = "RESOLVED"
	IssueCancelled  IssueStatus = "CANCELLED"
)

// Issue is a non-conformity raised from an NC inspection item. There is at
// most one issue per inspection item.
type Issue struct {
	Base
	TenantID         int64       `gorm:"not null;index"`
	InspectionID     int64       `gorm:"not null;index"`
	InspectionItemID int64       `gorm:"not null;uniqueIndex"`
	Title            string      `gorm:"not null"`
	Description      string
	Status           IssueStatus `gorm:"not null;index"`
	ContractorID     *int64
	DueDate          *datatypes.Date
	ResolvedAt       *int64
	Resolution       string
}
