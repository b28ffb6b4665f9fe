package entity

type PlanningStatus string

const (
	PlanningPlanned   PlanningStatus = "PLANNED"
	PlanningInspected PlanningStatus = "INSPECTED"
)

// PlanningItem marks an inspection planned for a (project, service,
// location, month) cell. The tuple is unique.
type PlanningItem struct {
	Base
	TenantID    int64          `gorm:"not null;index"`
	ProjectID   int64          `gorm:"not null;uniqueIndex:idx_planning_cell"`
	ServiceID   int64          `gorm:"not null;uniqueIndex:idx_planning_cell"`
	LocationID  int64          `gorm:"not null;uniqueIndex:idx_planning_cell"`
	Month       string         `gorm:"size:7;not null;uniqueIndex:idx_planning_cell"`
	Status      PlanningStatus `gorm:"not null"`
	CreatedByID int64          `gorm:"not null"`
}
