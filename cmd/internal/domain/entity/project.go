package entity

import "gorm.io/datatypes"

// Project is a construction site ("obra").
type Project struct {
	Base
	TenantID  int64  `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	Code      string
	Address   string
	Active    bool `gorm:"not null"`
	StartDate *datatypes.Date
	EndDate   *datatypes.Date
}

// Location is an inspection point of a project. It has no tenant column:
// ownership is always checked through its project.
type Location struct {
	Base
	ProjectID   int64  `gorm:"not null;uniqueIndex:idx_location_project_name"`
	Name        string `gorm:"not null;uniqueIndex:idx_location_project_name"`
	Description string
}
