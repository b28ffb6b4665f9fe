package entity

// Service is a kind of construction work with its verification checklist.
type Service struct {
	Base
	TenantID    int64  `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string
	Active      bool `gorm:"not null"`

	// Relations
	Criteria []*Criterion `gorm:"foreignKey:ServiceID"`
}

// Criterion is a single checklist item of a service, ordered by Position.
type Criterion struct {
	Base
	ServiceID   int64  `gorm:"not null;index"`
	Position    int    `gorm:"not null"`
	Description string `gorm:"not null"`
	Method      string
	Tolerance   string
}
