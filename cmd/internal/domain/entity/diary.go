package entity

import "gorm.io/datatypes"

// SiteDiary is the daily log of a project. There is one per project per day.
type SiteDiary struct {
	Base
	TenantID         int64          `gorm:"not null;index"`
	ProjectID        int64          `gorm:"not null;uniqueIndex:idx_diary_project_date"`
	EntryDate        datatypes.Date `gorm:"not null;uniqueIndex:idx_diary_project_date"`
	WeatherMorning   string
	WeatherAfternoon string
	Notes            string
	CreatedByID      int64 `gorm:"not null"`

	// Relations
	Labor        []*DiaryLabor       `gorm:"foreignKey:DiaryID"`
	Equipment    []*DiaryEquipment   `gorm:"foreignKey:DiaryID"`
	Activities   []*DiaryActivity    `gorm:"foreignKey:DiaryID"`
	Observations []*DiaryObservation `gorm:"foreignKey:DiaryID"`
}

type DiaryLabor struct {
	Base
	DiaryID      int64  `gorm:"not null;index"`
	Role         string `gorm:"not null"`
	Count        int    `gorm:"not null"`
	ContractorID *int64
}

type DiaryEquipment struct {
	Base
	DiaryID  int64  `gorm:"not null;index"`
	Name     string `gorm:"not null"`
	Quantity int    `gorm:"not null"`
}

// DiaryActivity is a service executed on the day.
type DiaryActivity struct {
	Base
	DiaryID     int64  `gorm:"not null;index"`
	Description string `gorm:"not null"`
	LocationID  *int64
}

type DiaryObservation struct {
	Base
	DiaryID int64  `gorm:"not null;index"`
	Text    string `gorm:"not null"`
}
