package entity

// User belongs to exactly one tenant and acts with a single role.
type User struct {
	Base
	TenantID      int64  `gorm:"not null;index"`
	SubUUID       string `gorm:"not null;uniqueIndex"`
	Name          string `gorm:"not null"`
	Email         string `gorm:"not null;uniqueIndex"`
	Role          Role   `gorm:"not null"`
	Active        bool   `gorm:"not null"`
	EmailVerified bool   `gorm:"not null"`
}
