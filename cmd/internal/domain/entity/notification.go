package entity

// Notification is a message in a user's feed.
type Notification struct {
	Base
	TenantID int64  `gorm:"not null;index"`
	UserID   int64  `gorm:"not null;index"`
	Title    string `gorm:"not null"`
	Message  string `gorm:"not null"`
	Link     string
	Read     bool `gorm:"column:is_read;not null;index"`
	ReadAt   *int64
}
