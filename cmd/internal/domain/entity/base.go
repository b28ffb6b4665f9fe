package entity

import (
	"gorm.io/gorm"

	"qualiobra/cmd/internal/utils/uid"
)

// Base carries the snowflake id and the epoch-millis timestamps shared by
// every persisted entity.
type Base struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt int64 `gorm:"not null;autoCreateTime:milli"`
	UpdatedAt int64 `gorm:"not null;autoUpdateTime:milli"`
}

func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == 0 {
		b.ID = uid.Generate()
	}
	return nil
}
