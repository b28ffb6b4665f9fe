package entity

type TenantStatus string

const (
	TenantActive    TenantStatus = "ACTIVE"
	TenantSuspended TenantStatus = "SUSPENDED"
	TenantCancelled TenantStatus = "CANCELLED"
)

func (s TenantStatus) Valid() bool {
	switch s {
	case TenantActive, TenantSuspended, TenantCancelled:
		return true
	}
	return false
}

// Tenant is a construction company. It owns every tenant-scoped row and is
// never hard-deleted.
type Tenant struct {
	Base
	Name    string       `gorm:"not null"`
	Slug    string       `gorm:"not null;uniqueIndex"`
	CNPJ    string       `gorm:"column:cnpj;index"`
	Status  TenantStatus `gorm:"not null;index"`
	Phone   string
	LogoKey string
}

func (t *Tenant) IsActive() bool {
	return t.Status == TenantActive
}

// SystemUser is a platform operator. It belongs to no tenant.
type SystemUser struct {
	Base
	SubUUID string `gorm:"not null;uniqueIndex"`
	Email   string `gorm:"not null"`
	Name    string `gorm:"not null"`
}
