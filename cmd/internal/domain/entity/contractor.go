package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Contractor struct {
	Base
	TenantID int64  `gorm:"not null;uniqueIndex:idx_contractor_tenant_cnpj"`
	Name     string `gorm:"not null"`
	CNPJ     string `gorm:"column:cnpj;not null;uniqueIndex:idx_contractor_tenant_cnpj"`
	Email    string
	Phone    string
	Active   bool `gorm:"not null"`
}

// Contract binds a contractor to a project.
type Contract struct {
	Base
	TenantID     int64  `gorm:"not null;uniqueIndex:idx_contract_tenant_number"`
	ContractorID int64  `gorm:"not null;index"`
	ProjectID    int64  `gorm:"not null;index"`
	Number       string `gorm:"not null;uniqueIndex:idx_contract_tenant_number"`
	Description  string
	StartDate    *datatypes.Date
	EndDate      *datatypes.Date
	Active       bool `gorm:"not null"`

	// Relations
	Items []*ContractItem `gorm:"foreignKey:ContractID"`
}

type ContractItem struct {
	Base
	ContractID         int64           `gorm:"not null;index"`
	Code               string          `gorm:"not null"`
	Description        string          `gorm:"not null"`
	Unit               string          `gorm:"not null"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	ContractedQuantity decimal.Decimal `gorm:"type:decimal(20,4);not null"`
}
