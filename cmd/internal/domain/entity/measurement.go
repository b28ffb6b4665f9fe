package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type BulletinStatus string

const (
	BulletinDraft     BulletinStatus = "DRAFT"
	BulletinSubmitted BulletinStatus = "SUBMITTED"
	BulletinReviewed  BulletinStatus = "REVIEWED"
	BulletinApproved  BulletinStatus = "APPROVED"
	BulletinRejected  BulletinStatus = "REJECTED"
)

// MeasurementBulletin (BM) measures the executed quantities of a contract
// for one period. Number is sequential per contract.
type MeasurementBulletin struct {
	Base
	TenantID        int64          `gorm:"not null;index"`
	ContractID      int64          `gorm:"not null;uniqueIndex:idx_bulletin_contract_number"`
	Number          int            `gorm:"not null;uniqueIndex:idx_bulletin_contract_number"`
	PeriodStart     datatypes.Date `gorm:"not null"`
	PeriodEnd       datatypes.Date `gorm:"not null"`
	Status          BulletinStatus `gorm:"not null;index"`
	Notes           string
	RejectionReason string
	CreatedByID     int64 `gorm:"not null"`
	SubmittedAt     *int64
	ReviewedAt      *int64
	ReviewedByID    *int64
	ApprovedAt      *int64
	ApprovedByID    *int64

	// Relations
	Items     []*MeasurementItem     `gorm:"foreignKey:BulletinID"`
	Additives []*MeasurementAdditive `gorm:"foreignKey:BulletinID"`
}

// MeasurementItem is the quantity executed for one contract item in a bulletin.
type MeasurementItem struct {
	Base
	BulletinID         int64           `gorm:"not null;uniqueIndex:idx_measurement_item"`
	ContractItemID     int64           `gorm:"not null;uniqueIndex:idx_measurement_item"`
	QuantityThisPeriod decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Note               string
}

// MeasurementAdditive is out-of-contract work measured in a single bulletin.
type MeasurementAdditive struct {
	Base
	BulletinID         int64           `gorm:"not null;index"`
	Description        string          `gorm:"not null"`
	Unit               string          `gorm:"not null"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	ContractedQuantity decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	QuantityThisPeriod decimal.Decimal `gorm:"type:decimal(20,4);not null"`
}
