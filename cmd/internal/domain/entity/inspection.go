package entity

import "gorm.io/datatypes"

type InspectionStatus string

const (
	InspectionDraft      InspectionStatus = "DRAFT"
	InspectionInProgress InspectionStatus = "IN_PROGRESS"
	InspectionCompleted  InspectionStatus = "COMPLETED"
)

type InspectionResult string

const (
	ResultApproved                 InspectionResult = "APPROVED"
	ResultApprovedWithRestrictions InspectionResult = "APPROVED_WITH_RESTRICTIONS"
	ResultRejected                 InspectionResult = "REJECTED"
)

// Evaluation is the outcome of a single checklist criterion.
type Evaluation string

const (
	EvaluationConforming    Evaluation = "C"
	EvaluationNonConforming Evaluation = "NC"
	EvaluationNotApplicable Evaluation = "NA"
)

func (e Evaluation) Valid() bool {
	switch e {
	case EvaluationConforming, EvaluationNonConforming, EvaluationNotApplicable:
		return true
	}
	return false
}

// Inspection is a service verification record (FVS) of a location for a
// reference month. Result stays nil until the inspection is completed.
type Inspection struct {
	Base
	TenantID       int64            `gorm:"not null;index"`
	ProjectID      int64            `gorm:"not null;index"`
	ServiceID      int64            `gorm:"not null;index"`
	LocationID     int64            `gorm:"not null;index"`
	InspectorID    int64            `gorm:"not null;index"`
	ReferenceMonth string           `gorm:"size:7;not null;index"`
	Status         InspectionStatus `gorm:"not null;index"`
	Result         *InspectionResult
	StartedAt      *int64
	CompletedAt    *int64
	Notes          string

	// Relations
	Items []*InspectionItem `gorm:"foreignKey:InspectionID"`
}

// InspectionItem snapshots one criterion of the service at creation time.
type InspectionItem struct {
	Base
	InspectionID int64  `gorm:"not null;index"`
	CriterionID  int64  `gorm:"not null"`
	Position     int    `gorm:"not null"`
	Description  string `gorm:"not null"`
	Evaluation   *Evaluation
	Observation  string
	Photos       datatypes.JSONSlice[string]
}

func (i *InspectionItem) IsNonConforming() bool {
	return i.Evaluation != nil && *i.Evaluation == EvaluationNonConforming
}
