package repository

import (
	"gorm.io/gorm"

	"qualiobra/cmd/internal/domain/entity"
)

type IssueFilter struct {
	Status       entity.IssueStatus
	InspectionID int64
	ContractorID int64
}

type DefaultIssueRepository struct {
	db *gorm.DB
}

func NewIssueRepository(db *gorm.DB) *DefaultIssueRepository {
	return &DefaultIssueRepository{db: db}
}

func (r *DefaultIssueRepository) FindAll(tenantID int64, f IssueFilter) ([]*entity.Issue, error) {
	q := r.db.Where("tenant_id = ?", tenantID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.InspectionID != 0 {
		q = q.Where("inspection_id = ?", f.InspectionID)
	}
	if f.ContractorID != 0 {
		q = q.Where("contractor_id = ?", f.ContractorID)
	}

	var issues []*entity.Issue
	if err := q.Order("created_at DESC").Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

func (r *DefaultIssueRepository) FindByID(tenantID, id int64) (*entity.Issue, error) {
	return findOne[entity.Issue](r.db.Where("tenant_id = ? AND id = ?", tenantID, id))
}

// Save writes the issue only if its stored status is still from.
func (r *DefaultIssueRepository) Save(tenantID int64, issue *entity.Issue, from entity.IssueStatus) error {
	return updateScoped(r.db.Where("tenant_id = ? AND status = ?", tenantID, from), issue)
}
