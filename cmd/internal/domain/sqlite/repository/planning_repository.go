package repository

import (
	"gorm.io/gorm"

	"qualiobra/cmd/internal/domain/entity"
)

type DefaultPlanningRepository struct {
	db *gorm.DB
}

func NewPlanningRepository(db *gorm.DB) *DefaultPlanningRepository {
	return &DefaultPlanningRepository{db: db}
}

func (r *DefaultPlanningRepository) FindByMonth(tenantID, projectID int64, month string) ([]*entity.PlanningItem, error) {
	var items []*entity.PlanningItem
	err := r.db.
		Where("tenant_id = ? AND project_id = ? AND month = ?", tenantID, projectID, month).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *DefaultPlanningRepository) FindByID(tenantID, id int64) (*entity.PlanningItem, error) {
	return findOne[entity.PlanningItem](r.db.Where("tenant_id = ? AND id = ?", tenantID, id))
}

func (r *DefaultPlanningRepository) Create(item *entity.PlanningItem) error {
	return r.db.Create(item).Error
}

// Delete removes a planning item that is still PLANNED.
func (r *DefaultPlanningRepository) Delete(tenantID int64, item *entity.PlanningItem) error {
	res := r.db.
		Where("tenant_id = ? AND id = ? AND status = ?", tenantID, item.ID, entity.PlanningPlanned).
		Delete(&entity.PlanningItem{})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
