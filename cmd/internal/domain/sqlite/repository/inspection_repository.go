package repository

import (
	"gorm.io/gorm"

	"qualiobra/cmd/internal/domain/entity"
)

type InspectionFilter struct {
	ProjectID      int64
	ServiceID      int64
	LocationID     int64
	InspectorID    int64
	Status         entity.InspectionStatus
	ReferenceMonth string
}

type DefaultInspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) *DefaultInspectionRepository {
	return &DefaultInspectionRepository{db: db}
}

func orderedInspectionItems(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

func (r *DefaultInspectionRepository) FindAll(tenantID int64, f InspectionFilter) ([]*entity.Inspection, error) {
	q := r.db.Where("tenant_id = ?", tenantID)
	if f.ProjectID != 0 {
		q = q.Where("project_id = ?", f.ProjectID)
	}
	if f.ServiceID != 0 {
		q = q.Where("service_id = ?", f.ServiceID)
	}
	if f.LocationID != 0 {
		q = q.Where("location_id = ?", f.LocationID)
	}
	if f.InspectorID != 0 {
		q = q.Where("inspector_id = ?", f.InspectorID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ReferenceMonth != "" {
		q = q.Where("reference_month = ?", f.ReferenceMonth)
	}

	var inspections []*entity.Inspection
	err := q.Preload("Items", orderedInspectionItems).
		Order("created_at DESC").
		Find(&inspections).Error
	if err != nil {
		return nil, err
	}
	return inspections, nil
}

func (r *DefaultInspectionRepository) FindByID(tenantID, id int64) (*entity.Inspection, error) {
	return findOne[entity.Inspection](r.db.
		Preload("Items", orderedInspectionItems).
		Where("tenant_id = ? AND id = ?", tenantID, id))
}

// CreateWithItems inserts the inspection and its criterion snapshots.
func (r *DefaultInspectionRepository) CreateWithItems(insp *entity.Inspection) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		items := insp.Items
		insp.Items = nil
		if err := tx.Create(insp).Error; err != nil {
			return err
		}

		insp.Items = items
		if len(items) == 0 {
			return nil
		}

		for _, it := range items {
			it.InspectionID = insp.ID
		}
		return tx.Create(&items).Error
	})
}

func (r *DefaultInspectionRepository) Save(tenantID int64, insp *entity.Inspection) error {
	return updateScoped(r.db.Where("tenant_id = ?", tenantID), insp)
}

// SaveItem writes the item only while its inspection is in one of the given
// statuses. Otherwise gorm.ErrRecordNotFound is returned and nothing changes.
func (r *DefaultInspectionRepository) SaveItem(tenantID int64, item *entity.InspectionItem, statuses ...entity.InspectionStatus) error {
	scope := r.db.Where("inspection_id IN (?)",
		r.db.Table("inspections").Select("id").Where("tenant_id = ? AND status IN ?", tenantID, statuses))
	return updateScoped(scope, item)
}

// Complete persists a completed inspection together with its issues and
// marks the matching planning item as inspected, all or nothing.
func (r *DefaultInspectionRepository) Complete(tenantID int64, insp *entity.Inspection, issues []*entity.Issue) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := updateScoped(tx.Where("tenant_id = ? AND status = ?", tenantID, entity.InspectionInProgress), insp); err != nil {
			return err
		}

		if len(issues) > 0 {
			if err := tx.Create(&issues).Error; err != nil {
				return err
			}
		}

		return tx.Model(&entity.PlanningItem{}).
			Where("tenant_id = ? AND project_id = ? AND service_id = ? AND location_id = ? AND month = ?",
				tenantID, insp.ProjectID, insp.ServiceID, insp.LocationID, insp.ReferenceMonth).
			Update("status", entity.PlanningInspected).Error
	})
}

func (r *DefaultInspectionRepository) Delete(tenantID int64, insp *entity.Inspection) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		owned := tx.Table("inspections").Select("id").Where("tenant_id = ? AND id = ?", tenantID, insp.ID)
		if err := tx.Where("inspection_id IN (?)", owned).Delete(&entity.InspectionItem{}).Error; err != nil {
			return err
		}

		res := tx.Where("tenant_id = ? AND id = ?", tenantID, insp.ID).Delete(&entity.Inspection{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// FindCompletedInMonth returns completed inspections of a project month,
// newest completion first.
func (r *DefaultInspectionRepository) FindCompletedInMonth(tenantID, projectID int64, month string) ([]*entity.Inspection, error) {
	var inspections []*entity.Inspection
	err := r.db.
		Where("tenant_id = ? AND project_id = ? AND reference_month = ? AND status = ?",
			tenantID, projectID, month, entity.InspectionCompleted).
		Order("completed_at DESC").
		Find(&inspections).Error
	if err != nil {
		return nil, err
	}
	return inspections, nil
}
