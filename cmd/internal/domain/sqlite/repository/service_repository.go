package repository

import (
	"gorm.io/gorm"

	"qualiobra/cmd/internal/domain/entity"
)

type DefaultServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *DefaultServiceRepository {
	return &DefaultServiceRepository{db: db}
}

func orderedCriteria(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

func (r *DefaultServiceRepository) FindAll(tenantID int64, onlyActive bool) ([]*entity.Service, error) {
	q := r.db.Where("tenant_id = ?", tenantID)
	if onlyActive {
		q = q.Where("active = ?", true)
	}

	var services []*entity.Service
	err := q.Preload("Criteria", orderedCriteria).
		Order("name").
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *DefaultServiceRepository) FindByID(tenantID, id int64) (*entity.Service, error) {
	return findOne[entity.Service](r.db.
		Preload("Criteria", orderedCriteria).
		Where("tenant_id = ? AND id = ?", tenantID, id))
}

// Create inserts the service together with its criteria.
func (r *DefaultServiceRepository) Create(service *entity.Service) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		criteria := service.Criteria
		service.Criteria = nil
		if err := tx.Create(service).Error; err != nil {
			return err
		}

		service.Criteria = criteria
		for _, c := range criteria {
			c.ServiceID = service.ID
		}

		if len(criteria) == 0 {
			return nil
		}
		return tx.Create(&criteria).Error
	})
}

func (r *DefaultServiceRepository) Save(tenantID int64, service *entity.Service) error {
	return updateScoped(r.db.Where("tenant_id = ?", tenantID), service)
}

// ReplaceCriteria swaps the whole checklist of a service. Existing
// inspections keep their item snapshots.
func (r *DefaultServiceRepository) ReplaceCriteria(tenantID int64, service *entity.Service, criteria []*entity.Criterion) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Service{}).
			Where("tenant_id = ? AND id = ?", tenantID, service.ID).
			Update("updated_at", service.UpdatedAt)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("service_id = ?", service.ID).Delete(&entity.Criterion{}).Error; err != nil {
			return err
		}

		service.Criteria = criteria
		if len(criteria) == 0 {
			return nil
		}

		for _, c := range criteria {
			c.ServiceID = service.ID
		}
		return tx.Create(&criteria).Error
	})
}
