package repository

import (
	"gorm.io/gorm"

	"qualiobra/cmd/internal/domain/entity"
)

type DefaultContractorRepository struct {
	db *gorm.DB
}

func NewContractorRepository(db *gorm.DB) *DefaultContractorRepository {
	return &DefaultContractorRepository{db: db}
}

func (r *DefaultContractorRepository) FindAll(tenantID int64, onlyActive bool) ([]*entity.Contractor, error) {
	q := r.db.Where("tenant_id = ?", tenantID)
	if onlyActive {
		q = q.Where("active = ?", true)
	}

	var contractors []*entity.Contractor
	if err := q.Order("name").Find(&contractors).Error; err != nil {
		return nil, err
	}
	return contractors, nil
}

func (r *DefaultContractorRepository) FindByID(tenantID, id int64) (*entity.Contractor, error) {
	return findOne[entity.Contractor](r.db.Where("tenant_id = ? AND id = ?", tenantID, id))
}

func (r *DefaultContractorRepository) ExistsByCNPJ(tenantID int64, cnpj string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Contractor{}).
		Where("tenant_id = ? AND cnpj = ?", tenantID, cnpj).
		Count(&count).Error
	return count > 0, err
}

func (r *DefaultContractorRepository) Create(contractor *entity.Contractor) error {
	return r.db.Create(contractor).Error
}

func (r *DefaultContractorRepository) Save(tenantID int64, contractor *entity.Contractor) error {
	return updateScoped(r.db.Where("tenant_id = ?", tenantID), contractor)
}
