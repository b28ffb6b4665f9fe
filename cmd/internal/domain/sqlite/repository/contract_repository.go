package repository

import (
	"gorm.io/gorm"

	"qualiobra/cmd/internal/domain/entity"
)

type DefaultContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *DefaultContractRepository {
	return &DefaultContractRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("code")
}

// FindAll lists contracts of the tenant. projectID 0 means every project.
func (r *DefaultContractRepository) FindAll(tenantID, projectID int64) ([]*entity.Contract, error) {
	q := r.db.Where("tenant_id = ?", tenantID)
	if projectID != 0 {
		q = q.Where("project_id = ?", projectID)
	}

	var contracts []*entity.Contract
	err := q.Preload("Items", orderedItems).
		Order("number").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *DefaultContractRepository) FindByID(tenantID, id int64) (*entity.Contract, error) {
	return findOne[entity.Contract](r.db.
		Preload("Items", orderedItems).
		Where("tenant_id = ? AND id = ?", tenantID, id))
}

func (r *DefaultContractRepository) ExistsByNumber(tenantID int64, number string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Contract{}).
		Where("tenant_id = ? AND number = ?", tenantID, number).
		Count(&count).Error
	return count > 0, err
}

func (r *DefaultContractRepository) Create(contract *entity.Contract) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		items := contract.Items
		contract.Items = nil
		if err := tx.Create(contract).Error; err != nil {
			return err
		}

		contract.Items = items
		if len(items) == 0 {
			return nil
		}

		for _, it := range items {
			it.ContractID = contract.ID
		}
		return tx.Create(&items).Error
	})
}

func (r *DefaultContractRepository) Save(tenantID int64, contract *entity.Contract) error {
	return updateScoped(r.db.Where("tenant_id = ?", tenantID), contract)
}

// ReplaceItems swaps the item list of a contract that has no bulletin yet.
func (r *DefaultContractRepository) ReplaceItems(tenantID int64, contract *entity.Contract, items []*entity.ContractItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Contract{}).
			Where("tenant_id = ? AND id = ?", tenantID, contract.ID).
			Update("updated_at", contract.UpdatedAt)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("contract_id = ?", contract.ID).Delete(&entity.ContractItem{}).Error; err != nil {
			return err
		}

		contract.Items = items
		if len(items) == 0 {
			return nil
		}

		for _, it := range items {
			it.ContractID = contract.ID
		}
		return tx.Create(&items).Error
	})
}

func (r *DefaultContractRepository) CountBulletins(tenantID, contractID int64) (int64, error) {
	var count int64
	err := r.db.Model(&entity.MeasurementBulletin{}).
		Where("tenant_id = ? AND contract_id = ?", tenantID, contractID).
		Count(&count).Error
	return count, err
}
