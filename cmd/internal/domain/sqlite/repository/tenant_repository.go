package repository

import (
	"gorm.io/gorm"

	"qualiobra/cmd/internal/domain/entity"
)

type DefaultTenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *DefaultTenantRepository {
	return &DefaultTenantRepository{db: db}
}

func (r *DefaultTenantRepository) FindByID(id int64) (*entity.Tenant, error) {
	return findOne[entity.Tenant](r.db.Where("id = ?", id))
}

func (r *DefaultTenantRepository) FindBySlug(slug string) (*entity.Tenant, error) {
	return findOne[entity.Tenant](r.db.Where("slug = ?", slug))
}

func (r *DefaultTenantRepository) ExistsBySlug(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Tenant{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DefaultTenantRepository) FindAll() ([]*entity.Tenant, error) {
	var tenants []*entity.Tenant
	err := r.db.Order("created_at DESC").Find(&tenants).Error
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

// CreateWithAdmin inserts the tenant and its first admin atomically.
func (r *DefaultTenantRepository) CreateWithAdmin(tenant *entity.Tenant, admin *entity.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return err
		}

		admin.TenantID = tenant.ID
		return tx.Create(admin).Error
	})
}

func (r *DefaultTenantRepository) Save(tenant *entity.Tenant) error {
	return updateScoped(r.db, tenant)
}
