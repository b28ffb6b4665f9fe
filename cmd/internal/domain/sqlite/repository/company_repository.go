package repository

import (
	"gorm.io/gorm"

	"qualiobra/cmd/internal/domain/entity"
)

type DefaultCompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *DefaultCompanyRepository {
	return &DefaultCompanyRepository{db: db}
}

func (r *DefaultCompanyRepository) FindByCNPJ(cnpj string) (*entity.Company, error) {
	return findOne[entity.Company](r.db.Where("cnpj = ?", cnpj))
}

func (r *DefaultCompanyRepository) Save(company *entity.Company) error {
	return r.db.Save(company).Error
}

// DeleteExpired drops lookups cached before the cutoff and returns how many went away.
func (r *DefaultCompanyRepository) DeleteExpired(before int64) (int64, error) {
	res := r.db.
		Where("cached_at < ?", before).
		Delete(&entity.Company{})
	return res.RowsAffected, res.Error
}
