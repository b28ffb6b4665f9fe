package repository

import (
	"gorm.io/gorm"

	"qualiobra/cmd/internal/domain/entity"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

// FindBySub looks a user up by identity-provider subject. Subjects are
// globally unique, so this is the only user lookup without a tenant.
func (u *DefaultUserRepository) FindBySub(sub string) (*entity.User, error) {
	return findOne[entity.User](u.db.Where("sub_uuid = ?", sub))
}

func (u *DefaultUserRepository) FindByEmail(email string) (*entity.User, error) {
	return findOne[entity.User](u.db.Where("email = ?", email))
}

func (u *DefaultUserRepository) ExistsByEmail(email string) (bool, error) {
	var exists int
	err := u.db.
		Raw("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", email).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (u *DefaultUserRepository) FindByID(tenantID, id int64) (*entity.User, error) {
	return findOne[entity.User](u.db.Where("tenant_id = ? AND id = ?", tenantID, id))
}

func (u *DefaultUserRepository) FindAll(tenantID int64) ([]*entity.User, error) {
	var users []*entity.User
	err := u.db.
		Where("tenant_id = ?", tenantID).
		Order("name").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// FindActiveByRoles returns the active users of the tenant holding any of roles.
func (u *DefaultUserRepository) FindActiveByRoles(tenantID int64, roles ...entity.Role) ([]*entity.User, error) {
	if len(roles) == 0 {
		return []*entity.User{}, nil
	}

	var users []*entity.User
	err := u.db.
		Where("tenant_id = ? AND active = ? AND role IN ?", tenantID, true, roles).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (u *DefaultUserRepository) CountActiveAdmins(tenantID int64) (int64, error) {
	var count int64
	err := u.db.Model(&entity.User{}).
		Where("tenant_id = ? AND active = ? AND role = ?", tenantID, true, entity.RoleAdmin).
		Count(&count).Error
	return count, err
}

func (u *DefaultUserRepository) Create(user *entity.User) error {
	return u.db.Create(user).Error
}

func (u *DefaultUserRepository) Save(tenantID int64, user *entity.User) error {
	return updateScoped(u.db.Where("tenant_id = ?", tenantID), user)
}

// MarkEmailVerified flags every user row holding the email as verified.
func (u *DefaultUserRepository) MarkEmailVerified(email string) error {
	return u.db.Model(&entity.User{}).
		Where("email = ?", email).
		Update("email_verified", true).Error
}

type DefaultSystemUserRepository struct {
	db *gorm.DB
}

func NewSystemUserRepository(db *gorm.DB) *DefaultSystemUserRepository {
	return &DefaultSystemUserRepository{db: db}
}

func (s *DefaultSystemUserRepository) FindBySub(sub string) (*entity.SystemUser, error) {
	return findOne[entity.SystemUser](s.db.Where("sub_uuid = ?", sub))
}

func (s *DefaultSystemUserRepository) Create(user *entity.SystemUser) error {
	return s.db.Create(user).Error
}
