package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils"
)

// Company is an active tenant with one user per role.
type Company struct {
	Tenant     *entity.Tenant
	Admin      *entity.User
	Supervisor *entity.User
	Inspector  *entity.User
}

func (c *Company) AsAdmin() *entity.AuthContext {
	return &entity.AuthContext{User: c.Admin, Tenant: c.Tenant}
}

func (c *Company) AsSupervisor() *entity.AuthContext {
	return &entity.AuthContext{User: c.Supervisor, Tenant: c.Tenant}
}

func (c *Company) AsInspector() *entity.AuthContext {
	return &entity.AuthContext{User: c.Inspector, Tenant: c.Tenant}
}

func SeedCompany(t *testing.T, db *gorm.DB, name string) *Company {
	t.Helper()

	slug := utils.Slugify(name)
	tenant := &entity.Tenant{Name: name, Slug: slug, Status: entity.TenantActive}
	require.NoError(t, db.Create(tenant).Error)

	return &Company{
		Tenant:     tenant,
		Admin:      SeedUser(t, db, tenant.ID, entity.RoleAdmin, fmt.Sprintf("admin@%s.test", slug)),
		Supervisor: SeedUser(t, db, tenant.ID, entity.RoleSupervisor, fmt.Sprintf("supervisor@%s.test", slug)),
		Inspector:  SeedUser(t, db, tenant.ID, entity.RoleInspector, fmt.Sprintf("inspector@%s.test", slug)),
	}
}

func SeedUser(t *testing.T, db *gorm.DB, tenantID int64, role entity.Role, email string) *entity.User {
	t.Helper()

	user := &entity.User{
		TenantID:      tenantID,
		SubUUID:       uuid.NewString(),
		Name:          string(role),
		Email:         email,
		Role:          role,
		Active:        true,
		EmailVerified: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func SeedOperator(t *testing.T, db *gorm.DB, email string) *entity.SystemUser {
	t.Helper()

	op := &entity.SystemUser{SubUUID: uuid.NewString(), Email: email, Name: "Operator"}
	require.NoError(t, db.Create(op).Error)
	return op
}

func SeedProject(t *testing.T, db *gorm.DB, tenantID int64, name string) *entity.Project {
	t.Helper()

	project := &entity.Project{TenantID: tenantID, Name: name, Active: true}
	require.NoError(t, db.Create(project).Error)
	return project
}

func SeedLocation(t *testing.T, db *gorm.DB, projectID int64, name string) *entity.Location {
	t.Helper()

	location := &entity.Location{ProjectID: projectID, Name: name}
	require.NoError(t, db.Create(location).Error)
	return location
}

// SeedService creates an active service with one criterion per description.
func SeedService(t *testing.T, db *gorm.DB, tenantID int64, name string, criteria ...string) *entity.Service {
	t.Helper()

	service := &entity.Service{TenantID: tenantID, Name: name, Active: true}
	for i, desc := range criteria {
		service.Criteria = append(service.Criteria, &entity.Criterion{Position: i + 1, Description: desc})
	}
	require.NoError(t, db.Create(service).Error)
	return service
}

func SeedContractor(t *testing.T, db *gorm.DB, tenantID int64, name, cnpj string) *entity.Contractor {
	t.Helper()

	contractor := &entity.Contractor{TenantID: tenantID, Name: name, CNPJ: cnpj, Active: true}
	require.NoError(t, db.Create(contractor).Error)
	return contractor
}
