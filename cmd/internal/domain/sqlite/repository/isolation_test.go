package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/sqlite/repository"
	"qualiobra/cmd/internal/testutil"
)

func TestProjectIsolation(t *testing.T) {
	db := testutil.NewDB(t)
	abc := testutil.SeedCompany(t, db, "Construtora ABC")
	xyz := testutil.SeedCompany(t, db, "Engenharia XYZ")
	repo := repository.NewProjectRepository(db)

	project := testutil.SeedProject(t, db, abc.Tenant.ID, "Residencial Vila Nova")

	foreign, err := repo.FindByID(xyz.Tenant.ID, project.ID)
	require.NoError(t, err)
	assert.Nil(t, foreign)

	hijacked := *project
	hijacked.Name = "Hijacked"
	err = repo.Save(xyz.Tenant.ID, &hijacked)
	assert.True(t, repository.IsNotFound(err))

	stored, err := repo.FindByID(abc.Tenant.ID, project.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Residencial Vila Nova", stored.Name)

	stored.Name = "Residencial Vila Nova II"
	require.NoError(t, repo.Save(abc.Tenant.ID, stored))

	list, err := repo.FindAll(xyz.Tenant.ID, false)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLocationIsolation(t *testing.T) {
	db := testutil.NewDB(t)
	abc := testutil.SeedCompany(t, db, "Construtora ABC")
	xyz := testutil.SeedCompany(t, db, "Engenharia XYZ")
	repo := repository.NewProjectRepository(db)

	project := testutil.SeedProject(t, db, abc.Tenant.ID, "Residencial Vila Nova")
	location := testutil.SeedLocation(t, db, project.ID, "Bloco A - Apt 101")

	foreign, err := repo.FindLocationByID(xyz.Tenant.ID, location.ID)
	require.NoError(t, err)
	assert.Nil(t, foreign)

	renamed := *location
	renamed.Name = "Bloco Z"
	assert.True(t, repository.IsNotFound(repo.SaveLocation(xyz.Tenant.ID, &renamed)))
	assert.True(t, repository.IsNotFound(repo.DeleteLocation(xyz.Tenant.ID, location)))

	locations, err := repo.FindLocations(abc.Tenant.ID, project.ID)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "Bloco A - Apt 101", locations[0].Name)

	require.NoError(t, repo.DeleteLocation(abc.Tenant.ID, location))
}

func TestUniqueViolation(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedCompany(t, db, "Construtora ABC")

	err := db.Create(&entity.Tenant{Name: "Construtora ABC", Slug: "construtora-abc", Status: entity.TenantActive}).Error
	require.Error(t, err)
	assert.True(t, repository.IsUniqueViolation(err))
	assert.False(t, repository.IsUniqueViolation(nil))
}
