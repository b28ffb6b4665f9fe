package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/testutil"
)

func TestCreateContractor(t *testing.T) {
	env := newEnv(t)
	svc := NewContractorService(env.contractors, env.validate)
	abc := testutil.SeedCompany(t, env.db, "Construtora ABC")

	created, apierr := svc.CreateContractor(abc.AsAdmin(), &contract.ContractorRequest{
		Name: "Alvenarias Silva",
		CNPJ: "11.222.333/0001-81",
	})
	requireOK(t, apierr)
	assert.Equal(t, "11222333000181", created.CNPJ)
	assert.True(t, created.Active)

	t.Run("duplicate cnpj in the same tenant", func(t *testing.T) {
		_, apierr := svc.CreateContractor(abc.AsAdmin(), &contract.ContractorRequest{
			Name: "Silva Duplicada",
			CNPJ: "11222333000181",
		})
		requireStatus(t, http.StatusConflict, apierr)
	})

	t.Run("same cnpj in another tenant", func(t *testing.T) {
		xyz := testutil.SeedCompany(t, env.db, "Engenharia XYZ")
		_, apierr := svc.CreateContractor(xyz.AsAdmin(), &contract.ContractorRequest{
			Name: "Alvenarias Silva",
			CNPJ: "11222333000181",
		})
		requireOK(t, apierr)
	})

	t.Run("invalid cnpj", func(t *testing.T) {
		_, apierr := svc.CreateContractor(abc.AsAdmin(), &contract.ContractorRequest{
			Name: "Fantasma",
			CNPJ: "11222333000100",
		})
		requireStatus(t, http.StatusBadRequest, apierr)
	})

	t.Run("admin only", func(t *testing.T) {
		_, apierr := svc.CreateContractor(abc.AsSupervisor(), &contract.ContractorRequest{
			Name: "Pinturas Souza",
			CNPJ: "11444777000161",
		})
		requireStatus(t, http.StatusForbidden, apierr)
	})
}

func TestToggleContractorAcrossTenants(t *testing.T) {
	env := newEnv(t)
	svc := NewContractorService(env.contractors, env.validate)
	abc := testutil.SeedCompany(t, env.db, "Construtora ABC")
	xyz := testutil.SeedCompany(t, env.db, "Engenharia XYZ")
	contractor := testutil.SeedContractor(t, env.db, abc.Tenant.ID, "Alvenarias Silva", "11222333000181")

	_, apierr := svc.ToggleContractorActive(xyz.AsAdmin(), contractor.ID)
	requireStatus(t, http.StatusNotFound, apierr)

	stored, err := env.contractors.FindByID(abc.Tenant.ID, contractor.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Active)

	toggled, apierr := svc.ToggleContractorActive(abc.AsAdmin(), contractor.ID)
	requireOK(t, apierr)
	assert.False(t, toggled.Active)

	active, apierr := svc.GetContractors(abc.AsSupervisor(), true)
	requireOK(t, apierr)
	assert.Empty(t, active)

	all, apierr := svc.GetContractors(abc.AsSupervisor(), false)
	requireOK(t, apierr)
	assert.Len(t, all, 1)
}
