package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/sqlite/repository"
	"qualiobra/cmd/internal/testutil"
)

type vilaNova struct {
	env      *testEnv
	company  *testutil.Company
	project  *entity.Project
	location *entity.Location
	service  *entity.Service
}

func newVilaNova(t *testing.T) *vilaNova {
	t.Helper()
	env := newEnv(t)
	company := testutil.SeedCompany(t, env.db, "Construtora ABC")
	project := testutil.SeedProject(t, env.db, company.Tenant.ID, "Residencial Vila Nova")

	return &vilaNova{
		env:      env,
		company:  company,
		project:  project,
		location: testutil.SeedLocation(t, env.db, project.ID, "Bloco A - Apt 101"),
		service: testutil.SeedService(t, env.db, company.Tenant.ID, "Alvenaria",
			"Prumo das paredes", "Nivelamento das fiadas", "Espessura das juntas", "Amarração nos cantos", "Limpeza final"),
	}
}

// open creates and starts an inspection assigned to the inspector.
func (v *vilaNova) open(t *testing.T) *contract.InspectionResponse {
	t.Helper()
	svc := v.env.inspectionService()

	created, apierr := svc.CreateInspection(v.company.AsInspector(), &contract.CreateInspectionRequest{
		ProjectID:      v.project.ID,
		ServiceID:      v.service.ID,
		LocationID:     v.location.ID,
		ReferenceMonth: "2026-03",
	})
	requireOK(t, apierr)

	started, apierr := svc.StartInspection(v.company.AsInspector(), created.ID)
	requireOK(t, apierr)
	return started
}

func (v *vilaNova) evaluate(t *testing.T, insp *contract.InspectionResponse, evals ...string) {
	t.Helper()
	svc := v.env.inspectionService()

	for i, e := range evals {
		_, apierr := svc.EvaluateItem(v.company.AsInspector(), insp.ID, insp.Items[i].ID, &contract.EvaluateItemRequest{
			Evaluation:  e,
			Observation: "obs " + e,
		})
		requireOK(t, apierr)
	}
}

func TestInspectionLifecycle(t *testing.T) {
	v := newVilaNova(t)
	svc := v.env.inspectionService()
	tenantID := v.company.Tenant.ID

	planned := &entity.PlanningItem{
		TenantID:    tenantID,
		ProjectID:   v.project.ID,
		ServiceID:   v.service.ID,
		LocationID:  v.location.ID,
		Month:       "2026-03",
		Status:      entity.PlanningPlanned,
		CreatedByID: v.company.Supervisor.ID,
	}
	require.NoError(t, v.env.planning.Create(planned))

	insp := v.open(t)
	assert.Equal(t, string(entity.InspectionInProgress), insp.Status)
	require.Len(t, insp.Items, 5)
	assert.Equal(t, "Prumo das paredes", insp.Items[0].Description)
	assert.Equal(t, 5, insp.Summary.Pending)

	v.evaluate(t, insp, "C", "C", "NC", "C", "C")

	done, apierr := svc.CompleteInspection(v.company.AsInspector(), insp.ID, &contract.CompleteInspectionRequest{})
	requireOK(t, apierr)
	assert.Equal(t, string(entity.InspectionCompleted), done.Status)
	require.NotNil(t, done.Result)
	assert.Equal(t, string(entity.ResultApprovedWithRestrictions), *done.Result)
	assert.Equal(t, 4, done.Summary.Conforming)
	assert.Equal(t, 1, done.Summary.NonConforming)
	assert.NotNil(t, done.CompletedAt)

	issues, err := v.env.issues.FindAll(tenantID, repository.IssueFilter{InspectionID: insp.ID})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, insp.Items[2].ID, issues[0].InspectionItemID)
	assert.Equal(t, "Espessura das juntas", issues[0].Title)
	assert.Equal(t, entity.IssueOpen, issues[0].Status)

	cell, err := v.env.planning.FindByID(tenantID, planned.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PlanningInspected, cell.Status)

	t.Run("completing twice", func(t *testing.T) {
		_, apierr := svc.CompleteInspection(v.company.AsInspector(), insp.ID, &contract.CompleteInspectionRequest{})
		requireStatus(t, http.StatusConflict, apierr)

		issues, err := v.env.issues.FindAll(tenantID, repository.IssueFilter{InspectionID: insp.ID})
		require.NoError(t, err)
		assert.Len(t, issues, 1)
	})

	t.Run("completed items are frozen", func(t *testing.T) {
		_, apierr := svc.EvaluateItem(v.company.AsInspector(), insp.ID, insp.Items[2].ID, &contract.EvaluateItemRequest{Evaluation: "C"})
		requireStatus(t, http.StatusConflict, apierr)
	})
}

func TestCompleteAllConforming(t *testing.T) {
	v := newVilaNova(t)
	insp := v.open(t)
	v.evaluate(t, insp, "C", "C", "NA", "C", "C")

	done, apierr := v.env.inspectionService().CompleteInspection(v.company.AsInspector(), insp.ID, &contract.CompleteInspectionRequest{})
	requireOK(t, apierr)
	assert.Equal(t, string(entity.ResultApproved), *done.Result)

	issues, err := v.env.issues.FindAll(v.company.Tenant.ID, repository.IssueFilter{InspectionID: insp.ID})
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestCompleteWithPendingItems(t *testing.T) {
	v := newVilaNova(t)
	insp := v.open(t)
	v.evaluate(t, insp, "C", "C")

	_, apierr := v.env.inspectionService().CompleteInspection(v.company.AsInspector(), insp.ID, &contract.CompleteInspectionRequest{})
	requireStatus(t, http.StatusBadRequest, apierr)
}

func TestRejectInspection(t *testing.T) {
	v := newVilaNova(t)
	svc := v.env.inspectionService()
	insp := v.open(t)
	v.evaluate(t, insp, "C", "NC", "NC", "C", "C")

	t.Run("inspectors cannot reject", func(t *testing.T) {
		_, apierr := svc.CompleteInspection(v.company.AsInspector(), insp.ID, &contract.CompleteInspectionRequest{Rejected: true})
		requireStatus(t, http.StatusForbidden, apierr)
	})

	done, apierr := svc.CompleteInspection(v.company.AsSupervisor(), insp.ID, &contract.CompleteInspectionRequest{Rejected: true})
	requireOK(t, apierr)
	assert.Equal(t, string(entity.ResultRejected), *done.Result)

	issues, err := v.env.issues.FindAll(v.company.Tenant.ID, repository.IssueFilter{InspectionID: insp.ID})
	require.NoError(t, err)
	assert.Len(t, issues, 2)
}

func TestRejectWithoutNonConformity(t *testing.T) {
	v := newVilaNova(t)
	insp := v.open(t)
	v.evaluate(t, insp, "C", "C", "C", "C", "C")

	_, apierr := v.env.inspectionService().CompleteInspection(v.company.AsAdmin(), insp.ID, &contract.CompleteInspectionRequest{Rejected: true})
	requireStatus(t, http.StatusBadRequest, apierr)
}

func TestInspectorOwnership(t *testing.T) {
	v := newVilaNova(t)
	svc := v.env.inspectionService()
	insp := v.open(t)

	other := testutil.SeedUser(t, v.env.db, v.company.Tenant.ID, entity.RoleInspector, "other@construtora-abc.test")
	asOther := &entity.AuthContext{User: other, Tenant: v.company.Tenant}

	_, apierr := svc.EvaluateItem(asOther, insp.ID, insp.Items[0].ID, &contract.EvaluateItemRequest{Evaluation: "C"})
	requireStatus(t, http.StatusForbidden, apierr)

	_, apierr = svc.CompleteInspection(asOther, insp.ID, &contract.CompleteInspectionRequest{})
	requireStatus(t, http.StatusForbidden, apierr)

	t.Run("listing is scoped to the inspector", func(t *testing.T) {
		list, apierr := svc.GetInspections(asOther, &contract.InspectionFilter{})
		requireOK(t, apierr)
		assert.Empty(t, list)

		list, apierr = svc.GetInspections(v.company.AsSupervisor(), &contract.InspectionFilter{})
		requireOK(t, apierr)
		assert.Len(t, list, 1)
	})

	t.Run("reading is scoped to the inspector", func(t *testing.T) {
		_, apierr := svc.GetInspection(asOther, insp.ID)
		requireStatus(t, http.StatusForbidden, apierr)

		own, apierr := svc.GetInspection(v.company.AsInspector(), insp.ID)
		requireOK(t, apierr)
		assert.Equal(t, insp.ID, own.ID)
	})

	t.Run("supervisors act on any inspection", func(t *testing.T) {
		_, apierr := svc.EvaluateItem(v.company.AsSupervisor(), insp.ID, insp.Items[0].ID, &contract.EvaluateItemRequest{Evaluation: "C"})
		requireOK(t, apierr)
	})

	t.Run("inspectors cannot assign others", func(t *testing.T) {
		_, apierr := svc.CreateInspection(v.company.AsInspector(), &contract.CreateInspectionRequest{
			ProjectID:      v.project.ID,
			ServiceID:      v.service.ID,
			LocationID:     v.location.ID,
			InspectorID:    other.ID,
			ReferenceMonth: "2026-03",
		})
		requireStatus(t, http.StatusForbidden, apierr)
	})
}

func TestInspectionTenantIsolation(t *testing.T) {
	v := newVilaNova(t)
	svc := v.env.inspectionService()
	insp := v.open(t)

	rival := testutil.SeedCompany(t, v.env.db, "Engenharia XYZ")

	_, apierr := svc.GetInspection(rival.AsAdmin(), insp.ID)
	requireStatus(t, http.StatusNotFound, apierr)

	_, apierr = svc.EvaluateItem(rival.AsAdmin(), insp.ID, insp.Items[0].ID, &contract.EvaluateItemRequest{Evaluation: "NC"})
	requireStatus(t, http.StatusNotFound, apierr)

	t.Run("references must belong to the caller", func(t *testing.T) {
		_, apierr := svc.CreateInspection(rival.AsAdmin(), &contract.CreateInspectionRequest{
			ProjectID:      v.project.ID,
			ServiceID:      v.service.ID,
			LocationID:     v.location.ID,
			ReferenceMonth: "2026-03",
		})
		requireStatus(t, http.StatusNotFound, apierr)
	})

	got, apierr := svc.GetInspection(v.company.AsAdmin(), insp.ID)
	requireOK(t, apierr)
	assert.Equal(t, 5, got.Summary.Pending)
}

func TestDeleteInspection(t *testing.T) {
	v := newVilaNova(t)
	svc := v.env.inspectionService()

	draft, apierr := svc.CreateInspection(v.company.AsSupervisor(), &contract.CreateInspectionRequest{
		ProjectID:      v.project.ID,
		ServiceID:      v.service.ID,
		LocationID:     v.location.ID,
		InspectorID:    v.company.Inspector.ID,
		ReferenceMonth: "2026-04",
	})
	requireOK(t, apierr)
	assert.Equal(t, v.company.Inspector.ID, draft.InspectorID)

	requireStatus(t, http.StatusForbidden, svc.DeleteInspection(v.company.AsSupervisor(), draft.ID))

	started := v.open(t)
	requireStatus(t, http.StatusConflict, svc.DeleteInspection(v.company.AsAdmin(), started.ID))

	requireOK(t, svc.DeleteInspection(v.company.AsAdmin(), draft.ID))
	_, apierr = svc.GetInspection(v.company.AsAdmin(), draft.ID)
	requireStatus(t, http.StatusNotFound, apierr)
}

func TestStaleItemWriteAfterCompletion(t *testing.T) {
	v := newVilaNova(t)
	svc := v.env.inspectionService()
	tenantID := v.company.Tenant.ID

	insp := v.open(t)
	v.evaluate(t, insp, "C", "C", "C", "C", "C")

	stale, err := v.env.inspections.FindByID(tenantID, insp.ID)
	require.NoError(t, err)

	_, apierr := svc.CompleteInspection(v.company.AsInspector(), insp.ID, &contract.CompleteInspectionRequest{})
	requireOK(t, apierr)

	nc := entity.EvaluationNonConforming
	item := stale.Items[0]
	item.Evaluation = &nc
	err = v.env.inspections.SaveItem(tenantID, item, entity.InspectionInProgress)
	assert.True(t, repository.IsNotFound(err))

	err = v.env.inspections.SaveItem(tenantID, item, entity.InspectionDraft, entity.InspectionInProgress)
	assert.True(t, repository.IsNotFound(err), "photos are refused too")

	stored, err := v.env.inspections.FindByID(tenantID, insp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ResultApproved, *stored.Result)
	assert.False(t, stored.Items[0].IsNonConforming())

	issues, err := v.env.issues.FindAll(tenantID, repository.IssueFilter{InspectionID: insp.ID})
	require.NoError(t, err)
	assert.Empty(t, issues)
}
