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

// raiseIssue completes an inspection with a single non-conformity.
func raiseIssue(t *testing.T, v *vilaNova) *contract.IssueResponse {
	t.Helper()
	insp := v.open(t)
	v.evaluate(t, insp, "C", "NC", "C", "C", "C")

	_, apierr := v.env.inspectionService().CompleteInspection(v.company.AsInspector(), insp.ID, &contract.CompleteInspectionRequest{})
	requireOK(t, apierr)

	issues, apierr := v.env.issueService().GetIssues(v.company.AsInspector(), &contract.IssueFilter{InspectionID: insp.ID})
	requireOK(t, apierr)
	require.Len(t, issues, 1)
	return issues[0]
}

func TestIssueTransitions(t *testing.T) {
	v := newVilaNova(t)
	svc := v.env.issueService()
	issue := raiseIssue(t, v)
	auth := v.company.AsInspector()

	move := func(status, resolution string) (*contract.IssueResponse, int) {
		resp, apierr := svc.UpdateStatus(auth, issue.ID, &contract.UpdateIssueStatusRequest{Status: status, Resolution: resolution})
		if apierr != nil {
			return nil, apierr.Code()
		}
		return resp, http.StatusOK
	}

	resp, code := move("IN_PROGRESS", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, string(entity.IssueInProgress), resp.Status)

	resp, code = move("RESOLVED", "Junta refeita")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Junta refeita", resp.Resolution)
	assert.NotNil(t, resp.ResolvedAt)

	_, code = move("IN_PROGRESS", "")
	assert.Equal(t, http.StatusConflict, code)

	resp, code = move("OPEN", "")
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, resp.ResolvedAt)

	resp, code = move("CANCELLED", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, string(entity.IssueCancelled), resp.Status)

	for _, to := range []string{"OPEN", "IN_PROGRESS", "RESOLVED"} {
		_, code = move(to, "")
		assert.Equal(t, http.StatusConflict, code, "CANCELLED -> %s", to)
	}
}

func TestUpdateIssue(t *testing.T) {
	v := newVilaNova(t)
	svc := v.env.issueService()
	issue := raiseIssue(t, v)
	contractor := testutil.SeedContractor(t, v.env.db, v.company.Tenant.ID, "Alvenarias Silva", "11222333000181")

	title := "Junta fora do padrão"
	due := "2026-04-15"
	resp, apierr := svc.UpdateIssue(v.company.AsSupervisor(), issue.ID, &contract.UpdateIssueRequest{
		Title:        &title,
		ContractorID: &contractor.ID,
		DueDate:      &due,
	})
	requireOK(t, apierr)
	assert.Equal(t, title, resp.Title)
	require.NotNil(t, resp.ContractorID)
	assert.Equal(t, contractor.ID, *resp.ContractorID)
	assert.Equal(t, due, resp.DueDate)

	byContractor, apierr := svc.GetIssues(v.company.AsAdmin(), &contract.IssueFilter{ContractorID: contractor.ID})
	requireOK(t, apierr)
	assert.Len(t, byContractor, 1)

	t.Run("foreign contractor", func(t *testing.T) {
		rival := testutil.SeedCompany(t, v.env.db, "Engenharia XYZ")
		foreign := testutil.SeedContractor(t, v.env.db, rival.Tenant.ID, "Pinturas Souza", "11444777000161")

		_, apierr := svc.UpdateIssue(v.company.AsSupervisor(), issue.ID, &contract.UpdateIssueRequest{ContractorID: &foreign.ID})
		requireStatus(t, http.StatusNotFound, apierr)

		_, apierr = svc.GetIssue(rival.AsAdmin(), issue.ID)
		requireStatus(t, http.StatusNotFound, apierr)
	})

	t.Run("resolved issues are frozen", func(t *testing.T) {
		_, apierr := svc.UpdateStatus(v.company.AsAdmin(), issue.ID, &contract.UpdateIssueStatusRequest{Status: "RESOLVED"})
		requireOK(t, apierr)

		_, apierr = svc.UpdateIssue(v.company.AsAdmin(), issue.ID, &contract.UpdateIssueRequest{Title: &title})
		requireStatus(t, http.StatusConflict, apierr)
	})
}

func TestCancelledIssueCannotBeRevived(t *testing.T) {
	v := newVilaNova(t)
	svc := v.env.issueService()
	tenantID := v.company.Tenant.ID
	issue := raiseIssue(t, v)

	stale, err := v.env.issues.FindByID(tenantID, issue.ID)
	require.NoError(t, err)

	_, apierr := svc.UpdateStatus(v.company.AsSupervisor(), issue.ID, &contract.UpdateIssueStatusRequest{Status: "CANCELLED"})
	requireOK(t, apierr)

	stale.Status = entity.IssueResolved
	err = v.env.issues.Save(tenantID, stale, entity.IssueOpen)
	assert.True(t, repository.IsNotFound(err))

	stored, err := v.env.issues.FindByID(tenantID, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.IssueCancelled, stored.Status)
}
