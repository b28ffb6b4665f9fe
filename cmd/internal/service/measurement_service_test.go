package service

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/sqlite/repository"
	"qualiobra/cmd/internal/testutil"
	"qualiobra/cmd/internal/utils/apierror"
)

func assertDecimal(t *testing.T, expected, actual string) {
	t.Helper()
	got, err := decimal.NewFromString(actual)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString(expected).Equal(got), "expected %s, got %s", expected, actual)
}

type measured struct {
	*vilaNova
	contract *contract.ContractResponse
	masonry  int64
	plaster  int64
}

func newMeasured(t *testing.T) *measured {
	t.Helper()
	v := newVilaNova(t)
	contractor := testutil.SeedContractor(t, v.env.db, v.company.Tenant.ID, "Alvenarias Silva", "11222333000181")

	ct, apierr := v.env.contractService().CreateContract(v.company.AsAdmin(), &contract.ContractRequest{
		ContractorID: contractor.ID,
		ProjectID:    v.project.ID,
		Number:       "CT-001/2026",
		Items: []*contract.ContractItemRequest{
			{Code: "1.01", Description: "Alvenaria de vedação", Unit: "m2", UnitPrice: "50.00", ContractedQuantity: "100"},
			{Code: "2.01", Description: "Reboco interno", Unit: "m2", UnitPrice: "30.00", ContractedQuantity: "200"},
		},
	})
	requireOK(t, apierr)
	require.Len(t, ct.Items, 2)
	assertDecimal(t, "11000", ct.TotalValue)

	return &measured{vilaNova: v, contract: ct, masonry: ct.Items[0].ID, plaster: ct.Items[1].ID}
}

func (m *measured) create(t *testing.T, start, end string, items ...*contract.BulletinItemRequest) *contract.BulletinResponse {
	t.Helper()
	b, apierr := m.env.measurementService().CreateBulletin(m.company.AsSupervisor(), &contract.CreateBulletinRequest{
		ContractID:  m.contract.ID,
		PeriodStart: start,
		PeriodEnd:   end,
		Items:       items,
	})
	requireOK(t, apierr)
	return b
}

func (m *measured) approve(t *testing.T, id int64) {
	t.Helper()
	svc := m.env.measurementService()

	_, apierr := svc.SubmitBulletin(m.company.AsSupervisor(), id)
	requireOK(t, apierr)
	_, apierr = svc.ReviewBulletin(m.company.AsSupervisor(), id)
	requireOK(t, apierr)
	b, apierr := svc.ApproveBulletin(m.company.AsAdmin(), id)
	requireOK(t, apierr)
	assert.Equal(t, string(entity.BulletinApproved), b.Status)
	assert.NotNil(t, b.ApprovedAt)
}

func TestBulletinAccumulation(t *testing.T) {
	m := newMeasured(t)
	svc := m.env.measurementService()

	first := m.create(t, "2026-03-01", "2026-03-31",
		&contract.BulletinItemRequest{ContractItemID: m.masonry, Quantity: "60"},
		&contract.BulletinItemRequest{ContractItemID: m.plaster, Quantity: "50"},
	)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, string(entity.BulletinDraft), first.Status)
	assert.Equal(t, "4500.00", first.TotalThisPeriod)
	assert.Empty(t, first.Warnings)
	m.approve(t, first.ID)

	second := m.create(t, "2026-04-01", "2026-04-30",
		&contract.BulletinItemRequest{ContractItemID: m.masonry, Quantity: "50"},
	)
	assert.Equal(t, 2, second.Number)
	require.Len(t, second.Items, 1)

	acc := second.Items[0].Accumulation
	assertDecimal(t, "60", acc.Before)
	assertDecimal(t, "50", acc.ThisPeriod)
	assertDecimal(t, "110", acc.After)
	assertDecimal(t, "-10", acc.Balance)
	assert.True(t, acc.Exceeded)
	require.Len(t, second.Warnings, 1)
	assert.Contains(t, second.Warnings[0], "1.01")

	t.Run("rejected bulletins leave the history", func(t *testing.T) {
		_, apierr := svc.SubmitBulletin(m.company.AsSupervisor(), second.ID)
		requireOK(t, apierr)

		rejected, apierr := svc.RejectBulletin(m.company.AsAdmin(), second.ID, &contract.RejectBulletinRequest{Reason: "Quantidade acima do executado"})
		requireOK(t, apierr)
		assert.Equal(t, "Quantidade acima do executado", rejected.RejectionReason)

		third := m.create(t, "2026-04-01", "2026-04-30",
			&contract.BulletinItemRequest{ContractItemID: m.masonry, Quantity: "30"},
		)
		assert.Equal(t, 3, third.Number)
		assertDecimal(t, "60", third.Items[0].Before)
		assertDecimal(t, "90", third.Items[0].After)
		assert.False(t, third.Items[0].Exceeded)
		assert.Empty(t, third.Warnings)
	})

	t.Run("reopen a rejected bulletin", func(t *testing.T) {
		reopened, apierr := svc.ReopenBulletin(m.company.AsSupervisor(), second.ID)
		requireOK(t, apierr)
		assert.Equal(t, string(entity.BulletinDraft), reopened.Status)
		assert.Nil(t, reopened.SubmittedAt)
	})

	t.Run("approved is terminal", func(t *testing.T) {
		_, apierr := svc.RejectBulletin(m.company.AsAdmin(), first.ID, &contract.RejectBulletinRequest{Reason: "Revisão"})
		requireStatus(t, http.StatusConflict, apierr)

		requireStatus(t, http.StatusConflict, svc.DeleteBulletin(m.company.AsAdmin(), first.ID))
	})

	t.Run("contract items are frozen once measured", func(t *testing.T) {
		_, apierr := m.env.contractService().ReplaceItems(m.company.AsAdmin(), m.contract.ID, &contract.ReplaceContractItemsRequest{
			Items: []*contract.ContractItemRequest{
				{Code: "1.01", Description: "Alvenaria", Unit: "m2", UnitPrice: "55.00", ContractedQuantity: "100"},
			},
		})
		requireStatus(t, http.StatusConflict, apierr)
	})
}

func TestContractItemHistory(t *testing.T) {
	m := newMeasured(t)
	svc := m.env.measurementService()

	first := m.create(t, "2026-03-01", "2026-03-31",
		&contract.BulletinItemRequest{ContractItemID: m.masonry, Quantity: "60"},
	)
	m.approve(t, first.ID)
	m.create(t, "2026-04-01", "2026-04-30",
		&contract.BulletinItemRequest{ContractItemID: m.masonry, Quantity: "50"},
	)

	history, apierr := svc.GetItemHistory(m.company.AsInspector(), m.contract.ID, m.masonry)
	requireOK(t, apierr)
	assert.Equal(t, "1.01", history.Code)
	require.Len(t, history.Entries, 2)

	assert.Equal(t, 1, history.Entries[0].BulletinNumber)
	assertDecimal(t, "0", history.Entries[0].Before)
	assertDecimal(t, "60", history.Entries[0].After)
	assert.Equal(t, "3000.00", history.Entries[0].ValueAfter)
	assert.False(t, history.Entries[0].Exceeded)

	assert.Equal(t, 2, history.Entries[1].BulletinNumber)
	assertDecimal(t, "60", history.Entries[1].Before)
	assertDecimal(t, "110", history.Entries[1].After)
	assert.True(t, history.Entries[1].Exceeded)

	t.Run("unmeasured item", func(t *testing.T) {
		plaster, apierr := svc.GetItemHistory(m.company.AsInspector(), m.contract.ID, m.plaster)
		requireOK(t, apierr)
		assert.Empty(t, plaster.Entries)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, apierr := svc.GetItemHistory(m.company.AsInspector(), m.contract.ID, m.masonry+1000)
		requireStatus(t, http.StatusNotFound, apierr)
	})
}

func TestContractItemCodes(t *testing.T) {
	m := newMeasured(t)
	svc := m.env.contractService()

	replace := func(items ...*contract.ContractItemRequest) (*contract.ContractResponse, apierror.ErrorResponse) {
		return svc.ReplaceItems(m.company.AsAdmin(), m.contract.ID, &contract.ReplaceContractItemsRequest{Items: items})
	}

	t.Run("codes are unique within a contract", func(t *testing.T) {
		_, apierr := replace(
			&contract.ContractItemRequest{Code: "3.01", Description: "Contrapiso", Unit: "m2", UnitPrice: "20", ContractedQuantity: "10"},
			&contract.ContractItemRequest{Code: " 3.01 ", Description: "Regularização", Unit: "m2", UnitPrice: "25", ContractedQuantity: "10"},
		)
		requireStatus(t, http.StatusBadRequest, apierr)
	})

	t.Run("codes have no inner spaces", func(t *testing.T) {
		_, apierr := replace(
			&contract.ContractItemRequest{Code: "3 01", Description: "Contrapiso", Unit: "m2", UnitPrice: "20", ContractedQuantity: "10"},
		)
		requireStatus(t, http.StatusBadRequest, apierr)
	})

	ct, apierr := replace(
		&contract.ContractItemRequest{Code: "3.01", Description: "Contrapiso", Unit: "m2", UnitPrice: "20", ContractedQuantity: "10"},
		&contract.ContractItemRequest{Code: "3.02", Description: "Regularização", Unit: "m2", UnitPrice: "25", ContractedQuantity: "10"},
	)
	requireOK(t, apierr)
	assert.Len(t, ct.Items, 2)
}

func TestBulletinRules(t *testing.T) {
	m := newMeasured(t)
	svc := m.env.measurementService()

	t.Run("empty bulletins cannot be submitted", func(t *testing.T) {
		empty := m.create(t, "2026-03-01", "2026-03-31")
		_, apierr := svc.SubmitBulletin(m.company.AsSupervisor(), empty.ID)
		requireStatus(t, http.StatusBadRequest, apierr)
		requireOK(t, svc.DeleteBulletin(m.company.AsSupervisor(), empty.ID))
	})

	t.Run("items must belong to the contract", func(t *testing.T) {
		_, apierr := svc.CreateBulletin(m.company.AsSupervisor(), &contract.CreateBulletinRequest{
			ContractID:  m.contract.ID,
			PeriodStart: "2026-03-01",
			PeriodEnd:   "2026-03-31",
			Items:       []*contract.BulletinItemRequest{{ContractItemID: 42, Quantity: "1"}},
		})
		requireStatus(t, http.StatusBadRequest, apierr)
	})

	t.Run("period end before start", func(t *testing.T) {
		_, apierr := svc.CreateBulletin(m.company.AsSupervisor(), &contract.CreateBulletinRequest{
			ContractID:  m.contract.ID,
			PeriodStart: "2026-03-31",
			PeriodEnd:   "2026-03-01",
		})
		requireStatus(t, http.StatusBadRequest, apierr)
	})

	t.Run("only admins approve", func(t *testing.T) {
		b := m.create(t, "2026-03-01", "2026-03-31", &contract.BulletinItemRequest{ContractItemID: m.plaster, Quantity: "10"})
		_, apierr := svc.SubmitBulletin(m.company.AsSupervisor(), b.ID)
		requireOK(t, apierr)
		_, apierr = svc.ReviewBulletin(m.company.AsSupervisor(), b.ID)
		requireOK(t, apierr)

		_, apierr = svc.ApproveBulletin(m.company.AsSupervisor(), b.ID)
		requireStatus(t, http.StatusForbidden, apierr)
	})

	t.Run("inspectors cannot measure", func(t *testing.T) {
		_, apierr := svc.CreateBulletin(m.company.AsInspector(), &contract.CreateBulletinRequest{
			ContractID:  m.contract.ID,
			PeriodStart: "2026-03-01",
			PeriodEnd:   "2026-03-31",
		})
		requireStatus(t, http.StatusForbidden, apierr)
	})

	t.Run("other tenants see nothing", func(t *testing.T) {
		rival := testutil.SeedCompany(t, m.env.db, "Engenharia XYZ")
		_, apierr := svc.CreateBulletin(rival.AsAdmin(), &contract.CreateBulletinRequest{
			ContractID:  m.contract.ID,
			PeriodStart: "2026-03-01",
			PeriodEnd:   "2026-03-31",
		})
		requireStatus(t, http.StatusNotFound, apierr)

		list, apierr := svc.GetBulletins(rival.AsAdmin(), 0)
		requireOK(t, apierr)
		assert.Empty(t, list)
	})
}

func TestApprovedBulletinIsTerminal(t *testing.T) {
	m := newMeasured(t)
	svc := m.env.measurementService()
	tenantID := m.company.Tenant.ID

	b := m.create(t, "2026-03-01", "2026-03-31",
		&contract.BulletinItemRequest{ContractItemID: m.masonry, Quantity: "10"},
	)
	_, apierr := svc.SubmitBulletin(m.company.AsSupervisor(), b.ID)
	requireOK(t, apierr)
	_, apierr = svc.ReviewBulletin(m.company.AsSupervisor(), b.ID)
	requireOK(t, apierr)

	stale, err := m.env.bulletins.FindByID(tenantID, b.ID)
	require.NoError(t, err)

	_, apierr = svc.ApproveBulletin(m.company.AsAdmin(), b.ID)
	requireOK(t, apierr)

	stale.Status = entity.BulletinRejected
	err = m.env.bulletins.Transition(tenantID, stale, entity.BulletinReviewed)
	assert.True(t, repository.IsNotFound(err))

	stored, err := m.env.bulletins.FindByID(tenantID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BulletinApproved, stored.Status)

	_, apierr = svc.RejectBulletin(m.company.AsAdmin(), b.ID, &contract.RejectBulletinRequest{Reason: "Atrasado"})
	requireStatus(t, http.StatusConflict, apierr)
}
