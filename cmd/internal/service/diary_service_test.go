package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/testutil"
)

func TestDiary(t *testing.T) {
	v := newVilaNova(t)
	svc := NewDiaryService(v.env.diaries, v.env.projects, v.env.contractors, v.env.validate)
	contractor := testutil.SeedContractor(t, v.env.db, v.company.Tenant.ID, "Alvenarias Silva", "11222333000181")

	req := &contract.DiaryRequest{
		ProjectID:        v.project.ID,
		EntryDate:        "2026-03-10",
		WeatherMorning:   "Ensolarado",
		WeatherAfternoon: "Chuva fraca",
		Labor: []*contract.DiaryLaborRequest{
			{Role: "Pedreiro", Count: 4, ContractorID: contractor.ID},
			{Role: "Servente", Count: 6},
		},
		Equipment:    []*contract.DiaryEquipmentRequest{{Name: "Betoneira", Quantity: 1}},
		Activities:   []*contract.DiaryActivityRequest{{Description: "Elevação de alvenaria", LocationID: v.location.ID}},
		Observations: []*contract.DiaryObservationRequest{{Text: "Entrega de blocos atrasada"}},
	}

	created, apierr := svc.CreateDiary(v.company.AsInspector(), req)
	requireOK(t, apierr)
	assert.Equal(t, "2026-03-10", created.EntryDate)
	assert.Len(t, created.Labor, 2)
	require.NotNil(t, created.Labor[0].ContractorID)
	assert.Equal(t, contractor.ID, *created.Labor[0].ContractorID)

	t.Run("one diary per project and day", func(t *testing.T) {
		_, apierr := svc.CreateDiary(v.company.AsSupervisor(), req)
		requireStatus(t, http.StatusConflict, apierr)
	})

	t.Run("update replaces the body", func(t *testing.T) {
		updated, apierr := svc.UpdateDiary(v.company.AsSupervisor(), created.ID, &contract.UpdateDiaryRequest{
			WeatherMorning: "Nublado",
			Labor:          []*contract.DiaryLaborRequest{{Role: "Pedreiro", Count: 3}},
		})
		requireOK(t, apierr)
		assert.Equal(t, "Nublado", updated.WeatherMorning)

		got, apierr := svc.GetDiary(v.company.AsAdmin(), created.ID)
		requireOK(t, apierr)
		assert.Len(t, got.Labor, 1)
		assert.Empty(t, got.Equipment)
		assert.Empty(t, got.Activities)
		assert.Equal(t, "2026-03-10", got.EntryDate)
	})

	t.Run("period filter", func(t *testing.T) {
		list, apierr := svc.GetDiaries(v.company.AsAdmin(), &contract.DiaryFilter{ProjectID: v.project.ID, From: "2026-03-01", To: "2026-03-31"})
		requireOK(t, apierr)
		assert.Len(t, list, 1)

		list, apierr = svc.GetDiaries(v.company.AsAdmin(), &contract.DiaryFilter{From: "2026-04-01"})
		requireOK(t, apierr)
		assert.Empty(t, list)

		_, apierr = svc.GetDiaries(v.company.AsAdmin(), &contract.DiaryFilter{From: "2026-04-01", To: "2026-03-01"})
		requireStatus(t, http.StatusBadRequest, apierr)
	})

	t.Run("foreign references", func(t *testing.T) {
		rival := testutil.SeedCompany(t, v.env.db, "Engenharia XYZ")
		foreign := testutil.SeedContractor(t, v.env.db, rival.Tenant.ID, "Pinturas Souza", "11444777000161")

		_, apierr := svc.CreateDiary(v.company.AsAdmin(), &contract.DiaryRequest{
			ProjectID: v.project.ID,
			EntryDate: "2026-03-11",
			Labor:     []*contract.DiaryLaborRequest{{Role: "Pintor", Count: 2, ContractorID: foreign.ID}},
		})
		requireStatus(t, http.StatusNotFound, apierr)

		_, apierr = svc.GetDiary(rival.AsAdmin(), created.ID)
		requireStatus(t, http.StatusNotFound, apierr)
	})

	t.Run("delete is admin only", func(t *testing.T) {
		requireStatus(t, http.StatusForbidden, svc.DeleteDiary(v.company.AsInspector(), created.ID))
		requireOK(t, svc.DeleteDiary(v.company.AsAdmin(), created.ID))

		_, apierr := svc.GetDiary(v.company.AsAdmin(), created.ID)
		requireStatus(t, http.StatusNotFound, apierr)
	})
}

func TestDiaryNestedEntriesAreTrimmed(t *testing.T) {
	v := newVilaNova(t)
	svc := NewDiaryService(v.env.diaries, v.env.projects, v.env.contractors, v.env.validate)

	t.Run("blank entries are rejected", func(t *testing.T) {
		_, apierr := svc.CreateDiary(v.company.AsInspector(), &contract.DiaryRequest{
			ProjectID: v.project.ID,
			EntryDate: "2026-03-11",
			Labor:     []*contract.DiaryLaborRequest{{Role: "   ", Count: 2}},
		})
		requireStatus(t, http.StatusBadRequest, apierr)

		_, apierr = svc.CreateDiary(v.company.AsInspector(), &contract.DiaryRequest{
			ProjectID:    v.project.ID,
			EntryDate:    "2026-03-11",
			Observations: []*contract.DiaryObservationRequest{{Text: "  "}},
		})
		requireStatus(t, http.StatusBadRequest, apierr)
	})

	created, apierr := svc.CreateDiary(v.company.AsInspector(), &contract.DiaryRequest{
		ProjectID:    v.project.ID,
		EntryDate:    "2026-03-11",
		Labor:        []*contract.DiaryLaborRequest{{Role: "  Carpinteiro ", Count: 2}},
		Observations: []*contract.DiaryObservationRequest{{Text: " Chuva forte à tarde "}},
	})
	requireOK(t, apierr)
	require.Len(t, created.Labor, 1)
	assert.Equal(t, "Carpinteiro", created.Labor[0].Role)
	require.Len(t, created.Observations, 1)
	assert.Equal(t, "Chuva forte à tarde", created.Observations[0].Text)
}
