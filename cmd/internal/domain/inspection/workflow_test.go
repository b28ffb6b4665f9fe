package inspection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qualiobra/cmd/internal/domain/entity"
)

func eval(e entity.Evaluation) *entity.Evaluation {
	return &e
}

func newInspection() (*entity.Inspection, []*entity.InspectionItem) {
	insp := &entity.Inspection{Status: entity.InspectionDraft}
	insp.ID = 10

	items := make([]*entity.InspectionItem, 5)
	for i := range items {
		items[i] = &entity.InspectionItem{InspectionID: insp.ID, Position: i + 1}
		items[i].ID = int64(100 + i)
	}
	return insp, items
}

func TestStart(t *testing.T) {
	insp, _ := newInspection()

	require.NoError(t, Start(insp, 1000))
	assert.Equal(t, entity.InspectionInProgress, insp.Status)
	require.NotNil(t, insp.StartedAt)
	assert.Equal(t, int64(1000), *insp.StartedAt)
	assert.Nil(t, insp.Result)

	assert.ErrorIs(t, Start(insp, 2000), ErrInvalidTransition)
	assert.Equal(t, int64(1000), *insp.StartedAt)
}

func TestEvaluate(t *testing.T) {
	insp, items := newInspection()

	t.Run("draft is not evaluable", func(t *testing.T) {
		assert.ErrorIs(t, Evaluate(insp, items[0], entity.EvaluationConforming, ""), ErrInvalidTransition)
	})

	require.NoError(t, Start(insp, 1))

	t.Run("records evaluation", func(t *testing.T) {
		require.NoError(t, Evaluate(insp, items[0], entity.EvaluationNonConforming, "fissura"))
		assert.True(t, items[0].IsNonConforming())
		assert.Equal(t, "fissura", items[0].Observation)
	})

	t.Run("re-evaluation overwrites", func(t *testing.T) {
		require.NoError(t, Evaluate(insp, items[0], entity.EvaluationConforming, ""))
		assert.False(t, items[0].IsNonConforming())
	})

	t.Run("rejects unknown value", func(t *testing.T) {
		assert.ErrorIs(t, Evaluate(insp, items[1], entity.Evaluation("X"), ""), ErrInvalidEvaluation)
		assert.Nil(t, items[1].Evaluation)
	})

	t.Run("rejects foreign item", func(t *testing.T) {
		foreign := &entity.InspectionItem{InspectionID: 99}
		assert.ErrorIs(t, Evaluate(insp, foreign, entity.EvaluationConforming, ""), ErrItemMismatch)
	})
}

func TestComputeResult(t *testing.T) {
	c, nc, na := entity.EvaluationConforming, entity.EvaluationNonConforming, entity.EvaluationNotApplicable

	tests := []struct {
		name     string
		evals    []entity.Evaluation
		rejected bool
		want     entity.InspectionResult
		wantErr  error
	}{
		{"all conforming", []entity.Evaluation{c, c, c}, false, entity.ResultApproved, nil},
		{"not applicable counts as approved", []entity.Evaluation{c, na, na}, false, entity.ResultApproved, nil},
		{"empty", nil, false, entity.ResultApproved, nil},
		{"one nc", []entity.Evaluation{c, c, c, c, nc}, false, entity.ResultApprovedWithRestrictions, nil},
		{"nc with manual rejection", []entity.Evaluation{nc, c}, true, entity.ResultRejected, nil},
		{"rejection without nc", []entity.Evaluation{c, na}, true, "", ErrRejectWithoutNC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeResult(tt.evals, tt.rejected)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, _ := ComputeResult(tt.evals, tt.rejected)
			assert.Equal(t, got, again)
		})
	}
}

func TestComplete(t *testing.T) {
	t.Run("pending items", func(t *testing.T) {
		insp, items := newInspection()
		require.NoError(t, Start(insp, 1))
		require.NoError(t, Evaluate(insp, items[0], entity.EvaluationConforming, ""))

		_, err := Complete(insp, items, false, 2)
		assert.ErrorIs(t, err, ErrPendingItems)
		assert.Equal(t, entity.InspectionInProgress, insp.Status)
		assert.Nil(t, insp.Result)
	})

	t.Run("draft cannot complete", func(t *testing.T) {
		insp, items := newInspection()
		_, err := Complete(insp, items, false, 2)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("four conforming and one nc", func(t *testing.T) {
		insp, items := newInspection()
		require.NoError(t, Start(insp, 1))
		for i, it := range items {
			e := entity.EvaluationConforming
			if i == 2 {
				e = entity.EvaluationNonConforming
			}
			require.NoError(t, Evaluate(insp, it, e, ""))
		}

		ncs, err := Complete(insp, items, false, 5)
		require.NoError(t, err)
		require.Len(t, ncs, 1)
		assert.Equal(t, items[2].ID, ncs[0].ID)
		assert.Equal(t, entity.InspectionCompleted, insp.Status)
		assert.Equal(t, entity.ResultApprovedWithRestrictions, *insp.Result)
		assert.Equal(t, int64(5), *insp.CompletedAt)

		// terminal
		assert.ErrorIs(t, Start(insp, 6), ErrInvalidTransition)
		assert.ErrorIs(t, Evaluate(insp, items[0], entity.EvaluationConforming, ""), ErrInvalidTransition)
		_, err = Complete(insp, items, false, 7)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("rejection without nc keeps inspection open", func(t *testing.T) {
		insp, items := newInspection()
		require.NoError(t, Start(insp, 1))
		for _, it := range items {
			it.Evaluation = eval(entity.EvaluationConforming)
		}

		_, err := Complete(insp, items, true, 2)
		assert.ErrorIs(t, err, ErrRejectWithoutNC)
		assert.Equal(t, entity.InspectionInProgress, insp.Status)
	})
}

func TestSummarize(t *testing.T) {
	_, items := newInspection()
	items[0].Evaluation = eval(entity.EvaluationConforming)
	items[1].Evaluation = eval(entity.EvaluationNonConforming)
	items[2].Evaluation = eval(entity.EvaluationNotApplicable)

	s := Summarize(items)
	assert.Equal(t, Summary{Conforming: 1, NonConforming: 1, NotApplicable: 1, Pending: 2}, s)
	assert.Len(t, Evaluations(items), 3)
}
