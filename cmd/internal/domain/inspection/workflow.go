// Package inspection holds the inspection (FVS) state machine. Functions here
// are pure: they mutate only the values they are given and never touch storage.
package inspection

import (
	"errors"

	"qualiobra/cmd/internal/domain/entity"
)

var (
	ErrInvalidTransition = errors.New("invalid inspection status transition")
	ErrPendingItems      = errors.New("inspection has items without evaluation")
	ErrRejectWithoutNC   = errors.New("an inspection without non-conformities cannot be rejected")
	ErrInvalidEvaluation = errors.New("invalid evaluation")
	ErrItemMismatch      = errors.New("item does not belong to the inspection")
)

// Start moves a DRAFT inspection to IN_PROGRESS.
func Start(insp *entity.Inspection, now int64) error {
	if insp.Status != entity.InspectionDraft {
		return ErrInvalidTransition
	}

	insp.Status = entity.InspectionInProgress
	insp.StartedAt = &now
	return nil
}

// Evaluate records the outcome of one item. Re-evaluating is allowed while
// the inspection is still in progress.
func Evaluate(insp *entity.Inspection, item *entity.InspectionItem, eval entity.Evaluation, observation string) error {
	if insp.Status != entity.InspectionInProgress {
		return ErrInvalidTransition
	}

	if item.InspectionID != insp.ID {
		return ErrItemMismatch
	}

	if !eval.Valid() {
		return ErrInvalidEvaluation
	}

	item.Evaluation = &eval
	item.Observation = observation
	return nil
}

// ComputeResult derives the result from the evaluations. rejected is the
// manual override given at completion and only applies when there is at
// least one non-conformity.
func ComputeResult(evals []entity.Evaluation, rejected bool) (entity.InspectionResult, error) {
	nc := 0
	for _, e := range evals {
		if e == entity.EvaluationNonConforming {
			nc++
		}
	}

	switch {
	case nc == 0 && rejected:
		return "", ErrRejectWithoutNC
	case nc == 0:
		return entity.ResultApproved, nil
	case rejected:
		return entity.ResultRejected, nil
	default:
		return entity.ResultApprovedWithRestrictions, nil
	}
}

// Complete closes an IN_PROGRESS inspection once every item is evaluated and
// returns the non-conforming items, in the order given.
func Complete(insp *entity.Inspection, items []*entity.InspectionItem, rejected bool, now int64) ([]*entity.InspectionItem, error) {
	if insp.Status != entity.InspectionInProgress {
		return nil, ErrInvalidTransition
	}

	var nonConforming []*entity.InspectionItem
	for _, it := range items {
		if it.Evaluation == nil {
			return nil, ErrPendingItems
		}
		if it.IsNonConforming() {
			nonConforming = append(nonConforming, it)
		}
	}

	result, err := ComputeResult(Evaluations(items), rejected)
	if err != nil {
		return nil, err
	}

	insp.Status = entity.InspectionCompleted
	insp.Result = &result
	insp.CompletedAt = &now
	return nonConforming, nil
}

// Evaluations collects the evaluations of items, skipping unevaluated ones.
func Evaluations(items []*entity.InspectionItem) []entity.Evaluation {
	evals := make([]entity.Evaluation, 0, len(items))
	for _, it := range items {
		if it.Evaluation != nil {
			evals = append(evals, *it.Evaluation)
		}
	}
	return evals
}

// Summary counts evaluations per outcome.
type Summary struct {
	Conforming    int `json:"conforming"`
	NonConforming int `json:"non_conforming"`
	NotApplicable int `json:"not_applicable"`
	Pending       int `json:"pending"`
}

func Summarize(items []*entity.InspectionItem) Summary {
	var s Summary
	for _, it := range items {
		if it.Evaluation == nil {
			s.Pending++
			continue
		}

		switch *it.Evaluation {
		case entity.EvaluationConforming:
			s.Conforming++
		case entity.EvaluationNonConforming:
			s.NonConforming++
		case entity.EvaluationNotApplicable:
			s.NotApplicable++
		}
	}
	return s
}
