package service

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/measurement"
	"qualiobra/cmd/internal/domain/policy"
	"qualiobra/cmd/internal/domain/sqlite/repository"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

// bulletinTransitions lists the statuses reachable from each status.
// APPROVED is terminal; a REJECTED bulletin can be reopened as DRAFT.
var bulletinTransitions = map[entity.BulletinStatus][]entity.BulletinStatus{
	entity.BulletinDraft:     {entity.BulletinSubmitted},
	entity.BulletinSubmitted: {entity.BulletinReviewed, entity.BulletinRejected},
	entity.BulletinReviewed:  {entity.BulletinApproved, entity.BulletinRejected},
	entity.BulletinRejected:  {entity.BulletinDraft},
}

type BulletinRepository interface {
	FindAll(tenantID, contractID int64) ([]*entity.MeasurementBulletin, error)
	FindByID(tenantID, id int64) (*entity.MeasurementBulletin, error)
	Create(b *entity.MeasurementBulletin) error
	Transition(tenantID int64, b *entity.MeasurementBulletin, from entity.BulletinStatus) error
	ReplaceLines(tenantID int64, b *entity.MeasurementBulletin) error
	Delete(tenantID int64, b *entity.MeasurementBulletin) error
	History(tenantID, contractID int64) ([]*repository.HistoryRow, error)
}

// MeasurementService manages measurement bulletins (BM). Quantities beyond
// the contracted ones are reported as warnings and never block a mutation.
type MeasurementService struct {
	BulletinRepo BulletinRepository
	ContractRepo ContractRepository
	Validate     *validator.Validate
}

func NewMeasurementService(bulletinRepo BulletinRepository, contractRepo ContractRepository, validate *validator.Validate) *MeasurementService {
	return &MeasurementService{
		BulletinRepo: bulletinRepo,
		ContractRepo: contractRepo,
		Validate:     validate,
	}
}

// GetBulletins lists the bulletins of a contract, or of the whole tenant
// when contractID is 0.
func (m *MeasurementService) GetBulletins(auth *entity.AuthContext, contractID int64) ([]*contract.BulletinResponse, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	bulletins, err := m.BulletinRepo.FindAll(auth.TenantID(), contractID)
	if err != nil {
		log.Errorf("failed to fetch bulletins of tenant %d: %v", auth.TenantID(), err)
		return nil, apierror.InternalServerError
	}

	ledgers := make(map[int64]*ledger)
	resp := make([]*contract.BulletinResponse, len(bulletins))
	for i, b := range bulletins {
		l, ok := ledgers[b.ContractID]
		if !ok {
			var apierr apierror.ErrorResponse
			if l, apierr = m.loadLedger(auth, b.ContractID); apierr != nil {
				return nil, apierr
			}
			ledgers[b.ContractID] = l
		}
		resp[i] = l.toBulletinResponse(b)
	}
	return resp, nil
}

// GetItemHistory lists the accumulated quantity of a contract item after
// every bulletin that measured it.
func (m *MeasurementService) GetItemHistory(auth *entity.AuthContext, contractID, itemID int64) (*contract.ItemHistoryResponse, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	l, apierr := m.loadLedger(auth, contractID)
	if apierr != nil {
		return nil, apierr
	}

	ci, ok := l.items[itemID]
	if !ok {
		return nil, apierror.NotFoundError
	}

	series := measurement.Series(l.history[itemID], ci.ContractedQuantity)
	entries := make([]*contract.ItemHistoryEntry, len(series))
	for i, p := range series {
		entries[i] = &contract.ItemHistoryEntry{
			BulletinNumber: p.BulletinNumber,
			Accumulation:   toAccumulation(p.Accumulation, ci.UnitPrice),
		}
	}

	return &contract.ItemHistoryResponse{
		ContractItemID: ci.ID,
		Code:           ci.Code,
		Description:    ci.Description,
		Unit:           ci.Unit,
		UnitPrice:      ci.UnitPrice.String(),
		Entries:        entries,
	}, nil
}

func (m *MeasurementService) GetBulletin(auth *entity.AuthContext, id int64) (*contract.BulletinResponse, apierror.ErrorResponse) {
	b, apierr := m.fetchBulletin(auth, id)
	if apierr != nil {
		return nil, apierr
	}
	return m.respond(auth, b)
}

// CreateBulletin numbers the bulletin as the next one of its contract.
func (m *MeasurementService) CreateBulletin(auth *entity.AuthContext, req *contract.CreateBulletinRequest) (*contract.BulletinResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.BulletinCreate, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(m.Validate, req); apierr != nil {
		return nil, apierr
	}

	ct, apierr := fetchContract(m.ContractRepo, auth, req.ContractID)
	if apierr != nil {
		return nil, apierr
	}

	if !ct.Active {
		return nil, apierror.NewValidationError("contract_id", "Contract is not active")
	}

	b := &entity.MeasurementBulletin{
		TenantID:    auth.TenantID(),
		ContractID:  ct.ID,
		Status:      entity.BulletinDraft,
		Notes:       req.Notes,
		CreatedByID: auth.UserID(),
	}

	if apierr = setPeriod(b, req.PeriodStart, req.PeriodEnd); apierr != nil {
		return nil, apierr
	}

	if b.Items, apierr = toMeasurementItems(ct, req.Items); apierr != nil {
		return nil, apierr
	}
	b.Additives = toAdditives(req.Additives)

	if err := m.BulletinRepo.Create(b); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.NewConflictError("Another bulletin was created for this contract, please try again")
		}
		log.Errorf("failed to create bulletin for contract %d: %v", ct.ID, err)
		return nil, apierror.InternalServerError
	}
	return m.respond(auth, b)
}

// UpdateBulletin edits a DRAFT bulletin. Items and additives are replaced
// only when present in the request.
func (m *MeasurementService) UpdateBulletin(auth *entity.AuthContext, id int64, req *contract.UpdateBulletinRequest) (*contract.BulletinResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.BulletinEdit, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(m.Validate, req); apierr != nil {
		return nil, apierr
	}

	b, apierr := m.fetchBulletin(auth, id)
	if apierr != nil {
		return nil, apierr
	}

	if b.Status != entity.BulletinDraft {
		return nil, apierror.NewConflictError("Only DRAFT bulletins can be edited")
	}

	start, end := utils.FormatDate(b.PeriodStart), utils.FormatDate(b.PeriodEnd)
	if req.PeriodStart != nil {
		start = *req.PeriodStart
	}
	if req.PeriodEnd != nil {
		end = *req.PeriodEnd
	}

	if apierr = setPeriod(b, start, end); apierr != nil {
		return nil, apierr
	}

	if req.Notes != nil {
		b.Notes = *req.Notes
	}

	if req.Items != nil {
		ct, apierr := fetchContract(m.ContractRepo, auth, b.ContractID)
		if apierr != nil {
			return nil, apierr
		}

		if b.Items, apierr = toMeasurementItems(ct, req.Items); apierr != nil {
			return nil, apierr
		}
	}

	if req.Additives != nil {
		b.Additives = toAdditives(req.Additives)
	}

	if err := m.BulletinRepo.ReplaceLines(auth.TenantID(), b); err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NewConflictError("Only DRAFT bulletins can be edited")
		}
		log.Errorf("failed to update bulletin %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return m.respond(auth, b)
}

func (m *MeasurementService) SubmitBulletin(auth *entity.AuthContext, id int64) (*contract.BulletinResponse, apierror.ErrorResponse) {
	return m.transition(auth, id, policy.BulletinSubmit, entity.BulletinSubmitted, func(b *entity.MeasurementBulletin, now int64) apierror.ErrorResponse {
		if len(b.Items) == 0 && len(b.Additives) == 0 {
			return apierror.NewValidationError("items", "A bulletin needs at least one measured item to be submitted")
		}

		b.SubmittedAt = &now
		return nil
	})
}

func (m *MeasurementService) ReviewBulletin(auth *entity.AuthContext, id int64) (*contract.BulletinResponse, apierror.ErrorResponse) {
	return m.transition(auth, id, policy.BulletinReview, entity.BulletinReviewed, func(b *entity.MeasurementBulletin, now int64) apierror.ErrorResponse {
		reviewer := auth.UserID()
		b.ReviewedAt = &now
		b.ReviewedByID = &reviewer
		return nil
	})
}

func (m *MeasurementService) ApproveBulletin(auth *entity.AuthContext, id int64) (*contract.BulletinResponse, apierror.ErrorResponse) {
	return m.transition(auth, id, policy.BulletinApprove, entity.BulletinApproved, func(b *entity.MeasurementBulletin, now int64) apierror.ErrorResponse {
		approver := auth.UserID()
		b.ApprovedAt = &now
		b.ApprovedByID = &approver
		return nil
	})
}

func (m *MeasurementService) RejectBulletin(auth *entity.AuthContext, id int64, req *contract.RejectBulletinRequest) (*contract.BulletinResponse, apierror.ErrorResponse) {
	if apierr := checkRequest(m.Validate, req); apierr != nil {
		return nil, apierr
	}

	return m.transition(auth, id, policy.BulletinReject, entity.BulletinRejected, func(b *entity.MeasurementBulletin, _ int64) apierror.ErrorResponse {
		b.RejectionReason = req.Reason
		return nil
	})
}

// ReopenBulletin turns a REJECTED bulletin back into an editable DRAFT.
func (m *MeasurementService) ReopenBulletin(auth *entity.AuthContext, id int64) (*contract.BulletinResponse, apierror.ErrorResponse) {
	return m.transition(auth, id, policy.BulletinEdit, entity.BulletinDraft, func(b *entity.MeasurementBulletin, _ int64) apierror.ErrorResponse {
		b.SubmittedAt = nil
		b.ReviewedAt = nil
		b.ReviewedByID = nil
		return nil
	})
}

func (m *MeasurementService) DeleteBulletin(auth *entity.AuthContext, id int64) apierror.ErrorResponse {
	if apierr := policy.CheckAuth(policy.BulletinDelete, auth); apierr != nil {
		return apierr
	}

	b, apierr := m.fetchBulletin(auth, id)
	if apierr != nil {
		return apierr
	}

	if b.Status != entity.BulletinDraft {
		return apierror.NewConflictError("Only DRAFT bulletins can be deleted")
	}

	if err := m.BulletinRepo.Delete(auth.TenantID(), b); err != nil {
		if repository.IsNotFound(err) {
			return apierror.NotFoundError
		}
		log.Errorf("failed to delete bulletin %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func (m *MeasurementService) transition(
	auth *entity.AuthContext,
	id int64,
	op policy.Operation,
	to entity.BulletinStatus,
	apply func(b *entity.MeasurementBulletin, now int64) apierror.ErrorResponse,
) (*contract.BulletinResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(op, auth); apierr != nil {
		return nil, apierr
	}

	b, apierr := m.fetchBulletin(auth, id)
	if apierr != nil {
		return nil, apierr
	}

	from := b.Status
	if !slices.Contains(bulletinTransitions[from], to) {
		return nil, apierror.NewInvalidTransitionError("bulletin", string(from), string(to))
	}

	if apierr = apply(b, utils.NowUTC()); apierr != nil {
		return nil, apierr
	}

	b.Status = to
	if err := m.BulletinRepo.Transition(auth.TenantID(), b, from); err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NewInvalidTransitionError("bulletin", string(from), string(to))
		}
		log.Errorf("failed to move bulletin %d to %s: %v", id, to, err)
		return nil, apierror.InternalServerError
	}
	return m.respond(auth, b)
}

func (m *MeasurementService) fetchBulletin(auth *entity.AuthContext, id int64) (*entity.MeasurementBulletin, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	b, err := m.BulletinRepo.FindByID(auth.TenantID(), id)
	if err != nil {
		log.Errorf("failed to find bulletin %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if b == nil {
		return nil, apierror.NotFoundError
	}
	return b, nil
}

func (m *MeasurementService) respond(auth *entity.AuthContext, b *entity.MeasurementBulletin) (*contract.BulletinResponse, apierror.ErrorResponse) {
	l, apierr := m.loadLedger(auth, b.ContractID)
	if apierr != nil {
		return nil, apierr
	}
	return l.toBulletinResponse(b), nil
}

// ledger is the measured history of one contract.
type ledger struct {
	items   map[int64]*entity.ContractItem
	history map[int64][]measurement.Entry
}

func (m *MeasurementService) loadLedger(auth *entity.AuthContext, contractID int64) (*ledger, apierror.ErrorResponse) {
	ct, apierr := fetchContract(m.ContractRepo, auth, contractID)
	if apierr != nil {
		return nil, apierr
	}

	rows, err := m.BulletinRepo.History(auth.TenantID(), contractID)
	if err != nil {
		log.Errorf("failed to load measurement history of contract %d: %v", contractID, err)
		return nil, apierror.InternalServerError
	}

	l := &ledger{
		items:   make(map[int64]*entity.ContractItem, len(ct.Items)),
		history: make(map[int64][]measurement.Entry),
	}

	for _, it := range ct.Items {
		l.items[it.ID] = it
	}

	for _, row := range rows {
		l.history[row.ContractItemID] = append(l.history[row.ContractItemID], measurement.Entry{
			BulletinNumber: row.Number,
			Quantity:       row.Quantity,
		})
	}
	return l, nil
}

func (l *ledger) toBulletinResponse(b *entity.MeasurementBulletin) *contract.BulletinResponse {
	total := decimal.Zero
	warnings := make([]string, 0)

	items := make([]*contract.BulletinItemResponse, 0, len(b.Items))
	for _, it := range b.Items {
		ci, ok := l.items[it.ContractItemID]
		if !ok {
			continue
		}

		acc := measurement.Accumulate(l.history[ci.ID], b.Number, it.QuantityThisPeriod, ci.ContractedQuantity)
		total = total.Add(measurement.Value(acc.ThisPeriod, ci.UnitPrice))
		if acc.Exceeded {
			warnings = append(warnings, fmt.Sprintf("Item %s exceeds the contracted quantity: %s of %s %s",
				ci.Code, acc.After.String(), acc.Contracted.String(), ci.Unit))
		}

		items = append(items, &contract.BulletinItemResponse{
			ContractItemID: ci.ID,
			Code:           ci.Code,
			Description:    ci.Description,
			Unit:           ci.Unit,
			UnitPrice:      ci.UnitPrice.String(),
			Note:           it.Note,
			Accumulation:   toAccumulation(acc, ci.UnitPrice),
		})
	}

	additives := make([]*contract.AdditiveResponse, len(b.Additives))
	for i, a := range b.Additives {
		acc := measurement.Additive(a.QuantityThisPeriod, a.ContractedQuantity)
		total = total.Add(measurement.Value(acc.ThisPeriod, a.UnitPrice))
		if acc.Exceeded {
			warnings = append(warnings, fmt.Sprintf("Additive '%s' exceeds its contracted quantity: %s of %s %s",
				a.Description, acc.After.String(), acc.Contracted.String(), a.Unit))
		}

		additives[i] = &contract.AdditiveResponse{
			ID:           a.ID,
			Description:  a.Description,
			Unit:         a.Unit,
			UnitPrice:    a.UnitPrice.String(),
			Accumulation: toAccumulation(acc, a.UnitPrice),
		}
	}

	return &contract.BulletinResponse{
		ID:              b.ID,
		ContractID:      b.ContractID,
		Number:          b.Number,
		PeriodStart:     utils.FormatDate(b.PeriodStart),
		PeriodEnd:       utils.FormatDate(b.PeriodEnd),
		Status:          string(b.Status),
		Notes:           b.Notes,
		RejectionReason: b.RejectionReason,
		Items:           items,
		Additives:       additives,
		TotalThisPeriod: total.StringFixed(2),
		Warnings:        warnings,
		SubmittedAt:     utils.FormatEpochPtr(b.SubmittedAt),
		ReviewedAt:      utils.FormatEpochPtr(b.ReviewedAt),
		ApprovedAt:      utils.FormatEpochPtr(b.ApprovedAt),
		CreatedAt:       utils.FormatEpoch(b.CreatedAt),
		UpdatedAt:       utils.FormatEpoch(b.UpdatedAt),
	}
}

func toAccumulation(acc measurement.Accumulation, unitPrice decimal.Decimal) contract.Accumulation {
	money := acc.Money(unitPrice)
	return contract.Accumulation{
		Before:          acc.Before.String(),
		ThisPeriod:      acc.ThisPeriod.String(),
		After:           acc.After.String(),
		Contracted:      acc.Contracted.String(),
		Balance:         acc.Balance.String(),
		Exceeded:        acc.Exceeded,
		ValueThisPeriod: money.ThisPeriod.StringFixed(2),
		ValueAfter:      money.After.StringFixed(2),
	}
}

func setPeriod(b *entity.MeasurementBulletin, start, end string) apierror.ErrorResponse {
	ps, err := utils.ParseDate(start)
	if err != nil {
		return apierror.NewValidationError("period_start", "Value must be a date in the format YYYY-MM-DD")
	}

	pe, err := utils.ParseDate(end)
	if err != nil {
		return apierror.NewValidationError("period_end", "Value must be a date in the format YYYY-MM-DD")
	}

	if apierr := checkPeriod(&ps, &pe, "period_end"); apierr != nil {
		return apierr
	}

	b.PeriodStart, b.PeriodEnd = ps, pe
	return nil
}

// toMeasurementItems checks that every line measures a distinct item of ct.
func toMeasurementItems(ct *entity.Contract, reqs []*contract.BulletinItemRequest) ([]*entity.MeasurementItem, apierror.ErrorResponse) {
	known := make(map[int64]bool, len(ct.Items))
	for _, it := range ct.Items {
		known[it.ID] = true
	}

	seen := make(map[int64]bool, len(reqs))
	items := make([]*entity.MeasurementItem, len(reqs))
	for i, r := range reqs {
		if !known[r.ContractItemID] {
			return nil, apierror.NewValidationError("items", fmt.Sprintf("Item %d does not belong to the contract", r.ContractItemID))
		}

		if seen[r.ContractItemID] {
			return nil, apierror.NewValidationError("items", fmt.Sprintf("Item %d is measured more than once", r.ContractItemID))
		}
		seen[r.ContractItemID] = true

		items[i] = &entity.MeasurementItem{
			ContractItemID:     r.ContractItemID,
			QuantityThisPeriod: parseDecimal(r.Quantity),
			Note:               r.Note,
		}
	}
	return items, nil
}

func toAdditives(reqs []*contract.AdditiveRequest) []*entity.MeasurementAdditive {
	additives := make([]*entity.MeasurementAdditive, len(reqs))
	for i, r := range reqs {
		additives[i] = &entity.MeasurementAdditive{
			Description:        r.Description,
			Unit:               r.Unit,
			UnitPrice:          parseDecimal(r.UnitPrice),
			ContractedQuantity: parseDecimal(r.ContractedQuantity),
			QuantityThisPeriod: parseDecimal(r.Quantity),
		}
	}
	return additives
}
