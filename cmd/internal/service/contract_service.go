package service

import (
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

type ContractRepository interface {
	FindAll(tenantID, projectID int64) ([]*entity.Contract, error)
	FindByID(tenantID, id int64) (*entity.Contract, error)
	ExistsByNumber(tenantID int64, number string) (bool, error)
	Create(contract *entity.Contract) error
	Save(tenantID int64, contract *entity.Contract) error
	ReplaceItems(tenantID int64, contract *entity.Contract, items []*entity.ContractItem) error
	CountBulletins(tenantID, contractID int64) (int64, error)
}

type ContractService struct {
	ContractRepo   ContractRepository
	ContractorRepo ContractorRepository
	ProjectRepo    ProjectRepository
	Validate       *validator.Validate
}

func NewContractService(
	contractRepo ContractRepository,
	contractorRepo ContractorRepository,
	projectRepo ProjectRepository,
	validate *validator.Validate,
) *ContractService {
	return &ContractService{
		ContractRepo:   contractRepo,
		ContractorRepo: contractorRepo,
		ProjectRepo:    projectRepo,
		Validate:       validate,
	}
}

// GetContracts lists the tenant contracts, optionally of a single project (0 = all).
func (c *ContractService) GetContracts(auth *entity.AuthContext, projectID int64) ([]*contract.ContractResponse, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	contracts, err := c.ContractRepo.FindAll(auth.TenantID(), projectID)
	if err != nil {
		log.Errorf("failed to fetch contracts of tenant %d: %v", auth.TenantID(), err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.ContractResponse, len(contracts))
	for i, ct := range contracts {
		resp[i] = toContractResponse(ct)
	}
	return resp, nil
}

func (c *ContractService) GetContract(auth *entity.AuthContext, id int64) (*contract.ContractResponse, apierror.ErrorResponse) {
	ct, apierr := fetchContract(c.ContractRepo, auth, id)
	if apierr != nil {
		return nil, apierr
	}
	return toContractResponse(ct), nil
}

func (c *ContractService) CreateContract(auth *entity.AuthContext, req *contract.ContractRequest) (*contract.ContractResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.ContractCreate, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(c.Validate, req); apierr != nil {
		return nil, apierr
	}

	contractor, apierr := fetchContractor(c.ContractorRepo, auth, req.ContractorID)
	if apierr != nil {
		return nil, apierr
	}

	if !contractor.Active {
		return nil, apierror.NewValidationError("contractor_id", "Contractor is not active")
	}

	if _, apierr = fetchProject(c.ProjectRepo, auth, req.ProjectID); apierr != nil {
		return nil, apierr
	}

	exists, err := c.ContractRepo.ExistsByNumber(auth.TenantID(), req.Number)
	if err != nil {
		log.Errorf("failed to check contract number %s: %v", req.Number, err)
		return nil, apierror.InternalServerError
	}

	if exists {
		return nil, contractConflict(req.Number)
	}

	ct := &entity.Contract{
		TenantID:     auth.TenantID(),
		ContractorID: contractor.ID,
		ProjectID:    req.ProjectID,
		Number:       req.Number,
		Description:  req.Description,
		StartDate:    dateOrNil(req.StartDate),
		EndDate:      dateOrNil(req.EndDate),
		Active:       true,
		Items:        toContractItems(req.Items),
	}

	if apierr = checkPeriod(ct.StartDate, ct.EndDate, "end_date"); apierr != nil {
		return nil, apierr
	}

	if err = c.ContractRepo.Create(ct); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, contractConflict(req.Number)
		}
		log.Errorf("failed to create contract for tenant %d: %v", auth.TenantID(), err)
		return nil, apierror.InternalServerError
	}
	return toContractResponse(ct), nil
}

func (c *ContractService) UpdateContract(auth *entity.AuthContext, id int64, req *contract.UpdateContractRequest) (*contract.ContractResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.ContractUpdate, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(c.Validate, req); apierr != nil {
		return nil, apierr
	}

	ct, apierr := fetchContract(c.ContractRepo, auth, id)
	if apierr != nil {
		return nil, apierr
	}

	if req.Description != nil {
		ct.Description = *req.Description
	}
	if req.StartDate != nil {
		ct.StartDate = dateOrNil(*req.StartDate)
	}
	if req.EndDate != nil {
		ct.EndDate = dateOrNil(*req.EndDate)
	}
	if req.Active != nil {
		ct.Active = *req.Active
	}

	if apierr = checkPeriod(ct.StartDate, ct.EndDate, "end_date"); apierr != nil {
		return nil, apierr
	}

	if err := c.ContractRepo.Save(auth.TenantID(), ct); err != nil {
		log.Errorf("failed to update contract %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toContractResponse(ct), nil
}

// ReplaceItems swaps the contract items. Once a bulletin measured the
// contract its items are frozen, since bulletins reference them.
func (c *ContractService) ReplaceItems(auth *entity.AuthContext, id int64, req *contract.ReplaceContractItemsRequest) (*contract.ContractResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.ContractItems, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(c.Validate, req); apierr != nil {
		return nil, apierr
	}

	ct, apierr := fetchContract(c.ContractRepo, auth, id)
	if apierr != nil {
		return nil, apierr
	}

	bulletins, err := c.ContractRepo.CountBulletins(auth.TenantID(), id)
	if err != nil {
		log.Errorf("failed to count bulletins of contract %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if bulletins > 0 {
		return nil, apierror.NewConflictError("Contract items cannot change after the first measurement bulletin")
	}

	items := toContractItems(req.Items)
	ct.UpdatedAt = utils.NowUTC()
	if err = c.ContractRepo.ReplaceItems(auth.TenantID(), ct, items); err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFoundError
		}
		log.Errorf("failed to replace items of contract %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toContractResponse(ct), nil
}

func fetchContract(repo ContractRepository, auth *entity.AuthContext, id int64) (*entity.Contract, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	ct, err := repo.FindByID(auth.TenantID(), id)
	if err != nil {
		log.Errorf("failed to find contract %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if ct == nil {
		return nil, apierror.NotFoundError
	}
	return ct, nil
}

func contractConflict(number string) apierror.ErrorResponse {
	return apierror.NewConflictError("Contract number '%s' is already in use", number)
}

func toContractItems(reqs []*contract.ContractItemRequest) []*entity.ContractItem {
	items := make([]*entity.ContractItem, len(reqs))
	for i, it := range reqs {
		items[i] = &entity.ContractItem{
			Code:               it.Code,
			Description:        it.Description,
			Unit:               it.Unit,
			UnitPrice:          parseDecimal(it.UnitPrice),
			ContractedQuantity: parseDecimal(it.ContractedQuantity),
		}
	}
	return items
}

func toContractResponse(c *entity.Contract) *contract.ContractResponse {
	total := decimal.Zero
	items := make([]*contract.ContractItemResponse, len(c.Items))
	for i, it := range c.Items {
		value := measurement.Value(it.ContractedQuantity, it.UnitPrice)
		total = total.Add(value)
		items[i] = &contract.ContractItemResponse{
			ID:                 it.ID,
			Code:               it.Code,
			Description:        it.Description,
			Unit:               it.Unit,
			UnitPrice:          it.UnitPrice.String(),
			ContractedQuantity: it.ContractedQuantity.String(),
			ContractedValue:    value.StringFixed(2),
		}
	}

	return &contract.ContractResponse{
		ID:           c.ID,
		ContractorID: c.ContractorID,
		ProjectID:    c.ProjectID,
		Number:       c.Number,
		Description:  c.Description,
		StartDate:    utils.FormatDatePtr(c.StartDate),
		EndDate:      utils.FormatDatePtr(c.EndDate),
		Active:       c.Active,
		Items:        items,
		TotalValue:   total.StringFixed(2),
		CreatedAt:    utils.FormatEpoch(c.CreatedAt),
		UpdatedAt:    utils.FormatEpoch(c.UpdatedAt),
	}
}
