package service

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/policy"
	"qualiobra/cmd/internal/domain/sqlite/repository"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type ContractorRepository interface {
	FindAll(tenantID int64, onlyActive bool) ([]*entity.Contractor, error)
	FindByID(tenantID, id int64) (*entity.Contractor, error)
	ExistsByCNPJ(tenantID int64, cnpj string) (bool, error)
	Create(contractor *entity.Contractor) error
	Save(tenantID int64, contractor *entity.Contractor) error
}

type ContractorService struct {
	ContractorRepo ContractorRepository
	Validate       *validator.Validate
}

func NewContractorService(contractorRepo ContractorRepository, validate *validator.Validate) *ContractorService {
	return &ContractorService{ContractorRepo: contractorRepo, Validate: validate}
}

func (c *ContractorService) GetContractors(auth *entity.AuthContext, onlyActive bool) ([]*contract.ContractorResponse, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	contractors, err := c.ContractorRepo.FindAll(auth.TenantID(), onlyActive)
	if err != nil {
		log.Errorf("failed to fetch contractors of tenant %d: %v", auth.TenantID(), err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.ContractorResponse, len(contractors))
	for i, contractor := range contractors {
		resp[i] = toContractorResponse(contractor)
	}
	return resp, nil
}

func (c *ContractorService) GetContractor(auth *entity.AuthContext, id int64) (*contract.ContractorResponse, apierror.ErrorResponse) {
	contractor, apierr := fetchContractor(c.ContractorRepo, auth, id)
	if apierr != nil {
		return nil, apierr
	}
	return toContractorResponse(contractor), nil
}

func (c *ContractorService) CreateContractor(auth *entity.AuthContext, req *contract.ContractorRequest) (*contract.ContractorResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.ContractorCreate, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(c.Validate, req); apierr != nil {
		return nil, apierr
	}

	cnpj := utils.NormalizeCNPJ(req.CNPJ)
	exists, err := c.ContractorRepo.ExistsByCNPJ(auth.TenantID(), cnpj)
	if err != nil {
		log.Errorf("failed to check contractor cnpj %s: %v", cnpj, err)
		return nil, apierror.InternalServerError
	}

	if exists {
		return nil, contractorConflict(cnpj)
	}

	contractor := &entity.Contractor{
		TenantID: auth.TenantID(),
		Name:     req.Name,
		CNPJ:     cnpj,
		Email:    req.Email,
		Phone:    req.Phone,
		Active:   true,
	}

	if err = c.ContractorRepo.Create(contractor); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, contractorConflict(cnpj)
		}
		log.Errorf("failed to create contractor for tenant %d: %v", auth.TenantID(), err)
		return nil, apierror.InternalServerError
	}
	return toContractorResponse(contractor), nil
}

func (c *ContractorService) UpdateContractor(auth *entity.AuthContext, id int64, req *contract.UpdateContractorRequest) (*contract.ContractorResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.ContractorUpdate, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(c.Validate, req); apierr != nil {
		return nil, apierr
	}

	contractor, apierr := fetchContractor(c.ContractorRepo, auth, id)
	if apierr != nil {
		return nil, apierr
	}

	if req.Name != nil {
		contractor.Name = *req.Name
	}
	if req.Email != nil {
		contractor.Email = *req.Email
	}
	if req.Phone != nil {
		contractor.Phone = *req.Phone
	}

	if err := c.ContractorRepo.Save(auth.TenantID(), contractor); err != nil {
		log.Errorf("failed to update contractor %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toContractorResponse(contractor), nil
}

// ToggleContractorActive flips the active flag. A contractor of another
// tenant is reported as missing and left untouched.
func (c *ContractorService) ToggleContractorActive(auth *entity.AuthContext, id int64) (*contract.ContractorResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.ContractorToggle, auth); apierr != nil {
		return nil, apierr
	}

	contractor, apierr := fetchContractor(c.ContractorRepo, auth, id)
	if apierr != nil {
		return nil, apierr
	}

	contractor.Active = !contractor.Active
	if err := c.ContractorRepo.Save(auth.TenantID(), contractor); err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFoundError
		}
		log.Errorf("failed to toggle contractor %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toContractorResponse(contractor), nil
}

func fetchContractor(repo ContractorRepository, auth *entity.AuthContext, id int64) (*entity.Contractor, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	contractor, err := repo.FindByID(auth.TenantID(), id)
	if err != nil {
		log.Errorf("failed to find contractor %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if contractor == nil {
		return nil, apierror.NotFoundError
	}
	return contractor, nil
}

func contractorConflict(cnpj string) apierror.ErrorResponse {
	return apierror.NewConflictError("A contractor with CNPJ %s is already registered", cnpj)
}

func toContractorResponse(c *entity.Contractor) *contract.ContractorResponse {
	return &contract.ContractorResponse{
		ID:        c.ID,
		Name:      c.Name,
		CNPJ:      c.CNPJ,
		Email:     c.Email,
		Phone:     c.Phone,
		Active:    c.Active,
		CreatedAt: utils.FormatEpoch(c.CreatedAt),
		UpdatedAt: utils.FormatEpoch(c.UpdatedAt),
	}
}
