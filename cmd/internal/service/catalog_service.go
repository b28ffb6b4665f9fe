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

type ServiceRepository interface {
	FindAll(tenantID int64, onlyActive bool) ([]*entity.Service, error)
	FindByID(tenantID, id int64) (*entity.Service, error)
	Create(service *entity.Service) error
	Save(tenantID int64, service *entity.Service) error
	ReplaceCriteria(tenantID int64, service *entity.Service, criteria []*entity.Criterion) error
}

// CatalogService manages the construction services and their checklists.
type CatalogService struct {
	ServiceRepo ServiceRepository
	Validate    *validator.Validate
}

func NewCatalogService(serviceRepo ServiceRepository, validate *validator.Validate) *CatalogService {
	return &CatalogService{ServiceRepo: serviceRepo, Validate: validate}
}

func (s *CatalogService) GetServices(auth *entity.AuthContext, onlyActive bool) ([]*contract.ServiceResponse, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	services, err := s.ServiceRepo.FindAll(auth.TenantID(), onlyActive)
	if err != nil {
		log.Errorf("failed to fetch services of tenant %d: %v", auth.TenantID(), err)
		return nil, apierror.InternalServerError
	}
	return toServicesResponse(services), nil
}

func (s *CatalogService) GetService(auth *entity.AuthContext, id int64) (*contract.ServiceResponse, apierror.ErrorResponse) {
	service, apierr := fetchService(s.ServiceRepo, auth, id)
	if apierr != nil {
		return nil, apierr
	}
	return toServiceResponse(service), nil
}

func (s *CatalogService) CreateService(auth *entity.AuthContext, req *contract.ServiceRequest) (*contract.ServiceResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.ServiceCreate, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(s.Validate, req); apierr != nil {
		return nil, apierr
	}

	service := &entity.Service{
		TenantID:    auth.TenantID(),
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
		Criteria:    toCriteria(req.Criteria),
	}

	if err := s.ServiceRepo.Create(service); err != nil {
		log.Errorf("failed to create service for tenant %d: %v", auth.TenantID(), err)
		return nil, apierror.InternalServerError
	}
	return toServiceResponse(service), nil
}

func (s *CatalogService) UpdateService(auth *entity.AuthContext, id int64, req *contract.UpdateServiceRequest) (*contract.ServiceResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.ServiceUpdate, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(s.Validate, req); apierr != nil {
		return nil, apierr
	}

	service, apierr := fetchService(s.ServiceRepo, auth, id)
	if apierr != nil {
		return nil, apierr
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := s.ServiceRepo.Save(auth.TenantID(), service); err != nil {
		log.Errorf("failed to update service %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toServiceResponse(service), nil
}

// ReplaceCriteria swaps the whole checklist. Inspections already created
// keep the snapshot taken at their creation.
func (s *CatalogService) ReplaceCriteria(auth *entity.AuthContext, id int64, req *contract.ReplaceCriteriaRequest) (*contract.ServiceResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.CriteriaReplace, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(s.Validate, req); apierr != nil {
		return nil, apierr
	}

	service, apierr := fetchService(s.ServiceRepo, auth, id)
	if apierr != nil {
		return nil, apierr
	}

	criteria := toCriteria(req.Criteria)
	service.UpdatedAt = utils.NowUTC()
	if err := s.ServiceRepo.ReplaceCriteria(auth.TenantID(), service, criteria); err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFoundError
		}
		log.Errorf("failed to replace criteria of service %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	service.Criteria = criteria
	return toServiceResponse(service), nil
}

func fetchService(repo ServiceRepository, auth *entity.AuthContext, id int64) (*entity.Service, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	service, err := repo.FindByID(auth.TenantID(), id)
	if err != nil {
		log.Errorf("failed to find service %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if service == nil {
		return nil, apierror.NotFoundError
	}
	return service, nil
}

// toCriteria numbers the criteria in request order, starting at 1.
func toCriteria(reqs []*contract.CriterionRequest) []*entity.Criterion {
	criteria := make([]*entity.Criterion, len(reqs))
	for i, c := range reqs {
		criteria[i] = &entity.Criterion{
			Position:    i + 1,
			Description: c.Description,
			Method:      c.Method,
			Tolerance:   c.Tolerance,
		}
	}
	return criteria
}

func toServiceResponse(s *entity.Service) *contract.ServiceResponse {
	criteria := make([]*contract.CriterionResponse, len(s.Criteria))
	for i, c := range s.Criteria {
		criteria[i] = &contract.CriterionResponse{
			ID:          c.ID,
			Position:    c.Position,
			Description: c.Description,
			Method:      c.Method,
			Tolerance:   c.Tolerance,
		}
	}

	return &contract.ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Active:      s.Active,
		Criteria:    criteria,
		CreatedAt:   utils.FormatEpoch(s.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(s.UpdatedAt),
	}
}

func toServicesResponse(services []*entity.Service) []*contract.ServiceResponse {
	resp := make([]*contract.ServiceResponse, len(services))
	for i, s := range services {
		resp[i] = toServiceResponse(s)
	}
	return resp
}
