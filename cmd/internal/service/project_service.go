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

type ProjectRepository interface {
	FindAll(tenantID int64, onlyActive bool) ([]*entity.Project, error)
	FindByID(tenantID, id int64) (*entity.Project, error)
	Create(project *entity.Project) error
	Save(tenantID int64, project *entity.Project) error

	FindLocations(tenantID, projectID int64) ([]*entity.Location, error)
	FindLocationByID(tenantID, id int64) (*entity.Location, error)
	CreateLocation(location *entity.Location) error
	SaveLocation(tenantID int64, location *entity.Location) error
	DeleteLocation(tenantID int64, location *entity.Location) error
	CountLocationUsage(tenantID, locationID int64) (int64, error)
}

type ProjectService struct {
	ProjectRepo ProjectRepository
	Validate    *validator.Validate
}

func NewProjectService(projectRepo ProjectRepository, validate *validator.Validate) *ProjectService {
	return &ProjectService{ProjectRepo: projectRepo, Validate: validate}
}

func (p *ProjectService) GetProjects(auth *entity.AuthContext, onlyActive bool) ([]*contract.ProjectResponse, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	projects, err := p.ProjectRepo.FindAll(auth.TenantID(), onlyActive)
	if err != nil {
		log.Errorf("failed to fetch projects of tenant %d: %v", auth.TenantID(), err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.ProjectResponse, len(projects))
	for i, project := range projects {
		resp[i] = toProjectResponse(project)
	}
	return resp, nil
}

func (p *ProjectService) GetProject(auth *entity.AuthContext, id int64) (*contract.ProjectResponse, apierror.ErrorResponse) {
	project, apierr := p.fetchProject(auth, id)
	if apierr != nil {
		return nil, apierr
	}
	return toProjectResponse(project), nil
}

func (p *ProjectService) CreateProject(auth *entity.AuthContext, req *contract.ProjectRequest) (*contract.ProjectResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.ProjectCreate, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(p.Validate, req); apierr != nil {
		return nil, apierr
	}

	project := &entity.Project{
		TenantID:  auth.TenantID(),
		Name:      req.Name,
		Code:      req.Code,
		Address:   req.Address,
		Active:    true,
		StartDate: dateOrNil(req.StartDate),
		EndDate:   dateOrNil(req.EndDate),
	}

	if apierr := checkPeriod(project.StartDate, project.EndDate, "end_date"); apierr != nil {
		return nil, apierr
	}

	if err := p.ProjectRepo.Create(project); err != nil {
		log.Errorf("failed to create project for tenant %d: %v", auth.TenantID(), err)
		return nil, apierror.InternalServerError
	}
	return toProjectResponse(project), nil
}

func (p *ProjectService) UpdateProject(auth *entity.AuthContext, id int64, req *contract.UpdateProjectRequest) (*contract.ProjectResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.ProjectUpdate, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(p.Validate, req); apierr != nil {
		return nil, apierr
	}

	project, apierr := p.fetchProject(auth, id)
	if apierr != nil {
		return nil, apierr
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Code != nil {
		project.Code = *req.Code
	}
	if req.Address != nil {
		project.Address = *req.Address
	}
	if req.StartDate != nil {
		project.StartDate = dateOrNil(*req.StartDate)
	}
	if req.EndDate != nil {
		project.EndDate = dateOrNil(*req.EndDate)
	}

	if apierr = checkPeriod(project.StartDate, project.EndDate, "end_date"); apierr != nil {
		return nil, apierr
	}

	if err := p.ProjectRepo.Save(auth.TenantID(), project); err != nil {
		log.Errorf("failed to update project %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toProjectResponse(project), nil
}

func (p *ProjectService) ToggleProjectActive(auth *entity.AuthContext, id int64) (*contract.ProjectResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.ProjectToggle, auth); apierr != nil {
		return nil, apierr
	}

	project, apierr := p.fetchProject(auth, id)
	if apierr != nil {
		return nil, apierr
	}

	project.Active = !project.Active
	if err := p.ProjectRepo.Save(auth.TenantID(), project); err != nil {
		log.Errorf("failed to toggle project %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toProjectResponse(project), nil
}

func (p *ProjectService) GetLocations(auth *entity.AuthContext, projectID int64) ([]*contract.LocationResponse, apierror.ErrorResponse) {
	if _, apierr := p.fetchProject(auth, projectID); apierr != nil {
		return nil, apierr
	}

	locations, err := p.ProjectRepo.FindLocations(auth.TenantID(), projectID)
	if err != nil {
		log.Errorf("failed to fetch locations of project %d: %v", projectID, err)
		return nil, apierror.InternalServerError
	}
	return toLocationsResponse(locations), nil
}

func (p *ProjectService) CreateLocation(auth *entity.AuthContext, projectID int64, req *contract.LocationRequest) (*contract.LocationResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.LocationCreate, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(p.Validate, req); apierr != nil {
		return nil, apierr
	}

	if _, apierr := p.fetchProject(auth, projectID); apierr != nil {
		return nil, apierr
	}

	location := &entity.Location{
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := p.ProjectRepo.CreateLocation(location); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.NewConflictError("Location '%s' already exists in this project", req.Name)
		}
		log.Errorf("failed to create location in project %d: %v", projectID, err)
		return nil, apierror.InternalServerError
	}
	return toLocationResponse(location), nil
}

func (p *ProjectService) UpdateLocation(auth *entity.AuthContext, id int64, req *contract.LocationRequest) (*contract.LocationResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.LocationUpdate, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(p.Validate, req); apierr != nil {
		return nil, apierr
	}

	location, apierr := p.fetchLocation(auth, id)
	if apierr != nil {
		return nil, apierr
	}

	location.Name = req.Name
	location.Description = req.Description
	if err := p.ProjectRepo.SaveLocation(auth.TenantID(), location); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.NewConflictError("Location '%s' already exists in this project", req.Name)
		}
		log.Errorf("failed to update location %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toLocationResponse(location), nil
}

// DeleteLocation refuses locations already referenced by inspections or
// planning items.
func (p *ProjectService) DeleteLocation(auth *entity.AuthContext, id int64) apierror.ErrorResponse {
	if apierr := policy.CheckAuth(policy.LocationDelete, auth); apierr != nil {
		return apierr
	}

	location, apierr := p.fetchLocation(auth, id)
	if apierr != nil {
		return apierr
	}

	used, err := p.ProjectRepo.CountLocationUsage(auth.TenantID(), id)
	if err != nil {
		log.Errorf("failed to count usage of location %d: %v", id, err)
		return apierror.InternalServerError
	}

	if used > 0 {
		return apierror.NewConflictError("Location is used by %d inspection(s) or planning item(s)", used)
	}

	if err = p.ProjectRepo.DeleteLocation(auth.TenantID(), location); err != nil {
		if repository.IsNotFound(err) {
			return apierror.NotFoundError
		}
		log.Errorf("failed to delete location %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func (p *ProjectService) fetchProject(auth *entity.AuthContext, id int64) (*entity.Project, apierror.ErrorResponse) {
	return fetchProject(p.ProjectRepo, auth, id)
}

func (p *ProjectService) fetchLocation(auth *entity.AuthContext, id int64) (*entity.Location, apierror.ErrorResponse) {
	return fetchLocation(p.ProjectRepo, auth, id)
}

// fetchProject is shared by every service that receives a project id from a
// client: absent and foreign projects look the same.
func fetchProject(repo ProjectRepository, auth *entity.AuthContext, id int64) (*entity.Project, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	project, err := repo.FindByID(auth.TenantID(), id)
	if err != nil {
		log.Errorf("failed to find project %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if project == nil {
		return nil, apierror.NotFoundError
	}
	return project, nil
}

func fetchLocation(repo ProjectRepository, auth *entity.AuthContext, id int64) (*entity.Location, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	location, err := repo.FindLocationByID(auth.TenantID(), id)
	if err != nil {
		log.Errorf("failed to find location %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if location == nil {
		return nil, apierror.NotFoundError
	}
	return location, nil
}

func toProjectResponse(p *entity.Project) *contract.ProjectResponse {
	return &contract.ProjectResponse{
		ID:        p.ID,
		Name:      p.Name,
		Code:      p.Code,
		Address:   p.Address,
		Active:    p.Active,
		StartDate: utils.FormatDatePtr(p.StartDate),
		EndDate:   utils.FormatDatePtr(p.EndDate),
		CreatedAt: utils.FormatEpoch(p.CreatedAt),
		UpdatedAt: utils.FormatEpoch(p.UpdatedAt),
	}
}

func toLocationResponse(l *entity.Location) *contract.LocationResponse {
	return &contract.LocationResponse{
		ID:          l.ID,
		ProjectID:   l.ProjectID,
		Name:        l.Name,
		Description: l.Description,
	}
}

func toLocationsResponse(locations []*entity.Location) []*contract.LocationResponse {
	resp := make([]*contract.LocationResponse, len(locations))
	for i, l := range locations {
		resp[i] = toLocationResponse(l)
	}
	return resp
}
