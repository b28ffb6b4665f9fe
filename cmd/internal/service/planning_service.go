package service

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/policy"
	"qualiobra/cmd/internal/domain/sqlite/repository"
	"qualiobra/cmd/internal/utils/apierror"
)

type PlanningRepository interface {
	FindByMonth(tenantID, projectID int64, month string) ([]*entity.PlanningItem, error)
	FindByID(tenantID, id int64) (*entity.PlanningItem, error)
	Create(item *entity.PlanningItem) error
	Delete(tenantID int64, item *entity.PlanningItem) error
}

type PlanningService struct {
	PlanningRepo   PlanningRepository
	ProjectRepo    ProjectRepository
	ServiceRepo    ServiceRepository
	InspectionRepo InspectionRepository
	Validate       *validator.Validate
}

func NewPlanningService(
	planningRepo PlanningRepository,
	projectRepo ProjectRepository,
	serviceRepo ServiceRepository,
	inspectionRepo InspectionRepository,
	validate *validator.Validate,
) *PlanningService {
	return &PlanningService{
		PlanningRepo:   planningRepo,
		ProjectRepo:    projectRepo,
		ServiceRepo:    serviceRepo,
		InspectionRepo: inspectionRepo,
		Validate:       validate,
	}
}

type cellKey struct {
	locationID int64
	serviceID  int64
}

// Grid returns one cell per location and active service of the project for
// the month, with the planning item and the latest completed result.
func (p *PlanningService) Grid(auth *entity.AuthContext, projectID int64, month string) (*contract.PlanningGridResponse, apierror.ErrorResponse) {
	project, apierr := fetchProject(p.ProjectRepo, auth, projectID)
	if apierr != nil {
		return nil, apierr
	}

	if err := p.Validate.Var(month, "required,yearmonth"); err != nil {
		return nil, apierror.NewValidationError("month", "Value must be a month in the format YYYY-MM")
	}

	tenantID := auth.TenantID()
	locations, err := p.ProjectRepo.FindLocations(tenantID, project.ID)
	if err != nil {
		log.Errorf("failed to fetch locations of project %d: %v", project.ID, err)
		return nil, apierror.InternalServerError
	}

	services, err := p.ServiceRepo.FindAll(tenantID, true)
	if err != nil {
		log.Errorf("failed to fetch services of tenant %d: %v", tenantID, err)
		return nil, apierror.InternalServerError
	}

	planned, err := p.PlanningRepo.FindByMonth(tenantID, project.ID, month)
	if err != nil {
		log.Errorf("failed to fetch planning of project %d (%s): %v", project.ID, month, err)
		return nil, apierror.InternalServerError
	}

	completed, err := p.InspectionRepo.FindCompletedInMonth(tenantID, project.ID, month)
	if err != nil {
		log.Errorf("failed to fetch inspections of project %d (%s): %v", project.ID, month, err)
		return nil, apierror.InternalServerError
	}

	items := make(map[cellKey]*entity.PlanningItem, len(planned))
	for _, it := range planned {
		items[cellKey{it.LocationID, it.ServiceID}] = it
	}

	// Newest completion first, so the first result seen wins
	results := make(map[cellKey]entity.InspectionResult)
	for _, insp := range completed {
		key := cellKey{insp.LocationID, insp.ServiceID}
		if _, ok := results[key]; !ok && insp.Result != nil {
			results[key] = *insp.Result
		}
	}

	cells := make([]*contract.PlanningCell, 0, len(locations)*len(services))
	for _, l := range locations {
		for _, s := range services {
			key := cellKey{l.ID, s.ID}
			cell := &contract.PlanningCell{LocationID: l.ID, ServiceID: s.ID}
			if it, ok := items[key]; ok {
				status := string(it.Status)
				cell.Planned = true
				cell.PlanningItemID = &it.ID
				cell.Status = &status
			}
			if result, ok := results[key]; ok {
				r := string(result)
				cell.LatestResult = &r
			}
			cells = append(cells, cell)
		}
	}

	return &contract.PlanningGridResponse{
		ProjectID: project.ID,
		Month:     month,
		Services:  toServicesResponse(services),
		Locations: toLocationsResponse(locations),
		Cells:     cells,
	}, nil
}

func (p *PlanningService) CreatePlanningItem(auth *entity.AuthContext, req *contract.PlanningRequest) (*contract.PlanningItemResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.PlanningCreate, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(p.Validate, req); apierr != nil {
		return nil, apierr
	}

	project, apierr := fetchProject(p.ProjectRepo, auth, req.ProjectID)
	if apierr != nil {
		return nil, apierr
	}

	location, apierr := fetchLocation(p.ProjectRepo, auth, req.LocationID)
	if apierr != nil {
		return nil, apierr
	}

	if location.ProjectID != project.ID {
		return nil, apierror.NewValidationError("location_id", "Location does not belong to the project")
	}

	service, apierr := fetchService(p.ServiceRepo, auth, req.ServiceID)
	if apierr != nil {
		return nil, apierr
	}

	if !service.Active {
		return nil, apierror.NewValidationError("service_id", "Service is not active")
	}

	item := &entity.PlanningItem{
		TenantID:    auth.TenantID(),
		ProjectID:   project.ID,
		ServiceID:   service.ID,
		LocationID:  location.ID,
		Month:       req.Month,
		Status:      entity.PlanningPlanned,
		CreatedByID: auth.UserID(),
	}

	if err := p.PlanningRepo.Create(item); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierror.NewConflictError("This service is already planned for the location in %s", req.Month)
		}
		log.Errorf("failed to create planning item for project %d: %v", project.ID, err)
		return nil, apierror.InternalServerError
	}
	return toPlanningItemResponse(item), nil
}

// DeletePlanningItem removes a cell that has not been inspected yet.
func (p *PlanningService) DeletePlanningItem(auth *entity.AuthContext, id int64) apierror.ErrorResponse {
	if apierr := policy.CheckAuth(policy.PlanningDelete, auth); apierr != nil {
		return apierr
	}

	item, err := p.PlanningRepo.FindByID(auth.TenantID(), id)
	if err != nil {
		log.Errorf("failed to find planning item %d: %v", id, err)
		return apierror.InternalServerError
	}

	if item == nil {
		return apierror.NotFoundError
	}

	if item.Status != entity.PlanningPlanned {
		return apierror.NewConflictError("Inspected planning items cannot be deleted")
	}

	if err = p.PlanningRepo.Delete(auth.TenantID(), item); err != nil {
		if repository.IsNotFound(err) {
			return apierror.NewConflictError("Inspected planning items cannot be deleted")
		}
		log.Errorf("failed to delete planning item %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func toPlanningItemResponse(it *entity.PlanningItem) *contract.PlanningItemResponse {
	return &contract.PlanningItemResponse{
		ID:         it.ID,
		ProjectID:  it.ProjectID,
		ServiceID:  it.ServiceID,
		LocationID: it.LocationID,
		Month:      it.Month,
		Status:     string(it.Status),
	}
}
