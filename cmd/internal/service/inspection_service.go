package service

import (
	"context"
	"errors"
	"mime/multipart"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/events"
	"qualiobra/cmd/internal/domain/inspection"
	"qualiobra/cmd/internal/domain/policy"
	"qualiobra/cmd/internal/domain/sqlite/repository"
	"qualiobra/cmd/internal/infrastructure/aws/storage"
	"qualiobra/cmd/internal/metrics"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

var photoRules = uploadRules{
	maxBytes:   contract.MaxPhotoSizeBytes,
	extensions: contract.ValidPhotoFileTypes,
	mimeTypes:  contract.ValidPhotoMimeTypes,
}

type InspectionRepository interface {
	FindAll(tenantID int64, f repository.InspectionFilter) ([]*entity.Inspection, error)
	FindByID(tenantID, id int64) (*entity.Inspection, error)
	CreateWithItems(insp *entity.Inspection) error
	Save(tenantID int64, insp *entity.Inspection) error
	SaveItem(tenantID int64, item *entity.InspectionItem, statuses ...entity.InspectionStatus) error
	Complete(tenantID int64, insp *entity.Inspection, issues []*entity.Issue) error
	Delete(tenantID int64, insp *entity.Inspection) error
	FindCompletedInMonth(tenantID, projectID int64, month string) ([]*entity.Inspection, error)
}

type InspectionService struct {
	InspectionRepo InspectionRepository
	ProjectRepo    ProjectRepository
	ServiceRepo    ServiceRepository
	UserRepo       UserRepository
	Dispatcher     *NotificationDispatcher
	S3             storage.S3Client
	Validate       *validator.Validate
}

func NewInspectionService(
	inspectionRepo InspectionRepository,
	projectRepo ProjectRepository,
	serviceRepo ServiceRepository,
	userRepo UserRepository,
	dispatcher *NotificationDispatcher,
	s3 storage.S3Client,
	validate *validator.Validate,
) *InspectionService {
	return &InspectionService{
		InspectionRepo: inspectionRepo,
		ProjectRepo:    projectRepo,
		ServiceRepo:    serviceRepo,
		UserRepo:       userRepo,
		Dispatcher:     dispatcher,
		S3:             s3,
		Validate:       validate,
	}
}

// GetInspections lists inspections with their summary. Inspectors only see
// the ones assigned to them.
func (s *InspectionService) GetInspections(auth *entity.AuthContext, filter *contract.InspectionFilter) ([]*contract.InspectionResponse, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	if apierr := checkRequest(s.Validate, filter); apierr != nil {
		return nil, apierr
	}

	f := repository.InspectionFilter{
		ProjectID:      filter.ProjectID,
		ServiceID:      filter.ServiceID,
		LocationID:     filter.LocationID,
		Status:         entity.InspectionStatus(filter.Status),
		ReferenceMonth: filter.ReferenceMonth,
	}

	if auth.Role() == entity.RoleInspector {
		f.InspectorID = auth.UserID()
	}

	inspections, err := s.InspectionRepo.FindAll(auth.TenantID(), f)
	if err != nil {
		log.Errorf("failed to fetch inspections of tenant %d: %v", auth.TenantID(), err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.InspectionResponse, len(inspections))
	for i, insp := range inspections {
		resp[i] = s.toInspectionResponse(insp, false)
	}
	return resp, nil
}

func (s *InspectionService) GetInspection(auth *entity.AuthContext, id int64) (*contract.InspectionResponse, apierror.ErrorResponse) {
	insp, apierr := s.fetchInspection(auth, id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = policy.CanViewInspection(auth, insp); apierr != nil {
		return nil, apierr
	}
	return s.toInspectionResponse(insp, true), nil
}

// CreateInspection opens a DRAFT inspection with a snapshot of the service
// checklist. Every referenced row must belong to the caller tenant.
func (s *InspectionService) CreateInspection(auth *entity.AuthContext, req *contract.CreateInspectionRequest) (*contract.InspectionResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.InspectionCreate, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(s.Validate, req); apierr != nil {
		return nil, apierr
	}

	project, apierr := fetchProject(s.ProjectRepo, auth, req.ProjectID)
	if apierr != nil {
		return nil, apierr
	}

	if !project.Active {
		return nil, apierror.NewValidationError("project_id", "Project is not active")
	}

	location, apierr := fetchLocation(s.ProjectRepo, auth, req.LocationID)
	if apierr != nil {
		return nil, apierr
	}

	if location.ProjectID != project.ID {
		return nil, apierror.NewValidationError("location_id", "Location does not belong to the project")
	}

	service, apierr := fetchService(s.ServiceRepo, auth, req.ServiceID)
	if apierr != nil {
		return nil, apierr
	}

	if !service.Active {
		return nil, apierror.NewValidationError("service_id", "Service is not active")
	}

	if len(service.Criteria) == 0 {
		return nil, apierror.NewValidationError("service_id", "Service has no verification criteria")
	}

	inspectorID, apierr := s.resolveInspector(auth, req.InspectorID)
	if apierr != nil {
		return nil, apierr
	}

	items := make([]*entity.InspectionItem, len(service.Criteria))
	for i, c := range service.Criteria {
		items[i] = &entity.InspectionItem{
			CriterionID: c.ID,
			Position:    c.Position,
			Description: c.Description,
			Photos:      []string{},
		}
	}

	insp := &entity.Inspection{
		TenantID:       auth.TenantID(),
		ProjectID:      project.ID,
		ServiceID:      service.ID,
		LocationID:     location.ID,
		InspectorID:    inspectorID,
		ReferenceMonth: req.ReferenceMonth,
		Status:         entity.InspectionDraft,
		Notes:          req.Notes,
		Items:          items,
	}

	if err := s.InspectionRepo.CreateWithItems(insp); err != nil {
		log.Errorf("failed to create inspection for tenant %d: %v", auth.TenantID(), err)
		return nil, apierror.InternalServerError
	}
	return s.toInspectionResponse(insp, true), nil
}

func (s *InspectionService) StartInspection(auth *entity.AuthContext, id int64) (*contract.InspectionResponse, apierror.ErrorResponse) {
	insp, apierr := s.fetchInspection(auth, id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = policy.CanActOnInspection(policy.InspectionStart, auth, insp); apierr != nil {
		return nil, apierr
	}

	from := insp.Status
	if err := inspection.Start(insp, utils.NowUTC()); err != nil {
		return nil, workflowError(err, from, entity.InspectionInProgress)
	}

	if err := s.InspectionRepo.Save(auth.TenantID(), insp); err != nil {
		log.Errorf("failed to start inspection %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return s.toInspectionResponse(insp, true), nil
}

func (s *InspectionService) EvaluateItem(auth *entity.AuthContext, id, itemID int64, req *contract.EvaluateItemRequest) (*contract.InspectionItemResponse, apierror.ErrorResponse) {
	if apierr := checkRequest(s.Validate, req); apierr != nil {
		return nil, apierr
	}

	insp, item, apierr := s.fetchItem(auth, id, itemID)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = policy.CanActOnInspection(policy.InspectionEvaluate, auth, insp); apierr != nil {
		return nil, apierr
	}

	if err := inspection.Evaluate(insp, item, entity.Evaluation(req.Evaluation), req.Observation); err != nil {
		return nil, workflowError(err, insp.Status, entity.InspectionInProgress)
	}

	if err := s.InspectionRepo.SaveItem(auth.TenantID(), item, entity.InspectionInProgress); err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NewConflictError("Inspection %d is no longer in progress", id)
		}
		log.Errorf("failed to evaluate item %d of inspection %d: %v", itemID, id, err)
		return nil, apierror.InternalServerError
	}
	return s.toItemResponse(item), nil
}

// CompleteInspection closes the inspection, raises one issue per
// non-conforming item and marks the planning cell as inspected. Notifying
// the managers happens after the commit and never undoes it.
func (s *InspectionService) CompleteInspection(auth *entity.AuthContext, id int64, req *contract.CompleteInspectionRequest) (*contract.InspectionResponse, apierror.ErrorResponse) {
	if apierr := checkRequest(s.Validate, req); apierr != nil {
		return nil, apierr
	}

	insp, apierr := s.fetchInspection(auth, id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = policy.CanActOnInspection(policy.InspectionComplete, auth, insp); apierr != nil {
		return nil, apierr
	}

	if req.Rejected {
		if apierr = policy.CheckAuth(policy.InspectionReject, auth); apierr != nil {
			return nil, apierr
		}
	}

	from := insp.Status
	nonConforming, err := inspection.Complete(insp, insp.Items, req.Rejected, utils.NowUTC())
	if err != nil {
		return nil, workflowError(err, from, entity.InspectionCompleted)
	}

	if req.Notes != "" {
		insp.Notes = req.Notes
	}

	issues := make([]*entity.Issue, len(nonConforming))
	for i, item := range nonConforming {
		issues[i] = &entity.Issue{
			TenantID:         insp.TenantID,
			InspectionID:     insp.ID,
			InspectionItemID: item.ID,
			Title:            item.Description,
			Description:      item.Observation,
			Status:           entity.IssueOpen,
		}
	}

	if err = s.InspectionRepo.Complete(auth.TenantID(), insp, issues); err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NewInvalidTransitionError("inspection", string(from), string(entity.InspectionCompleted))
		}
		log.Errorf("failed to complete inspection %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	metrics.InspectionsCompleted.WithLabelValues(string(*insp.Result)).Inc()
	metrics.IssuesOpened.Add(float64(len(issues)))

	issueIDs := make([]int64, len(issues))
	for i, issue := range issues {
		issueIDs[i] = issue.ID
	}

	go s.dispatchInspectionCompleted(&events.InspectionCompleted{
		TenantID:     insp.TenantID,
		InspectionID: insp.ID,
		ProjectID:    insp.ProjectID,
		ServiceID:    insp.ServiceID,
		LocationID:   insp.LocationID,
		InspectorID:  insp.InspectorID,
		Month:        insp.ReferenceMonth,
		Result:       *insp.Result,
		IssueIDs:     issueIDs,
	})
	return s.toInspectionResponse(insp, true), nil
}

// DeleteInspection removes an inspection that was never started.
func (s *InspectionService) DeleteInspection(auth *entity.AuthContext, id int64) apierror.ErrorResponse {
	if apierr := policy.CheckAuth(policy.InspectionDelete, auth); apierr != nil {
		return apierr
	}

	insp, apierr := s.fetchInspection(auth, id)
	if apierr != nil {
		return apierr
	}

	if insp.Status != entity.InspectionDraft {
		return apierror.NewConflictError("Only DRAFT inspections can be deleted")
	}

	if err := s.InspectionRepo.Delete(auth.TenantID(), insp); err != nil {
		if repository.IsNotFound(err) {
			return apierror.NotFoundError
		}
		log.Errorf("failed to delete inspection %d: %v", id, err)
		return apierror.InternalServerError
	}

	for _, item := range insp.Items {
		for _, key := range item.Photos {
			go discardObject(s.S3, key)
		}
	}
	return nil
}

// UploadPhoto attaches an evidence photo to an item of an open inspection.
func (s *InspectionService) UploadPhoto(ctx context.Context, auth *entity.AuthContext, id, itemID int64, fileHeader *multipart.FileHeader) (*contract.UploadResponse, apierror.ErrorResponse) {
	insp, item, apierr := s.fetchItem(auth, id, itemID)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = policy.CanActOnInspection(policy.InspectionPhoto, auth, insp); apierr != nil {
		return nil, apierr
	}

	if insp.Status == entity.InspectionCompleted {
		return nil, apierror.NewConflictError("Completed inspections cannot receive new photos")
	}

	file, apierr := readUpload(fileHeader, photoRules)
	if apierr != nil {
		return nil, apierr
	}

	key := storage.InspectionPhotoKey(insp.TenantID, insp.ID, file.ext)
	if apierr = storeUpload(ctx, s.S3, key, file); apierr != nil {
		return nil, apierr
	}

	item.Photos = append(item.Photos, key)
	if err := s.InspectionRepo.SaveItem(auth.TenantID(), item, entity.InspectionDraft, entity.InspectionInProgress); err != nil {
		go discardObject(s.S3, key)
		if repository.IsNotFound(err) {
			return nil, apierror.NewConflictError("Completed inspections cannot receive new photos")
		}
		log.Errorf("failed to attach photo to item %d: %v", itemID, err)
		return nil, apierror.InternalServerError
	}
	return &contract.UploadResponse{Key: key, URL: publicURL(s.S3, key)}, nil
}

// resolveInspector defaults to the caller. Inspectors cannot assign work to
// somebody else, and the assignee must be an active user of the tenant.
func (s *InspectionService) resolveInspector(auth *entity.AuthContext, requested int64) (int64, apierror.ErrorResponse) {
	if requested == 0 || requested == auth.UserID() {
		return auth.UserID(), nil
	}

	if auth.Role() == entity.RoleInspector {
		return 0, apierror.NewForbiddenError("Inspectors can only create inspections for themselves")
	}

	inspector, err := s.UserRepo.FindByID(auth.TenantID(), requested)
	if err != nil {
		log.Errorf("failed to find inspector %d: %v", requested, err)
		return 0, apierror.InternalServerError
	}

	if inspector == nil || !inspector.Active {
		return 0, apierror.NewValidationError("inspector_id", "Inspector must be an active user of the company")
	}
	return inspector.ID, nil
}

func (s *InspectionService) fetchInspection(auth *entity.AuthContext, id int64) (*entity.Inspection, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	insp, err := s.InspectionRepo.FindByID(auth.TenantID(), id)
	if err != nil {
		log.Errorf("failed to find inspection %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if insp == nil {
		return nil, apierror.NotFoundError
	}
	return insp, nil
}

// fetchItem returns the inspection together with the preloaded copy of the
// item, so both share the same in-memory state.
func (s *InspectionService) fetchItem(auth *entity.AuthContext, id, itemID int64) (*entity.Inspection, *entity.InspectionItem, apierror.ErrorResponse) {
	insp, apierr := s.fetchInspection(auth, id)
	if apierr != nil {
		return nil, nil, apierr
	}

	idx := slices.IndexFunc(insp.Items, func(it *entity.InspectionItem) bool {
		return it.ID == itemID
	})
	if idx < 0 {
		return nil, nil, apierror.NotFoundError
	}
	return insp, insp.Items[idx], nil
}

func (s *InspectionService) dispatchInspectionCompleted(evt *events.InspectionCompleted) {
	if s.Dispatcher == nil {
		return
	}

	ctx, cancel := detached()
	defer cancel()

	s.Dispatcher.InspectionCompleted(ctx, evt)
}

// workflowError maps state machine errors to API errors.
func workflowError(err error, from, to entity.InspectionStatus) apierror.ErrorResponse {
	switch {
	case errors.Is(err, inspection.ErrInvalidTransition):
		return apierror.NewInvalidTransitionError("inspection", string(from), string(to))
	case errors.Is(err, inspection.ErrPendingItems):
		return apierror.NewValidationError("items", "Every item must be evaluated before completing")
	case errors.Is(err, inspection.ErrRejectWithoutNC):
		return apierror.NewValidationError("rejected", "An inspection without non-conformities cannot be rejected")
	case errors.Is(err, inspection.ErrInvalidEvaluation):
		return apierror.NewValidationError("evaluation", "Value must be one of: C NC NA")
	case errors.Is(err, inspection.ErrItemMismatch):
		return apierror.NotFoundError
	default:
		log.Errorf("unexpected inspection workflow error: %v", err)
		return apierror.InternalServerError
	}
}

func (s *InspectionService) toInspectionResponse(insp *entity.Inspection, withItems bool) *contract.InspectionResponse {
	sum := inspection.Summarize(insp.Items)
	resp := &contract.InspectionResponse{
		ID:             insp.ID,
		ProjectID:      insp.ProjectID,
		ServiceID:      insp.ServiceID,
		LocationID:     insp.LocationID,
		InspectorID:    insp.InspectorID,
		ReferenceMonth: insp.ReferenceMonth,
		Status:         string(insp.Status),
		Notes:          insp.Notes,
		StartedAt:      utils.FormatEpochPtr(insp.StartedAt),
		CompletedAt:    utils.FormatEpochPtr(insp.CompletedAt),
		Summary: &contract.InspectionSummary{
			Conforming:    sum.Conforming,
			NonConforming: sum.NonConforming,
			NotApplicable: sum.NotApplicable,
			Pending:       sum.Pending,
		},
		CreatedAt: utils.FormatEpoch(insp.CreatedAt),
		UpdatedAt: utils.FormatEpoch(insp.UpdatedAt),
	}

	if insp.Result != nil {
		result := string(*insp.Result)
		resp.Result = &result
	}

	if withItems {
		resp.Items = make([]*contract.InspectionItemResponse, len(insp.Items))
		for i, it := range insp.Items {
			resp.Items[i] = s.toItemResponse(it)
		}
	}
	return resp
}

func (s *InspectionService) toItemResponse(it *entity.InspectionItem) *contract.InspectionItemResponse {
	photos := make([]string, 0, len(it.Photos))
	for _, key := range it.Photos {
		photos = append(photos, publicURL(s.S3, key))
	}

	resp := &contract.InspectionItemResponse{
		ID:          it.ID,
		CriterionID: it.CriterionID,
		Position:    it.Position,
		Description: it.Description,
		Observation: it.Observation,
		Photos:      photos,
	}

	if it.Evaluation != nil {
		eval := string(*it.Evaluation)
		resp.Evaluation = &eval
	}
	return resp
}
