package service

import (
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/events"
	"qualiobra/cmd/internal/domain/policy"
	"qualiobra/cmd/internal/domain/sqlite/repository"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

// issueTransitions lists the statuses reachable from each status.
// CANCELLED is terminal.
var issueTransitions = map[entity.IssueStatus][]entity.IssueStatus{
	entity.IssueOpen:       {entity.IssueInProgress, entity.IssueResolved, entity.IssueCancelled},
	entity.IssueInProgress: {entity.IssueResolved, entity.IssueCancelled},
	entity.IssueResolved:   {entity.IssueOpen},
}

type IssueRepository interface {
	FindAll(tenantID int64, f repository.IssueFilter) ([]*entity.Issue, error)
	FindByID(tenantID, id int64) (*entity.Issue, error)
	Save(tenantID int64, issue *entity.Issue, from entity.IssueStatus) error
}

type IssueService struct {
	IssueRepo      IssueRepository
	ContractorRepo ContractorRepository
	WSService      *WebSocketService
	Dispatcher     *NotificationDispatcher
	Validate       *validator.Validate
}

func NewIssueService(
	issueRepo IssueRepository,
	contractorRepo ContractorRepository,
	wsService *WebSocketService,
	dispatcher *NotificationDispatcher,
	validate *validator.Validate,
) *IssueService {
	return &IssueService{
		IssueRepo:      issueRepo,
		ContractorRepo: contractorRepo,
		WSService:      wsService,
		Dispatcher:     dispatcher,
		Validate:       validate,
	}
}

func (i *IssueService) GetIssues(auth *entity.AuthContext, filter *contract.IssueFilter) ([]*contract.IssueResponse, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	if apierr := checkRequest(i.Validate, filter); apierr != nil {
		return nil, apierr
	}

	issues, err := i.IssueRepo.FindAll(auth.TenantID(), repository.IssueFilter{
		Status:       entity.IssueStatus(filter.Status),
		InspectionID: filter.InspectionID,
		ContractorID: filter.ContractorID,
	})
	if err != nil {
		log.Errorf("failed to fetch issues of tenant %d: %v", auth.TenantID(), err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.IssueResponse, len(issues))
	for idx, issue := range issues {
		resp[idx] = toIssueResponse(issue)
	}
	return resp, nil
}

func (i *IssueService) GetIssue(auth *entity.AuthContext, id int64) (*contract.IssueResponse, apierror.ErrorResponse) {
	issue, apierr := i.fetchIssue(auth, id)
	if apierr != nil {
		return nil, apierr
	}
	return toIssueResponse(issue), nil
}

// UpdateIssue edits the descriptive fields of an issue that is still open
// to work (neither resolved nor cancelled).
func (i *IssueService) UpdateIssue(auth *entity.AuthContext, id int64, req *contract.UpdateIssueRequest) (*contract.IssueResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.IssueUpdateStatus, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(i.Validate, req); apierr != nil {
		return nil, apierr
	}

	issue, apierr := i.fetchIssue(auth, id)
	if apierr != nil {
		return nil, apierr
	}

	if issue.Status == entity.IssueResolved || issue.Status == entity.IssueCancelled {
		return nil, apierror.NewConflictError("Issue is %s and cannot be edited", issue.Status)
	}

	if req.ContractorID != nil {
		if *req.ContractorID == 0 {
			issue.ContractorID = nil
		} else {
			contractor, apierr := fetchContractor(i.ContractorRepo, auth, *req.ContractorID)
			if apierr != nil {
				return nil, apierr
			}
			issue.ContractorID = &contractor.ID
		}
	}

	if req.Title != nil {
		issue.Title = *req.Title
	}
	if req.Description != nil {
		issue.Description = *req.Description
	}
	if req.DueDate != nil {
		issue.DueDate = dateOrNil(*req.DueDate)
	}

	if err := i.IssueRepo.Save(auth.TenantID(), issue, issue.Status); err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NewConflictError("Issue %d changed status, reload it and try again", id)
		}
		log.Errorf("failed to update issue %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	resp := toIssueResponse(issue)
	go i.pushIssueUpdated(auth.UserID(), resp)
	return resp, nil
}

func (i *IssueService) UpdateStatus(auth *entity.AuthContext, id int64, req *contract.UpdateIssueStatusRequest) (*contract.IssueResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.IssueUpdateStatus, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(i.Validate, req); apierr != nil {
		return nil, apierr
	}

	issue, apierr := i.fetchIssue(auth, id)
	if apierr != nil {
		return nil, apierr
	}

	from, to := issue.Status, entity.IssueStatus(req.Status)
	if !slices.Contains(issueTransitions[from], to) {
		return nil, apierror.NewInvalidTransitionError("issue", string(from), string(to))
	}

	issue.Status = to
	switch to {
	case entity.IssueResolved:
		now := utils.NowUTC()
		issue.ResolvedAt = &now
		issue.Resolution = req.Resolution
	case entity.IssueOpen:
		// Reopened
		issue.ResolvedAt = nil
	}

	if err := i.IssueRepo.Save(auth.TenantID(), issue, from); err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NewInvalidTransitionError("issue", string(from), string(to))
		}
		log.Errorf("failed to move issue %d to %s: %v", id, to, err)
		return nil, apierror.InternalServerError
	}

	resp := toIssueResponse(issue)
	go i.pushIssueUpdated(auth.UserID(), resp)

	if to == entity.IssueResolved {
		go i.dispatchIssueResolved(&events.IssueResolved{
			TenantID:     issue.TenantID,
			IssueID:      issue.ID,
			InspectionID: issue.InspectionID,
			Title:        issue.Title,
			ResolvedByID: auth.UserID(),
		})
	}
	return resp, nil
}

func (i *IssueService) fetchIssue(auth *entity.AuthContext, id int64) (*entity.Issue, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	issue, err := i.IssueRepo.FindByID(auth.TenantID(), id)
	if err != nil {
		log.Errorf("failed to find issue %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if issue == nil {
		return nil, apierror.NotFoundError
	}
	return issue, nil
}

// pushIssueUpdated refreshes the boards of the caller's other sessions.
func (i *IssueService) pushIssueUpdated(userID int64, resp *contract.IssueResponse) {
	if i.WSService == nil {
		return
	}

	ctx, cancel := detached()
	defer cancel()

	if _, err := i.WSService.Dispatch(ctx, userID, &events.IssueUpdated{IssueResponse: resp}); err != nil {
		log.Warnf("failed to push update of issue %d: %v", resp.ID, err)
	}
}

func (i *IssueService) dispatchIssueResolved(evt *events.IssueResolved) {
	if i.Dispatcher == nil {
		return
	}

	ctx, cancel := detached()
	defer cancel()

	i.Dispatcher.IssueResolved(ctx, evt)
}

func toIssueResponse(issue *entity.Issue) *contract.IssueResponse {
	return &contract.IssueResponse{
		ID:               issue.ID,
		InspectionID:     issue.InspectionID,
		InspectionItemID: issue.InspectionItemID,
		Title:            issue.Title,
		Description:      issue.Description,
		Status:           string(issue.Status),
		ContractorID:     issue.ContractorID,
		DueDate:          utils.FormatDatePtr(issue.DueDate),
		Resolution:       issue.Resolution,
		ResolvedAt:       utils.FormatEpochPtr(issue.ResolvedAt),
		CreatedAt:        utils.FormatEpoch(issue.CreatedAt),
		UpdatedAt:        utils.FormatEpoch(issue.UpdatedAt),
	}
}
