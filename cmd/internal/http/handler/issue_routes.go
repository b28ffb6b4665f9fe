package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type IssueService interface {
	GetIssues(auth *entity.AuthContext, filter *contract.IssueFilter) ([]*contract.IssueResponse, apierror.ErrorResponse)
	GetIssue(auth *entity.AuthContext, id int64) (*contract.IssueResponse, apierror.ErrorResponse)
	UpdateIssue(auth *entity.AuthContext, id int64, req *contract.UpdateIssueRequest) (*contract.IssueResponse, apierror.ErrorResponse)
	UpdateStatus(auth *entity.AuthContext, id int64, req *contract.UpdateIssueStatusRequest) (*contract.IssueResponse, apierror.ErrorResponse)
}

type DefaultIssueRoute struct {
	IssueService IssueService
}

func NewIssueDefault(issueService IssueService) *DefaultIssueRoute {
	return &DefaultIssueRoute{IssueService: issueService}
}

func (r *DefaultIssueRoute) GetIssues(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var filter contract.IssueFilter
	if apierr := bindQuery(c, &filter); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	issues, apierr := r.IssueService.GetIssues(auth, &filter)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, contract.NewList(issues))
}

func (r *DefaultIssueRoute) GetIssue(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	issue, apierr := r.IssueService.GetIssue(auth, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, issue)
}

func (r *DefaultIssueRoute) UpdateIssue(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.UpdateIssueRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	issue, apierr := r.IssueService.UpdateIssue(auth, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, issue)
}

func (r *DefaultIssueRoute) UpdateStatus(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.UpdateIssueStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	issue, apierr := r.IssueService.UpdateStatus(auth, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, issue)
}
