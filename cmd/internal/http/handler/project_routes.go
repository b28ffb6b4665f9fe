package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type ProjectService interface {
	GetProjects(auth *entity.AuthContext, onlyActive bool) ([]*contract.ProjectResponse, apierror.ErrorResponse)
	GetProject(auth *entity.AuthContext, id int64) (*contract.ProjectResponse, apierror.ErrorResponse)
	CreateProject(auth *entity.AuthContext, req *contract.ProjectRequest) (*contract.ProjectResponse, apierror.ErrorResponse)
	UpdateProject(auth *entity.AuthContext, id int64, req *contract.UpdateProjectRequest) (*contract.ProjectResponse, apierror.ErrorResponse)
	ToggleProjectActive(auth *entity.AuthContext, id int64) (*contract.ProjectResponse, apierror.ErrorResponse)
	GetLocations(auth *entity.AuthContext, projectID int64) ([]*contract.LocationResponse, apierror.ErrorResponse)
	CreateLocation(auth *entity.AuthContext, projectID int64, req *contract.LocationRequest) (*contract.LocationResponse, apierror.ErrorResponse)
	UpdateLocation(auth *entity.AuthContext, id int64, req *contract.LocationRequest) (*contract.LocationResponse, apierror.ErrorResponse)
	DeleteLocation(auth *entity.AuthContext, id int64) apierror.ErrorResponse
}

type DefaultProjectRoute struct {
	ProjectService ProjectService
}

func NewProjectDefault(projectService ProjectService) *DefaultProjectRoute {
	return &DefaultProjectRoute{ProjectService: projectService}
}

func (p *DefaultProjectRoute) GetProjects(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	projects, apierr := p.ProjectService.GetProjects(auth, queryBool(c, "active"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, contract.NewList(projects))
}

func (p *DefaultProjectRoute) GetProject(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	project, apierr := p.ProjectService.GetProject(auth, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, project)
}

func (p *DefaultProjectRoute) CreateProject(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.ProjectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	project, apierr := p.ProjectService.CreateProject(auth, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, project)
}

func (p *DefaultProjectRoute) UpdateProject(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	project, apierr := p.ProjectService.UpdateProject(auth, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, project)
}

func (p *DefaultProjectRoute) ToggleProjectActive(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	project, apierr := p.ProjectService.ToggleProjectActive(auth, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, project)
}

func (p *DefaultProjectRoute) GetLocations(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	projectID, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	locations, apierr := p.ProjectService.GetLocations(auth, projectID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, contract.NewList(locations))
}

func (p *DefaultProjectRoute) CreateLocation(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	projectID, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.LocationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	location, apierr := p.ProjectService.CreateLocation(auth, projectID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, location)
}

func (p *DefaultProjectRoute) UpdateLocation(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.LocationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	location, apierr := p.ProjectService.UpdateLocation(auth, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, location)
}

func (p *DefaultProjectRoute) DeleteLocation(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr = p.ProjectService.DeleteLocation(auth, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
