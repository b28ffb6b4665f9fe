package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type PlanningService interface {
	Grid(auth *entity.AuthContext, projectID int64, month string) (*contract.PlanningGridResponse, apierror.ErrorResponse)
	CreatePlanningItem(auth *entity.AuthContext, req *contract.PlanningRequest) (*contract.PlanningItemResponse, apierror.ErrorResponse)
	DeletePlanningItem(auth *entity.AuthContext, id int64) apierror.ErrorResponse
}

type DefaultPlanningRoute struct {
	PlanningService PlanningService
}

func NewPlanningDefault(planningService PlanningService) *DefaultPlanningRoute {
	return &DefaultPlanningRoute{PlanningService: planningService}
}

// Grid expects ?project_id=...&month=YYYY-MM
func (r *DefaultPlanningRoute) Grid(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	projectID, apierr := queryID(c, "project_id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	grid, apierr := r.PlanningService.Grid(auth, projectID, strings.TrimSpace(c.QueryParam("month")))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, grid)
}

func (r *DefaultPlanningRoute) CreatePlanningItem(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.PlanningRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	item, apierr := r.PlanningService.CreatePlanningItem(auth, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, item)
}

func (r *DefaultPlanningRoute) DeletePlanningItem(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr = r.PlanningService.DeletePlanningItem(auth, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
