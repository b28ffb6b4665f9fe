package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type InspectionService interface {
	GetInspections(auth *entity.AuthContext, filter *contract.InspectionFilter) ([]*contract.InspectionResponse, apierror.ErrorResponse)
	GetInspection(auth *entity.AuthContext, id int64) (*contract.InspectionResponse, apierror.ErrorResponse)
	CreateInspection(auth *entity.AuthContext, req *contract.CreateInspectionRequest) (*contract.InspectionResponse, apierror.ErrorResponse)
	StartInspection(auth *entity.AuthContext, id int64) (*contract.InspectionResponse, apierror.ErrorResponse)
	EvaluateItem(auth *entity.AuthContext, id, itemID int64, req *contract.EvaluateItemRequest) (*contract.InspectionItemResponse, apierror.ErrorResponse)
	CompleteInspection(auth *entity.AuthContext, id int64, req *contract.CompleteInspectionRequest) (*contract.InspectionResponse, apierror.ErrorResponse)
	DeleteInspection(auth *entity.AuthContext, id int64) apierror.ErrorResponse
	UploadPhoto(ctx context.Context, auth *entity.AuthContext, id, itemID int64, fileHeader *multipart.FileHeader) (*contract.UploadResponse, apierror.ErrorResponse)
}

type DefaultInspectionRoute struct {
	InspectionService InspectionService
}

func NewInspectionDefault(inspectionService InspectionService) *DefaultInspectionRoute {
	return &DefaultInspectionRoute{InspectionService: inspectionService}
}

func (r *DefaultInspectionRoute) GetInspections(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var filter contract.InspectionFilter
	if apierr := bindQuery(c, &filter); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	inspections, apierr := r.InspectionService.GetInspections(auth, &filter)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, contract.NewList(inspections))
}

func (r *DefaultInspectionRoute) GetInspection(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	inspection, apierr := r.InspectionService.GetInspection(auth, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, inspection)
}

func (r *DefaultInspectionRoute) CreateInspection(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.CreateInspectionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	inspection, apierr := r.InspectionService.CreateInspection(auth, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, inspection)
}

func (r *DefaultInspectionRoute) StartInspection(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	inspection, apierr := r.InspectionService.StartInspection(auth, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, inspection)
}

func (r *DefaultInspectionRoute) EvaluateItem(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	itemID, apierr := pathID(c, "itemId")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.EvaluateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	item, apierr := r.InspectionService.EvaluateItem(auth, id, itemID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, item)
}

func (r *DefaultInspectionRoute) CompleteInspection(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.CompleteInspectionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	inspection, apierr := r.InspectionService.CompleteInspection(auth, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, inspection)
}

func (r *DefaultInspectionRoute) DeleteInspection(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr = r.InspectionService.DeleteInspection(auth, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *DefaultInspectionRoute) UploadPhoto(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	itemID, apierr := pathID(c, "itemId")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MissingFileError)
	}

	resp, apierr := r.InspectionService.UploadPhoto(c.Request().Context(), auth, id, itemID, fileHeader)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}
