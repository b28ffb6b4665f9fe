package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type MeasurementService interface {
	GetBulletins(auth *entity.AuthContext, contractID int64) ([]*contract.BulletinResponse, apierror.ErrorResponse)
	GetBulletin(auth *entity.AuthContext, id int64) (*contract.BulletinResponse, apierror.ErrorResponse)
	GetItemHistory(auth *entity.AuthContext, contractID, itemID int64) (*contract.ItemHistoryResponse, apierror.ErrorResponse)
	CreateBulletin(auth *entity.AuthContext, req *contract.CreateBulletinRequest) (*contract.BulletinResponse, apierror.ErrorResponse)
	UpdateBulletin(auth *entity.AuthContext, id int64, req *contract.UpdateBulletinRequest) (*contract.BulletinResponse, apierror.ErrorResponse)
	SubmitBulletin(auth *entity.AuthContext, id int64) (*contract.BulletinResponse, apierror.ErrorResponse)
	ReviewBulletin(auth *entity.AuthContext, id int64) (*contract.BulletinResponse, apierror.ErrorResponse)
	ApproveBulletin(auth *entity.AuthContext, id int64) (*contract.BulletinResponse, apierror.ErrorResponse)
	RejectBulletin(auth *entity.AuthContext, id int64, req *contract.RejectBulletinRequest) (*contract.BulletinResponse, apierror.ErrorResponse)
	ReopenBulletin(auth *entity.AuthContext, id int64) (*contract.BulletinResponse, apierror.ErrorResponse)
	DeleteBulletin(auth *entity.AuthContext, id int64) apierror.ErrorResponse
}

type bulletinAction func(auth *entity.AuthContext, id int64) (*contract.BulletinResponse, apierror.ErrorResponse)

type DefaultMeasurementRoute struct {
	MeasurementService MeasurementService
}

func NewMeasurementDefault(measurementService MeasurementService) *DefaultMeasurementRoute {
	return &DefaultMeasurementRoute{MeasurementService: measurementService}
}

func (r *DefaultMeasurementRoute) GetBulletins(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	contractID, apierr := optionalQueryID(c, "contract_id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	bulletins, apierr := r.MeasurementService.GetBulletins(auth, contractID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, contract.NewList(bulletins))
}

func (r *DefaultMeasurementRoute) GetBulletin(c echo.Context) error {
	return r.run(c, r.MeasurementService.GetBulletin)
}

func (r *DefaultMeasurementRoute) GetItemHistory(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	contractID, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	itemID, apierr := pathID(c, "itemId")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	history, apierr := r.MeasurementService.GetItemHistory(auth, contractID, itemID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, history)
}

func (r *DefaultMeasurementRoute) CreateBulletin(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.CreateBulletinRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	bulletin, apierr := r.MeasurementService.CreateBulletin(auth, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, bulletin)
}

func (r *DefaultMeasurementRoute) UpdateBulletin(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.UpdateBulletinRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	bulletin, apierr := r.MeasurementService.UpdateBulletin(auth, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, bulletin)
}

func (r *DefaultMeasurementRoute) SubmitBulletin(c echo.Context) error {
	return r.run(c, r.MeasurementService.SubmitBulletin)
}

func (r *DefaultMeasurementRoute) ReviewBulletin(c echo.Context) error {
	return r.run(c, r.MeasurementService.ReviewBulletin)
}

func (r *DefaultMeasurementRoute) ApproveBulletin(c echo.Context) error {
	return r.run(c, r.MeasurementService.ApproveBulletin)
}

func (r *DefaultMeasurementRoute) ReopenBulletin(c echo.Context) error {
	return r.run(c, r.MeasurementService.ReopenBulletin)
}

func (r *DefaultMeasurementRoute) RejectBulletin(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.RejectBulletinRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	bulletin, apierr := r.MeasurementService.RejectBulletin(auth, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, bulletin)
}

func (r *DefaultMeasurementRoute) DeleteBulletin(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if apierr = r.MeasurementService.DeleteBulletin(auth, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

// run serves the routes that only take the bulletin id.
func (r *DefaultMeasurementRoute) run(c echo.Context, action bulletinAction) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	bulletin, apierr := action(auth, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, bulletin)
}
