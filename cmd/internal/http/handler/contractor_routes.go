package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type ContractorService interface {
	GetContractors(auth *entity.AuthContext, onlyActive bool) ([]*contract.ContractorResponse, apierror.ErrorResponse)
	GetContractor(auth *entity.AuthContext, id int64) (*contract.ContractorResponse, apierror.ErrorResponse)
	CreateContractor(auth *entity.AuthContext, req *contract.ContractorRequest) (*contract.ContractorResponse, apierror.ErrorResponse)
	UpdateContractor(auth *entity.AuthContext, id int64, req *contract.UpdateContractorRequest) (*contract.ContractorResponse, apierror.ErrorResponse)
	ToggleContractorActive(auth *entity.AuthContext, id int64) (*contract.ContractorResponse, apierror.ErrorResponse)
}

type DefaultContractorRoute struct {
	ContractorService ContractorService
}

func NewContractorDefault(contractorService ContractorService) *DefaultContractorRoute {
	return &DefaultContractorRoute{ContractorService: contractorService}
}

func (r *DefaultContractorRoute) GetContractors(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	contractors, apierr := r.ContractorService.GetContractors(auth, queryBool(c, "active"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, contract.NewList(contractors))
}

func (r *DefaultContractorRoute) GetContractor(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	contractor, apierr := r.ContractorService.GetContractor(auth, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, contractor)
}

func (r *DefaultContractorRoute) CreateContractor(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.ContractorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	contractor, apierr := r.ContractorService.CreateContractor(auth, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, contractor)
}

func (r *DefaultContractorRoute) UpdateContractor(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.UpdateContractorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	contractor, apierr := r.ContractorService.UpdateContractor(auth, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, contractor)
}

func (r *DefaultContractorRoute) ToggleContractorActive(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	contractor, apierr := r.ContractorService.ToggleContractorActive(auth, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, contractor)
}
