package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type ContractService interface {
	GetContracts(auth *entity.AuthContext, projectID int64) ([]*contract.ContractResponse, apierror.ErrorResponse)
	GetContract(auth *entity.AuthContext, id int64) (*contract.ContractResponse, apierror.ErrorResponse)
	CreateContract(auth *entity.AuthContext, req *contract.ContractRequest) (*contract.ContractResponse, apierror.ErrorResponse)
	UpdateContract(auth *entity.AuthContext, id int64, req *contract.UpdateContractRequest) (*contract.ContractResponse, apierror.ErrorResponse)
	ReplaceItems(auth *entity.AuthContext, id int64, req *contract.ReplaceContractItemsRequest) (*contract.ContractResponse, apierror.ErrorResponse)
}

type DefaultContractRoute struct {
	ContractService ContractService
}

func NewContractDefault(contractService ContractService) *DefaultContractRoute {
	return &DefaultContractRoute{ContractService: contractService}
}

func (r *DefaultContractRoute) GetContracts(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	projectID, apierr := optionalQueryID(c, "project_id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	contracts, apierr := r.ContractService.GetContracts(auth, projectID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, contract.NewList(contracts))
}

func (r *DefaultContractRoute) GetContract(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	ct, apierr := r.ContractService.GetContract(auth, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, ct)
}

func (r *DefaultContractRoute) CreateContract(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.ContractRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	ct, apierr := r.ContractService.CreateContract(auth, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, ct)
}

func (r *DefaultContractRoute) UpdateContract(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.UpdateContractRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	ct, apierr := r.ContractService.UpdateContract(auth, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, ct)
}

func (r *DefaultContractRoute) ReplaceItems(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.ReplaceContractItemsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	ct, apierr := r.ContractService.ReplaceItems(auth, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, ct)
}
