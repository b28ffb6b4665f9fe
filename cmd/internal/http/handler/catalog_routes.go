package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type CatalogService interface {
	GetServices(auth *entity.AuthContext, onlyActive bool) ([]*contract.ServiceResponse, apierror.ErrorResponse)
	GetService(auth *entity.AuthContext, id int64) (*contract.ServiceResponse, apierror.ErrorResponse)
	CreateService(auth *entity.AuthContext, req *contract.ServiceRequest) (*contract.ServiceResponse, apierror.ErrorResponse)
	UpdateService(auth *entity.AuthContext, id int64, req *contract.UpdateServiceRequest) (*contract.ServiceResponse, apierror.ErrorResponse)
	ReplaceCriteria(auth *entity.AuthContext, id int64, req *contract.ReplaceCriteriaRequest) (*contract.ServiceResponse, apierror.ErrorResponse)
}

type DefaultCatalogRoute struct {
	CatalogService CatalogService
}

func NewCatalogDefault(catalogService CatalogService) *DefaultCatalogRoute {
	return &DefaultCatalogRoute{CatalogService: catalogService}
}

func (s *DefaultCatalogRoute) GetServices(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	services, apierr := s.CatalogService.GetServices(auth, queryBool(c, "active"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, contract.NewList(services))
}

func (s *DefaultCatalogRoute) GetService(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	service, apierr := s.CatalogService.GetService(auth, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, service)
}

func (s *DefaultCatalogRoute) CreateService(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.ServiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	service, apierr := s.CatalogService.CreateService(auth, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, service)
}

func (s *DefaultCatalogRoute) UpdateService(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.UpdateServiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	service, apierr := s.CatalogService.UpdateService(auth, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, service)
}

func (s *DefaultCatalogRoute) ReplaceCriteria(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.ReplaceCriteriaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	service, apierr := s.CatalogService.ReplaceCriteria(auth, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, service)
}
