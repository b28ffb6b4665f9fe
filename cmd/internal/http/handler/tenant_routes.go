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

type TenantService interface {
	ListTenants(auth *entity.AuthContext) ([]*contract.TenantResponse, apierror.ErrorResponse)
	SetStatus(auth *entity.AuthContext, tenantID int64, req *contract.SetTenantStatusRequest) (*contract.TenantResponse, apierror.ErrorResponse)
	GetTenant(auth *entity.AuthContext) (*contract.TenantResponse, apierror.ErrorResponse)
	UpdateTenant(auth *entity.AuthContext, req *contract.UpdateTenantRequest) (*contract.TenantResponse, apierror.ErrorResponse)
	UploadLogo(ctx context.Context, auth *entity.AuthContext, fileHeader *multipart.FileHeader) (*contract.UploadResponse, apierror.ErrorResponse)
}

type DefaultTenantRoute struct {
	TenantService TenantService
}

func NewTenantDefault(tenantService TenantService) *DefaultTenantRoute {
	return &DefaultTenantRoute{TenantService: tenantService}
}

// ListTenants is a platform route.
func (t *DefaultTenantRoute) ListTenants(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	tenants, apierr := t.TenantService.ListTenants(auth)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, contract.NewList(tenants))
}

// SetStatus is a platform route.
func (t *DefaultTenantRoute) SetStatus(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.SetTenantStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	tenant, apierr := t.TenantService.SetStatus(auth, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, tenant)
}

func (t *DefaultTenantRoute) GetTenant(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	tenant, apierr := t.TenantService.GetTenant(auth)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, tenant)
}

func (t *DefaultTenantRoute) UpdateTenant(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.UpdateTenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	tenant, apierr := t.TenantService.UpdateTenant(auth, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, tenant)
}

func (t *DefaultTenantRoute) UploadLogo(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MissingFileError)
	}

	resp, apierr := t.TenantService.UploadLogo(c.Request().Context(), auth, fileHeader)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
