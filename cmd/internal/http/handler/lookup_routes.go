package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type LookupService interface {
	GetCompanyByCNPJ(ctx context.Context, auth *entity.AuthContext, rawCNPJ string) (*contract.CompanyResponse, apierror.ErrorResponse)
}

type DefaultLookupRoute struct {
	LookupService LookupService
}

func NewLookupRoute(lookupService LookupService) *DefaultLookupRoute {
	return &DefaultLookupRoute{LookupService: lookupService}
}

func (u *DefaultLookupRoute) GetCompany(c echo.Context) error {
	auth, cerr := utils.GetAuthFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	cnpj := strings.TrimSpace(c.Param("cnpj"))
	if !utils.IsCNPJValid(cnpj) {
		apierr := apierror.InvalidCNPJError
		return c.JSON(apierr.Code(), apierr)
	}

	company, apierr := u.LookupService.GetCompanyByCNPJ(c.Request().Context(), auth, cnpj)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, company)
}
