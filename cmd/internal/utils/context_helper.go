package utils

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils/apierror"
)

// ContextKeyAuth is where the auth middleware stores the resolved *entity.AuthContext.
const ContextKeyAuth = "auth"

func GetAuthFromContext(c echo.Context) (*entity.AuthContext, apierror.ErrorResponse) {
	val := c.Get(ContextKeyAuth)
	if val == nil {
		log.Warnf("route %s attempted to read nil auth context", c.Request().URL)
		return nil, apierror.UnauthorizedError
	}

	auth, ok := val.(*entity.AuthContext)
	if !ok {
		log.Warnf("expected auth context type at '%s' key, got %T", ContextKeyAuth, val)
		return nil, apierror.InternalServerError
	}
	return auth, nil
}

// GetTenantAuth is GetAuthFromContext for routes that need a company user.
func GetTenantAuth(c echo.Context) (*entity.AuthContext, apierror.ErrorResponse) {
	auth, apierr := GetAuthFromContext(c)
	if apierr != nil {
		return nil, apierr
	}

	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}
	return auth, nil
}

// ContextKeyToken holds the verified *TokenData of the request.
const ContextKeyToken = "token"

func GetTokenFromContext(c echo.Context) (*TokenData, apierror.ErrorResponse) {
	token, ok := c.Get(ContextKeyToken).(*TokenData)
	if !ok || token == nil {
		return nil, apierror.InvalidAuthTokenError
	}
	return token, nil
}
