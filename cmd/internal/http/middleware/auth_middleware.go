package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/metrics"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type AuthResolver interface {
	Resolve(ctx context.Context, sub string) (*entity.AuthContext, apierror.ErrorResponse)
}

type AuthMiddlewareConfig struct {
	Resolver AuthResolver

	// Verify defaults to utils.ValidateToken
	Verify utils.TokenVerifier
}

// NewAuthMiddleware creates the handler with dependencies injected
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	verify := cfg.Verify
	if verify == nil {
		verify = utils.ValidateToken
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData, err := utils.ParseTokenDataCtx(c, verify)
			if err != nil {
				return reject(c, apierror.InvalidAuthTokenError)
			}

			auth, apierr := cfg.Resolver.Resolve(c.Request().Context(), tokenData.Sub)
			if apierr != nil {
				return reject(c, apierr)
			}

			c.Set(utils.ContextKeyAuth, auth)
			c.Set(utils.ContextKeyToken, tokenData)
			return next(c)
		}
	}
}

// RequirePlatform only lets platform operators through.
func RequirePlatform() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth, apierr := utils.GetAuthFromContext(c)
			if apierr != nil {
				return c.JSON(apierr.Code(), apierr)
			}

			if !auth.IsSystem() {
				return reject(c, apierror.PlatformOnlyError)
			}
			return next(c)
		}
	}
}

// RequireTenant only lets company users through.
func RequireTenant() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, apierr := utils.GetTenantAuth(c); apierr != nil {
				if apierr == apierror.TenantOnlyError {
					return reject(c, apierr)
				}
				return c.JSON(apierr.Code(), apierr)
			}
			return next(c)
		}
	}
}

func reject(c echo.Context, apierr apierror.ErrorResponse) error {
	metrics.AuthFailures.WithLabelValues(kindOf(apierr)).Inc()
	return c.JSON(apierr.Code(), apierr)
}

func kindOf(apierr apierror.ErrorResponse) string {
	switch e := apierr.(type) {
	case *apierror.APIError:
		return e.Kind
	case *apierror.StructuredError:
		return e.Kind
	}
	return "UNKNOWN"
}
