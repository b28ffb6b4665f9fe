package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type stubResolver map[string]*entity.AuthContext

func (s stubResolver) Resolve(_ context.Context, sub string) (*entity.AuthContext, apierror.ErrorResponse) {
	auth, ok := s[sub]
	if !ok {
		return nil, apierror.OperatorMisconfiguredError
	}
	if auth.IsTenant() && !auth.Tenant.IsActive() {
		return nil, apierror.TenantInactiveError
	}
	return auth, nil
}

// verifyBearer accepts "Bearer <sub>" as a valid token for <sub>.
func verifyBearer(token string) (*utils.TokenData, error) {
	sub := utils.SanitizeToken(token)
	if sub == "" || sub == token {
		return nil, errors.New("missing bearer token")
	}
	return &utils.TokenData{Sub: sub, Exp: 1_900_000_000}, nil
}

func newAuthServer() *echo.Echo {
	tenant := &entity.Tenant{Name: "Construtora ABC", Slug: "construtora-abc", Status: entity.TenantActive}
	tenant.ID = 10
	suspended := &entity.Tenant{Name: "Engenharia XYZ", Slug: "engenharia-xyz", Status: entity.TenantSuspended}
	suspended.ID = 20

	admin := &entity.User{TenantID: tenant.ID, Role: entity.RoleAdmin, Active: true}
	admin.ID = 1

	resolver := stubResolver{
		"admin-sub":     {User: admin, Tenant: tenant},
		"operator-sub":  {SystemUser: &entity.SystemUser{Email: "ops@qualiobra.test"}},
		"suspended-sub": {User: &entity.User{TenantID: suspended.ID, Role: entity.RoleAdmin, Active: true}, Tenant: suspended},
	}

	e := echo.New()
	auth := NewAuthMiddleware(&AuthMiddlewareConfig{Resolver: resolver, Verify: verifyBearer})
	ok := func(c echo.Context) error {
		token, apierr := utils.GetTokenFromContext(c)
		if apierr != nil {
			return c.JSON(apierr.Code(), apierr)
		}
		return c.String(http.StatusOK, token.Sub)
	}

	e.GET("/api/me", ok, auth)
	e.GET("/api/platform/tenants", ok, auth, RequirePlatform())
	e.GET("/api/projects", ok, auth, RequireTenant())
	return e
}

func call(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	e := newAuthServer()

	tests := []struct {
		name   string
		path   string
		token  string
		status int
		kind   string
	}{
		{"no token", "/api/me", "", http.StatusUnauthorized, apierror.KindNotAuthenticated},
		{"unknown subject", "/api/me", "ghost-sub", http.StatusUnauthorized, apierror.KindOperatorMisconfigured},
		{"suspended tenant", "/api/me", "suspended-sub", http.StatusForbidden, apierror.KindTenantInactive},
		{"tenant user", "/api/me", "admin-sub", http.StatusOK, ""},
		{"operator", "/api/me", "operator-sub", http.StatusOK, ""},
		{"tenant on platform route", "/api/platform/tenants", "admin-sub", http.StatusForbidden, apierror.KindForbidden},
		{"operator on platform route", "/api/platform/tenants", "operator-sub", http.StatusOK, ""},
		{"operator on tenant route", "/api/projects", "operator-sub", http.StatusForbidden, apierror.KindForbidden},
		{"tenant on tenant route", "/api/projects", "admin-sub", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(e, tt.path, tt.token)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			if tt.kind != "" {
				assert.Contains(t, rec.Body.String(), `"error":"`+tt.kind+`"`)
			} else {
				assert.Equal(t, tt.token, rec.Body.String())
			}
		})
	}
}
