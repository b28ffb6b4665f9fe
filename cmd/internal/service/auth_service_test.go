package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/sqlite/repository"
	"qualiobra/cmd/internal/testutil"
	"qualiobra/cmd/internal/utils/apierror"
)

func registerRequest(company, email string) *contract.RegisterTenantRequest {
	return &contract.RegisterTenantRequest{
		CompanyName: company,
		CNPJ:        "11.444.777/0001-61",
		AdminName:   "Maria Souza",
		Email:       email,
		Password:    "S3nha@Forte",
	}
}

func TestRegisterTenant(t *testing.T) {
	env := newEnv(t)
	cognito := testutil.NewFakeCognito()
	svc := NewAuthService(env.tenants, env.users, cognito, env.s3, env.validate)

	resp, apierr := svc.RegisterTenant(context.Background(), registerRequest("Construtora ABC", "maria@abc.com.br"))
	requireOK(t, apierr)
	assert.Equal(t, "construtora-abc", resp.Tenant.Slug)
	assert.Equal(t, string(entity.TenantActive), resp.Tenant.Status)
	assert.Equal(t, string(entity.RoleAdmin), resp.User.Role)
	assert.True(t, cognito.Called("SignUp:maria@abc.com.br"))

	admin, err := env.users.FindByEmail("maria@abc.com.br")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, cognito.Users["maria@abc.com.br"], admin.SubUUID)
	assert.Equal(t, resp.Tenant.ID, admin.TenantID)

	tenant, err := env.tenants.FindBySlug("construtora-abc")
	require.NoError(t, err)
	require.NotNil(t, tenant)
	assert.Equal(t, "11444777000161", tenant.CNPJ)

	t.Run("same company name", func(t *testing.T) {
		_, apierr := svc.RegisterTenant(context.Background(), registerRequest("Construtora  ABC", "joao@abc.com.br"))
		requireStatus(t, http.StatusConflict, apierr)
		assert.False(t, cognito.Called("SignUp:joao@abc.com.br"))
	})

	t.Run("email in use", func(t *testing.T) {
		_, apierr := svc.RegisterTenant(context.Background(), registerRequest("Outra Construtora", "maria@abc.com.br"))
		assert.Equal(t, apierror.UserAlreadyExistsError, apierr)
	})

	t.Run("identity provider refuses", func(t *testing.T) {
		cognito.SignUpErr = &types.UsernameExistsException{}
		defer func() { cognito.SignUpErr = nil }()

		_, apierr := svc.RegisterTenant(context.Background(), registerRequest("Engenharia XYZ", "ana@xyz.com.br"))
		assert.Equal(t, apierror.IDPExistingEmailError, apierr)

		taken, err := env.tenants.ExistsBySlug("engenharia-xyz")
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("weak password", func(t *testing.T) {
		req := registerRequest("Engenharia XYZ", "ana@xyz.com.br")
		req.Password = "fraca"
		_, apierr := svc.RegisterTenant(context.Background(), req)
		requireStatus(t, http.StatusBadRequest, apierr)
	})
}

// racingTenants lets another registration land between the existence
// checks and the insert.
type racingTenants struct {
	*repository.DefaultTenantRepository
	before func()
}

func (r *racingTenants) CreateWithAdmin(tenant *entity.Tenant, admin *entity.User) error {
	r.before()
	return r.DefaultTenantRepository.CreateWithAdmin(tenant, admin)
}

func TestRegisterTenantRace(t *testing.T) {
	t.Run("email taken first", func(t *testing.T) {
		env := newEnv(t)
		tenants := &racingTenants{DefaultTenantRepository: env.tenants, before: func() {
			other := testutil.SeedCompany(t, env.db, "Engenharia XYZ")
			testutil.SeedUser(t, env.db, other.Tenant.ID, entity.RoleAdmin, "maria@abc.com.br")
		}}
		svc := NewAuthService(tenants, env.users, testutil.NewFakeCognito(), env.s3, env.validate)

		_, apierr := svc.RegisterTenant(context.Background(), registerRequest("Construtora ABC", "maria@abc.com.br"))
		assert.Equal(t, apierror.UserAlreadyExistsError, apierr)

		taken, err := env.tenants.ExistsBySlug("construtora-abc")
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("company name taken first", func(t *testing.T) {
		env := newEnv(t)
		tenants := &racingTenants{DefaultTenantRepository: env.tenants, before: func() {
			testutil.SeedCompany(t, env.db, "Construtora ABC")
		}}
		svc := NewAuthService(tenants, env.users, testutil.NewFakeCognito(), env.s3, env.validate)

		_, apierr := svc.RegisterTenant(context.Background(), registerRequest("Construtora ABC", "maria@abc.com.br"))
		requireStatus(t, http.StatusConflict, apierr)
		conflict, ok := apierr.(*apierror.APIError)
		require.True(t, ok)
		assert.Contains(t, conflict.Message, "Construtora ABC")
	})
}

func TestLoginDeactivatedUser(t *testing.T) {
	env := newEnv(t)
	cognito := testutil.NewFakeCognito()
	svc := NewAuthService(env.tenants, env.users, cognito, env.s3, env.validate)
	abc := testutil.SeedCompany(t, env.db, "Construtora ABC")

	resp, apierr := svc.Login(context.Background(), &contract.LoginRequest{Email: abc.Inspector.Email, Password: "S3nha@Forte"})
	requireOK(t, apierr)
	assert.NotEmpty(t, resp.AccessToken)

	abc.Inspector.Active = false
	require.NoError(t, env.users.Save(abc.Tenant.ID, abc.Inspector))

	_, apierr = svc.Login(context.Background(), &contract.LoginRequest{Email: abc.Inspector.Email, Password: "S3nha@Forte"})
	assert.Equal(t, apierror.MissingAccessError, apierr)
}

func TestMe(t *testing.T) {
	env := newEnv(t)
	svc := NewAuthService(env.tenants, env.users, testutil.NewFakeCognito(), env.s3, env.validate)
	abc := testutil.SeedCompany(t, env.db, "Construtora ABC")
	op := testutil.SeedOperator(t, env.db, "ops@qualiobra.test")

	me, apierr := svc.Me(abc.AsSupervisor())
	requireOK(t, apierr)
	require.NotNil(t, me.Tenant)
	assert.Equal(t, "construtora-abc", me.Tenant.Slug)
	assert.Contains(t, me.Permissions, "bulletin.review")
	assert.NotContains(t, me.Permissions, "bulletin.approve")
	assert.Nil(t, me.Operator)

	me, apierr = svc.Me(&entity.AuthContext{SystemUser: op})
	requireOK(t, apierr)
	require.NotNil(t, me.Operator)
	assert.Equal(t, op.Email, me.Operator.Email)
	assert.Nil(t, me.Tenant)
	assert.Empty(t, me.Permissions)
}

func TestAuthResolver(t *testing.T) {
	env := newEnv(t)
	cognito := testutil.NewFakeCognito()
	resolver := NewAuthResolver(env.operators, env.users, env.tenants, cognito)
	abc := testutil.SeedCompany(t, env.db, "Construtora ABC")
	op := testutil.SeedOperator(t, env.db, "ops@qualiobra.test")
	ctx := context.Background()

	t.Run("operator", func(t *testing.T) {
		auth, apierr := resolver.Resolve(ctx, op.SubUUID)
		requireOK(t, apierr)
		assert.True(t, auth.IsSystem())
		assert.False(t, auth.IsTenant())
	})

	t.Run("tenant user", func(t *testing.T) {
		auth, apierr := resolver.Resolve(ctx, abc.Supervisor.SubUUID)
		requireOK(t, apierr)
		assert.True(t, auth.IsTenant())
		assert.Equal(t, abc.Tenant.ID, auth.TenantID())
		assert.Equal(t, entity.RoleSupervisor, auth.Role())
	})

	t.Run("unknown subject", func(t *testing.T) {
		_, apierr := resolver.Resolve(ctx, "8a1f7c1e-0000-4000-8000-000000000000")
		assert.Equal(t, apierror.OperatorMisconfiguredError, apierr)
	})

	t.Run("empty subject", func(t *testing.T) {
		_, apierr := resolver.Resolve(ctx, "  ")
		assert.Equal(t, apierror.UnauthorizedError, apierr)
	})

	t.Run("deactivated user", func(t *testing.T) {
		abc.Inspector.Active = false
		require.NoError(t, env.users.Save(abc.Tenant.ID, abc.Inspector))

		_, apierr := resolver.Resolve(ctx, abc.Inspector.SubUUID)
		requireStatus(t, http.StatusForbidden, apierr)
	})

	t.Run("suspended tenant", func(t *testing.T) {
		abc.Tenant.Status = entity.TenantSuspended
		require.NoError(t, env.tenants.Save(abc.Tenant))

		_, apierr := resolver.Resolve(ctx, abc.Admin.SubUUID)
		assert.Equal(t, apierror.TenantInactiveError, apierr)

		assert.Eventually(t, func() bool {
			return cognito.Called("AdminSignOut:" + abc.Admin.Email)
		}, time.Second, 10*time.Millisecond)
	})
}
