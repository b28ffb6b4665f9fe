package service

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/sqlite/repository"
	"qualiobra/cmd/internal/testutil"
	"qualiobra/cmd/internal/utils/apierror"
)

type userFixture struct {
	env     *testEnv
	company *testutil.Company
	cognito *testutil.FakeCognito
	gateway *testutil.FakeGateway
	ws      *WebSocketService
	svc     *UserService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	env := newEnv(t)
	gateway := testutil.NewFakeGateway()
	cognito := testutil.NewFakeCognito()
	ws := NewWebSocketService(repository.NewConnectionRepository(env.db), gateway)

	return &userFixture{
		env:     env,
		company: testutil.SeedCompany(t, env.db, "Construtora ABC"),
		cognito: cognito,
		gateway: gateway,
		ws:      ws,
		svc:     NewUserService(env.users, ws, cognito, env.validate),
	}
}

func TestInviteUser(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	user, apierr := f.svc.InviteUser(ctx, f.company.AsAdmin(), &contract.InviteUserRequest{
		Name:  "Carlos Lima",
		Email: "carlos@abc.com.br",
		Role:  "inspector",
	})
	requireOK(t, apierr)
	assert.Equal(t, string(entity.RoleInspector), user.Role)
	assert.True(t, f.cognito.Called("AdminCreateUser:carlos@abc.com.br"))

	stored, err := f.env.users.FindByEmail("carlos@abc.com.br")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, f.company.Tenant.ID, stored.TenantID)

	_, apierr = f.svc.InviteUser(ctx, f.company.AsAdmin(), &contract.InviteUserRequest{
		Name:  "Carlos Lima",
		Email: "carlos@abc.com.br",
		Role:  "supervisor",
	})
	assert.Equal(t, apierror.UserAlreadyExistsError, apierr)

	_, apierr = f.svc.InviteUser(ctx, f.company.AsSupervisor(), &contract.InviteUserRequest{
		Name:  "Ana Lima",
		Email: "ana@abc.com.br",
		Role:  "inspector",
	})
	requireStatus(t, http.StatusForbidden, apierr)
}

func TestLastAdminIsProtected(t *testing.T) {
	f := newUserFixture(t)
	admin := f.company.AsAdmin()

	_, apierr := f.svc.UpdateRole(admin, f.company.Admin.ID, &contract.UpdateRoleRequest{Role: "supervisor"})
	requireStatus(t, http.StatusForbidden, apierr)

	_, apierr = f.svc.ToggleActive(admin, f.company.Admin.ID)
	requireStatus(t, http.StatusForbidden, apierr)

	promoted, apierr := f.svc.UpdateRole(admin, f.company.Supervisor.ID, &contract.UpdateRoleRequest{Role: "admin"})
	requireOK(t, apierr)
	assert.Equal(t, string(entity.RoleAdmin), promoted.Role)

	demoted, apierr := f.svc.UpdateRole(admin, f.company.Admin.ID, &contract.UpdateRoleRequest{Role: "supervisor"})
	requireOK(t, apierr)
	assert.Equal(t, string(entity.RoleSupervisor), demoted.Role)
}

func TestRoleChangeKillsSessions(t *testing.T) {
	f := newUserFixture(t)
	inspector := f.company.AsInspector()
	exp := time.Now().Add(time.Hour).Unix()

	requireOK(t, f.ws.RegisterConnection(inspector, "conn-1", exp))
	requireOK(t, f.ws.RegisterConnection(inspector, "conn-2", exp))
	requireOK(t, f.ws.RegisterConnection(f.company.AsSupervisor(), "conn-3", exp))

	_, apierr := f.svc.UpdateRole(f.company.AsAdmin(), f.company.Inspector.ID, &contract.UpdateRoleRequest{Role: "supervisor"})
	requireOK(t, apierr)

	assert.Eventually(t, func() bool {
		return len(f.gateway.DeletedConns()) == 2
	}, 2*time.Second, 20*time.Millisecond)
	assert.ElementsMatch(t, []string{"conn-1", "conn-2"}, f.gateway.DeletedConns())

	conns, err := repository.NewConnectionRepository(f.env.db).FindByUserID(f.company.Supervisor.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"conn-3"}, conns)
}

func TestGetUser(t *testing.T) {
	f := newUserFixture(t)
	rival := testutil.SeedCompany(t, f.env.db, "Engenharia XYZ")

	me, apierr := f.svc.GetUser(f.company.AsInspector(), "@me")
	requireOK(t, apierr)
	assert.Equal(t, f.company.Inspector.ID, me.ID)

	_, apierr = f.svc.GetUser(f.company.AsAdmin(), "not-a-number")
	assert.Equal(t, apierror.InvalidIDError, apierr)

	_, apierr = f.svc.GetUser(rival.AsAdmin(), strconv.FormatInt(f.company.Inspector.ID, 10))
	requireStatus(t, http.StatusNotFound, apierr)

	users, apierr := f.svc.GetUsers(f.company.AsInspector())
	requireOK(t, apierr)
	assert.Len(t, users, 3)
}
