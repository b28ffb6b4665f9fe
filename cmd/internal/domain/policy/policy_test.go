package policy

import (
	"net/http"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils/apierror"
)

func authAs(id int64, role entity.Role) *entity.AuthContext {
	tenant := &entity.Tenant{Name: "Construtora ABC", Slug: "construtora-abc", Status: entity.TenantActive}
	tenant.ID = 1
	user := &entity.User{TenantID: tenant.ID, Role: role, Active: true}
	user.ID = id
	return &entity.AuthContext{User: user, Tenant: tenant}
}

func TestRoleTable(t *testing.T) {
	tests := []struct {
		op      Operation
		allowed []entity.Role
	}{
		{ProjectCreate, []entity.Role{entity.RoleAdmin}},
		{ContractItems, []entity.Role{entity.RoleAdmin}},
		{UserInvite, []entity.Role{entity.RoleAdmin}},
		{PlanningCreate, []entity.Role{entity.RoleAdmin, entity.RoleSupervisor}},
		{InspectionCreate, []entity.Role{entity.RoleAdmin, entity.RoleSupervisor, entity.RoleInspector}},
		{InspectionReject, []entity.Role{entity.RoleAdmin, entity.RoleSupervisor}},
		{InspectionDelete, []entity.Role{entity.RoleAdmin}},
		{IssueUpdateStatus, []entity.Role{entity.RoleAdmin, entity.RoleSupervisor, entity.RoleInspector}},
		{BulletinSubmit, []entity.Role{entity.RoleAdmin, entity.RoleSupervisor}},
		{BulletinApprove, []entity.Role{entity.RoleAdmin}},
		{DiaryCreate, []entity.Role{entity.RoleAdmin, entity.RoleSupervisor, entity.RoleInspector}},
		{DiaryDelete, []entity.Role{entity.RoleAdmin}},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			assert.Equal(t, entity.RolesOf(tt.allowed...), Allowed(tt.op))

			for _, role := range []entity.Role{entity.RoleAdmin, entity.RoleSupervisor, entity.RoleInspector} {
				apierr := Check(tt.op, role)
				if entity.RolesOf(tt.allowed...).Has(role) {
					assert.Nil(t, apierr, role)
				} else {
					require.NotNil(t, apierr, role)
					assert.Equal(t, http.StatusForbidden, apierr.Code())
				}
			}
		})
	}
}

func TestUnknownOperationIsDenied(t *testing.T) {
	apierr := Check("project.archive", entity.RoleAdmin)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusForbidden, apierr.Code())
}

func TestCheckAuthRejectsOperators(t *testing.T) {
	operator := &entity.AuthContext{SystemUser: &entity.SystemUser{Email: "ops@qualiobra.test"}}
	assert.Equal(t, apierror.TenantOnlyError, CheckAuth(InspectionCreate, operator))
	assert.Equal(t, apierror.TenantOnlyError, CheckAuth(InspectionCreate, nil))
	assert.Nil(t, CheckAuth(InspectionCreate, authAs(1, entity.RoleInspector)))
}

func TestCanActOnInspection(t *testing.T) {
	insp := &entity.Inspection{TenantID: 1, InspectorID: 7}

	assert.Nil(t, CanActOnInspection(InspectionEvaluate, authAs(7, entity.RoleInspector), insp))
	assert.Nil(t, CanActOnInspection(InspectionEvaluate, authAs(2, entity.RoleSupervisor), insp))

	apierr := CanActOnInspection(InspectionEvaluate, authAs(8, entity.RoleInspector), insp)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusForbidden, apierr.Code())

	apierr = CanActOnInspection(InspectionReject, authAs(7, entity.RoleInspector), insp)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusForbidden, apierr.Code())

	assert.Equal(t, apierror.NotFoundError, CanActOnInspection(InspectionEvaluate, authAs(7, entity.RoleInspector), nil))
}

func TestCanChangeRole(t *testing.T) {
	admin := authAs(1, entity.RoleAdmin)
	self := &entity.User{Role: entity.RoleAdmin, Active: true}
	self.ID = 1

	apierr := CanChangeRole(admin, self, entity.RoleSupervisor, 1)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusForbidden, apierr.Code())

	assert.Nil(t, CanChangeRole(admin, self, entity.RoleSupervisor, 2))
	assert.Nil(t, CanChangeRole(admin, self, entity.RoleAdmin, 1))

	apierr = CanChangeRole(admin, self, "owner", 2)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())

	apierr = CanChangeRole(authAs(2, entity.RoleSupervisor), self, entity.RoleInspector, 2)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusForbidden, apierr.Code())
}

func TestCanToggleActive(t *testing.T) {
	admin := authAs(1, entity.RoleAdmin)

	self := &entity.User{Role: entity.RoleAdmin, Active: true}
	self.ID = 1
	assert.NotNil(t, CanToggleActive(admin, self, 3), "self deactivation")

	other := &entity.User{Role: entity.RoleAdmin, Active: true}
	other.ID = 2
	assert.NotNil(t, CanToggleActive(admin, other, 1), "last admin")
	assert.Nil(t, CanToggleActive(admin, other, 2))

	// Reactivating a disabled admin is always allowed
	other.Active = false
	assert.Nil(t, CanToggleActive(admin, other, 1))
}

func TestCanViewInspection(t *testing.T) {
	insp := &entity.Inspection{TenantID: 1, InspectorID: 7}

	assert.Nil(t, CanViewInspection(authAs(7, entity.RoleInspector), insp))
	assert.Nil(t, CanViewInspection(authAs(2, entity.RoleAdmin), insp))

	apierr := CanViewInspection(authAs(8, entity.RoleInspector), insp)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusForbidden, apierr.Code())
}

func TestPermissions(t *testing.T) {
	admin := Permissions(entity.RoleAdmin)
	inspector := Permissions(entity.RoleInspector)

	assert.Len(t, admin, len(table))
	assert.True(t, slices.IsSorted(admin))
	assert.Contains(t, inspector, string(InspectionCreate))
	assert.Contains(t, inspector, string(DiaryCreate))
	assert.NotContains(t, inspector, string(BulletinApprove))
	assert.NotContains(t, Permissions(entity.RoleSupervisor), string(ProjectCreate))
	assert.Empty(t, Permissions(entity.Role("guest")))
}
