package policy

import (
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils/apierror"
)

// CanChangeRole checks if 'actor' can set 'target' role to 'newRole'.
// activeAdmins is the number of active admins in the tenant.
func CanChangeRole(actor *entity.AuthContext, target *entity.User, newRole entity.Role, activeAdmins int64) apierror.ErrorResponse {
	if apierr := CheckAuth(UserUpdateRole, actor); apierr != nil {
		return apierr
	}

	if !newRole.Valid() {
		return apierror.NewValidationError("role", "Value must be one of: admin supervisor inspector")
	}

	// Rule: a tenant never loses its last admin
	if isLastAdmin(target, activeAdmins) && newRole != entity.RoleAdmin {
		return forbiddenError("cannot demote the last administrator")
	}
	return nil
}

// CanToggleActive checks if 'actor' can flip the active flag of 'target'.
func CanToggleActive(actor *entity.AuthContext, target *entity.User, activeAdmins int64) apierror.ErrorResponse {
	if apierr := CheckAuth(UserToggle, actor); apierr != nil {
		return apierr
	}

	if actor.UserID() == target.ID {
		return forbiddenError("you cannot deactivate yourself")
	}

	if isLastAdmin(target, activeAdmins) {
		return forbiddenError("cannot deactivate the last administrator")
	}
	return nil
}

func isLastAdmin(target *entity.User, activeAdmins int64) bool {
	return target.Active && target.Role == entity.RoleAdmin && activeAdmins <= 1
}

func forbiddenError(msg string) *apierror.APIError {
	return apierror.NewForbiddenError(msg)
}
