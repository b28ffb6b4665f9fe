package service

import (
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/policy"
	"qualiobra/cmd/internal/utils/apierror"
)

// userUpdater acts as a "Change Set" context.
// It accumulates errors and tracks if a save is actually needed.
type userUpdater struct {
	actor        *entity.AuthContext
	target       *entity.User
	activeAdmins int64

	// State
	err         apierror.ErrorResponse
	dirty       bool
	roleChanged bool
	deactivated bool
}

func (u *userUpdater) setRole(newVal *string) {
	if u.err != nil || newVal == nil {
		return
	}

	newRole := entity.Role(*newVal)
	if u.target.Role == newRole {
		return
	}

	if err := policy.CanChangeRole(u.actor, u.target, newRole, u.activeAdmins); err != nil {
		u.err = err
		return
	}

	u.target.Role = newRole
	u.roleChanged = true
	u.dirty = true
}

func (u *userUpdater) setActive(newVal *bool) {
	if u.err != nil || newVal == nil {
		return
	}

	if u.target.Active == *newVal {
		return
	}

	if err := policy.CanToggleActive(u.actor, u.target, u.activeAdmins); err != nil {
		u.err = err
		return
	}

	u.target.Active = *newVal
	u.deactivated = !*newVal
	u.dirty = true
}
