package policy

import (
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils/apierror"
)

// CanActOnInspection applies the role table and, for inspectors, the
// ownership rule: they only act on inspections assigned to them.
func CanActOnInspection(op Operation, auth *entity.AuthContext, insp *entity.Inspection) apierror.ErrorResponse {
	if apierr := CheckAuth(op, auth); apierr != nil {
		return apierr
	}

	if insp == nil {
		return apierror.NotFoundError
	}

	if auth.Role() == entity.RoleInspector && insp.InspectorID != auth.UserID() {
		return forbiddenError("inspectors can only act on their own inspections")
	}
	return nil
}

// CanViewInspection applies the ownership rule to reads: inspectors only see
// the inspections assigned to them.
func CanViewInspection(auth *entity.AuthContext, insp *entity.Inspection) apierror.ErrorResponse {
	if !auth.IsTenant() {
		return apierror.TenantOnlyError
	}

	if auth.Role() == entity.RoleInspector && insp.InspectorID != auth.UserID() {
		return forbiddenError("inspectors can only see their own inspections")
	}
	return nil
}
