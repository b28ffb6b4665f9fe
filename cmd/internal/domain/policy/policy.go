package policy

import (
	"slices"

	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/utils/apierror"
)

// Operation names a mutation guarded by the role table.
type Operation string

const (
	ProjectCreate Operation = "project.create"
	ProjectUpdate Operation = "project.update"
	ProjectToggle Operation = "project.toggle"

	LocationCreate Operation = "location.create"
	LocationUpdate Operation = "location.update"
	LocationDelete Operation = "location.delete"

	ServiceCreate   Operation = "service.create"
	ServiceUpdate   Operation = "service.update"
	CriteriaReplace Operation = "criteria.replace"

	ContractorCreate Operation = "contractor.create"
	ContractorUpdate Operation = "contractor.update"
	ContractorToggle Operation = "contractor.toggle"

	ContractCreate Operation = "contract.create"
	ContractUpdate Operation = "contract.update"
	ContractItems  Operation = "contract.items"

	UserInvite     Operation = "user.invite"
	UserUpdateRole Operation = "user.update_role"
	UserToggle     Operation = "user.toggle"

	TenantUpdate Operation = "tenant.update"
	TenantLogo   Operation = "tenant.logo"

	PlanningCreate Operation = "planning.create"
	PlanningDelete Operation = "planning.delete"

	InspectionCreate   Operation = "inspection.create"
	InspectionStart    Operation = "inspection.start"
	InspectionEvaluate Operation = "inspection.evaluate"
	InspectionComplete Operation = "inspection.complete"
	InspectionPhoto    Operation = "inspection.photo"
	InspectionReject   Operation = "inspection.reject"
	InspectionDelete   Operation = "inspection.delete"

	IssueUpdateStatus Operation = "issue.update_status"

	BulletinCreate  Operation = "bulletin.create"
	BulletinEdit    Operation = "bulletin.edit"
	BulletinSubmit  Operation = "bulletin.submit"
	BulletinReview  Operation = "bulletin.review"
	BulletinApprove Operation = "bulletin.approve"
	BulletinReject  Operation = "bulletin.reject"
	BulletinDelete  Operation = "bulletin.delete"

	DiaryCreate Operation = "diary.create"
	DiaryUpdate Operation = "diary.update"
	DiaryDelete Operation = "diary.delete"
)

var (
	adminOnly     = entity.RoleSetAdmin
	adminOrSuperv = entity.RoleSetAdmin | entity.RoleSetSupervisor
	anyRole       = entity.RoleSetAll
)

// table is the single source of truth for role authorization.
// Operations missing from it are denied.
var table = map[Operation]entity.RoleSet{
	ProjectCreate: adminOnly,
	ProjectUpdate: adminOnly,
	ProjectToggle: adminOnly,

	LocationCreate: adminOnly,
	LocationUpdate: adminOnly,
	LocationDelete: adminOnly,

	ServiceCreate:   adminOnly,
	ServiceUpdate:   adminOnly,
	CriteriaReplace: adminOnly,

	ContractorCreate: adminOnly,
	ContractorUpdate: adminOnly,
	ContractorToggle: adminOnly,

	ContractCreate: adminOnly,
	ContractUpdate: adminOnly,
	ContractItems:  adminOnly,

	UserInvite:     adminOnly,
	UserUpdateRole: adminOnly,
	UserToggle:     adminOnly,

	TenantUpdate: adminOnly,
	TenantLogo:   adminOnly,

	PlanningCreate: adminOrSuperv,
	PlanningDelete: adminOrSuperv,

	InspectionCreate:   anyRole,
	InspectionStart:    anyRole,
	InspectionEvaluate: anyRole,
	InspectionComplete: anyRole,
	InspectionPhoto:    anyRole,
	InspectionReject:   adminOrSuperv,
	InspectionDelete:   adminOnly,

	IssueUpdateStatus: anyRole,

	BulletinCreate:  adminOrSuperv,
	BulletinEdit:    adminOrSuperv,
	BulletinSubmit:  adminOrSuperv,
	BulletinReview:  adminOrSuperv,
	BulletinApprove: adminOnly,
	BulletinReject:  adminOnly,
	BulletinDelete:  adminOrSuperv,

	DiaryCreate: anyRole,
	DiaryUpdate: anyRole,
	DiaryDelete: adminOnly,
}

// Allowed returns the roles allowed to run op.
func Allowed(op Operation) entity.RoleSet {
	return table[op]
}

// Permissions lists the operations role may run, sorted by name. Clients use
// it to hide actions the caller cannot perform.
func Permissions(role entity.Role) []string {
	perms := make([]string, 0, len(table))
	for op := range table {
		if Allowed(op).Has(role) {
			perms = append(perms, string(op))
		}
	}
	slices.Sort(perms)
	return perms
}

// Check returns nil when role may run op, or a Forbidden error otherwise.
func Check(op Operation, role entity.Role) apierror.ErrorResponse {
	if Allowed(op).Has(role) {
		return nil
	}
	return apierror.NewRoleError(string(op))
}

// CheckAuth is Check for a resolved caller. Platform operators never hold a
// tenant role, so they are always denied.
func CheckAuth(op Operation, auth *entity.AuthContext) apierror.ErrorResponse {
	if !auth.IsTenant() {
		return apierror.TenantOnlyError
	}
	return Check(op, auth.Role())
}
