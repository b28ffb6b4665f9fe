package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/events"
	"qualiobra/cmd/internal/domain/policy"
	"qualiobra/cmd/internal/domain/sqlite/repository"
	cognitoclient "qualiobra/cmd/internal/infrastructure/aws/cognito"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
	"qualiobra/cmd/internal/utils/uid"
)

type UserRepository interface {
	FindBySub(sub string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	FindByID(tenantID, id int64) (*entity.User, error)
	FindAll(tenantID int64) ([]*entity.User, error)
	FindActiveByRoles(tenantID int64, roles ...entity.Role) ([]*entity.User, error)
	CountActiveAdmins(tenantID int64) (int64, error)
	Create(user *entity.User) error
	Save(tenantID int64, user *entity.User) error
	MarkEmailVerified(email string) error
}

type UserService struct {
	UserRepo  UserRepository
	WSService *WebSocketService
	Cognito   cognitoclient.CognitoInterface
	Validate  *validator.Validate
}

func NewUserService(userRepo UserRepository, wsService *WebSocketService, cogClient cognitoclient.CognitoInterface, validate *validator.Validate) *UserService {
	return &UserService{
		UserRepo:  userRepo,
		WSService: wsService,
		Cognito:   cogClient,
		Validate:  validate,
	}
}

func (u *UserService) GetUsers(auth *entity.AuthContext) ([]*contract.UserResponse, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	users, err := u.UserRepo.FindAll(auth.TenantID())
	if err != nil {
		log.Errorf("failed to fetch users of tenant %d: %v", auth.TenantID(), err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user)
	}
	return resp, nil
}

// GetUser accepts a user id or "@me".
func (u *UserService) GetUser(auth *entity.AuthContext, rawID string) (*contract.UserResponse, apierror.ErrorResponse) {
	user, apierr := u.fetchUser(auth, rawID)
	if apierr != nil {
		return nil, apierr
	}
	return toUserResponse(user), nil
}

// InviteUser creates the identity provider account (which e-mails a
// temporary password) and the user row of the caller tenant.
func (u *UserService) InviteUser(ctx context.Context, auth *entity.AuthContext, req *contract.InviteUserRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.UserInvite, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(u.Validate, req); apierr != nil {
		return nil, apierr
	}

	found, err := u.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return nil, apierror.InternalServerError
	}

	if found {
		return nil, apierror.UserAlreadyExistsError
	}

	sub, err := u.Cognito.AdminCreateUser(ctx, req.Email, req.Name)
	if err != nil {
		return nil, utils.MapCognitoError(err)
	}

	user := &entity.User{
		TenantID:      auth.TenantID(),
		SubUUID:       sub,
		Name:          req.Name,
		Email:         req.Email,
		Role:          entity.Role(req.Role),
		Active:        true,
		EmailVerified: true,
	}

	if err = u.UserRepo.Create(user); err != nil {
		go u.revertInvite(req.Email)

		if repository.IsUniqueViolation(err) {
			return nil, apierror.UserAlreadyExistsError
		}
		log.Errorf("admin %d failed to invite %s: %v", auth.UserID(), req.Email, err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(user), nil
}

func (u *UserService) UpdateRole(auth *entity.AuthContext, targetID int64, req *contract.UpdateRoleRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.UserUpdateRole, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(u.Validate, req); apierr != nil {
		return nil, apierr
	}

	updater, apierr := u.newUpdater(auth, targetID)
	if apierr != nil {
		return nil, apierr
	}

	updater.setRole(&req.Role)
	return u.apply(updater)
}

// ToggleActive flips the active flag of a user of the caller tenant.
// Deactivated users lose their live sessions.
func (u *UserService) ToggleActive(auth *entity.AuthContext, targetID int64) (*contract.UserResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.UserToggle, auth); apierr != nil {
		return nil, apierr
	}

	updater, apierr := u.newUpdater(auth, targetID)
	if apierr != nil {
		return nil, apierr
	}

	active := !updater.target.Active
	updater.setActive(&active)
	return u.apply(updater)
}

func (u *UserService) newUpdater(auth *entity.AuthContext, targetID int64) (*userUpdater, apierror.ErrorResponse) {
	target, err := u.UserRepo.FindByID(auth.TenantID(), targetID)
	if err != nil {
		log.Errorf("failed to find user %d: %v", targetID, err)
		return nil, apierror.InternalServerError
	}

	if target == nil {
		return nil, apierror.NotFoundError
	}

	admins, err := u.UserRepo.CountActiveAdmins(auth.TenantID())
	if err != nil {
		log.Errorf("failed to count admins of tenant %d: %v", auth.TenantID(), err)
		return nil, apierror.InternalServerError
	}

	return &userUpdater{actor: auth, target: target, activeAdmins: admins}, nil
}

func (u *UserService) apply(updater *userUpdater) (*contract.UserResponse, apierror.ErrorResponse) {
	if updater.err != nil {
		return nil, updater.err
	}

	target := updater.target
	if !updater.dirty {
		return toUserResponse(target), nil
	}

	if err := u.UserRepo.Save(target.TenantID, target); err != nil {
		log.Errorf("actor %d failed to update user %d: %v", updater.actor.UserID(), target.ID, err)
		return nil, apierror.InternalServerError
	}

	switch {
	case updater.deactivated:
		go u.dispatchUserDeactivated(&events.UserDeactivated{TenantID: target.TenantID, UserID: target.ID})
	case updater.roleChanged:
		go u.dispatchRoleChanged(target.ID)
	}
	return toUserResponse(target), nil
}

func (u *UserService) fetchUser(auth *entity.AuthContext, rawID string) (*entity.User, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	if rawID == "@me" {
		return auth.User, nil
	}

	id, ok := uid.Parse(rawID)
	if !ok {
		return nil, apierror.InvalidIDError
	}

	user, err := u.UserRepo.FindByID(auth.TenantID(), id)
	if err != nil {
		log.Errorf("failed to find user (%s) by id: %v", rawID, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.NotFoundError
	}
	return user, nil
}

func (u *UserService) dispatchUserDeactivated(evt *events.UserDeactivated) {
	ctx, cancel := detached()
	defer cancel()

	ck := killReason(contract.KillCodeUserDeactivated, "your user has been deactivated")
	u.WSService.TerminateUserConnections(ctx, evt.UserID, ck)
}

// dispatchRoleChanged forces clients to reconnect and reload their permissions.
func (u *UserService) dispatchRoleChanged(userID int64) {
	ctx, cancel := detached()
	defer cancel()

	ck := killReason(contract.KillCodeRoleChanged, "your role has changed")
	u.WSService.TerminateUserConnections(ctx, userID, ck)
}

func (u *UserService) revertInvite(email string) {
	ctx, cancel := detached()
	defer cancel()

	if err := u.Cognito.AdminDeleteUser(ctx, email); err != nil {
		log.Errorf("failed to revert invite of %s. INCONSISTENCY RISK: %v", email, err)
	}
}

func toUserResponse(user *entity.User) *contract.UserResponse {
	return &contract.UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          string(user.Role),
		Active:        user.Active,
		EmailVerified: user.EmailVerified,
		CreatedAt:     utils.FormatEpoch(user.CreatedAt),
		UpdatedAt:     utils.FormatEpoch(user.UpdatedAt),
	}
}
