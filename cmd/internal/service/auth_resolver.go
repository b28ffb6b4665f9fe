package service

import (
	"context"
	"strings"

	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/domain/entity"
	cognitoclient "qualiobra/cmd/internal/infrastructure/aws/cognito"
	"qualiobra/cmd/internal/utils/apierror"
)

type SystemUserRepository interface {
	FindBySub(sub string) (*entity.SystemUser, error)
}

// AuthResolver turns the subject of a verified token into the caller of an
// operation. It is called once per request by the auth middleware.
type AuthResolver struct {
	SystemRepo SystemUserRepository
	UserRepo   UserRepository
	TenantRepo TenantRepository
	Cognito    cognitoclient.CognitoInterface
}

func NewAuthResolver(
	systemRepo SystemUserRepository,
	userRepo UserRepository,
	tenantRepo TenantRepository,
	cogClient cognitoclient.CognitoInterface,
) *AuthResolver {
	return &AuthResolver{
		SystemRepo: systemRepo,
		UserRepo:   userRepo,
		TenantRepo: tenantRepo,
		Cognito:    cogClient,
	}
}

// Resolve checks, in order: platform operators, tenant users, the user
// active flag and finally the owning tenant status.
func (r *AuthResolver) Resolve(_ context.Context, sub string) (*entity.AuthContext, apierror.ErrorResponse) {
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return nil, apierror.UnauthorizedError
	}

	operator, err := r.SystemRepo.FindBySub(sub)
	if err != nil {
		log.Errorf("failed to find system user by sub %s: %v", sub, err)
		return nil, apierror.InternalServerError
	}

	if operator != nil {
		return &entity.AuthContext{SystemUser: operator}, nil
	}

	user, err := r.UserRepo.FindBySub(sub)
	if err != nil {
		log.Errorf("failed to find user by sub %s: %v", sub, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		// Valid token but no row: the identity provider and our database disagree
		log.Warnf("authenticated subject %s has no matching user", sub)
		return nil, apierror.OperatorMisconfiguredError
	}

	if !user.Active {
		return nil, apierror.NewForbiddenError("Your user has been deactivated")
	}

	tenant, err := r.TenantRepo.FindByID(user.TenantID)
	if err != nil {
		log.Errorf("failed to find tenant %d of user %d: %v", user.TenantID, user.ID, err)
		return nil, apierror.InternalServerError
	}

	if tenant == nil {
		log.Warnf("user %d (sub %s) points to missing tenant %d", user.ID, sub, user.TenantID)
		return nil, apierror.OperatorMisconfiguredError
	}

	if !tenant.IsActive() {
		go r.signOut(user.Email)
		return nil, apierror.TenantInactiveError
	}
	return &entity.AuthContext{User: user, Tenant: tenant}, nil
}

func (r *AuthResolver) signOut(username string) {
	ctx, cancel := detached()
	defer cancel()

	if err := r.Cognito.AdminSignOut(ctx, username); err != nil {
		log.Warnf("failed to sign out %s from inactive tenant: %v", username, err)
	}
}
