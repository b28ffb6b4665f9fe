package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/policy"
	"qualiobra/cmd/internal/domain/sqlite/repository"
	cognitoclient "qualiobra/cmd/internal/infrastructure/aws/cognito"
	"qualiobra/cmd/internal/infrastructure/aws/storage"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type TenantRepository interface {
	FindByID(id int64) (*entity.Tenant, error)
	ExistsBySlug(slug string) (bool, error)
	FindAll() ([]*entity.Tenant, error)
	CreateWithAdmin(tenant *entity.Tenant, admin *entity.User) error
	Save(tenant *entity.Tenant) error
}

// AuthService holds the public account routes: company signup, login and
// e-mail confirmation.
type AuthService struct {
	TenantRepo TenantRepository
	UserRepo   UserRepository
	Cognito    cognitoclient.CognitoInterface
	S3         storage.S3Client
	Validate   *validator.Validate
}

func NewAuthService(
	tenantRepo TenantRepository,
	userRepo UserRepository,
	cogClient cognitoclient.CognitoInterface,
	s3 storage.S3Client,
	validate *validator.Validate,
) *AuthService {
	return &AuthService{
		TenantRepo: tenantRepo,
		UserRepo:   userRepo,
		Cognito:    cogClient,
		S3:         s3,
		Validate:   validate,
	}
}

// RegisterTenant creates a company and its first admin. The identity
// provider user is created first and removed again if the database insert
// fails.
func (a *AuthService) RegisterTenant(ctx context.Context, req *contract.RegisterTenantRequest) (*contract.RegisterTenantResponse, apierror.ErrorResponse) {
	if apierr := checkRequest(a.Validate, req); apierr != nil {
		return nil, apierr
	}

	slug := utils.Slugify(req.CompanyName)
	if slug == "" {
		return nil, apierror.NewValidationError("company_name", "Value must contain at least one letter or digit")
	}

	taken, err := a.TenantRepo.ExistsBySlug(slug)
	if err != nil {
		log.Errorf("failed to check slug %s: %v", slug, err)
		return nil, apierror.InternalServerError
	}

	if taken {
		return nil, slugConflict(req.CompanyName)
	}

	found, err := a.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user already exists: %v", err)
		return nil, apierror.InternalServerError
	}

	if found {
		return nil, apierror.UserAlreadyExistsError
	}

	cogUser := &cognitoclient.User{Email: req.Email, Password: req.Password, Name: req.AdminName}
	sub, err := a.Cognito.SignUp(ctx, cogUser)
	if err != nil {
		return nil, utils.MapCognitoError(err)
	}

	tenant := &entity.Tenant{
		Name:   req.CompanyName,
		Slug:   slug,
		CNPJ:   utils.NormalizeCNPJ(req.CNPJ),
		Status: entity.TenantActive,
	}

	admin := &entity.User{
		SubUUID: sub,
		Name:    req.AdminName,
		Email:   req.Email,
		Role:    entity.RoleAdmin,
		Active:  true,
	}

	if err = a.TenantRepo.CreateWithAdmin(tenant, admin); err != nil {
		go a.revertSignup(req.Email)

		if repository.IsUniqueViolation(err) {
			return nil, a.registerConflict(req, slug)
		}
		log.Errorf("failed to create tenant %s: %v", slug, err)
		return nil, apierror.InternalServerError
	}

	log.Infof("tenant %d (%s) registered by %s", tenant.ID, slug, admin.Email)
	return &contract.RegisterTenantResponse{
		Tenant: toTenantResponse(tenant, a.S3),
		User:   toUserResponse(admin),
	}, nil
}

func (a *AuthService) Login(ctx context.Context, req *contract.LoginRequest) (*contract.LoginResponse, apierror.ErrorResponse) {
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	// Platform operators have no user row, so a miss here is not an error
	user, err := a.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to fetch user from database: %v", err)
		return nil, apierror.InternalServerError
	}

	if user != nil && !user.Active {
		return nil, apierror.MissingAccessError
	}

	credentials := &cognitoclient.UserLogin{
		Email:    req.Email,
		Password: req.Password,
	}

	auth, err := a.Cognito.SignIn(ctx, credentials)
	if err != nil {
		return nil, utils.MapCognitoError(err)
	}
	return &contract.LoginResponse{AccessToken: auth.AccessToken, IDToken: auth.IDToken}, nil
}

func (a *AuthService) ConfirmSignup(ctx context.Context, req *contract.ConfirmSignupRequest) apierror.ErrorResponse {
	if err := a.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	user, apierr := a.pendingUser(req.Email)
	if apierr != nil {
		return apierr
	}

	confirms := &cognitoclient.UserConfirmation{
		Email: req.Email,
		Code:  req.Code,
	}

	if err := a.Cognito.ConfirmAccount(ctx, confirms); err != nil {
		return utils.MapCognitoError(err)
	}

	if err := a.UserRepo.MarkEmailVerified(user.Email); err != nil {
		log.Errorf("failed to update user (%d) verified status: %v", user.ID, err)
	}
	return nil
}

func (a *AuthService) ResendConfirmation(ctx context.Context, req *contract.ResendConfirmRequest) apierror.ErrorResponse {
	if err := a.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	if _, apierr := a.pendingUser(req.Email); apierr != nil {
		return apierr
	}

	if err := a.Cognito.ResendConfirmation(ctx, req.Email); err != nil {
		return utils.MapCognitoError(err)
	}
	return nil
}

// Me describes the caller, whether a tenant user or a platform operator.
func (a *AuthService) Me(auth *entity.AuthContext) (*contract.MeResponse, apierror.ErrorResponse) {
	switch {
	case auth.IsSystem():
		op := auth.SystemUser
		return &contract.MeResponse{
			Operator: &contract.OperatorInfo{ID: op.ID, Name: op.Name, Email: op.Email},
		}, nil

	case auth.IsTenant():
		return &contract.MeResponse{
			User:        toUserResponse(auth.User),
			Tenant:      toTenantResponse(auth.Tenant, a.S3),
			Permissions: policy.Permissions(auth.User.Role),
		}, nil

	default:
		return nil, apierror.UnauthorizedError
	}
}

func (a *AuthService) pendingUser(email string) (*entity.User, apierror.ErrorResponse) {
	user, err := a.UserRepo.FindByEmail(email)
	if err != nil {
		log.Errorf("failed to find user (%s) by email: %v", email, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.IDPUserNotFoundError
	}

	if user.EmailVerified {
		return nil, apierror.UserAlreadyConfirmedError
	}
	return user, nil
}

func (a *AuthService) revertSignup(email string) {
	ctx, cancel := detached()
	defer cancel()

	if err := a.Cognito.AdminDeleteUser(ctx, email); err != nil {
		log.Errorf("failed to revert identity provider signup of %s. INCONSISTENCY RISK: %v", email, err)
	}
}

// registerConflict reports which key a concurrent registration claimed
// between the existence checks and the insert.
func (a *AuthService) registerConflict(req *contract.RegisterTenantRequest, slug string) apierror.ErrorResponse {
	if found, err := a.UserRepo.ExistsByEmail(req.Email); err == nil && found {
		return apierror.UserAlreadyExistsError
	}

	if taken, err := a.TenantRepo.ExistsBySlug(slug); err == nil && taken {
		return slugConflict(req.CompanyName)
	}

	log.Warnf("unique violation registering tenant %s with no matching email or slug", slug)
	return apierror.NewConflictError("Registration conflicts with existing data, please try again")
}

func slugConflict(companyName string) apierror.ErrorResponse {
	return apierror.NewConflictError("A company named '%s' is already registered", companyName)
}
