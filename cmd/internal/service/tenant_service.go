package service

import (
	"context"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/policy"
	"qualiobra/cmd/internal/infrastructure/aws/storage"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

var logoRules = uploadRules{
	maxBytes:   contract.MaxLogoSizeBytes,
	extensions: contract.ValidLogoFileTypes,
	mimeTypes:  contract.ValidLogoMimeTypes,
}

type TenantService struct {
	TenantRepo TenantRepository
	WSService  *WebSocketService
	S3         storage.S3Client
	Validate   *validator.Validate
}

func NewTenantService(tenantRepo TenantRepository, wsService *WebSocketService, s3 storage.S3Client, validate *validator.Validate) *TenantService {
	return &TenantService{
		TenantRepo: tenantRepo,
		WSService:  wsService,
		S3:         s3,
		Validate:   validate,
	}
}

// ListTenants is a platform operator route.
func (t *TenantService) ListTenants(auth *entity.AuthContext) ([]*contract.TenantResponse, apierror.ErrorResponse) {
	if !auth.IsSystem() {
		return nil, apierror.PlatformOnlyError
	}

	tenants, err := t.TenantRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch tenants: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.TenantResponse, len(tenants))
	for i, tenant := range tenants {
		resp[i] = toTenantResponse(tenant, t.S3)
	}
	return resp, nil
}

// SetStatus suspends, cancels or reactivates a tenant. Live sessions of a
// tenant that stops being active are closed.
func (t *TenantService) SetStatus(auth *entity.AuthContext, tenantID int64, req *contract.SetTenantStatusRequest) (*contract.TenantResponse, apierror.ErrorResponse) {
	if !auth.IsSystem() {
		return nil, apierror.PlatformOnlyError
	}

	if apierr := checkRequest(t.Validate, req); apierr != nil {
		return nil, apierr
	}

	tenant, err := t.TenantRepo.FindByID(tenantID)
	if err != nil {
		log.Errorf("failed to fetch tenant %d: %v", tenantID, err)
		return nil, apierror.InternalServerError
	}

	if tenant == nil {
		return nil, apierror.NotFoundError
	}

	status := entity.TenantStatus(req.Status)
	if tenant.Status == status {
		return toTenantResponse(tenant, t.S3), nil
	}

	tenant.Status = status
	if err = t.TenantRepo.Save(tenant); err != nil {
		log.Errorf("operator %d failed to set tenant %d status: %v", auth.SystemUser.ID, tenantID, err)
		return nil, apierror.InternalServerError
	}

	log.Infof("operator %d set tenant %d status to %s", auth.SystemUser.ID, tenantID, status)
	if !tenant.IsActive() {
		go t.dispatchTenantInactive(tenant.ID)
	}
	return toTenantResponse(tenant, t.S3), nil
}

func (t *TenantService) GetTenant(auth *entity.AuthContext) (*contract.TenantResponse, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}
	return toTenantResponse(auth.Tenant, t.S3), nil
}

func (t *TenantService) UpdateTenant(auth *entity.AuthContext, req *contract.UpdateTenantRequest) (*contract.TenantResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.TenantUpdate, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(t.Validate, req); apierr != nil {
		return nil, apierr
	}

	tenant := auth.Tenant
	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.CNPJ != nil {
		tenant.CNPJ = utils.NormalizeCNPJ(*req.CNPJ)
	}
	if req.Phone != nil {
		tenant.Phone = *req.Phone
	}

	if err := t.TenantRepo.Save(tenant); err != nil {
		log.Errorf("failed to update tenant %d: %v", tenant.ID, err)
		return nil, apierror.InternalServerError
	}
	return toTenantResponse(tenant, t.S3), nil
}

// UploadLogo replaces the tenant logo. The previous object is removed once
// the new key is persisted.
func (t *TenantService) UploadLogo(ctx context.Context, auth *entity.AuthContext, fileHeader *multipart.FileHeader) (*contract.UploadResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.TenantLogo, auth); apierr != nil {
		return nil, apierr
	}

	file, apierr := readUpload(fileHeader, logoRules)
	if apierr != nil {
		return nil, apierr
	}

	tenant := auth.Tenant
	key := storage.LogoKey(tenant.ID, file.ext)
	if apierr = storeUpload(ctx, t.S3, key, file); apierr != nil {
		return nil, apierr
	}

	previous := tenant.LogoKey
	tenant.LogoKey = key
	if err := t.TenantRepo.Save(tenant); err != nil {
		log.Errorf("failed to save logo of tenant %d: %v", tenant.ID, err)
		go discardObject(t.S3, key)
		return nil, apierror.InternalServerError
	}

	go discardObject(t.S3, previous)
	return &contract.UploadResponse{Key: key, URL: t.S3.PublicURL(key)}, nil
}

func (t *TenantService) dispatchTenantInactive(tenantID int64) {
	ctx, cancel := detached()
	defer cancel()

	ck := killReason(contract.KillCodeTenantInactive, "company account is not active")
	t.WSService.TerminateTenantConnections(ctx, tenantID, ck)
}

func toTenantResponse(t *entity.Tenant, s3 storage.S3Client) *contract.TenantResponse {
	return &contract.TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		CNPJ:      t.CNPJ,
		Phone:     t.Phone,
		Status:    string(t.Status),
		LogoURL:   publicURL(s3, t.LogoKey),
		CreatedAt: utils.FormatEpoch(t.CreatedAt),
		UpdatedAt: utils.FormatEpoch(t.UpdatedAt),
	}
}
