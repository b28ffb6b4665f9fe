package contract

type RegisterTenantRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=2,max=120"`
	CNPJ        string `json:"cnpj" validate:"omitempty,cnpj"`
	AdminName   string `json:"admin_name" validate:"required,min=2,max=80"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,strongpassword"`
}

type RegisterTenantResponse struct {
	Tenant *TenantResponse `json:"tenant"`
	User   *UserResponse   `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
}

type ConfirmSignupRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,min=1,max=8"`
}

type ResendConfirmRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// MeResponse describes the caller. Exactly one of User or Operator is set.
// Permissions are the guarded operations a company user may run.
type MeResponse struct {
	User        *UserResponse   `json:"user,omitempty"`
	Tenant      *TenantResponse `json:"tenant,omitempty"`
	Permissions []string        `json:"permissions,omitempty"`
	Operator    *OperatorInfo   `json:"operator,omitempty"`
}

type OperatorInfo struct {
	ID    int64  `json:"id,string"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
