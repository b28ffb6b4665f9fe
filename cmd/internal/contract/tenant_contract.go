package contract

type UpdateTenantRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=120"`
	CNPJ  *string `json:"cnpj" validate:"omitempty,cnpj"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`
}

type SetTenantStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE SUSPENDED CANCELLED"`
}

type TenantResponse struct {
	ID        int64  `json:"id,string"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CNPJ      string `json:"cnpj,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Status    string `json:"status"`
	LogoURL   string `json:"logo_url,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
