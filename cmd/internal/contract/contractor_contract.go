package contract

type ContractorRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=120"`
	CNPJ  string `json:"cnpj" validate:"required,cnpj"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,max=20"`
}

type UpdateContractorRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=120"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`
}

type ContractorResponse struct {
	ID        int64  `json:"id,string"`
	Name      string `json:"name"`
	CNPJ      string `json:"cnpj"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ContractRequest struct {
	ContractorID int64                  `json:"contractor_id,string" validate:"required"`
	ProjectID    int64                  `json:"project_id,string" validate:"required"`
	Number       string                 `json:"number" validate:"required,min=1,max=40"`
	Description  string                 `json:"description" validate:"omitempty,max=500"`
	StartDate    string                 `json:"start_date" validate:"omitempty,isodate"`
	EndDate      string                 `json:"end_date" validate:"omitempty,isodate"`
	Items        []*ContractItemRequest `json:"items" validate:"omitempty,max=500,nodupes=Code,dive,required"`
}

type UpdateContractRequest struct {
	Description *string `json:"description" validate:"omitempty,max=500"`
	StartDate   *string `json:"start_date" validate:"omitempty,isodate"`
	EndDate     *string `json:"end_date" validate:"omitempty,isodate"`
	Active      *bool   `json:"active"`
}

type ReplaceContractItemsRequest struct {
	Items []*ContractItemRequest `json:"items" validate:"required,min=1,max=500,nodupes=Code,dive,required"`
}

type ContractItemRequest struct {
	Code               string `json:"code" validate:"required,max=30,nospaces"`
	Description        string `json:"description" validate:"required,max=300"`
	Unit               string `json:"unit" validate:"required,max=10"`
	UnitPrice          string `json:"unit_price" validate:"required,decimalpos"`
	ContractedQuantity string `json:"contracted_quantity" validate:"required,decimalpos"`
}

type ContractResponse struct {
	ID           int64                   `json:"id,string"`
	ContractorID int64                   `json:"contractor_id,string"`
	ProjectID    int64                   `json:"project_id,string"`
	Number       string                  `json:"number"`
	Description  string                  `json:"description,omitempty"`
	StartDate    string                  `json:"start_date,omitempty"`
	EndDate      string                  `json:"end_date,omitempty"`
	Active       bool                    `json:"active"`
	Items        []*ContractItemResponse `json:"items"`
	TotalValue   string                  `json:"total_value"`
	CreatedAt    string                  `json:"created_at"`
	UpdatedAt    string                  `json:"updated_at"`
}

type ContractItemResponse struct {
	ID                 int64  `json:"id,string"`
	Code               string `json:"code"`
	Description        string `json:"description"`
	Unit               string `json:"unit"`
	UnitPrice          string `json:"unit_price"`
	ContractedQuantity string `json:"contracted_quantity"`
	ContractedValue    string `json:"contracted_value"`
}
