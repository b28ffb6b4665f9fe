package contract

type ServiceRequest struct {
	Name        string              `json:"name" validate:"required,min=2,max=120"`
	Description string              `json:"description" validate:"omitempty,max=500"`
	Criteria    []*CriterionRequest `json:"criteria" validate:"omitempty,max=100,dive,required"`
}

type UpdateServiceRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Active      *bool   `json:"active"`
}

type ReplaceCriteriaRequest struct {
	Criteria []*CriterionRequest `json:"criteria" validate:"required,min=1,max=100,dive,required"`
}

type CriterionRequest struct {
	Description string `json:"description" validate:"required,min=2,max=300"`
	Method      string `json:"method" validate:"omitempty,max=300"`
	Tolerance   string `json:"tolerance" validate:"omitempty,max=120"`
}

type ServiceResponse struct {
	ID          int64                `json:"id,string"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Active      bool                 `json:"active"`
	Criteria    []*CriterionResponse `json:"criteria"`
	CreatedAt   string               `json:"created_at"`
	UpdatedAt   string               `json:"updated_at"`
}

type CriterionResponse struct {
	ID          int64  `json:"id,string"`
	Position    int    `json:"position"`
	Description string `json:"description"`
	Method      string `json:"method,omitempty"`
	Tolerance   string `json:"tolerance,omitempty"`
}
