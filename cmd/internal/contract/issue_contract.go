package contract

type IssueFilter struct {
	Status       string `query:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CANCELLED"`
	InspectionID int64  `query:"inspection_id"`
	ContractorID int64  `query:"contractor_id"`
}

type UpdateIssueStatusRequest struct {
	Status     string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS RESOLVED CANCELLED"`
	Resolution string `json:"resolution" validate:"omitempty,max=2000"`
}

type UpdateIssueRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=2,max=200"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	ContractorID *int64  `json:"contractor_id,string"`
	DueDate      *string `json:"due_date" validate:"omitempty,isodate"`
}

type IssueResponse struct {
	ID               int64   `json:"id,string"`
	InspectionID     int64   `json:"inspection_id,string"`
	InspectionItemID int64   `json:"inspection_item_id,string"`
	Title            string  `json:"title"`
	Description      string  `json:"description,omitempty"`
	Status           string  `json:"status"`
	ContractorID     *int64  `json:"contractor_id,string"`
	DueDate          string  `json:"due_date,omitempty"`
	Resolution       string  `json:"resolution,omitempty"`
	ResolvedAt       *string `json:"resolved_at"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}
