package contract

const (
	MaxPhotoSizeBytes = 10 << 20
	MaxLogoSizeBytes  = 2 << 20
)

var (
	ValidPhotoFileTypes = []string{"jpg", "jpeg", "png", "webp", "heic"}
	ValidPhotoMimeTypes = []string{"image/jpeg", "image/png", "image/webp", "image/heic"}
	ValidLogoFileTypes  = []string{"jpg", "jpeg", "png", "webp", "svg"}
	ValidLogoMimeTypes  = []string{"image/jpeg", "image/png", "image/webp", "image/svg+xml"}
)

type CreateInspectionRequest struct {
	ProjectID      int64  `json:"project_id,string" validate:"required"`
	ServiceID      int64  `json:"service_id,string" validate:"required"`
	LocationID     int64  `json:"location_id,string" validate:"required"`
	InspectorID    int64  `json:"inspector_id,string"`
	ReferenceMonth string `json:"reference_month" validate:"required,yearmonth"`
	Notes          string `json:"notes" validate:"omitempty,max=2000"`
}

type EvaluateItemRequest struct {
	Evaluation  string `json:"evaluation" validate:"required,oneof=C NC NA"`
	Observation string `json:"observation" validate:"omitempty,max=1000"`
}

type CompleteInspectionRequest struct {
	Rejected bool   `json:"rejected"`
	Notes    string `json:"notes" validate:"omitempty,max=2000"`
}

type InspectionFilter struct {
	ProjectID      int64  `query:"project_id"`
	ServiceID      int64  `query:"service_id"`
	LocationID     int64  `query:"location_id"`
	Status         string `query:"status" validate:"omitempty,oneof=DRAFT IN_PROGRESS COMPLETED"`
	ReferenceMonth string `query:"month" validate:"omitempty,yearmonth"`
}

type InspectionResponse struct {
	ID             int64                     `json:"id,string"`
	ProjectID      int64                     `json:"project_id,string"`
	ServiceID      int64                     `json:"service_id,string"`
	LocationID     int64                     `json:"location_id,string"`
	InspectorID    int64                     `json:"inspector_id,string"`
	ReferenceMonth string                    `json:"reference_month"`
	Status         string                    `json:"status"`
	Result         *string                   `json:"result"`
	Notes          string                    `json:"notes,omitempty"`
	StartedAt      *string                   `json:"started_at"`
	CompletedAt    *string                   `json:"completed_at"`
	Summary        *InspectionSummary        `json:"summary"`
	Items          []*InspectionItemResponse `json:"items,omitempty"`
	CreatedAt      string                    `json:"created_at"`
	UpdatedAt      string                    `json:"updated_at"`
}

type InspectionSummary struct {
	Conforming    int `json:"conforming"`
	NonConforming int `json:"non_conforming"`
	NotApplicable int `json:"not_applicable"`
	Pending       int `json:"pending"`
}

type InspectionItemResponse struct {
	ID          int64    `json:"id,string"`
	CriterionID int64    `json:"criterion_id,string"`
	Position    int      `json:"position"`
	Description string   `json:"description"`
	Evaluation  *string  `json:"evaluation"`
	Observation string   `json:"observation,omitempty"`
	Photos      []string `json:"photos"`
}
