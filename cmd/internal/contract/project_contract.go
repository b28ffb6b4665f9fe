package contract

type ProjectRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=120"`
	Code      string `json:"code" validate:"omitempty,max=30"`
	Address   string `json:"address" validate:"omitempty,max=200"`
	StartDate string `json:"start_date" validate:"omitempty,isodate"`
	EndDate   string `json:"end_date" validate:"omitempty,isodate"`
}

type UpdateProjectRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=120"`
	Code      *string `json:"code" validate:"omitempty,max=30"`
	Address   *string `json:"address" validate:"omitempty,max=200"`
	StartDate *string `json:"start_date" validate:"omitempty,isodate"`
	EndDate   *string `json:"end_date" validate:"omitempty,isodate"`
}

type ProjectResponse struct {
	ID        int64  `json:"id,string"`
	Name      string `json:"name"`
	Code      string `json:"code,omitempty"`
	Address   string `json:"address,omitempty"`
	Active    bool   `json:"active"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type LocationRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

type LocationResponse struct {
	ID          int64  `json:"id,string"`
	ProjectID   int64  `json:"project_id,string"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
