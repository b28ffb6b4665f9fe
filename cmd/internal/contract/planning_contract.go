package contract

type PlanningRequest struct {
	ProjectID  int64  `json:"project_id,string" validate:"required"`
	ServiceID  int64  `json:"service_id,string" validate:"required"`
	LocationID int64  `json:"location_id,string" validate:"required"`
	Month      string `json:"month" validate:"required,yearmonth"`
}

type PlanningItemResponse struct {
	ID         int64  `json:"id,string"`
	ProjectID  int64  `json:"project_id,string"`
	ServiceID  int64  `json:"service_id,string"`
	LocationID int64  `json:"location_id,string"`
	Month      string `json:"month"`
	Status     string `json:"status"`
}

type PlanningGridResponse struct {
	ProjectID int64               `json:"project_id,string"`
	Month     string              `json:"month"`
	Services  []*ServiceResponse  `json:"services"`
	Locations []*LocationResponse `json:"locations"`
	Cells     []*PlanningCell     `json:"cells"`
}

type PlanningCell struct {
	LocationID     int64   `json:"location_id,string"`
	ServiceID      int64   `json:"service_id,string"`
	Planned        bool    `json:"planned"`
	PlanningItemID *int64  `json:"planning_item_id,string"`
	Status         *string `json:"status"`
	LatestResult   *string `json:"latest_result"`
}
