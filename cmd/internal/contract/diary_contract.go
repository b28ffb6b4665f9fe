package contract

type DiaryRequest struct {
	ProjectID        int64                      `json:"project_id,string" validate:"required"`
	EntryDate        string                     `json:"entry_date" validate:"required,isodate"`
	WeatherMorning   string                     `json:"weather_morning" validate:"omitempty,max=40"`
	WeatherAfternoon string                     `json:"weather_afternoon" validate:"omitempty,max=40"`
	Notes            string                     `json:"notes" validate:"omitempty,max=4000"`
	Labor            []*DiaryLaborRequest       `json:"labor" validate:"omitempty,max=100,dive,required"`
	Equipment        []*DiaryEquipmentRequest   `json:"equipment" validate:"omitempty,max=100,dive,required"`
	Activities       []*DiaryActivityRequest    `json:"activities" validate:"omitempty,max=200,dive,required"`
	Observations     []*DiaryObservationRequest `json:"observations" validate:"omitempty,max=100,dive,required"`
}

// UpdateDiaryRequest replaces the whole diary body, sub-entries included.
type UpdateDiaryRequest struct {
	WeatherMorning   string                     `json:"weather_morning" validate:"omitempty,max=40"`
	WeatherAfternoon string                     `json:"weather_afternoon" validate:"omitempty,max=40"`
	Notes            string                     `json:"notes" validate:"omitempty,max=4000"`
	Labor            []*DiaryLaborRequest       `json:"labor" validate:"omitempty,max=100,dive,required"`
	Equipment        []*DiaryEquipmentRequest   `json:"equipment" validate:"omitempty,max=100,dive,required"`
	Activities       []*DiaryActivityRequest    `json:"activities" validate:"omitempty,max=200,dive,required"`
	Observations     []*DiaryObservationRequest `json:"observations" validate:"omitempty,max=100,dive,required"`
}

type DiaryLaborRequest struct {
	Role         string `json:"role" validate:"required,max=80"`
	Count        int    `json:"count" validate:"gte=0,lte=10000"`
	ContractorID int64  `json:"contractor_id,string,omitempty"`
}

type DiaryEquipmentRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Quantity int    `json:"quantity" validate:"gte=0,lte=10000"`
}

type DiaryActivityRequest struct {
	Description string `json:"description" validate:"required,max=500"`
	LocationID  int64  `json:"location_id,string,omitempty"`
}

type DiaryObservationRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type DiaryFilter struct {
	ProjectID int64  `query:"project_id"`
	From      string `query:"from" validate:"omitempty,isodate"`
	To        string `query:"to" validate:"omitempty,isodate"`
}

type DiaryResponse struct {
	ID               int64                       `json:"id,string"`
	ProjectID        int64                       `json:"project_id,string"`
	EntryDate        string                      `json:"entry_date"`
	WeatherMorning   string                      `json:"weather_morning,omitempty"`
	WeatherAfternoon string                      `json:"weather_afternoon,omitempty"`
	Notes            string                      `json:"notes,omitempty"`
	CreatedByID      int64                       `json:"created_by_id,string"`
	Labor            []*DiaryLaborResponse       `json:"labor"`
	Equipment        []*DiaryEquipmentResponse   `json:"equipment"`
	Activities       []*DiaryActivityResponse    `json:"activities"`
	Observations     []*DiaryObservationResponse `json:"observations"`
	CreatedAt        string                      `json:"created_at"`
	UpdatedAt        string                      `json:"updated_at"`
}

type DiaryLaborResponse struct {
	Role         string `json:"role"`
	Count        int    `json:"count"`
	ContractorID *int64 `json:"contractor_id,string"`
}

type DiaryEquipmentResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type DiaryActivityResponse struct {
	Description string `json:"description"`
	LocationID  *int64 `json:"location_id,string"`
}

type DiaryObservationResponse struct {
	Text string `json:"text"`
}
