package contract

type CreateBulletinRequest struct {
	ContractID  int64                  `json:"contract_id,string" validate:"required"`
	PeriodStart string                 `json:"period_start" validate:"required,isodate"`
	PeriodEnd   string                 `json:"period_end" validate:"required,isodate"`
	Notes       string                 `json:"notes" validate:"omitempty,max=2000"`
	Items       []*BulletinItemRequest `json:"items" validate:"omitempty,max=500,dive,required"`
	Additives   []*AdditiveRequest     `json:"additives" validate:"omitempty,max=100,dive,required"`
}

type UpdateBulletinRequest struct {
	PeriodStart *string                `json:"period_start" validate:"omitempty,isodate"`
	PeriodEnd   *string                `json:"period_end" validate:"omitempty,isodate"`
	Notes       *string                `json:"notes" validate:"omitempty,max=2000"`
	Items       []*BulletinItemRequest `json:"items" validate:"omitempty,max=500,dive,required"`
	Additives   []*AdditiveRequest     `json:"additives" validate:"omitempty,max=100,dive,required"`
}

type BulletinItemRequest struct {
	ContractItemID int64  `json:"contract_item_id,string" validate:"required"`
	Quantity       string `json:"quantity" validate:"required,decimalpos"`
	Note           string `json:"note" validate:"omitempty,max=500"`
}

type AdditiveRequest struct {
	Description        string `json:"description" validate:"required,max=300"`
	Unit               string `json:"unit" validate:"required,max=10"`
	UnitPrice          string `json:"unit_price" validate:"required,decimalpos"`
	ContractedQuantity string `json:"contracted_quantity" validate:"required,decimalpos"`
	Quantity           string `json:"quantity" validate:"required,decimalpos"`
}

type RejectBulletinRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

type BulletinResponse struct {
	ID              int64                   `json:"id,string"`
	ContractID      int64                   `json:"contract_id,string"`
	Number          int                     `json:"number"`
	PeriodStart     string                  `json:"period_start"`
	PeriodEnd       string                  `json:"period_end"`
	Status          string                  `json:"status"`
	Notes           string                  `json:"notes,omitempty"`
	RejectionReason string                  `json:"rejection_reason,omitempty"`
	Items           []*BulletinItemResponse `json:"items"`
	Additives       []*AdditiveResponse     `json:"additives"`
	TotalThisPeriod string                  `json:"total_this_period"`
	Warnings        []string                `json:"warnings"`
	SubmittedAt     *string                 `json:"submitted_at"`
	ReviewedAt      *string                 `json:"reviewed_at"`
	ApprovedAt      *string                 `json:"approved_at"`
	CreatedAt       string                  `json:"created_at"`
	UpdatedAt       string                  `json:"updated_at"`
}

// Accumulation quantities and values are decimal strings.
type Accumulation struct {
	Before          string `json:"accumulated_before"`
	ThisPeriod      string `json:"this_period"`
	After           string `json:"accumulated_after"`
	Contracted      string `json:"contracted"`
	Balance         string `json:"balance"`
	Exceeded        bool   `json:"exceeded"`
	ValueThisPeriod string `json:"value_this_period"`
	ValueAfter      string `json:"value_after"`
}

type BulletinItemResponse struct {
	ContractItemID int64  `json:"contract_item_id,string"`
	Code           string `json:"code"`
	Description    string `json:"description"`
	Unit           string `json:"unit"`
	UnitPrice      string `json:"unit_price"`
	Note           string `json:"note,omitempty"`
	Accumulation
}

// ItemHistoryResponse is the running position of one contract item across
// the bulletins that measured it. Rejected bulletins are left out.
type ItemHistoryResponse struct {
	ContractItemID int64               `json:"contract_item_id,string"`
	Code           string              `json:"code"`
	Description    string              `json:"description"`
	Unit           string              `json:"unit"`
	UnitPrice      string              `json:"unit_price"`
	Entries        []*ItemHistoryEntry `json:"entries"`
}

type ItemHistoryEntry struct {
	BulletinNumber int `json:"bulletin_number"`
	Accumulation
}

type AdditiveResponse struct {
	ID          int64  `json:"id,string"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	UnitPrice   string `json:"unit_price"`
	Accumulation
}
