package contract

type CompanyResponse struct {
	CNPJ              string          `json:"cnpj"`
	LegalName         string          `json:"legal_name"`
	TradeName         string          `json:"trade_name"`
	LegalNature       string          `json:"legal_nature"`
	CompanySize       string          `json:"company_size"`
	BusinessStartDate string          `json:"business_start_date"`
	RegStatus         string          `json:"registration_status"`
	Email             string          `json:"email,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	Address           *CompanyAddress `json:"address"`
	Cached            bool            `json:"cached"`
}

type CompanyAddress struct {
	StreetName string `json:"street_name"`
	Number     string `json:"number"`
	City       string `json:"city"`
	Region     string `json:"region"`
	ZipCode    string `json:"zip_code"`
}

// UploadResponse is returned by every file upload route.
type UploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func NewList[T any](items []T) *ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResponse[T]{Items: items, Total: len(items)}
}
