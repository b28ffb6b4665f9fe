package entity

type RegStatus string

const (
	StatusActive    RegStatus = "ACTIVE"
	StatusClosed    RegStatus = "CLOSED"
	StatusSuspended RegStatus = "SUSPENDED"
	StatusUnfit     RegStatus = "UNFIT"
	StatusUnknown   RegStatus = "UNKNOWN"
)

// Company caches the public registry data of a CNPJ, used to prefill
// contractors and tenants.
type Company struct {
	CNPJ              string `gorm:"primaryKey;column:cnpj"`
	LegalName         string
	TradeName         string
	LegalNature       string
	CompanySize       string
	BusinessStartDate string
	RegStatus         RegStatus
	Email             string
	Phone             string
	AddressStreetName string
	AddressNumber     string
	AddressCity       string
	AddressRegion     string
	AddressZipCode    string

	// Found controls negative caching: false means the registry answered 404
	// for this CNPJ and we should not ask again until the entry expires.
	Found    bool  `gorm:"not null"`
	CachedAt int64 `gorm:"not null;index"`
}
