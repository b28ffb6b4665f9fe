package minhareceita

import (
	"strings"

	"qualiobra/cmd/internal/domain/entity"
)

type companyResponse struct {
	CNPJ               string `json:"cnpj"`
	LegalName          string `json:"razao_social"`
	TradeName          string `json:"nome_fantasia"`
	LegalNature        string `json:"natureza_juridica"`
	CompanySize        string `json:"porte"`
	BusinessStartDate  string `json:"data_inicio_atividade"`
	RegistrationStatus string `json:"descricao_situacao_cadastral"`
	Email              string `json:"email"`
	Phone              string `json:"ddd_telefone_1"`

	AddressType       string `json:"descricao_tipo_de_logradouro"`
	AddressStreetName string `json:"logradouro"`
	AddressNumber     string `json:"numero"`
	AddressCity       string `json:"municipio"`
	AddressRegion     string `json:"uf"`
	AddressZipCode    string `json:"cep"`
}

func (c *companyResponse) ToDomain() *entity.Company {
	street := strings.TrimSpace(c.AddressType + " " + c.AddressStreetName)
	return &entity.Company{
		CNPJ:              c.CNPJ,
		LegalName:         c.LegalName,
		TradeName:         c.TradeName,
		LegalNature:       c.LegalNature,
		CompanySize:       c.CompanySize,
		BusinessStartDate: c.BusinessStartDate,
		RegStatus:         translateStatus(c.RegistrationStatus),
		Email:             strings.ToLower(c.Email),
		Phone:             c.Phone,
		AddressStreetName: street,
		AddressNumber:     c.AddressNumber,
		AddressCity:       c.AddressCity,
		AddressRegion:     c.AddressRegion,
		AddressZipCode:    c.AddressZipCode,
	}
}

func translateStatus(status string) entity.RegStatus {
	switch strings.ToUpper(status) {
	case "ATIVA":
		return entity.StatusActive
	case "BAIXADA":
		return entity.StatusClosed
	case "SUSPENSA":
		return entity.StatusSuspended
	case "INAPTA":
		return entity.StatusUnfit
	default:
		return entity.StatusUnknown
	}
}
