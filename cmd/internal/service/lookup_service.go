package service

import (
	"context"
	"errors"

	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/infrastructure/minhareceita"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type CompanyRepository interface {
	Save(company *entity.Company) error
	FindByCNPJ(cnpj string) (*entity.Company, error)
}

// CompanyFetcher resolves a CNPJ against the public registry.
type CompanyFetcher interface {
	GetByCNPJ(ctx context.Context, cnpj string) (*entity.Company, error)
}

// LookupService prefills contractor registration from the CNPJ registry.
type LookupService struct {
	ReceitaClient CompanyFetcher
	CompanyRepo   CompanyRepository
}

func NewLookupService(client CompanyFetcher, companyRepo CompanyRepository) *LookupService {
	return &LookupService{
		ReceitaClient: client,
		CompanyRepo:   companyRepo,
	}
}

func (l *LookupService) GetCompanyByCNPJ(ctx context.Context, auth *entity.AuthContext, rawCNPJ string) (*contract.CompanyResponse, apierror.ErrorResponse) {
	if !auth.IsTenant() && !auth.IsSystem() {
		return nil, apierror.UnauthorizedError
	}

	cnpj := utils.NormalizeCNPJ(rawCNPJ)
	if !utils.IsCNPJValid(cnpj) {
		return nil, apierror.InvalidCNPJError
	}

	company, fromCache, apierr := l.findCompany(ctx, cnpj)
	if apierr != nil {
		return nil, apierr
	}
	return toCompanyResponse(company, fromCache), nil
}

// findCompany tries the cache first. It returns the company, whether it came
// from the cache and a possible error response.
func (l *LookupService) findCompany(ctx context.Context, cnpj string) (*entity.Company, bool, apierror.ErrorResponse) {
	cached, err := l.CompanyRepo.FindByCNPJ(cnpj)
	if err != nil {
		log.Errorf("failed to find company by cnpj %s: %v", cnpj, err)
		return nil, false, apierror.InternalServerError
	}

	if cached != nil {
		if !cached.Found {
			return nil, false, apierror.NotFoundError
		}
		return cached, true, nil
	}

	company, apierr := l.fetchFromAPI(ctx, cnpj)
	if apierr != nil {
		return nil, false, apierr
	}

	// Only the cache failed, the caller still gets the data
	if err = l.CompanyRepo.Save(company); err != nil {
		log.Errorf("failed to save company cache for CNPJ %s: %v", cnpj, err)
	}
	return company, false, nil
}

func (l *LookupService) fetchFromAPI(ctx context.Context, cnpj string) (*entity.Company, apierror.ErrorResponse) {
	company, err := l.ReceitaClient.GetByCNPJ(ctx, cnpj)
	if err != nil {
		if errors.Is(err, minhareceita.ErrNotFound) {
			l.cacheNegativeResult(cnpj)
			return nil, apierror.NotFoundError
		}
		log.Errorf("failed to fetch company by cnpj %s: %v", cnpj, err)
		return nil, apierror.InternalServerError
	}

	company.CNPJ = cnpj
	company.Found = true
	company.CachedAt = utils.NowUTC()
	return company, nil
}

func (l *LookupService) cacheNegativeResult(cnpj string) {
	miss := &entity.Company{
		CNPJ:     cnpj,
		Found:    false,
		CachedAt: utils.NowUTC(),
	}

	if err := l.CompanyRepo.Save(miss); err != nil {
		log.Warnf("failed to cache missing CNPJ %s: %v", cnpj, err)
	}
}

func toCompanyResponse(c *entity.Company, cached bool) *contract.CompanyResponse {
	return &contract.CompanyResponse{
		CNPJ:              c.CNPJ,
		LegalName:         c.LegalName,
		TradeName:         c.TradeName,
		LegalNature:       c.LegalNature,
		CompanySize:       c.CompanySize,
		BusinessStartDate: c.BusinessStartDate,
		RegStatus:         string(c.RegStatus),
		Email:             c.Email,
		Phone:             c.Phone,
		Address: &contract.CompanyAddress{
			StreetName: c.AddressStreetName,
			Number:     c.AddressNumber,
			City:       c.AddressCity,
			Region:     c.AddressRegion,
			ZipCode:    c.AddressZipCode,
		},
		Cached: cached,
	}
}
