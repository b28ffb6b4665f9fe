package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/testutil"
	"qualiobra/cmd/internal/utils/apierror"
)

func TestLookupCompany(t *testing.T) {
	env := newEnv(t)
	abc := testutil.SeedCompany(t, env.db, "Construtora ABC")
	fetcher := &testutil.FakeCompanyFetcher{
		Companies: map[string]*entity.Company{
			"11222333000181": {LegalName: "ALVENARIAS SILVA LTDA", RegStatus: entity.StatusActive, AddressCity: "Campinas"},
		},
	}
	svc := NewLookupService(fetcher, env.companies)
	ctx := context.Background()

	t.Run("fetches then caches", func(t *testing.T) {
		resp, apierr := svc.GetCompanyByCNPJ(ctx, abc.AsAdmin(), "11.222.333/0001-81")
		requireOK(t, apierr)
		assert.Equal(t, "11222333000181", resp.CNPJ)
		assert.Equal(t, "ALVENARIAS SILVA LTDA", resp.LegalName)
		assert.Equal(t, "Campinas", resp.Address.City)
		assert.False(t, resp.Cached)

		resp, apierr = svc.GetCompanyByCNPJ(ctx, abc.AsInspector(), "11222333000181")
		requireOK(t, apierr)
		assert.True(t, resp.Cached)
		assert.Equal(t, 1, fetcher.Lookups)
	})

	t.Run("misses are cached too", func(t *testing.T) {
		_, apierr := svc.GetCompanyByCNPJ(ctx, abc.AsAdmin(), "11444777000161")
		assert.Equal(t, apierror.NotFoundError, apierr)

		_, apierr = svc.GetCompanyByCNPJ(ctx, abc.AsAdmin(), "11444777000161")
		assert.Equal(t, apierror.NotFoundError, apierr)
		assert.Equal(t, 2, fetcher.Lookups)

		cached, err := env.companies.FindByCNPJ("11444777000161")
		require.NoError(t, err)
		require.NotNil(t, cached)
		assert.False(t, cached.Found)
	})

	t.Run("invalid cnpj never reaches the registry", func(t *testing.T) {
		_, apierr := svc.GetCompanyByCNPJ(ctx, abc.AsAdmin(), "11222333000100")
		assert.Equal(t, apierror.InvalidCNPJError, apierr)
		assert.Equal(t, 2, fetcher.Lookups)
	})

	t.Run("registry failure is not cached", func(t *testing.T) {
		fetcher.Err = errors.New("connection reset")
		defer func() { fetcher.Err = nil }()

		_, apierr := svc.GetCompanyByCNPJ(ctx, abc.AsAdmin(), "11.444.777/0002-42")
		assert.Equal(t, apierror.InternalServerError, apierr)

		cached, err := env.companies.FindByCNPJ("11444777000242")
		require.NoError(t, err)
		assert.Nil(t, cached)
	})

	t.Run("anonymous callers", func(t *testing.T) {
		_, apierr := svc.GetCompanyByCNPJ(ctx, &entity.AuthContext{}, "11222333000181")
		assert.Equal(t, apierror.UnauthorizedError, apierr)
	})
}
