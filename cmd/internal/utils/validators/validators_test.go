package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordTags(t *testing.T) {
	validate := New()

	type signup struct {
		Password string `json:"password" validate:"strongpassword"`
	}

	tests := []struct {
		password string
		valid    bool
	}{
		{"S3nha@Forte", true},
		{"s3nha@forte", false},
		{"S3NHA@FORTE", false},
		{"Senha@Forte", false},
		{"S3nhaForte", false},
		{"S3@f", false},
	}

	for _, tt := range tests {
		err := validate.Struct(signup{Password: tt.password})
		if tt.valid {
			assert.NoError(t, err, tt.password)
		} else {
			assert.Error(t, err, tt.password)
		}
	}
}

func TestDomainTags(t *testing.T) {
	validate := New()

	type request struct {
		CNPJ     string   `json:"cnpj" validate:"cnpj"`
		Month    string   `json:"month" validate:"yearmonth"`
		Date     string   `json:"date" validate:"isodate"`
		Quantity string   `json:"quantity" validate:"decimalpos"`
		Codes    []string `json:"codes" validate:"nodupes"`
	}

	ok := request{
		CNPJ:     "11.222.333/0001-81",
		Month:    "2026-03",
		Date:     "2026-03-10",
		Quantity: "12.50",
		Codes:    []string{"1.01", "2.01"},
	}
	require.NoError(t, validate.Struct(ok))

	bad := request{
		CNPJ:     "11222333000100",
		Month:    "2026-13",
		Date:     "10/03/2026",
		Quantity: "-1",
		Codes:    []string{"1.01", "1.01"},
	}
	err := validate.Struct(bad)
	require.Error(t, err)

	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{
		"cnpj":     "cnpj",
		"month":    "yearmonth",
		"date":     "isodate",
		"quantity": "decimalpos",
		"codes":    "nodupes",
	}, fields)
}

func TestNoWhiteSpaces(t *testing.T) {
	validate := New()
	assert.NoError(t, validate.Var("construtora-abc", "nospaces"))
	assert.Error(t, validate.Var("construtora abc", "nospaces"))
}

func TestNoDupesByField(t *testing.T) {
	validate := New()

	type item struct {
		Code string `json:"code"`
	}
	type request struct {
		Items []*item `json:"items" validate:"nodupes=Code"`
	}

	assert.NoError(t, validate.Struct(request{Items: []*item{{Code: "1.01"}, {Code: "2.01"}, nil}}))
	assert.Error(t, validate.Struct(request{Items: []*item{{Code: "1.01"}, {Code: "1.01"}}}))

	type missing struct {
		Items []*item `json:"items" validate:"nodupes=Number"`
	}
	assert.Error(t, validate.Struct(missing{Items: []*item{{Code: "1.01"}}}))
}
