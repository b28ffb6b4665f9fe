package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Construtora ABC", "construtora-abc"},
		{"Construções Ágil S/A", "construcoes-agil-s-a"},
		{"  Engenharia   XYZ  ", "engenharia-xyz"},
		{"Obra 2026 - Fase 1", "obra-2026-fase-1"},
		{"São João & Cia. Ltda.", "sao-joao-cia-ltda"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestCNPJ(t *testing.T) {
	valid := []string{"11222333000181", "11444777000161", "11444777000242"}
	for _, cnpj := range valid {
		assert.True(t, IsCNPJValid(cnpj), cnpj)
	}

	invalid := []string{"", "11222333000180", "1122233300018", "00000000000000", "11a22333000181"}
	for _, cnpj := range invalid {
		assert.False(t, IsCNPJValid(cnpj), cnpj)
	}

	assert.Equal(t, "11222333000181", NormalizeCNPJ("11.222.333/0001-81"))
	assert.True(t, IsCNPJValid(NormalizeCNPJ(" 11.444.777/0001-61 ")))
}

func TestDates(t *testing.T) {
	d, err := ParseDate("2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", FormatDate(d))

	_, err = ParseDate("10/03/2026")
	assert.Error(t, err)

	ptr, err := ParseDatePtr("")
	require.NoError(t, err)
	assert.Nil(t, ptr)
	assert.Equal(t, "", FormatDatePtr(nil))

	assert.Nil(t, FormatEpochPtr(nil))
	assert.Equal(t, "2026-03-10T00:00:00Z", FormatEpoch(1773100800000))
}

func TestSanitize(t *testing.T) {
	note := "  fissura  "
	req := struct {
		Name  string
		Note  *string
		Tags  []string
		Count int
	}{Name: " Bloco A ", Note: &note, Tags: []string{" a ", "b "}, Count: 3}

	Sanitize(&req)
	assert.Equal(t, "Bloco A", req.Name)
	assert.Equal(t, "fissura", *req.Note)
	assert.Equal(t, []string{"a", "b"}, req.Tags)

	assert.Panics(t, func() { Sanitize(req) })
}

func TestSanitizeNested(t *testing.T) {
	type entry struct {
		Role string
		Note *string
	}
	type address struct {
		City string
	}
	note := " turno da tarde "
	req := struct {
		Entries []*entry
		Items   []entry
		Address address
		Missing *entry
	}{
		Entries: []*entry{{Role: "  Pedreiro ", Note: &note}, nil},
		Items:   []entry{{Role: " Servente"}},
		Address: address{City: " Campinas  "},
	}

	Sanitize(&req)
	require.Len(t, req.Entries, 2)
	assert.Equal(t, "Pedreiro", req.Entries[0].Role)
	assert.Equal(t, "turno da tarde", *req.Entries[0].Note)
	assert.Nil(t, req.Entries[1])
	assert.Equal(t, "Servente", req.Items[0].Role)
	assert.Equal(t, "Campinas", req.Address.City)
	assert.Nil(t, req.Missing)
}

func TestCheckFileExt(t *testing.T) {
	ext, ok := CheckFileExt("Foto.JPG", []string{"jpg", "png"})
	assert.True(t, ok)
	assert.Equal(t, ".jpg", ext)

	_, ok = CheckFileExt("planta.pdf", []string{"jpg", "png"})
	assert.False(t, ok)

	_, ok = CheckFileExt("sem-extensao", []string{"jpg"})
	assert.False(t, ok)
}
