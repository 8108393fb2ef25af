package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fatturapa-exporter/internal/model"
)

func TestDocumentType_Valid(t *testing.T) {
	tests := []struct {
		code  model.DocumentType
		valid bool
	}{
		{model.TD01, true},
		{model.TD04, true},
		{model.TD17, true},
		{model.TD27, true},
		{"TD07", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.code.Valid())
		})
	}
}

func TestDocumentType_Description(t *testing.T) {
	assert.Equal(t, "Fattura", model.TD01.Description())
	assert.Equal(t, "Nota di credito", model.TD04.Description())
	assert.Empty(t, model.DocumentType("XX").Description())
}

func TestClassifierRoles(t *testing.T) {
	assert.Equal(t, model.TD01, model.DocumentTypeDomestic)
	assert.Equal(t, model.TD17, model.DocumentTypeIntraEU)
	assert.Equal(t, model.TD18, model.DocumentTypeMicroStateGoods)
	assert.Equal(t, model.TD19, model.DocumentTypeMicroStateService)
}

func TestNatureCode_Valid(t *testing.T) {
	assert.True(t, model.N1.Valid())
	assert.True(t, model.N21.Valid())
	assert.True(t, model.N69.Valid())
	assert.True(t, model.N7.Valid())
	assert.False(t, model.NatureCode("N8").Valid())
	assert.Equal(t, "Esenti", model.N4.Description())
}

func TestPaymentCodes(t *testing.T) {
	assert.True(t, model.TP02.Valid())
	assert.False(t, model.PaymentCondition("TP04").Valid())
	assert.Equal(t, "Bonifico", model.MP05.Description())
	assert.True(t, model.MP23.Valid())
	assert.False(t, model.PaymentMethod("MP99").Valid())
}

func TestCodeTables(t *testing.T) {
	tables := model.CodeTables()
	require.Len(t, tables, 4)

	docTypes := tables["document_types"]
	require.Len(t, docTypes, 18)
	assert.Equal(t, "TD01", docTypes[0].Code)
	assert.Equal(t, "TD27", docTypes[len(docTypes)-1].Code)

	assert.Len(t, tables["payment_conditions"], 3)
	assert.Len(t, tables["payment_methods"], 23)
	assert.Len(t, tables["nature_codes"], 24)
}
