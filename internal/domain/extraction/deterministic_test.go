package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mercadonaLines = []string{
	"MERCADONA, S.A. A-46103834",
	"C/ MAYOR 12, 46001 VALENCIA",
	"TELÉFONO: 963000000",
	"12/03/2024 18:45 OP: 123456",
	"FACTURA SIMPLIFICADA: 2345-012-123456",
	"Descripción P. Unit Importe",
	"1 LECHE ENTERA 5,70",
	"2 PAN BARRA 0,60 1,20",
	"1 PLATANO",
	"0,834 kg 2,15 €/kg 1,79",
	"TOTAL (€) 8,69",
	"TARJETA BANCARIA 8,69",
	"IVA BASE IMPONIBLE (€) CUOTA (€)",
	"4% 6,92 0,28",
	"10% 1,36 0,13",
	"TOTAL 8,28 0,41",
}

var lidlLines = []string{
	"Lidl Supermercados S.A.U.",
	"Av. del Puerto 1, Valencia",
	"EUR",
	"LECHE SEMIDESNATADA 0,89 B",
	"2 x 0,89",
	"YOGUR NATURAL 1,78 B",
	"CHOCOLATE NEGRO 1,50 B",
	"Descuento Lidl Plus -0,30 B",
	"Total 3,87",
	"B 10 % 3,52 0,35 3,87",
	"12.03.24 19:02 Caja 3",
}

// ============================================================================
// Mercadona
// ============================================================================

func TestMercadonaParser(t *testing.T) {
	p := MercadonaParser{}
	require.True(t, p.Match(mercadonaLines))

	receipt, err := p.Parse(mercadonaLines)
	require.NoError(t, err)

	assert.Equal(t, "Mercadona", receipt.StoreName)
	assert.Equal(t, "2024-03-12", receipt.ReceiptDate)
	assert.Equal(t, "18:45:00", receipt.ReceiptTime)
	assert.Equal(t, "8.69", receipt.TotalAmount.Value.String())

	require.Len(t, receipt.Items, 3)

	assert.Equal(t, "LECHE ENTERA", receipt.Items[0].Description)
	assert.Equal(t, "1", receipt.Items[0].Quantity.Value.String())
	assert.False(t, receipt.Items[0].PricePerUnit.Valid)
	assert.Equal(t, "5.7", receipt.Items[0].TotalPrice.Value.String())

	assert.Equal(t, "PAN BARRA", receipt.Items[1].Description)
	assert.Equal(t, "0.6", receipt.Items[1].PricePerUnit.Value.String())
	assert.Equal(t, "1.2", receipt.Items[1].TotalPrice.Value.String())

	assert.Equal(t, "PLATANO", receipt.Items[2].Description)
	assert.Equal(t, "0.834", receipt.Items[2].Quantity.Value.String())
	assert.Equal(t, "2.15", receipt.Items[2].PricePerUnit.Value.String())
	assert.Equal(t, "1.79", receipt.Items[2].TotalPrice.Value.String())

	taxes, ok := receipt.Extra["tax_breakdown"].([]TaxLine)
	require.True(t, ok)
	require.Len(t, taxes, 2)
	assert.Equal(t, "4%", taxes[0].Rate)
	assert.Equal(t, "0.13", taxes[1].Quota.String())
}

func TestMercadonaParser_NoMatch(t *testing.T) {
	assert.False(t, MercadonaParser{}.Match(lidlLines))
	assert.False(t, MercadonaParser{}.Match([]string{"MERCADONA"}))
}

func TestMercadonaParser_NoItems(t *testing.T) {
	_, err := MercadonaParser{}.Parse([]string{"MERCADONA", "FACTURA SIMPLIFICADA", "TOTAL (€) 0,00"})
	assert.ErrorIs(t, err, errNoItems)
}

// ============================================================================
// Lidl
// ============================================================================

func TestLidlParser(t *testing.T) {
	p := LidlParser{}
	require.True(t, p.Match(lidlLines))

	receipt, err := p.Parse(lidlLines)
	require.NoError(t, err)

	assert.Equal(t, "Lidl", receipt.StoreName)
	assert.Equal(t, "2024-03-12", receipt.ReceiptDate)
	assert.Equal(t, "19:02:00", receipt.ReceiptTime)
	assert.Equal(t, "3.87", receipt.TotalAmount.Value.String())

	require.Len(t, receipt.Items, 3)
	assert.Equal(t, "LECHE SEMIDESNATADA", receipt.Items[0].Description)
	assert.False(t, receipt.Items[0].Quantity.Valid)

	assert.Equal(t, "YOGUR NATURAL", receipt.Items[1].Description)
	assert.Equal(t, "2", receipt.Items[1].Quantity.Value.String())
	assert.Equal(t, "0.89", receipt.Items[1].PricePerUnit.Value.String())

	assert.Equal(t, "CHOCOLATE NEGRO", receipt.Items[2].Description)
	assert.Equal(t, "1.2", receipt.Items[2].TotalPrice.Value.String(), "discount applied")

	taxes := receipt.Extra["tax_breakdown"].([]TaxLine)
	require.Len(t, taxes, 1)
	assert.Equal(t, "10%", taxes[0].Rate)
}

func TestLidlParser_NoMatch(t *testing.T) {
	assert.False(t, LidlParser{}.Match(mercadonaLines))
	assert.False(t, LidlParser{}.Match([]string{"LIDL", "nothing else"}))
}
