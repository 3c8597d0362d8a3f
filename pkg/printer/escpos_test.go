package printer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptDocumentLayout(t *testing.T) {
	doc := NewReceiptDocument(32)
	doc.Header("Caveo", "VTE-ABCD1234", "2026-09-01 14:30", "Claire Moreau")
	doc.Item(2, "Margaux (Bouteille 75cl)", "25.00", "12.50")
	doc.Subtotal("25.00")
	doc.Discount("Remise", "2.50")
	doc.Total("22.50")
	doc.Payment("Cash", "22.50")
	doc.Paid("22.50")
	doc.Change("7.50")
	doc.Footer("Merci de votre visite !")

	out := string(doc.Bytes())

	// ESC @ initializes the printer before anything else.
	require.True(t, strings.HasPrefix(out, string([]byte{esc, '@'})))
	// GS V 0 cuts the paper at the very end.
	assert.True(t, strings.HasSuffix(out, string([]byte{gs, 'V', 0x00})))

	assert.Contains(t, out, "Ticket VTE-ABCD1234\n")
	assert.Contains(t, out, "Vendeur: Claire Moreau\n")
	assert.Contains(t, out, "2x Margaux (Bouteille 75cl)")
	assert.Contains(t, out, "   2 x 12.50\n")
	assert.Contains(t, out, "Remise")
	assert.Contains(t, out, "-2.50\n")
	assert.Contains(t, out, "Rendu")
	assert.Contains(t, out, "Merci de votre visite !\n")
}

func TestReceiptDocumentKeyValueRightAligns(t *testing.T) {
	doc := NewReceiptDocument(32)
	doc.keyValue("TOTAL", "22.50")

	out := string(doc.Bytes())
	row := "TOTAL" + strings.Repeat(" ", 32-len("TOTAL")-len("22.50")) + "22.50\n"
	assert.True(t, strings.HasSuffix(out, row))
}

func TestReceiptDocumentSingleUnitItemHasNoBreakdownRow(t *testing.T) {
	doc := NewReceiptDocument(32)
	doc.Item(1, "Margaux (Bouteille 75cl)", "12.50", "12.50")

	assert.NotContains(t, string(doc.Bytes()), "1 x 12.50")
}
