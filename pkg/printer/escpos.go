package printer

import (
	"bytes"
	"fmt"
	"strings"
)

// ESC/POS control bytes.
const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

const (
	alignLeft   = 0
	alignCenter = 1
)

const (
	fontNormal = 0x00
	fontDouble = 0x11 // double width and height, used for the store name
)

// ReceiptDocument builds the ESC/POS byte stream for one register
// ticket. Its methods mirror the sections of a printed receipt from
// top to bottom: header, items, totals, payments, footer. Width is in
// characters: 32 for 58mm paper, 48 for 80mm.
type ReceiptDocument struct {
	buf   bytes.Buffer
	width int
}

// NewReceiptDocument initializes an empty ticket with the given
// character width.
func NewReceiptDocument(charWidth int) *ReceiptDocument {
	if charWidth <= 0 {
		charWidth = 32
	}
	d := &ReceiptDocument{width: charWidth}
	d.buf.Write([]byte{esc, '@'}) // initialize printer
	return d
}

// Header prints the centered store name, ticket number, issue time and
// seller line, then switches back to left alignment for the items.
func (d *ReceiptDocument) Header(storeName, ticketNumber, issuedAt, sellerName string) *ReceiptDocument {
	d.align(alignCenter)
	d.fontSize(fontDouble)
	d.line(storeName)
	d.fontSize(fontNormal)
	d.line("Ticket " + ticketNumber)
	d.line(issuedAt)
	d.line("Vendeur: " + sellerName)
	d.align(alignLeft)
	d.separator()
	return d
}

// Item prints one receipt line: quantity, label and right-aligned line
// total. For multi-unit lines a second indented row shows the unit
// price breakdown.
func (d *ReceiptDocument) Item(qty int, label, lineTotal, unitPrice string) *ReceiptDocument {
	d.keyValue(fmt.Sprintf("%dx %s", qty, label), lineTotal)
	if qty > 1 {
		d.line(fmt.Sprintf("   %d x %s", qty, unitPrice))
	}
	return d
}

// Subtotal closes the item section and prints the pre-discount sum.
func (d *ReceiptDocument) Subtotal(amount string) *ReceiptDocument {
	d.separator()
	d.keyValue("Sous-total", amount)
	return d
}

// Discount prints the applied discount as a negative amount.
func (d *ReceiptDocument) Discount(label, amount string) *ReceiptDocument {
	d.keyValue(label, "-"+amount)
	return d
}

// Total prints the amount owed, bold, above the payment section.
func (d *ReceiptDocument) Total(amount string) *ReceiptDocument {
	d.bold(true)
	d.keyValue("TOTAL", amount)
	d.bold(false)
	d.separator()
	return d
}

// Payment prints one ledger entry: mode (plus authorization reference
// for cards) and the recorded amount.
func (d *ReceiptDocument) Payment(label, amount string) *ReceiptDocument {
	d.keyValue(label, amount)
	return d
}

// Paid prints the sum of recorded payments.
func (d *ReceiptDocument) Paid(amount string) *ReceiptDocument {
	d.keyValue("Paye", amount)
	return d
}

// Change prints the cash handed back to the customer.
func (d *ReceiptDocument) Change(amount string) *ReceiptDocument {
	d.keyValue("Rendu", amount)
	return d
}

// Footer prints the centered closing message, feeds past the tear bar
// and cuts the paper.
func (d *ReceiptDocument) Footer(message string) *ReceiptDocument {
	d.align(alignCenter)
	d.buf.WriteByte(lf)
	d.line(message)
	for i := 0; i < 3; i++ {
		d.buf.WriteByte(lf)
	}
	d.buf.Write([]byte{gs, 'V', 0x00}) // full cut
	return d
}

// Bytes returns the accumulated ESC/POS stream.
func (d *ReceiptDocument) Bytes() []byte {
	return d.buf.Bytes()
}

func (d *ReceiptDocument) line(s string) {
	d.buf.WriteString(s)
	d.buf.WriteByte(lf)
}

// keyValue prints a left-aligned key and a right-aligned value on one
// row, padding with spaces to the paper width.
func (d *ReceiptDocument) keyValue(key, value string) {
	spaces := d.width - len(key) - len(value)
	if spaces < 1 {
		spaces = 1
	}
	d.buf.WriteString(key)
	d.buf.WriteString(strings.Repeat(" ", spaces))
	d.buf.WriteString(value)
	d.buf.WriteByte(lf)
}

func (d *ReceiptDocument) separator() {
	d.buf.WriteString(strings.Repeat("-", d.width))
	d.buf.WriteByte(lf)
}

func (d *ReceiptDocument) align(a byte) {
	d.buf.Write([]byte{esc, 'a', a})
}

func (d *ReceiptDocument) bold(on bool) {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{esc, 'E', b})
}

func (d *ReceiptDocument) fontSize(size byte) {
	d.buf.Write([]byte{gs, '!', size})
}
