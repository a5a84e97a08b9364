package document

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/noah-isme/backend-billing/internal/pricing"
)

var columns = []struct {
	title string
	width float64
}{
	{"Item", 60},
	{"Size", 30},
	{"Qty", 30},
	{"Price", 30},
	{"Total", 40},
}

const rowHeight = 10.0

// PDFOptions tweaks rendering. Compression is on unless Uncompressed is set.
type PDFOptions struct {
	Uncompressed bool
}

// RenderPDF lays out the bill as a single A4 document.
func RenderPDF(b pricing.Bill, l Layout, opts ...PDFOptions) ([]byte, error) {
	var opt PDFOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(!opt.Uncompressed)
	pdf.SetTitle(l.shopName()+" bill "+b.ID, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, rowHeight, tr(l.shopName()), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, rowHeight, tr("Bill Date: "+b.DateLabel()), "", 1, "C", false, 0, "")
	pdf.Ln(rowHeight)
	pdf.CellFormat(0, rowHeight, tr("Customer: "+b.CustomerName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, rowHeight, tr("Mobile: "+b.MobileNumber), "", 1, "L", false, 0, "")
	pdf.Ln(rowHeight)

	pdf.SetFont("Arial", "B", 12)
	for _, col := range columns {
		pdf.CellFormat(col.width, rowHeight, col.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 12)
	for _, item := range b.Items {
		cells := []string{
			item.Name,
			item.Size,
			strconv.Itoa(item.Quantity),
			pricing.Format(item.UnitPrice),
			pricing.Format(item.Total),
		}
		for i, col := range columns {
			pdf.CellFormat(col.width, rowHeight, tr(cells[i]), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(150, rowHeight, "Grand Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, rowHeight, pricing.Format(b.GrandTotal), "1", 1, "C", false, 0, "")

	pdf.Ln(2 * rowHeight)
	pdf.SetFont("Arial", "I", 10)
	pdf.MultiCell(0, rowHeight, tr(fmt.Sprintf("Thank you for visiting us!\nVisit again and follow our Insta page @%s", l.instagram())), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// PDFFilename is the attachment name offered for download.
func PDFFilename(b pricing.Bill) string {
	if b.ID == "" {
		return "bill.pdf"
	}
	return "bill-" + b.ID + ".pdf"
}
