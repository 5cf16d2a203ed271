package invoice

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"metro/models"

	"github.com/phpdave11/gofpdf"
)

// Renderer turns a booking snapshot into a PDF invoice.
type Renderer struct {
	CompanyName string
	Now         func() time.Time
}

func NewRenderer(companyName string) *Renderer {
	return &Renderer{CompanyName: companyName, Now: time.Now}
}

// Render returns the PDF bytes and a download file name.
func (r *Renderer) Render(b *models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+b.BookingID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, safe(r.CompanyName, "Invoice"))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Tax invoice")
	pdf.Ln(10)

	pdf.Cell(0, 7, "Invoice no : INV-"+b.BookingID)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued     : "+r.Now().Format("2006-01-02 15:04"))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Service on : %s %s", safe(b.BookingDate, "-"), safe(b.SlotTime, "")))
	pdf.Ln(7)
	pdf.MultiCell(0, 7, "Address    : "+safe(b.Address, "-"), "", "", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(100, 8, "Service", "B", 0, "", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(50, 8, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, it := range b.Items {
		pdf.CellFormat(100, 7, it.ServiceName, "", 0, "", false, 0, "")
		pdf.CellFormat(20, 7, strconv.Itoa(it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, formatRupees(it.TotalPrice), "", 1, "R", false, 0, "")
		for _, opt := range it.SelectedOptions {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(100, 5, fmt.Sprintf("  %s: %s", opt.GroupName, opt.OptionName), "", 0, "", false, 0, "")
			pdf.CellFormat(20, 5, "", "", 0, "", false, 0, "")
			pdf.CellFormat(50, 5, "+"+formatRupees(opt.Price), "", 1, "R", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
		}
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 8, "Total", "T", 0, "", false, 0, "")
	pdf.CellFormat(50, 8, formatRupees(b.TotalPrice), "T", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(120, 7, "Paid", "", 0, "", false, 0, "")
	pdf.CellFormat(50, 7, formatRupees(b.AmountPaid), "", 1, "R", false, 0, "")
	pdf.CellFormat(120, 7, "Due", "", 0, "", false, 0, "")
	pdf.CellFormat(50, 7, formatRupees(b.AmountDue), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("Payment: %s, status %s.", b.PaymentMethod, b.PaymentStatus), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("INVOICE_%s.pdf", b.BookingID), nil
}

// formatRupees renders paise with Indian digit grouping, e.g. Rs 1,23,456.50.
func formatRupees(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	s := strconv.FormatInt(paise/100, 10)
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		parts = append([]string{head}, parts...)
		s = strings.Join(parts, ",") + "," + tail
	}
	return fmt.Sprintf("%sRs %s.%02d", sign, s, paise%100)
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
