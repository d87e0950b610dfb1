package report

import (
	"fmt"
	"io"
	"iter"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/rawen554/userdir/internal/models"
)

const (
	maxRows   = 500
	pageBreak = 185.0
)

type column struct {
	title string
	width float64
	value func(u models.User) string
}

var columns = []column{
	{"ID", 12, func(u models.User) string { return strconv.Itoa(u.ID) }},
	{"Name", 45, func(u models.User) string { return u.Name }},
	{"Username", 32, func(u models.User) string { return u.Username }},
	{"Email", 55, func(u models.User) string { return u.Email }},
	{"City", 35, func(u models.User) string { return u.Address.City }},
	{"Phone", 48, func(u models.User) string { return u.Phone }},
	{"Website", 42, func(u models.User) string { return u.Website }},
}

// WriteUsersPDF renders users as a landscape table.
func WriteUsersPDF(w io.Writer, users iter.Seq[models.User], keyword string, now time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "User directory")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Generated "+now.Format(time.RFC1123))
	pdf.Ln(5)
	if keyword != "" {
		pdf.Cell(0, 6, tr("Filter: "+keyword))
		pdf.Ln(5)
	}
	pdf.Ln(3)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(245, 245, 245)
		pdf.SetTextColor(20, 20, 20)
		for _, c := range columns {
			pdf.CellFormat(c.width, 8, c.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	header()

	n := 0
	for u := range users {
		if n >= maxRows {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.CellFormat(0, 7, "truncated (too many rows)", "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > pageBreak {
			pdf.AddPage()
			header()
		}
		for _, c := range columns {
			pdf.CellFormat(c.width, 7, tr(c.value(u)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		n++
	}

	if n == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 8, "No users found", "1", 1, "C", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error writing pdf: %w", err)
	}
	return nil
}
