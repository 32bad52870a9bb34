// Package pdf renders the printable confirmation receipt handed to an
// applicant after a successful submission. The receipt repeats the tracking
// identifiers exactly as they were transmitted.
package pdf

import (
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/era-intake/internal/domain"
)

type Generator struct {
	// Compress toggles stream compression; tests switch it off to inspect
	// the text.
	Compress bool
}

func New() *Generator { return &Generator{Compress: true} }

// Generate writes a single-page receipt to w.
func (g *Generator) Generate(c *domain.Confirmation, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetCompression(g.Compress)
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.SetTitle("Application receipt "+c.Tracking.ApplicationNumber, true)
	pdf.AddPage()
	drawReceipt(pdf, c)
	return pdf.Output(w)
}

func drawReceipt(pdf *fpdf.Fpdf, c *domain.Confirmation) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, pageH := pdf.GetPageSize()
	marginL, marginT, marginR, marginB := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	// ── Header bar ───────────────────────────────────────────────────────────
	pdf.SetFillColor(30, 58, 138)
	pdf.Rect(marginL, marginT, contentW, 12, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginL+3, marginT+2.5)
	pdf.CellFormat(contentW*0.7, 7, tr(strings.ToUpper(c.Title)), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW*0.3-6, 7, "Form ID: "+c.FormID, "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	y := marginT + 20
	pdf.SetXY(marginL, y)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Application Received", "", 1, "L", false, 0, "")
	y += 10

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginL, y)
	thanks := "Thank you."
	if c.Applicant != "" {
		thanks = "Thank you, " + c.Applicant + "."
	}
	intro := thanks + " Your application was submitted on " + c.SubmittedAt.Format("2 January 2006 at 15:04 MST") +
		". Keep these reference numbers; you will need them if you contact the program office."
	pdf.MultiCell(contentW, 5.5, tr(intro), "", "L", false)
	y = pdf.GetY() + 6

	// ── Tracking identifiers ─────────────────────────────────────────────────
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW, 6, "TRACKING IDENTIFIERS", "1", 1, "L", true, 0, "")
	y += 6

	labelW := contentW * 0.45
	rows := []struct{ label, value string }{
		{"Application Number", c.Tracking.ApplicationNumber},
		{"Ticket Number", c.Tracking.TicketNumber},
		{"Reference Number", c.Tracking.ReferenceNumber},
	}
	for i, r := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetXY(marginL, y)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(labelW, 9, r.label, "1", 0, "L", true, 0, "")
		pdf.SetFont("Courier", "B", 13)
		pdf.CellFormat(contentW-labelW, 9, r.value, "1", 1, "L", true, 0, "")
		y += 9
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.SetXY(marginL, pageH-marginB-6)
	pdf.SetFont("Helvetica", "I", 7.5)
	pdf.SetTextColor(130, 130, 130)
	pdf.CellFormat(contentW/2, 5, "Emergency Assistance Program - confidential", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, c.Tracking.ApplicationNumber+" | "+c.Tracking.ReferenceNumber, "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

