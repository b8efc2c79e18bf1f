package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
	"github.com/SebastianInformatico/COTRAQ-sub000/internal/timeline"
)

// Generator renders the consolidated trip timeline as a printable report.
type Generator struct {
	fontName string
}

func NewGenerator() (*Generator, error) {
	return &Generator{fontName: "Helvetica"}, nil
}

func (g *Generator) Generate(trip model.Trip, driverName, vehiclePlate string, entries []timeline.Entry) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Trip timeline report", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Trip %s, %s to %s", trip.ID, trip.Origin, trip.Destination)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Driver %s, vehicle %s, cargo %s", driverName, vehiclePlate, trip.CargoCategory)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Scheduled %s to %s", formatTime(trip.ScheduledStart), formatTime(trip.ScheduledEnd)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Time", "Kind", "Title", "Details"}
	colWidths := []float64{32, 22, 48, 78}
	drawRow(pdf, g.fontName, headers, colWidths, true)

	for _, entry := range entries {
		drawRow(pdf, g.fontName, []string{
			formatTime(entry.Timestamp),
			string(entry.Kind),
			tr(entry.Title),
			tr(entry.Details),
		}, colWidths, false)
	}

	pdf.Ln(6)
	pdf.SetFont(g.fontName, "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s, %d entries", formatTime(time.Now()), len(entries)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawRow(pdf *gofpdf.Fpdf, font string, cells []string, widths []float64, header bool) {
	if header {
		pdf.SetFont(font, "B", 10)
		pdf.SetFillColor(230, 230, 230)
	} else {
		pdf.SetFont(font, "", 9)
	}
	for i, cell := range cells {
		last := i == len(cells)-1
		ln := 0
		if last {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, cell, "1", ln, "L", header, 0, "")
	}
}

func formatTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}
