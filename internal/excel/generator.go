package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

// Generator renders trip compliance reports as xlsx workbooks.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.ComplianceReport) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Compliance"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Trip")
	set("B1", report.TripID.String())
	set("A2", "Driver")
	set("B2", report.DriverName)
	set("A3", "Vehicle")
	set("B3", report.VehiclePlate)
	set("A4", "Cargo")
	set("B4", string(report.CargoCategory))
	set("A5", "Route")
	set("B5", fmt.Sprintf("%s — %s", report.Origin, report.Destination))
	set("A6", "Scheduled")
	set("B6", formatDate(report.ScheduledAt))
	set("A7", "Generated")
	set("B7", formatDate(report.GeneratedAt))

	headerRow := 9
	headers := []string{
		"Checklist", "Phase", "Version", "Mandatory",
		"Items", "Completed", "Compliant", "Pending review",
		"Completion %", "Compliance %",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		set(cell, header)
	}

	for i, row := range report.Rows {
		values := []interface{}{
			row.Name,
			string(row.Phase),
			row.Version,
			boolLabel(row.Mandatory),
			row.TotalItems,
			row.CompletedItems,
			row.CompliantItems,
			row.PendingReview,
			row.CompletionPercentage,
			row.CompliancePercentage,
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, headerRow+1+i)
			set(cell, value)
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 36)
	_ = file.SetColWidth(sheet, "B", "J", 14)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

func boolLabel(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
