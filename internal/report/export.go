package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// ExportExcel writes the report to an xlsx workbook under exportPath
// and returns the file path.
func ExportExcel(r *Report, exportPath string) (string, error) {
	if err := os.MkdirAll(exportPath, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Report"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("TouristHub report — generated %s",
		r.GeneratedAt.Format("2006-01-02 15:04")))

	row := 3
	writeRow := func(values ...interface{}) {
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}
		row++
	}

	writeRow("Total bookings", r.TotalBookings)
	writeRow("Total revenue", r.TotalRevenue)
	writeRow("Confirmed revenue", r.ConfirmedRevenue)
	writeRow("Total users", r.TotalUsers)
	writeRow("Average booking value", r.AverageBookingValue())
	row++

	writeRow("Status", "Bookings")
	for _, status := range []string{"pending", "confirmed", "completed", "cancelled"} {
		writeRow(status, r.BookingsByStatus[status])
	}
	row++

	writeRow("Tour", "Bookings", "Revenue")
	for _, stats := range r.TourPerformance {
		writeRow(stats.TourName, stats.Bookings, stats.Revenue)
	}
	row++

	writeRow("Month", "Revenue", "Bookings", "Signups")
	for i, month := range r.MonthlyRevenue {
		signups := 0
		if i < len(r.MonthlySignups) {
			signups = r.MonthlySignups[i].Count
		}
		writeRow(month.Month, month.Revenue, month.Bookings, signups)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 28)
	_ = f.SetColWidth(sheetName, "B", "D", 16)
	_ = f.MergeCell(sheetName, "A1", "D1")

	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", style)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("report_%s.xlsx", r.GeneratedAt.Format("2006-01-02_150405"))
	filePath := filepath.Join(exportPath, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	return filePath, nil
}
