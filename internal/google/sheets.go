package google

import (
	"context"
	"fmt"
	"os"

	"touristhub/internal/report"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsService pushes the current report into a Google spreadsheet,
// replacing the Report sheet wholesale on every push.
type SheetsService struct {
	service        *sheets.Service
	reportsSheetID string
}

func NewSheetsService(ctx context.Context, credentialsFile, reportsSheetID string) (*SheetsService, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(ctx)

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	return &SheetsService{
		service:        srv,
		reportsSheetID: reportsSheetID,
	}, nil
}

// TestConnection reads the first cell of the report sheet.
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.reportsSheetID, "Report!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// ReplaceReport clears and rewrites the Report sheet with the given
// aggregates.
func (s *SheetsService) ReplaceReport(ctx context.Context, r *report.Report) error {
	var values [][]interface{}

	values = append(values,
		[]interface{}{"Generated at", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		[]interface{}{"Total bookings", r.TotalBookings},
		[]interface{}{"Total revenue", r.TotalRevenue},
		[]interface{}{"Confirmed revenue", r.ConfirmedRevenue},
		[]interface{}{"Total users", r.TotalUsers},
		[]interface{}{"Average booking value", r.AverageBookingValue()},
		[]interface{}{},
		[]interface{}{"Status", "Bookings"},
	)
	for _, status := range []string{"pending", "confirmed", "completed", "cancelled"} {
		values = append(values, []interface{}{status, r.BookingsByStatus[status]})
	}

	values = append(values, []interface{}{}, []interface{}{"Tour", "Bookings", "Revenue"})
	for _, stats := range r.TourPerformance {
		values = append(values, []interface{}{stats.TourName, stats.Bookings, stats.Revenue})
	}

	values = append(values, []interface{}{}, []interface{}{"Month", "Revenue", "Bookings"})
	for _, month := range r.MonthlyRevenue {
		values = append(values, []interface{}{month.Month, month.Revenue, month.Bookings})
	}

	if _, err := s.service.Spreadsheets.Values.Clear(s.reportsSheetID, "Report!A:D", &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("clear report sheet: %v", err)
	}

	rangeData := fmt.Sprintf("Report!A1:D%d", len(values))
	valueRange := &sheets.ValueRange{Values: values}

	_, err := s.service.Spreadsheets.Values.Update(s.reportsSheetID, rangeData, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}
