package export

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

const (
	metricsSheet    = "METRICS"
	monitoringSheet = "MONITORING"
)

// SheetsWriter implements SheetWriter and MonitoringWriter using the Google Sheets API.
type SheetsWriter struct {
	spreadsheetID string
	svc           *sheets.Service
}

// NewSheetsWriter creates a SheetsWriter authenticated with a service account JSON.
func NewSheetsWriter(ctx context.Context, spreadsheetID, credentialsJSON string) (*SheetsWriter, error) {
	creds, err := google.CredentialsFromJSON(
		ctx,
		[]byte(credentialsJSON),
		sheets.SpreadsheetsScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &SheetsWriter{spreadsheetID: spreadsheetID, svc: svc}, nil
}

// Write ensures the METRICS sheet exists, then clears and rewrites it.
func (w *SheetsWriter) Write(ctx context.Context, rows []MetricRow) error {
	if _, err := w.ensureSheets(ctx, metricsSheet); err != nil {
		return err
	}

	_, err := w.svc.Spreadsheets.Values.Clear(
		w.spreadsheetID,
		metricsSheet+"!A:D",
		&sheets.ClearValuesRequest{},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing %s sheet: %w", metricsSheet, err)
	}

	_, err = w.svc.Spreadsheets.Values.Update(
		w.spreadsheetID,
		metricsSheet+"!A1",
		&sheets.ValueRange{Values: buildMetricsValues(rows)},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing %s sheet: %w", metricsSheet, err)
	}

	return nil
}

// buildMetricsValues builds the METRICS sheet data.
// Columns: Section | Name | Value | Unit
func buildMetricsValues(rows []MetricRow) [][]any {
	data := make([][]any, 0, len(rows)+1)
	data = append(data, []any{"Section", "Name", "Value", "Unit"})
	for _, row := range rows {
		data = append(data, []any{row.Section, row.Name, toFloat(row.Value), row.Unit})
	}
	return data
}

// ensureSheets creates any of the named sheets that do not already exist and
// returns the sheet IDs by title.
func (w *SheetsWriter) ensureSheets(ctx context.Context, names ...string) (map[string]int64, error) {
	spreadsheet, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("getting spreadsheet metadata: %w", err)
	}

	ids := make(map[string]int64, len(spreadsheet.Sheets))
	for _, s := range spreadsheet.Sheets {
		ids[s.Properties.Title] = s.Properties.SheetId
	}

	var requests []*sheets.Request
	for _, name := range names {
		if _, ok := ids[name]; !ok {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: name},
				},
			})
		}
	}

	if len(requests) == 0 {
		return ids, nil
	}

	resp, err := w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests},
	).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("creating sheets: %w", err)
	}
	for _, r := range resp.Replies {
		if r.AddSheet != nil && r.AddSheet.Properties != nil {
			ids[r.AddSheet.Properties.Title] = r.AddSheet.Properties.SheetId
		}
	}

	return ids, nil
}
