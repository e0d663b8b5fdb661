package export

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	sheets "google.golang.org/api/sheets/v4"
)

// monitoringCol describes one column in the MONITORING sheet.
type monitoringCol struct {
	header  string
	section string
	name    string
}

// monitoringColumns defines the data columns after the Date column, in order.
var monitoringColumns = []monitoringCol{
	{header: "Total Supply", section: SectionSummary, name: "total_supply"},
	{header: "Staked Supply", section: SectionSummary, name: "staked_supply"},
	{header: "Circulating", section: SectionSupply, name: "circulating"},
	{header: "DEX Liquidity", section: SectionSupply, name: "dex_liquidity"},
	{header: "Auction Locked", section: SectionSupply, name: "auction_locked"},
	{header: "Total Burned", section: SectionBurn, name: "total_burned"},
	{header: "Burned % of Supply", section: SectionBurn, name: "percentage_of_supply"},
	{header: "Inflation (annualized)", section: SectionSummary, name: "inflation_current"},
	{header: "Daily Issuance", section: SectionIssuance, name: "daily_issuance"},
	{header: "Validators", section: SectionSupply, name: "validators"},
	{header: "Price", section: SectionSummary, name: "price"},
	{header: "Market Cap", section: SectionSummary, name: "market_cap"},
	{header: "Height", section: SectionSummary, name: "height"},
}

// buildMonitoringRows builds the header row and a single data row for the MONITORING sheet.
// Columns without a matching metric are left empty.
func buildMonitoringRows(rows []MetricRow, at time.Time) (header []any, data []any) {
	byKey := lo.KeyBy(rows, func(r MetricRow) string { return r.Section + "/" + r.Name })

	header = make([]any, 1+len(monitoringColumns))
	header[0] = "Date"
	data = make([]any, 1+len(monitoringColumns))
	data[0] = at.UTC().Format("2006-01-02 15:04")

	for i, col := range monitoringColumns {
		header[i+1] = col.header
		if r, ok := byKey[col.section+"/"+col.name]; ok {
			data[i+1] = toFloat(r.Value)
		}
	}
	return header, data
}

// AppendMonitoring ensures the MONITORING sheet exists, writes the header row if the
// sheet is empty, then appends one data row for the current run.
func (w *SheetsWriter) AppendMonitoring(ctx context.Context, rows []MetricRow, at time.Time) error {
	ids, err := w.ensureSheets(ctx, monitoringSheet)
	if err != nil {
		return fmt.Errorf("ensuring %s sheet: %w", monitoringSheet, err)
	}

	header, dataRow := buildMonitoringRows(rows, at)

	existing, err := w.svc.Spreadsheets.Values.Get(w.spreadsheetID, monitoringSheet+"!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading %s header: %w", monitoringSheet, err)
	}

	if len(existing.Values) == 0 {
		_, err = w.svc.Spreadsheets.Values.Update(
			w.spreadsheetID,
			monitoringSheet+"!A1",
			&sheets.ValueRange{Values: [][]any{header}},
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("writing %s header: %w", monitoringSheet, err)
		}
		if err := w.formatMonitoringHeader(ctx, ids[monitoringSheet]); err != nil {
			return fmt.Errorf("formatting %s sheet: %w", monitoringSheet, err)
		}
	}

	_, err = w.svc.Spreadsheets.Values.Append(
		w.spreadsheetID,
		monitoringSheet+"!A:A",
		&sheets.ValueRange{Values: [][]any{dataRow}},
	).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending %s row: %w", monitoringSheet, err)
	}

	return nil
}

// formatMonitoringHeader bolds the header row and freezes it together with the Date column.
func (w *SheetsWriter) formatMonitoringHeader(ctx context.Context, sheetID int64) error {
	reqs := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(1 + len(monitoringColumns)),
					ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat:          &sheets.TextFormat{Bold: true},
						HorizontalAlignment: "CENTER",
					},
				},
				Fields: "userEnteredFormat(textFormat,horizontalAlignment)",
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount:    1,
						FrozenColumnCount: 1,
					},
					ForceSendFields: []string{"SheetId"},
				},
				Fields: "gridProperties.frozenRowCount,gridProperties.frozenColumnCount",
			},
		},
	}

	_, err := w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: reqs},
	).Context(ctx).Do()
	return err
}
