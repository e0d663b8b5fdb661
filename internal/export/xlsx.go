package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// XLSXWriter implements SheetWriter and MonitoringWriter on a local .xlsx workbook.
// The workbook is created on first write; other sheets in it are left untouched.
type XLSXWriter struct {
	path string
	mu   sync.Mutex
}

// NewXLSXWriter creates a writer for the workbook at path.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// Write replaces the contents of the METRICS sheet.
func (w *XLSXWriter) Write(_ context.Context, rows []MetricRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, created, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	idx, err := f.NewSheet(metricsSheet)
	if err != nil {
		return fmt.Errorf("creating %s sheet: %w", metricsSheet, err)
	}

	values := buildMetricsValues(rows)
	existing, err := f.GetRows(metricsSheet)
	if err != nil {
		return fmt.Errorf("reading %s sheet: %w", metricsSheet, err)
	}
	for r := len(existing); r > len(values); r-- {
		if err := f.RemoveRow(metricsSheet, r); err != nil {
			return fmt.Errorf("removing stale row %d: %w", r, err)
		}
	}

	if err := setRows(f, metricsSheet, 1, values); err != nil {
		return err
	}
	if err := boldHeader(f, metricsSheet); err != nil {
		return err
	}
	if err := f.SetColWidth(metricsSheet, "A", "B", 24); err != nil {
		return fmt.Errorf("sizing %s columns: %w", metricsSheet, err)
	}

	f.SetActiveSheet(idx)
	return w.save(f, created)
}

// AppendMonitoring appends one dated row to the MONITORING sheet, writing the header first
// when the sheet is empty.
func (w *XLSXWriter) AppendMonitoring(_ context.Context, rows []MetricRow, at time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, created, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.NewSheet(monitoringSheet); err != nil {
		return fmt.Errorf("creating %s sheet: %w", monitoringSheet, err)
	}

	existing, err := f.GetRows(monitoringSheet)
	if err != nil {
		return fmt.Errorf("reading %s sheet: %w", monitoringSheet, err)
	}

	header, data := buildMonitoringRows(rows, at)
	next := len(existing) + 1
	if len(existing) == 0 {
		if err := setRows(f, monitoringSheet, 1, [][]any{header}); err != nil {
			return err
		}
		if err := boldHeader(f, monitoringSheet); err != nil {
			return err
		}
		next = 2
	}
	if err := setRows(f, monitoringSheet, next, [][]any{data}); err != nil {
		return err
	}

	return w.save(f, created)
}

// open loads the workbook, or starts a new one if the file does not exist yet.
func (w *XLSXWriter) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(w.path); errors.Is(err, fs.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, false, fmt.Errorf("opening workbook %s: %w", w.path, err)
	}
	return f, false, nil
}

func (w *XLSXWriter) save(f *excelize.File, created bool) error {
	// New workbooks come with an empty default sheet.
	if created {
		if idx, err := f.GetSheetIndex(defaultSheet); err == nil && idx != -1 {
			if err := f.DeleteSheet(defaultSheet); err != nil {
				return fmt.Errorf("removing default sheet: %w", err)
			}
		}
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", w.path, err)
	}
	return nil
}

func setRows(f *excelize.File, sheet string, firstRow int, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, firstRow+i)
		if err != nil {
			return fmt.Errorf("resolving cell for row %d: %w", firstRow+i, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, firstRow+i, err)
		}
	}
	return nil
}

func boldHeader(f *excelize.File, sheet string) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	return nil
}
