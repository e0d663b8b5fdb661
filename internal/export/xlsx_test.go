package export

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestXLSXWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokenomics.xlsx")
	w := NewXLSXWriter(path)
	ctx := context.Background()

	rows := []MetricRow{
		{Section: SectionSummary, Name: "height", Value: d("42"), Unit: ""},
		{Section: SectionSummary, Name: "total_supply", Value: d("1000"), Unit: "UM"},
		{Section: SectionBurn, Name: "total_burned", Value: d("12.5"), Unit: "UM"},
	}
	if err := w.Write(ctx, rows); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	got, err := f.GetRows(metricsSheet)
	f.Close()
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("rows = %d, want header + 3", len(got))
	}
	if got[0][0] != "Section" || got[2][1] != "total_supply" || got[3][2] != "12.5" {
		t.Errorf("unexpected sheet contents: %v", got)
	}

	// A shorter rewrite leaves no stale rows behind.
	if err := w.Write(ctx, rows[:1]); err != nil {
		t.Fatalf("second Write error: %v", err)
	}
	f, err = excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopening workbook: %v", err)
	}
	defer f.Close()
	got, err = f.GetRows(metricsSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("rows after rewrite = %d, want 2", len(got))
	}
	if idx, _ := f.GetSheetIndex(defaultSheet); idx != -1 {
		t.Error("default sheet left in a new workbook")
	}
}

func TestXLSXWriterAppendMonitoring(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokenomics.xlsx")
	w := NewXLSXWriter(path)
	ctx := context.Background()
	rows := []MetricRow{{Section: SectionSummary, Name: "total_supply", Value: d("1000")}}

	for i := range 2 {
		at := time.Date(2025, 6, 1+i, 0, 0, 0, 0, time.UTC)
		if err := w.AppendMonitoring(ctx, rows, at); err != nil {
			t.Fatalf("AppendMonitoring %d error: %v", i, err)
		}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()
	got, err := f.GetRows(monitoringSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(got))
	}
	if got[0][0] != "Date" || got[1][0] != "2025-06-01 00:00" || got[2][0] != "2025-06-02 00:00" {
		t.Errorf("unexpected monitoring rows: %v", got)
	}
}
