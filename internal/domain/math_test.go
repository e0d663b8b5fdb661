package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		name string
		a, b int64
		want string
	}{
		{"normal", 10, 5, "2"},
		{"fraction", 1, 4, "0.25"},
		{"division by zero", 10, 0, "0"},
		{"zero numerator", 0, 5, "0"},
		{"negative", -10, 4, "-2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeDivide(decimal.NewFromInt(tt.a), decimal.NewFromInt(tt.b))
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("SafeDivide(%d, %d) = %s, want %s", tt.a, tt.b, got, want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(decimal.NewFromInt(25), decimal.NewFromInt(200)); !got.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("Percent(25, 200) = %s, want 12.5", got)
	}
	if got := Percent(decimal.NewFromInt(25), decimal.Zero); !got.IsZero() {
		t.Errorf("Percent(25, 0) = %s, want 0", got)
	}
}

func TestSumDecimals(t *testing.T) {
	if got := SumDecimals(); !got.IsZero() {
		t.Errorf("SumDecimals() = %s, want 0", got)
	}
	got := SumDecimals(decimal.NewFromInt(1), decimal.RequireFromString("2.5"), decimal.NewFromInt(-1))
	if !got.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("SumDecimals = %s, want 2.5", got)
	}
}
