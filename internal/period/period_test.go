package period

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		in      string
		year    int
		month   int
		wantErr bool
	}{
		{in: "2025-03", year: 2025, month: 3},
		{in: "2024-12", year: 2024, month: 12},
		{in: "1999-01", year: 1999, month: 1},
		{in: "2025-13", wantErr: true},
		{in: "2025-00", wantErr: true},
		{in: "garbage", wantErr: true},
		{in: "2025/03", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			key, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if key.Year() != tt.year || key.Month() != tt.month {
				t.Errorf("Parse(%q) = %d-%d, want %d-%d", tt.in, key.Year(), key.Month(), tt.year, tt.month)
			}
			if New(key.Year(), key.Month()) != key {
				t.Errorf("round trip of %q lost information", tt.in)
			}
		})
	}
}

func TestAdd(t *testing.T) {
	tests := []struct {
		key    Key
		offset int
		want   Key
	}{
		{key: "2025-03", offset: 0, want: "2025-03"},
		{key: "2025-03", offset: 1, want: "2025-04"},
		{key: "2025-11", offset: 3, want: "2026-02"},
		{key: "2025-01", offset: -1, want: "2024-12"},
		{key: "2025-06", offset: -18, want: "2023-12"},
		{key: "2024-12", offset: 13, want: "2026-01"},
	}

	for _, tt := range tests {
		if got := tt.key.Add(tt.offset); got != tt.want {
			t.Errorf("%s.Add(%d) = %s, want %s", tt.key, tt.offset, got, tt.want)
		}
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{key: "2025-03", want: "Marzo 2025"},
		{key: "2024-12", want: "Diciembre 2024"},
		{key: "2023-01", want: "Enero 2023"},
	}

	for _, tt := range tests {
		if got := tt.key.Label(); got != tt.want {
			t.Errorf("%s.Label() = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestMonthlyAmount(t *testing.T) {
	got := MonthlyAmount(decimal.NewFromInt(300), 3)
	if !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("MonthlyAmount(300, 3) = %s, want 100", got)
	}

	got = MonthlyAmount(decimal.NewFromInt(200), 1)
	if !got.Equal(decimal.NewFromInt(200)) {
		t.Errorf("MonthlyAmount(200, 1) = %s, want 200", got)
	}
}

func TestInWindow(t *testing.T) {
	// 300 over 3 installments starting 2025-01 is active exactly in
	// 2025-01..2025-03 with indices 1..3.
	first := Key("2025-01")
	count := 3

	tests := []struct {
		target Key
		index  int
		active bool
	}{
		{target: "2024-12", active: false},
		{target: "2025-01", index: 1, active: true},
		{target: "2025-02", index: 2, active: true},
		{target: "2025-03", index: 3, active: true},
		{target: "2025-04", active: false},
	}

	for _, tt := range tests {
		idx, ok := InWindow(first, count, tt.target)
		if ok != tt.active || idx != tt.index {
			t.Errorf("InWindow(%s, %d, %s) = (%d, %v), want (%d, %v)",
				first, count, tt.target, idx, ok, tt.index, tt.active)
		}
	}
}

func TestInWindowContiguous(t *testing.T) {
	// The active window has exactly count contiguous months starting at
	// the first charge month, even across a year boundary.
	first := Key("2024-11")
	count := 6

	active := 0
	for off := -3; off < count+3; off++ {
		target := first.Add(off)
		idx, ok := InWindow(first, count, target)
		if ok {
			active++
			if idx != off+1 {
				t.Errorf("index at offset %d = %d, want %d", off, idx, off+1)
			}
		}
	}
	if active != count {
		t.Errorf("active months = %d, want %d", active, count)
	}

	if idx, ok := InWindow(first, 12, first); !ok || idx != 1 {
		t.Errorf("first charge month must always be index 1, got (%d, %v)", idx, ok)
	}
}
