package table

import (
	"testing"
	"time"
)

func TestCurrentDate(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"single digit month and day", time.Date(2020, 3, 5, 8, 0, 0, 0, time.UTC), "03/05/20"},
		{"double digit month and day", time.Date(2021, 12, 31, 23, 59, 0, 0, time.UTC), "12/31/21"},
		{"early century year", time.Date(2005, 1, 9, 0, 0, 0, 0, time.UTC), "01/09/05"},
		{"last supported year", time.Date(2099, 7, 4, 0, 0, 0, 0, time.UTC), "07/04/99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentDate(tt.now); got != tt.want {
				t.Errorf("CurrentDate(%v) = %q, want %q", tt.now, got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2:30 PM", "02:30:00 PM"},
		{"11:05 AM", "11:05:00 AM"},
		{"9:00 AM", "09:00:00 AM"},
		{"12:00 PM", "12:00:00 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := FormatTime(tt.raw); got != tt.want {
				t.Errorf("FormatTime(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
