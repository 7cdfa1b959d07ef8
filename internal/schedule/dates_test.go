package schedule

import (
	"testing"
	"time"
)

func TestNormalizeDate(t *testing.T) {
	// Parsing happens mid-season: "today" is March 15.
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "iso passthrough", input: "2026-04-02", want: "2026-04-02"},
		{name: "us slash with year", input: "04/02/2026", want: "2026-04-02"},
		{name: "long month with year", input: "April 2, 2026", want: "2026-04-02"},
		{name: "short month with year", input: "Apr 2 2026", want: "2026-04-02"},

		// Yearless dates: a month earlier than the current month rolls to
		// next year, the current month and later stay in the current year.
		{name: "yearless earlier month", input: "January 10", want: "2027-01-10"},
		{name: "yearless short earlier month", input: "Feb 3", want: "2027-02-03"},
		{name: "yearless current month", input: "March 20", want: "2026-03-20"},
		{name: "yearless later month", input: "June 5", want: "2026-06-05"},
		{name: "yearless slash later month", input: "11/28", want: "2026-11-28"},
		{name: "yearless slash earlier month", input: "1/2", want: "2027-01-02"},

		{name: "whitespace trimmed", input: "  June 5  ", want: "2026-06-05"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "next Tuesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDate(tt.input, now)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeDate(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeDate(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCombineLocal(t *testing.T) {
	pacific, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}

	t.Run("explicit time", func(t *testing.T) {
		got, err := CombineLocal("2026-04-02", "19:30", pacific)
		if err != nil {
			t.Fatalf("CombineLocal error: %v", err)
		}
		want := time.Date(2026, time.April, 2, 19, 30, 0, 0, pacific)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty time falls back to default", func(t *testing.T) {
		got, err := CombineLocal("2026-04-02", "", pacific)
		if err != nil {
			t.Fatalf("CombineLocal error: %v", err)
		}
		if got.Hour() != 19 || got.Minute() != 0 {
			t.Errorf("got %02d:%02d, want 19:00", got.Hour(), got.Minute())
		}
	})

	t.Run("bad date", func(t *testing.T) {
		if _, err := CombineLocal("not-a-date", "19:00", pacific); err == nil {
			t.Error("expected error for malformed date")
		}
	})

	t.Run("nil location uses local", func(t *testing.T) {
		got, err := CombineLocal("2026-04-02", "12:00", nil)
		if err != nil {
			t.Fatalf("CombineLocal error: %v", err)
		}
		if got.Location() != time.Local {
			t.Errorf("got location %v, want local", got.Location())
		}
	})
}
