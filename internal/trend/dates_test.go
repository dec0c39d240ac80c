package trend

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDatePrecedence(t *testing.T) {
	tests := []struct {
		in        string
		want      time.Time
		precision DatePrecision
	}{
		{"2024-09", date(2024, time.September, 1), PrecisionMonth},
		{"Q3 2024", date(2024, time.July, 1), PrecisionQuarter},
		{"q1 2024", date(2024, time.January, 1), PrecisionQuarter},
		{"H1 2025", date(2025, time.January, 1), PrecisionHalf},
		{"H2 2025", date(2025, time.July, 1), PrecisionHalf},
		{"Sep 2024", date(2024, time.September, 1), PrecisionMonth},
		{"September 2024", date(2024, time.September, 1), PrecisionMonth},
		{"Sept 2024", date(2024, time.September, 1), PrecisionMonth},
		{"2024-01-15", date(2024, time.January, 15), PrecisionDay},
		{"15/09/2024", date(2024, time.September, 15), PrecisionDay},
		{"03/04/2024", date(2024, time.April, 3), PrecisionDay},
		{"09/15/2024", date(2024, time.September, 15), PrecisionDay},
		{"Sep 15, 2024", date(2024, time.September, 15), PrecisionDay},
		{"2024-09-15T10:30:00Z", date(2024, time.September, 15), PrecisionDay},
		{"2024", date(2024, time.January, 1), PrecisionYear},
		{"September 15th, 2024", date(2024, time.September, 15), PrecisionDay},
		{"1st Sep 2024", date(2024, time.September, 1), PrecisionDay},
		{"2024/09/15 10:00", date(2024, time.September, 15), PrecisionDay},
		{"2024-09-15 10:00", date(2024, time.September, 15), PrecisionDay},
	}

	for _, tt := range tests {
		got, precision, ok := ParseDate(tt.in)
		if !ok {
			t.Errorf("ParseDate(%q) failed", tt.in)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if precision != tt.precision {
			t.Errorf("ParseDate(%q) precision = %v, want %v", tt.in, precision, tt.precision)
		}
		if got.Location() != time.UTC {
			t.Errorf("ParseDate(%q) not UTC", tt.in)
		}
	}
}

func TestParseDateRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "2024-13", "31/02/2024", "sometime soon", "Q5 2024", "H3 2024"} {
		if got, _, ok := ParseDate(in); ok {
			t.Errorf("ParseDate(%q) = %v, expected failure", in, got)
		}
	}
}

func TestParseDayFirst(t *testing.T) {
	got, ok := ParseDayFirst("05/11/2023")
	if !ok || !got.Equal(date(2023, time.November, 5)) {
		t.Errorf("ParseDayFirst = %v, %v", got, ok)
	}
	if _, ok := ParseDayFirst("31/04/2023"); ok {
		t.Error("31 April should not parse")
	}
	if _, ok := ParseDayFirst("2023-11-05"); ok {
		t.Error("year-first text is not day-first")
	}
}

func TestSortableDateEpochForUnparseable(t *testing.T) {
	if got := SortableDate("Coming soon"); !got.Equal(time.Unix(0, 0)) {
		t.Errorf("expected epoch, got %v", got)
	}
	if got := SortableDate("Q1 2024"); !got.Equal(date(2024, time.January, 1)) {
		t.Errorf("expected 2024-01-01, got %v", got)
	}
}

func TestDisplayDate(t *testing.T) {
	n := NewNormalizer(nil)
	tests := []struct {
		date string
		want string
	}{
		{"Sep 2024", "September 2024"},
		{"2024-09", "September 2024"},
		{"2024-09-15", "September 15, 2024"},
		{"Q3 2024", "Q3 2024"},
		{"Early 2024", "Early 2024"},
		{"", ""},
	}
	for _, tt := range tests {
		rec, ok := n.Normalize(RawRow{"Resource Name": "r", "Stat": "s", "Date": tt.date}, 0)
		if !ok {
			t.Fatalf("row rejected")
		}
		if got := DisplayDate(rec); got != tt.want {
			t.Errorf("DisplayDate(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}
